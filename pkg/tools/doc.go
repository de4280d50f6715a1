// Package tools exposes the home state as a fixed catalog of named tools.
//
// Each tool has a JSON Schema for its input and output. Raw arguments are
// validated against the input schema and decoded into a typed Call before
// anything touches the state, so a Registry only ever executes well-formed
// calls. Failures are returned as values inside a Result; nothing a tool
// does can escape the dispatcher as a panic.
package tools
