// Package home holds the mutable runtime state of the simulated home:
// light switches, the alarm and the presence detector.
//
// A State is owned by exactly one session (a CLI invocation or a protocol
// server) and is not safe for concurrent use. Every getter returns a
// snapshot that never aliases the live storage.
package home
