// Package protocol serves the tool catalog over a line-delimited JSON
// protocol: one JSON object per input line, at most one JSON object per
// output line.
//
// A session starts with a single "ready" handshake listing every tool,
// then answers "call" messages with "result" or "error" replies until a
// "quit" message arrives or the input stream ends. A malformed line costs
// exactly one error reply; only failures of the streams themselves end
// the session early.
package protocol
