package protocol

import (
	"encoding/json"

	"github.com/carlos-arino/mcp-home-simulator/pkg/tools"
)

// Version is the protocol version announced in the handshake.
const Version = "0.1.0"

// Message types.
const (
	TypeReady  = "ready"
	TypeCall   = "call"
	TypeQuit   = "quit"
	TypeResult = "result"
	TypeError  = "error"
)

// ReadyMessage is the handshake sent once when a session starts.
type ReadyMessage struct {
	Type    string             `json:"type"`
	Version string             `json:"version"`
	Tools   []tools.Definition `json:"tools"`
}

// ResultMessage answers a successful call.
type ResultMessage struct {
	Type   string          `json:"type"`
	ID     json.RawMessage `json:"id"`
	OK     bool            `json:"ok"`
	Result any             `json:"result"`
}

// ErrorMessage answers a failed call or a malformed line. ID is null when the
// offending line carried no usable id.
type ErrorMessage struct {
	Type  string          `json:"type"`
	ID    json.RawMessage `json:"id"`
	OK    bool            `json:"ok"`
	Error string          `json:"error"`
}

// envelope is an inbound message with each top-level field kept raw so that
// absent, null and mistyped fields can be told apart.
type envelope map[string]json.RawMessage

// field returns the raw value of key, or nil when it is absent or null.
func (e envelope) field(key string) json.RawMessage {
	raw, ok := e[key]
	if !ok || string(raw) == "null" {
		return nil
	}
	return raw
}

func newError(id json.RawMessage, msg string) ErrorMessage {
	return ErrorMessage{Type: TypeError, ID: id, OK: false, Error: msg}
}

func newResult(id json.RawMessage, result any) ResultMessage {
	return ResultMessage{Type: TypeResult, ID: id, OK: true, Result: result}
}
