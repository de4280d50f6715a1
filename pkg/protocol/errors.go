package protocol

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyStarted is returned by Run on a server that has already run
	ErrAlreadyStarted = errors.New("server already started")

	// ErrMissingField indicates a required envelope field was absent or null
	ErrMissingField = errors.New("missing field")

	// ErrWrongType indicates an envelope field of the wrong JSON type
	ErrWrongType = errors.New("wrong type")

	// ErrUnknownType indicates a message type the server does not handle
	ErrUnknownType = errors.New("unknown message type")
)

// MissingFieldError reports envelope fields that a message type requires.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("Invalid message: missing '%s'", strings.Join(e.Fields, "' and '"))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// WrongTypeError reports an envelope field with an unexpected JSON type.
type WrongTypeError struct {
	Field string
	Want  string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("Invalid message: '%s' must be %s", e.Field, e.Want)
}

func (e *WrongTypeError) Unwrap() error { return ErrWrongType }

// UnknownTypeError reports a message type other than call or quit.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "Unknown message type: " + e.Type
}

func (e *UnknownTypeError) Unwrap() error { return ErrUnknownType }
