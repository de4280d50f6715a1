package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carlos-arino/mcp-home-simulator/pkg/home"
)

var (
	// ErrUnknownTool indicates a tool name outside the catalog
	ErrUnknownTool = errors.New("tool not found")

	// ErrInvalidArguments indicates arguments that do not match the tool's input schema
	ErrInvalidArguments = errors.New("invalid arguments")
)

// UnknownToolError reports a call to a tool that does not exist.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("Tool '%s' not found", e.Name)
}

func (e *UnknownToolError) Unwrap() error { return ErrUnknownTool }

// MissingFieldError reports required arguments that were absent or null.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required parameters: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldError) Unwrap() error { return ErrInvalidArguments }

// WrongTypeError reports an argument whose JSON type does not match the schema.
type WrongTypeError struct {
	Field string
	Want  string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("parameter %q must be %s", e.Field, e.Want)
}

func (e *WrongTypeError) Unwrap() error { return ErrInvalidArguments }

// LightNotFoundError reports a light name that is not configured.
type LightNotFoundError struct {
	Name string
}

func (e *LightNotFoundError) Error() string {
	return fmt.Sprintf("Light '%s' not found", e.Name)
}

func (e *LightNotFoundError) Unwrap() error { return home.ErrUnknownLight }

// ExecutionError wraps an unexpected fault raised while a tool was running.
type ExecutionError struct {
	Cause any
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("error executing tool: %v", e.Cause)
}
