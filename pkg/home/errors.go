package home

import "errors"

var (
	// ErrUnknownLight indicates a light name that is not part of the configuration
	ErrUnknownLight = errors.New("light not found")
)
