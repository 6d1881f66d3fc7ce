package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure
type Kind string

const (
	// KindEncoding means the encoder failed on this file
	KindEncoding Kind = "encoding-failure"

	// KindTimeout means the operation exceeded its internal deadline
	KindTimeout Kind = "timeout"

	// KindCancelled means the surrounding context was cancelled mid-conversion
	KindCancelled Kind = "cancelled"
)

// Error is the failure type conversion operations report. It carries the
// failure kind and the input file name, and wraps the underlying cause so
// errors.Is and errors.As keep working through it.
type Error struct {
	Kind Kind
	File string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("convert %s: %s", e.File, e.Kind)
	}
	return fmt.Sprintf("convert %s: %s: %v", e.File, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err, or returns "" when err carries
// no conversion error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
