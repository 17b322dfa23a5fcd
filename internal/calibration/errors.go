package calibration

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken is returned when a non-empty line holds no digit or number word.
	ErrNoToken = errors.New("line has no numeric token")
	// ErrEmptyInput is returned when no non-empty lines remain.
	ErrEmptyInput = errors.New("input has no usable lines")
)

// NoTokenError pinpoints the offending line.
type NoTokenError struct {
	Line uint32 // 1-based
	Text string
}

func (e *NoTokenError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, ErrNoToken, e.Text)
}

func (e *NoTokenError) Unwrap() error { return ErrNoToken }
