package recreation

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned before any generator call when the generator
// reports it is not ready.
var ErrNotReady = errors.New("text generator not ready")

// ValidationError reports invalid caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// GenerationError is returned by single-item operations once the retry budget
// is spent. It unwraps to the last backend error.
type GenerationError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
