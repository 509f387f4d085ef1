package todo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row matches the given id.
var ErrNotFound = errors.New("todo not found")

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// StoreError wraps a backing-store failure. The store's own message is kept
// intact so the HTTP layer can pass it through verbatim.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
