package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Increment when the key matched no row.
var ErrNotFound = errors.New("store: no matching row")

// Error wraps a failure raised while executing a statement.
type Error struct {
	Op    string
	Query string
	Err   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same call may succeed if issued again.
// Cancellation by the caller is final; everything else (lost connections,
// pool exhaustion, lock timeouts) is treated as transient.
func (e *Error) Retryable() bool {
	return !errors.Is(e.Err, context.Canceled)
}

// IsStoreError reports whether err originated in the store gateway.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
