package pipeline

import (
	"errors"
	"fmt"
)

// ErrConflictExhausted is returned when the bounded identifier-regeneration
// retry runs out. Surfaced as a server error; the caller retries the whole
// request with the same idempotency key.
var ErrConflictExhausted = errors.New("identifier conflicts exhausted")

// StoreError wraps a persistence failure whose outcome may be ambiguous. It
// is never retried in-process: a duplicate write is only safe behind the
// idempotency key, so the retry is the caller's.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
