package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExhausted is returned when the key space, the usage counter of
	// a single entry, or the memory budget is exhausted.
	ErrCapacityExhausted = errors.New("pool: capacity exhausted")

	// ErrInvariantViolation is returned when the pool detects structural
	// corruption. The operation is aborted and nothing is repaired.
	ErrInvariantViolation = errors.New("pool: invariant violation")
)

// InvariantError describes a detected corruption.
//
// It unwraps to ErrInvariantViolation.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("pool: %s: invariant violation: %s", e.Op, e.Detail)
}

func (e *InvariantError) Unwrap() error { return ErrInvariantViolation }

func invariantf(op, format string, args ...any) error {
	return &InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
