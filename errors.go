package memopt

import (
	"errors"
	"fmt"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/pool"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/slab"
)

var (
	// ErrCapacityExhausted is returned when the pool key space, a single
	// value's usage counter, the slab key space or the memory budget is
	// exhausted. It is never retried internally.
	ErrCapacityExhausted = errors.New("capacity exhausted")

	// ErrInvariantViolation indicates detected structural corruption, most
	// likely pooled content mutated after it was interned. The store should
	// not be used afterwards.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInvalidFree is returned when deleting a record that is not allocated.
	ErrInvalidFree = errors.New("invalid free")

	// ErrNotFound is returned when a record key does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when inserting an order whose id is stored.
	ErrDuplicateID = errors.New("duplicate order id")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

// ErrInvariant carries the detail of a pool invariant violation.
//
// It unwraps to the original error, which matches ErrInvariantViolation.
type ErrInvariant struct {
	Op     string
	Detail string
	cause  error
}

func (e *ErrInvariant) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvariantViolation, e.Op, e.Detail)
}

func (e *ErrInvariant) Unwrap() []error { return []error{ErrInvariantViolation, e.cause} }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ie *pool.InvariantError
	if errors.As(err, &ie) {
		return &ErrInvariant{Op: ie.Op, Detail: ie.Detail, cause: err}
	}

	switch {
	case errors.Is(err, pool.ErrCapacityExhausted), errors.Is(err, slab.ErrCapacityExhausted):
		return fmt.Errorf("%w: %w", ErrCapacityExhausted, err)
	case errors.Is(err, pool.ErrInvariantViolation), errors.Is(err, slab.ErrInvariantViolation):
		return fmt.Errorf("%w: %w", ErrInvariantViolation, err)
	case errors.Is(err, slab.ErrInvalidFree):
		return fmt.Errorf("%w: %w", ErrInvalidFree, err)
	case errors.Is(err, slab.ErrClosed):
		return fmt.Errorf("%w: %w", ErrClosed, err)
	}
	return err
}
