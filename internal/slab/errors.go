package slab

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFree is returned when freeing a slot that is not allocated.
	ErrInvalidFree = errors.New("slab: invalid free")

	// ErrCapacityExhausted is returned when the key space or memory budget
	// cannot accommodate another slab.
	ErrCapacityExhausted = errors.New("slab: capacity exhausted")

	// ErrInvariantViolation is returned when the free-run chain and the
	// occupancy bitmap disagree.
	ErrInvariantViolation = errors.New("slab: invariant violation")

	// ErrClosed is returned by operations on a closed allocator.
	ErrClosed = errors.New("slab: allocator closed")

	// ErrSlotTooSmall is returned when the slot cannot hold a run header.
	ErrSlotTooSmall = errors.New("slab: slot size too small")
)

func invariantf(slabIndex int, format string, args ...any) error {
	return fmt.Errorf("%w: slab %d: %s", ErrInvariantViolation, slabIndex, fmt.Sprintf(format, args...))
}
