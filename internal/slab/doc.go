// Package slab hands out fixed-size record slots packed into large
// contiguous buffers.
//
// Each slab is divided into equally sized slots. Unused slots form runs that
// are chained in ascending order through headers written into the first slot
// of every run:
//
//	offset 0: run length in slots (uint32, little endian)
//	offset 4: first slot of the next run, or slotsPerSlab if none
//
// A slab remembers only its leftmost run. Allocation takes the first slot of
// that run, so a mostly append-only workload allocates in O(1). Free walks the
// chain to place the slot, coalescing with neighbouring runs.
//
// Slabs are heap allocated by default, or mapped from anonymous memory with
// WithOffHeap so that record storage is invisible to the garbage collector.
package slab
