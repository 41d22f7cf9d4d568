// Package bitset provides a fixed-size, non-thread-safe bitset.
//
// Used internally for:
//   - Slot occupancy in record slabs (cross-checked against the free-run chain)
package bitset
