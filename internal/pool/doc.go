// Package pool implements a content-addressed interning pool for byte
// sequences.
//
// Put returns a small integer key for a byte sequence; putting equal content
// again returns the same key and bumps a usage count. Free drops one usage
// and reclaims the entry when the count reaches zero. Keys of reclaimed
// entries are recycled through a free list threaded through the key table
// itself.
//
// # Layout
//
// Entries live in two parallel, lazily paged tables of equal capacity:
//
//   - the key table, indexed by key, where each cell is a tagged variant:
//     unused, occupied (pointing at a storage slot) or free (pointing at the
//     next free key)
//   - the slot table, an open-addressed hash table holding the content and
//     the owning key
//
// Probing starts at hash mod capacity and advances by a prime step chosen
// from a fixed table, so non-power-of-two capacities still visit every slot.
// Capacity is nudged up by one when it would be a multiple of the step.
//
// # Growth
//
// Below 4096 slots capacity doubles; above it grows in 4096-slot chunks.
// Growth rehashes every live entry into fresh tables; keys never change. A
// same-capacity rehash also runs when removed slots outnumber half the
// capacity, keeping probe chains short.
//
// # Immutability
//
// Content is stored as immutable.Bytes. Get never exposes writable memory,
// so the hash of a stored entry cannot drift after insertion.
//
// # Concurrency
//
// A Pool is not safe for concurrent use.
package pool
