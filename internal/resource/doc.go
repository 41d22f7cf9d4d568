// Package resource implements the memory budget shared by the interning pool
// and the slab allocator.
//
// Both components reserve bytes before they grow (a new slab, a larger pool
// table, interned content) and release them when memory is given back. A
// reservation that would exceed the limit fails immediately with
// ErrMemoryLimitExceeded; the caller surfaces it as capacity exhaustion and
// never retries.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//
//	if err := rc.AcquireMemory(16 << 10); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(16 << 10)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
