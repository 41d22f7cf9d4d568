// Package mmap provides anonymous memory mappings for off-heap slab storage.
//
// # Overview
//
// Record slabs are large, long-lived and pointer-free. Placing them in
// anonymous mappings keeps them outside the Go heap, so the garbage collector
// neither scans nor accounts for them, and returning a slab to the operating
// system is an explicit, immediate Close.
//
// # Usage
//
//	m, err := mmap.MapAnon(16 << 10)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes() // zero-filled, read-write
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2)
//     for access hints
//   - Windows: VirtualAlloc with MEM_RESERVE|MEM_COMMIT (advice is a no-op)
//
// # Lifetime
//
// Close is idempotent. Callers must ensure no slice obtained from Bytes is
// used after Close returns.
package mmap
