package mem

import (
	"unsafe"
)

// Alignment is the cache line size slabs are aligned to.
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte sits on a 64-byte boundary, so record slots never straddle more cache
// lines than their size requires.
//
// The backing array is up to Alignment-1 bytes larger than size. It is kept
// alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // address arithmetic only
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}
