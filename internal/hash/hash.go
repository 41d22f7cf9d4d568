package hash

import (
	"hash/crc32"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// Func hashes pooled content.
type Func func(s string) uint32

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// XXHash returns xxhash64 of s folded to 32 bits.
func XXHash(s string) uint32 {
	h := xxhash.Sum64String(s)
	return uint32(h>>32) ^ uint32(h) //nolint:gosec // intentional truncation
}

// CRC32C returns the CRC32-Castagnoli checksum of s.
func CRC32C(s string) uint32 {
	if len(s) == 0 {
		return crc32.Checksum(nil, crc32cTable)
	}
	// crc32 only reads the slice; the string backing array is never written.
	b := unsafe.Slice(unsafe.StringData(s), len(s)) //nolint:gosec // read-only view
	return crc32.Checksum(b, crc32cTable)
}

// Polynomial returns the 31-multiplier array hash of s, treating each byte as
// a signed value.
func Polynomial(s string) uint32 {
	var h int32 = 1
	for i := 0; i < len(s); i++ {
		h = 31*h + int32(int8(s[i])) //nolint:gosec // sign extension is the point
	}
	return uint32(h) //nolint:gosec // bit pattern preserved
}

// Fold31 spreads the high bits of h into the low bits and clears the sign
// bit.
func Fold31(h uint32) uint32 {
	return (h ^ (h >> 16)) & 0x7FFF_FFFF
}
