package order

import (
	"encoding/binary"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/pool"
)

// Byte offsets of each field within a record.
const (
	offID              = 0
	offUser            = offID + 8
	offArticleNr       = offUser + 4
	offCount           = offArticleNr + 4
	offPricePence      = offCount + 4
	offAddressNumber   = offPricePence + 4
	offAddressStreet   = offAddressNumber + 4
	offAddressCity     = offAddressStreet + 4
	offAddressRegion   = offAddressCity + 4
	offAddressPostCode = offAddressRegion + 4

	// RecordSize is the number of bytes one record occupies.
	RecordSize = offAddressPostCode + 4
)

// pooledOffsets lists every field stored as a pool key.
var pooledOffsets = [...]int{
	offUser,
	offAddressNumber,
	offAddressStreet,
	offAddressCity,
	offAddressRegion,
	offAddressPostCode,
}

var le = binary.LittleEndian

func getInt32(b []byte, off int) int32 {
	return int32(le.Uint32(b[off:])) //nolint:gosec // bit pattern preserved
}

func putInt32(b []byte, off int, v int32) {
	le.PutUint32(b[off:], uint32(v)) //nolint:gosec // bit pattern preserved
}

// getKey returns the pool key stored at off, or false if the field is empty.
func getKey(b []byte, off int) (pool.Key, bool) {
	raw := le.Uint32(b[off:])
	if raw == 0 {
		return pool.NoKey, false
	}
	return pool.Key(raw - 1), true
}

func putKey(b []byte, off int, k pool.Key, ok bool) {
	if !ok {
		le.PutUint32(b[off:], 0)
		return
	}
	le.PutUint32(b[off:], uint32(k)+1)
}
