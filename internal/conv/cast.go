package conv

import (
	"fmt"
	"math"
)

// IntToUint32 converts int to uint32, failing on negative values and values
// beyond math.MaxUint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d does not fit in uint32", v)
	}
	return uint32(v), nil
}
