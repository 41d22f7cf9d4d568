package pool

import (
	"math"
	"unsafe"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/container"
)

const (
	// capacityIncrement is the growth chunk once the table is large.
	capacityIncrement = 4096

	// MaxCapacity bounds the table size so that every key fits in 31 bits.
	MaxCapacity = math.MaxInt32 - 1
)

// probeSteps are primes in decreasing order. The largest one not exceeding
// the capacity is used as the probe increment.
var probeSteps = [...]int{99991, 9973, 997, 97, 7, 1}

type keyState uint8

const (
	keyUnused keyState = iota
	keyOccupied
	keyFree
)

// keyEntry is the key-indexed half of a pooled entry.
// ref holds the slot index when occupied and the next free key when free.
type keyEntry struct {
	ref   uint32
	usage uint32
	state keyState
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotRemoved
)

type slotEntry struct {
	content string
	key     Key
	state   slotState
}

// entryBytes is the table memory charged per unit of capacity.
const entryBytes = int64(unsafe.Sizeof(keyEntry{}) + unsafe.Sizeof(slotEntry{}))

type table struct {
	keys     *container.PagedArray[keyEntry]
	slots    *container.PagedArray[slotEntry]
	capacity int
	step     int
}

func newTable(capacity int) *table {
	step := probeStepFor(capacity)
	capacity = adjustCapacity(step, capacity)
	return &table{
		keys:     container.NewPagedArray[keyEntry](capacity),
		slots:    container.NewPagedArray[slotEntry](capacity),
		capacity: capacity,
		step:     step,
	}
}

// find probes for content s with folded hash h. It returns the slot holding
// equal content (found == true) or the slot an insert should use, preferring
// the first removed slot seen. It returns -1 when every slot is occupied by
// other content.
func (t *table) find(s string, h uint32) (idx int, found bool) {
	start := int(h % uint32(t.capacity)) //nolint:gosec // capacity <= MaxInt32
	firstRemoved := -1

	i := start
	for {
		e := t.slots.Get(i)
		switch e.state {
		case slotEmpty:
			if firstRemoved >= 0 {
				return firstRemoved, false
			}
			return i, false
		case slotRemoved:
			if firstRemoved < 0 {
				firstRemoved = i
			}
		case slotOccupied:
			if e.content == s {
				return i, true
			}
		}

		i += t.step
		if i >= t.capacity {
			i -= t.capacity
		}
		if i == start {
			return firstRemoved, false
		}
	}
}

func (t *table) bytes() int64 {
	return int64(t.capacity) * entryBytes
}

func probeStepFor(capacity int) int {
	for _, step := range probeSteps {
		if step <= capacity {
			return step
		}
	}
	return 1
}

// adjustCapacity avoids capacities that are a multiple of the step, which
// would confine the probe sequence to a short orbit.
func adjustCapacity(step, capacity int) int {
	if capacity < 1 {
		capacity = 1
	}
	if step > 1 && capacity%step == 0 {
		return capacity + 1
	}
	return capacity
}

// grownCapacity returns the next capacity, or the current one if the table
// cannot grow any further.
func grownCapacity(current int) int {
	if current < capacityIncrement {
		return current * 2
	}
	if current >= MaxCapacity-capacityIncrement {
		return MaxCapacity
	}
	if mod := current % capacityIncrement; mod != 0 {
		return current + capacityIncrement - mod
	}
	return current + capacityIncrement
}
