package slab

import (
	"encoding/binary"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/bitset"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/mmap"
)

const (
	// HeaderSize is the number of bytes a free run header occupies.
	HeaderSize = 8

	noSlab = -1
)

// slab is one fixed-size buffer. Slot indexes are uint32 so that run headers
// round-trip through the buffer without conversion.
type slab struct {
	buf      []byte
	mapping  *mmap.Mapping
	slotSize int
	n        uint32 // slots; also the "no next run" sentinel
	first    uint32 // leftmost free run, n when full
	used     *bitset.BitSet
}

func newSlab(buf []byte, m *mmap.Mapping, slotSize int, n uint32) *slab {
	s := &slab{
		buf:      buf,
		mapping:  m,
		slotSize: slotSize,
		n:        n,
		first:    0,
		used:     bitset.New(uint64(n)),
	}
	s.setRun(0, n, n)
	return s
}

func (s *slab) hasSpace() bool {
	return s.first < s.n
}

func (s *slab) offset(i uint32) int {
	return int(i) * s.slotSize
}

func (s *slab) slot(i uint32) []byte {
	off := s.offset(i)
	return s.buf[off : off+s.slotSize : off+s.slotSize]
}

func (s *slab) run(i uint32) (length, next uint32) {
	off := s.offset(i)
	return binary.LittleEndian.Uint32(s.buf[off:]), binary.LittleEndian.Uint32(s.buf[off+4:])
}

func (s *slab) setRun(i, length, next uint32) {
	off := s.offset(i)
	binary.LittleEndian.PutUint32(s.buf[off:], length)
	binary.LittleEndian.PutUint32(s.buf[off+4:], next)
}

func (s *slab) setNext(i, next uint32) {
	binary.LittleEndian.PutUint32(s.buf[s.offset(i)+4:], next)
}

// link points the run before a position at i, or makes i the first run.
func (s *slab) link(left int64, i uint32) {
	if left == noSlab {
		s.first = i
		return
	}
	s.setNext(uint32(left), i) //nolint:gosec // left is a slot index when not noSlab
}

// take removes the first slot of the leftmost run and returns its index.
func (s *slab) take(slabIndex int) (uint32, error) {
	pos := s.first
	length, next := s.run(pos)
	if length == 0 || uint64(pos)+uint64(length) > uint64(s.n) || (next != s.n && next <= pos+length) {
		return 0, invariantf(slabIndex, "corrupt run header at %d: length=%d next=%d", pos, length, next)
	}
	if s.used.Test(uint64(pos)) {
		return 0, invariantf(slabIndex, "free run starts at occupied slot %d", pos)
	}

	if length == 1 {
		s.first = next
	} else {
		s.first = pos + 1
		s.setRun(pos+1, length-1, next)
	}

	clear(s.slot(pos))
	s.used.Set(uint64(pos))
	return pos, nil
}

// release returns slot i to the free runs, merging with adjacent runs.
func (s *slab) release(slabIndex int, i uint32) error {
	left := int64(noSlab)
	var leftLen uint32
	right := s.first

	// Runs are disjoint and ascending, so the chain is at most n/2+1 long.
	for steps := uint32(0); right != s.n; steps++ {
		if steps > s.n {
			return invariantf(slabIndex, "free run chain does not terminate")
		}
		length, next := s.run(right)
		if right+length > i {
			break
		}
		left, leftLen = int64(right), length
		right = next
	}

	var rightLen, rightNext uint32
	if right != s.n {
		rightLen, rightNext = s.run(right)
		if i >= right {
			if s.used.Test(uint64(i)) {
				return invariantf(slabIndex, "slot %d is occupied but lies in run [%d,%d)", i, right, right+rightLen)
			}
			return ErrInvalidFree
		}
	}
	if !s.used.Test(uint64(i)) {
		return invariantf(slabIndex, "slot %d is unoccupied but outside every free run", i)
	}

	leftAdjacent := left != noSlab && uint32(left)+leftLen == i //nolint:gosec // left >= 0
	rightAdjacent := right != s.n && i+1 == right

	switch {
	case leftAdjacent && rightAdjacent:
		s.setRun(uint32(left), leftLen+1+rightLen, rightNext) //nolint:gosec // left >= 0
	case leftAdjacent:
		s.setRun(uint32(left), leftLen+1, right) //nolint:gosec // left >= 0
	case rightAdjacent:
		s.setRun(i, rightLen+1, rightNext)
		s.link(left, i)
	default:
		s.setRun(i, 1, right)
		s.link(left, i)
	}

	s.used.Unset(uint64(i))
	return nil
}

// runs returns the free runs as (start, length) pairs in chain order.
func (s *slab) runs() [][2]uint32 {
	var out [][2]uint32
	for pos := s.first; pos != s.n && len(out) <= int(s.n); {
		length, next := s.run(pos)
		out = append(out, [2]uint32{pos, length})
		pos = next
	}
	return out
}

func (s *slab) close() error {
	s.buf = nil
	s.used.ClearAll()
	if s.mapping != nil {
		return s.mapping.Close()
	}
	return nil
}
