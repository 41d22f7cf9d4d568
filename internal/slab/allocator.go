package slab

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/conv"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/mem"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/mmap"
)

// Key identifies an allocated slot: slabIndex*SlotsPerSlab + index.
type Key uint32

// Stats is a point-in-time view of the allocator.
type Stats struct {
	Slabs        int
	SlotSize     int
	SlotsPerSlab int
	Live         int   // allocated slots
	Capacity     int   // total slots across slabs
	FreeRuns     int   // free runs across slabs
	Bytes        int64 // slab memory held
	BitmapBytes  int64 // occupancy bitmaps
	OffHeap      bool
}

// Allocator manages an append-only list of slabs of fixed-size slots.
// It is not safe for concurrent use.
type Allocator struct {
	slotSize int
	perSlab  uint32
	opts     options

	slabs  []*slab
	hint   int // no slab before hint has space
	live   int
	closed bool

	logger *slog.Logger
}

// New creates an Allocator for slots of slotSize bytes.
func New(slotSize int, opts ...Option) (*Allocator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if slotSize < HeaderSize {
		return nil, fmt.Errorf("%w: %d < %d", ErrSlotTooSmall, slotSize, HeaderSize)
	}
	if o.slabSize < slotSize {
		return nil, fmt.Errorf("slab: slab size %d smaller than slot size %d", o.slabSize, slotSize)
	}
	perSlab, err := conv.IntToUint32(o.slabSize / slotSize)
	if err != nil {
		return nil, fmt.Errorf("slab: slab size %d: %w", o.slabSize, err)
	}

	return &Allocator{
		slotSize: slotSize,
		perSlab:  perSlab,
		opts:     o,
		logger:   o.logger,
	}, nil
}

// SlotSize returns the slot size in bytes.
func (a *Allocator) SlotSize() int {
	return a.slotSize
}

// SlotsPerSlab returns the number of slots in each slab.
func (a *Allocator) SlotsPerSlab() int {
	return int(a.perSlab)
}

// Allocate reserves a zeroed slot in the leftmost slab with space, adding a
// slab when all are full.
func (a *Allocator) Allocate() (Key, error) {
	if a.closed {
		return 0, ErrClosed
	}

	i := a.hint
	for i < len(a.slabs) && !a.slabs[i].hasSpace() {
		i++
	}
	if i == len(a.slabs) {
		if err := a.grow(); err != nil {
			return 0, err
		}
	}
	a.hint = i

	pos, err := a.slabs[i].take(i)
	if err != nil {
		return 0, err
	}
	a.live++
	return Key(uint64(i)*uint64(a.perSlab) + uint64(pos)), nil //nolint:gosec // bounded by grow
}

func (a *Allocator) grow() error {
	n := len(a.slabs)
	if uint64(n+1)*uint64(a.perSlab) > math.MaxUint32+1 {
		return fmt.Errorf("%w: %d slabs of %d slots exceed the key space", ErrCapacityExhausted, n+1, a.perSlab)
	}

	size := int64(a.opts.slabSize)
	if err := a.opts.rc.AcquireMemory(size); err != nil {
		return fmt.Errorf("%w: slab of %d bytes: %w", ErrCapacityExhausted, size, err)
	}

	var (
		buf []byte
		m   *mmap.Mapping
	)
	if a.opts.offHeap {
		var err error
		m, err = mmap.MapAnon(a.opts.slabSize)
		if err != nil {
			a.opts.rc.ReleaseMemory(size)
			return fmt.Errorf("slab: map slab %d: %w", n, err)
		}
		_ = m.Advise(mmap.AccessRandom)
		buf = m.Bytes()
	} else {
		buf = mem.AllocAligned(a.opts.slabSize)
	}

	a.slabs = append(a.slabs, newSlab(buf, m, a.slotSize, a.perSlab))
	a.logger.Debug("slab added", "slab", n, "slots", a.perSlab, "off_heap", a.opts.offHeap)
	return nil
}

func (a *Allocator) locate(k Key) (int, uint32, bool) {
	si := int(uint32(k) / a.perSlab)
	if a.closed || si >= len(a.slabs) {
		return 0, 0, false
	}
	return si, uint32(k) % a.perSlab, true
}

// Slot returns the bytes of an allocated slot. It reports false for keys
// that are out of range or not currently allocated. The slice aliases slab
// storage and is valid until the slot is freed or the allocator is closed.
func (a *Allocator) Slot(k Key) ([]byte, bool) {
	si, i, ok := a.locate(k)
	if !ok {
		return nil, false
	}
	s := a.slabs[si]
	if !s.used.Test(uint64(i)) {
		return nil, false
	}
	return s.slot(i), true
}

// Free returns the slot to its slab. Freeing a slot that is not allocated
// returns ErrInvalidFree.
func (a *Allocator) Free(k Key) error {
	if a.closed {
		return ErrClosed
	}
	si, i, ok := a.locate(k)
	if !ok {
		return fmt.Errorf("%w: key %d beyond %d slabs", ErrInvalidFree, k, len(a.slabs))
	}
	if err := a.slabs[si].release(si, i); err != nil {
		if errors.Is(err, ErrInvalidFree) {
			return fmt.Errorf("%w: key %d is already free", ErrInvalidFree, k)
		}
		return err
	}
	a.live--
	if si < a.hint {
		a.hint = si
	}
	return nil
}

// Len returns the number of allocated slots.
func (a *Allocator) Len() int {
	return a.live
}

// Stats returns a snapshot of the allocator counters.
func (a *Allocator) Stats() Stats {
	st := Stats{
		Slabs:        len(a.slabs),
		SlotSize:     a.slotSize,
		SlotsPerSlab: int(a.perSlab),
		Live:         a.live,
		Capacity:     len(a.slabs) * int(a.perSlab),
		Bytes:        int64(len(a.slabs)) * int64(a.opts.slabSize),
		OffHeap:      a.opts.offHeap,
	}
	if a.closed {
		return st
	}
	for _, s := range a.slabs {
		st.FreeRuns += len(s.runs())
		st.BitmapBytes += int64(s.used.SizeInBytes())
	}
	return st
}

// Close releases every slab. Slots obtained earlier must not be used
// afterwards.
func (a *Allocator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var firstErr error
	for _, s := range a.slabs {
		if err := s.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.opts.rc.ReleaseMemory(int64(len(a.slabs)) * int64(a.opts.slabSize))
	a.slabs = nil
	return firstErr
}
