package order

import (
	"fmt"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/pool"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/slab"
)

// Allocator hands out order records backed by slab slots. It shares a
// single View between all calls, so a View returned by Get is valid only
// until the next call to Get.
type Allocator struct {
	slabs *slab.Allocator
	pool  *pool.Pool
	view  *View
}

// NewAllocator pairs a slab allocator with the pool holding pooled fields.
func NewAllocator(slabs *slab.Allocator, p *pool.Pool, opts ...ViewOption) (*Allocator, error) {
	if slabs.SlotSize() < RecordSize {
		return nil, fmt.Errorf("order: slot size %d smaller than record size %d", slabs.SlotSize(), RecordSize)
	}
	return &Allocator{
		slabs: slabs,
		pool:  p,
		view:  NewView(p, opts...),
	}, nil
}

// Allocate reserves an empty record.
func (a *Allocator) Allocate() (slab.Key, error) {
	return a.slabs.Allocate()
}

// Get binds the shared view to the record at k.
func (a *Allocator) Get(k slab.Key) (*View, bool) {
	buf, ok := a.slabs.Slot(k)
	if !ok {
		return nil, false
	}
	return a.view.Bind(buf), true
}

// Insert allocates a record and writes o into it.
func (a *Allocator) Insert(o Order) (slab.Key, error) {
	k, err := a.slabs.Allocate()
	if err != nil {
		return 0, err
	}
	buf, _ := a.slabs.Slot(k)
	if err := a.view.Bind(buf).Set(o); err != nil {
		if ferr := a.slabs.Free(k); ferr != nil {
			return 0, fmt.Errorf("%w (free after failed set: %w)", err, ferr)
		}
		return 0, err
	}
	return k, nil
}

// Free releases the record's pooled fields and returns its slot.
func (a *Allocator) Free(k slab.Key) error {
	if buf, ok := a.slabs.Slot(k); ok {
		a.view.Bind(buf).Release()
	}
	return a.slabs.Free(k)
}

// Len returns the number of live records.
func (a *Allocator) Len() int {
	return a.slabs.Len()
}

// Pool returns the pool holding pooled fields.
func (a *Allocator) Pool() *pool.Pool {
	return a.pool
}

// Slabs returns the underlying slab allocator.
func (a *Allocator) Slabs() *slab.Allocator {
	return a.slabs
}
