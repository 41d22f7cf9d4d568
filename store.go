package memopt

import (
	"context"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/order"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/pool"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/resource"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/slab"
)

type (
	// Order is the caller-owned form of a record.
	Order = order.Order

	// Address is the delivery address of an order.
	Address = order.Address
)

// RecordKey identifies a stored record.
type RecordKey uint32

// RecordSize is the number of bytes each record occupies in a slab.
const RecordSize = order.RecordSize

// Stats is a point-in-time view of the store.
type Stats struct {
	Records int
	Users   int

	PooledValues    int
	PooledBytes     int64
	PoolCapacity    int
	PoolResizes     int
	PoolCompactions int

	Slabs        int
	SlotsPerSlab int
	SlabBytes    int64
	FreeRuns     int

	MemoryUsed  int64
	MemoryPeak  int64
	MemoryLimit int64
}

// Store keeps orders in slab-packed records whose variable-length fields are
// interned in a shared pool. It indexes records by order id and by user.
//
// A Store is not safe for concurrent use.
type Store struct {
	opts    options
	rc      *resource.Controller
	pool    *pool.Pool
	slabs   *slab.Allocator
	records *order.Allocator

	byID   map[int64]RecordKey
	byUser map[pool.Key]*roaring.Bitmap

	closed bool
}

// New creates an empty Store.
func New(optFns ...Option) (*Store, error) {
	o := applyOptions(optFns)
	rc := resource.NewController(resource.Config{MemoryLimitBytes: o.memoryLimit})

	p, err := pool.New(
		pool.WithInitialCapacity(o.initialPoolCapacity),
		pool.WithHasher(o.hasher.fn()),
		pool.WithResourceController(rc),
		pool.WithLogger(o.logger.Logger),
	)
	if err != nil {
		return nil, translateError(err)
	}

	slabs, err := slab.New(order.RecordSize,
		slab.WithSlabSize(o.slabSize),
		slab.WithOffHeap(o.offHeap),
		slab.WithResourceController(rc),
		slab.WithLogger(o.logger.Logger),
	)
	if err != nil {
		return nil, translateError(err)
	}

	var viewOpts []order.ViewOption
	if o.compactPostCodes {
		viewOpts = append(viewOpts, order.WithPostCodeCodec(order.Base36Codec{}))
	}
	records, err := order.NewAllocator(slabs, p, viewOpts...)
	if err != nil {
		_ = slabs.Close()
		return nil, err
	}

	return &Store{
		opts:    o,
		rc:      rc,
		pool:    p,
		slabs:   slabs,
		records: records,
		byID:    make(map[int64]RecordKey),
		byUser:  make(map[pool.Key]*roaring.Bitmap),
	}, nil
}

// Insert stores o and returns its record key. Every field of o is copied;
// o may be reused afterwards.
func (s *Store) Insert(o Order) (key RecordKey, err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordInsert(time.Since(start), err)
		s.opts.logger.LogInsert(context.Background(), o.ID, key, err)
	}()

	if s.closed {
		return 0, ErrClosed
	}
	if _, ok := s.byID[o.ID]; ok {
		return 0, fmt.Errorf("%w: %d", ErrDuplicateID, o.ID)
	}

	k, err := s.records.Insert(o)
	if err != nil {
		return 0, translateError(err)
	}
	key = RecordKey(k)

	v, _ := s.records.Get(k)
	if uk, ok := v.UserKey(); ok {
		s.indexUser(uk, key)
	}
	s.byID[o.ID] = key
	return key, nil
}

// Get returns a read-only view of the record at key.
func (s *Store) Get(key RecordKey) (Record, bool) {
	if s.closed {
		return Record{}, false
	}
	v, ok := s.records.Get(slab.Key(key))
	if !ok {
		return Record{}, false
	}
	return Record{v: v}, true
}

// Load copies the record at key into an Order.
func (s *Store) Load(key RecordKey) (Order, error) {
	v, ok := s.Get(key)
	if !ok {
		return Order{}, fmt.Errorf("%w: record %d", ErrNotFound, key)
	}
	return v.Load(), nil
}

// Lookup returns the record key of the order with the given id.
func (s *Store) Lookup(id int64) (RecordKey, bool) {
	k, ok := s.byID[id]
	s.opts.metricsCollector.RecordLookup(ok)
	return k, ok
}

// ByUser returns the keys of every record placed by user, in ascending order.
func (s *Store) ByUser(user []byte) []RecordKey {
	uk, ok := s.pool.Find(user)
	bm := s.byUser[uk]
	s.opts.metricsCollector.RecordLookup(ok && bm != nil)
	if !ok || bm == nil {
		return nil
	}

	keys := make([]RecordKey, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		keys = append(keys, RecordKey(it.Next()))
	}
	return keys
}

// UpdateAddress replaces the address of the record at key.
func (s *Store) UpdateAddress(key RecordKey, a Address) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordUpdate(time.Since(start), err)
		s.opts.logger.LogUpdate(context.Background(), key, err)
	}()

	if s.closed {
		return ErrClosed
	}
	v, ok := s.records.Get(slab.Key(key))
	if !ok {
		return fmt.Errorf("%w: record %d", ErrNotFound, key)
	}
	return translateError(v.SetAddress(a))
}

// UpdateUser moves the record at key to another user.
func (s *Store) UpdateUser(key RecordKey, user []byte) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordUpdate(time.Since(start), err)
		s.opts.logger.LogUpdate(context.Background(), key, err)
	}()

	if s.closed {
		return ErrClosed
	}
	v, ok := s.records.Get(slab.Key(key))
	if !ok {
		return fmt.Errorf("%w: record %d", ErrNotFound, key)
	}
	if cur, ok := v.User(); ok && cur.Equal(user) {
		return nil
	}

	old, hadOld := v.UserKey()
	if err := v.SetUser(user); err != nil {
		return translateError(err)
	}
	if hadOld {
		s.unindexUser(old, key)
	}
	if uk, ok := v.UserKey(); ok {
		s.indexUser(uk, key)
	}
	return nil
}

// Replace overwrites every field of the record at key with o and moves it
// to o's id and user. Replacing with an id held by another record returns
// ErrDuplicateID. On error the record is left unchanged.
func (s *Store) Replace(key RecordKey, o Order) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordUpdate(time.Since(start), err)
		s.opts.logger.LogUpdate(context.Background(), key, err)
	}()

	if s.closed {
		return ErrClosed
	}
	v, ok := s.records.Get(slab.Key(key))
	if !ok {
		return fmt.Errorf("%w: record %d", ErrNotFound, key)
	}
	oldID := v.ID()
	if cur, ok := s.byID[o.ID]; ok && cur != key {
		return fmt.Errorf("%w: %d", ErrDuplicateID, o.ID)
	}

	oldUser, hadUser := v.UserKey()
	if err := v.Set(o); err != nil {
		return translateError(err)
	}

	if hadUser {
		s.unindexUser(oldUser, key)
	}
	if uk, ok := v.UserKey(); ok {
		s.indexUser(uk, key)
	}
	if cur, ok := s.byID[oldID]; ok && cur == key {
		delete(s.byID, oldID)
	}
	s.byID[o.ID] = key
	return nil
}

func (s *Store) indexUser(uk pool.Key, key RecordKey) {
	bm := s.byUser[uk]
	if bm == nil {
		bm = roaring.New()
		s.byUser[uk] = bm
	}
	bm.Add(uint32(key))
}

func (s *Store) unindexUser(uk pool.Key, key RecordKey) {
	if bm := s.byUser[uk]; bm != nil {
		bm.Remove(uint32(key))
		if bm.IsEmpty() {
			delete(s.byUser, uk)
		}
	}
}

// Delete removes the record at key. Deleting a key that is not stored
// returns ErrInvalidFree.
func (s *Store) Delete(key RecordKey) (err error) {
	start := time.Now()
	defer func() {
		s.opts.metricsCollector.RecordDelete(time.Since(start), err)
		s.opts.logger.LogDelete(context.Background(), key, err)
	}()

	if s.closed {
		return ErrClosed
	}
	if v, ok := s.records.Get(slab.Key(key)); ok {
		id := v.ID()
		if uk, ok := v.UserKey(); ok {
			s.unindexUser(uk, key)
		}
		if cur, ok := s.byID[id]; ok && cur == key {
			delete(s.byID, id)
		}
	}
	return translateError(s.records.Free(slab.Key(key)))
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return s.records.Len()
}

// Stats returns a snapshot of the store.
func (s *Store) Stats() Stats {
	ps := s.pool.Stats()
	ss := s.slabs.Stats()
	return Stats{
		Records:         ss.Live,
		Users:           len(s.byUser),
		PooledValues:    ps.Live,
		PooledBytes:     ps.ContentBytes,
		PoolCapacity:    ps.Capacity,
		PoolResizes:     ps.Resizes,
		PoolCompactions: ps.Compactions,
		Slabs:           ss.Slabs,
		SlotsPerSlab:    ss.SlotsPerSlab,
		SlabBytes:       ss.Bytes,
		FreeRuns:        ss.FreeRuns,
		MemoryUsed:      s.rc.MemoryUsage(),
		MemoryPeak:      s.rc.PeakMemoryUsage(),
		MemoryLimit:     s.rc.MemoryLimit(),
	}
}

// Close releases the record slabs. It is idempotent.
func (s *Store) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	s.byID = nil
	s.byUser = nil
	return s.slabs.Close()
}
