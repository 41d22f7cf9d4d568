package pool

import (
	"fmt"
	"log/slog"
	"math"
	"unsafe"

	"github.com/romanmarkunas-com/0010-memory-optimization/immutable"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/hash"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/resource"
)

// Key identifies a pooled byte sequence.
type Key uint32

// NoKey is never issued. It terminates the free-key list.
const NoKey Key = math.MaxUint32

// DefaultInitialCapacity is the table capacity used when none is configured.
const DefaultInitialCapacity = 1024

// maxUsage is the highest usage count a single entry can reach.
const maxUsage = math.MaxUint32

// Stats is a point-in-time view of the pool.
type Stats struct {
	Live         int   // entries with usage > 0
	Capacity     int   // slots in the current table
	ProbeStep    int   // probe increment for the current capacity
	Removed      int   // tombstoned slots awaiting reuse
	ContentBytes int64 // bytes of interned content
	TableBytes   int64 // bytes charged for the key and slot tables
	TablePages   int   // key and slot pages backed by memory
	Resizes      int   // growths since creation
	Compactions  int   // same-capacity rehashes since creation
}

// Pool interns byte sequences. It is not safe for concurrent use.
type Pool struct {
	t        *table
	hasher   hash.Func
	size     int
	removed  int
	nextKey  Key
	freeHead Key

	initialCapacity int
	contentBytes    int64
	resizes         int
	compactions     int

	rc     *resource.Controller
	logger *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithInitialCapacity sets the initial table capacity.
func WithInitialCapacity(capacity int) Option {
	return func(p *Pool) {
		if capacity > 0 {
			p.initialCapacity = min(capacity, MaxCapacity)
		}
	}
}

// WithHasher sets the content hash function. Defaults to hash.XXHash.
func WithHasher(h hash.Func) Option {
	return func(p *Pool) {
		if h != nil {
			p.hasher = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithResourceController charges table and content memory to rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(p *Pool) {
		p.rc = rc
	}
}

// New creates an empty Pool.
func New(opts ...Option) (*Pool, error) {
	p := &Pool{
		hasher:          hash.XXHash,
		freeHead:        NoKey,
		initialCapacity: DefaultInitialCapacity,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	t := newTable(p.initialCapacity)
	if err := p.rc.AcquireMemory(t.bytes()); err != nil {
		return nil, fmt.Errorf("%w: initial table of %d slots: %w", ErrCapacityExhausted, t.capacity, err)
	}
	p.t = t
	return p, nil
}

// Put interns a copy of content and returns its key. If equal content is
// already pooled, its usage count is incremented and its key returned.
// content may be reused by the caller after Put returns.
func (p *Pool) Put(content []byte) (Key, error) {
	// Probe with a zero-copy view; only novel content is copied.
	view := unsafe.String(unsafe.SliceData(content), len(content)) //nolint:gosec // read-only, not retained
	return p.put(view, true)
}

// PutBytes interns b. No copy is made.
func (p *Pool) PutBytes(b immutable.Bytes) (Key, error) {
	return p.put(b.String(), false)
}

func (p *Pool) put(s string, mustCopy bool) (Key, error) {
	h := hash.Fold31(p.hasher(s))

	idx, found := p.t.find(s, h)
	if found {
		return p.retain(p.t.slots.Get(idx).key)
	}

	if p.size >= p.t.capacity {
		if err := p.grow(); err != nil {
			return NoKey, err
		}
		idx, found = p.t.find(s, h)
	} else if p.removed > p.t.capacity/2 {
		if err := p.rehash(p.t.capacity); err != nil {
			return NoKey, err
		}
		p.compactions++
		idx, found = p.t.find(s, h)
	}
	if found {
		return NoKey, invariantf("put", "content appeared in slot %d after rehash", idx)
	}
	if idx < 0 {
		return NoKey, invariantf("put", "no free slot among %d with %d live entries", p.t.capacity, p.size)
	}

	if err := p.rc.AcquireMemory(int64(len(s))); err != nil {
		return NoKey, fmt.Errorf("%w: content of %d bytes: %w", ErrCapacityExhausted, len(s), err)
	}

	k, err := p.mintKey()
	if err != nil {
		p.rc.ReleaseMemory(int64(len(s)))
		return NoKey, err
	}

	if mustCopy {
		s = string([]byte(s))
	}

	slot := p.t.slots.Ref(idx)
	if slot.state == slotRemoved {
		p.removed--
	}
	*slot = slotEntry{content: s, key: k, state: slotOccupied}
	*p.t.keys.Ref(int(k)) = keyEntry{ref: uint32(idx), usage: 1, state: keyOccupied} //nolint:gosec // idx < capacity

	p.size++
	p.contentBytes += int64(len(s))
	return k, nil
}

func (p *Pool) retain(k Key) (Key, error) {
	ke := p.t.keys.Ref(int(k))
	if ke.state != keyOccupied {
		return NoKey, invariantf("put", "slot owned by key %d in state %d", k, ke.state)
	}
	if ke.usage >= maxUsage {
		return NoKey, fmt.Errorf("%w: usage count of key %d at maximum", ErrCapacityExhausted, k)
	}
	ke.usage++
	return k, nil
}

func (p *Pool) mintKey() (Key, error) {
	if p.freeHead != NoKey {
		k := p.freeHead
		ke := p.t.keys.Ref(int(k))
		if ke.state != keyFree {
			return NoKey, invariantf("put", "free-list head %d is in state %d", k, ke.state)
		}
		p.freeHead = Key(ke.ref)
		return k, nil
	}

	if int(p.nextKey) >= p.t.capacity {
		return NoKey, invariantf("put", "next key %d outside table of %d with empty free list", p.nextKey, p.t.capacity)
	}
	k := p.nextKey
	p.nextKey++
	return k, nil
}

// Get returns the content for k. It reports false for keys that were never
// issued or whose entry has been reclaimed.
func (p *Pool) Get(k Key) (immutable.Bytes, bool) {
	if k >= p.nextKey {
		return immutable.Bytes{}, false
	}
	ke := p.t.keys.Get(int(k))
	if ke.state != keyOccupied {
		return immutable.Bytes{}, false
	}
	return immutable.FromString(p.t.slots.Get(int(ke.ref)).content), true
}

// Find returns the key of content without changing its usage count.
func (p *Pool) Find(content []byte) (Key, bool) {
	view := unsafe.String(unsafe.SliceData(content), len(content)) //nolint:gosec // read-only, not retained
	idx, found := p.t.find(view, hash.Fold31(p.hasher(view)))
	if !found {
		return NoKey, false
	}
	return p.t.slots.Get(idx).key, true
}

// Usage returns the usage count of k, or false if k is not live.
func (p *Pool) Usage(k Key) (uint32, bool) {
	if k >= p.nextKey {
		return 0, false
	}
	ke := p.t.keys.Get(int(k))
	if ke.state != keyOccupied {
		return 0, false
	}
	return ke.usage, true
}

// Free drops one usage of k and reclaims the entry when none remain.
// Freeing an unknown or already reclaimed key does nothing.
func (p *Pool) Free(k Key) {
	if k >= p.nextKey {
		return
	}
	ke := p.t.keys.Ref(int(k))
	if ke.state != keyOccupied {
		return
	}

	ke.usage--
	if ke.usage > 0 {
		return
	}

	slot := p.t.slots.Ref(int(ke.ref))
	n := int64(len(slot.content))
	*slot = slotEntry{key: NoKey, state: slotRemoved}

	ke.state = keyFree
	ke.ref = uint32(p.freeHead)
	p.freeHead = k

	p.size--
	p.removed++
	p.contentBytes -= n
	p.rc.ReleaseMemory(n)
}

// Len returns the number of live entries.
func (p *Pool) Len() int {
	return p.size
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Live:         p.size,
		Capacity:     p.t.capacity,
		ProbeStep:    p.t.step,
		Removed:      p.removed,
		ContentBytes: p.contentBytes,
		TableBytes:   p.t.bytes(),
		TablePages:   p.t.keys.AllocatedPages() + p.t.slots.AllocatedPages(),
		Resizes:      p.resizes,
		Compactions:  p.compactions,
	}
}

func (p *Pool) grow() error {
	newCapacity := grownCapacity(p.t.capacity)
	if newCapacity <= p.t.capacity {
		return fmt.Errorf("%w: table at maximum capacity %d", ErrCapacityExhausted, p.t.capacity)
	}
	old := p.t.capacity
	if err := p.rehash(newCapacity); err != nil {
		return err
	}
	p.resizes++
	p.logger.Debug("pool resized", "from", old, "to", p.t.capacity, "step", p.t.step, "live", p.size)
	return nil
}

// rehash moves every live entry into a fresh table of the given capacity.
// Keys and the free-key list are preserved; only slot positions change. On
// error the current table is left untouched.
func (p *Pool) rehash(capacity int) error {
	next := newTable(capacity)
	if err := p.rc.AcquireMemory(next.bytes()); err != nil {
		return fmt.Errorf("%w: table of %d slots: %w", ErrCapacityExhausted, next.capacity, err)
	}

	for k := 0; k < int(p.nextKey); k++ {
		ke := p.t.keys.Get(k)
		if ke.state == keyOccupied {
			content := p.t.slots.Get(int(ke.ref)).content
			idx, found := next.find(content, hash.Fold31(p.hasher(content)))
			if found || idx < 0 {
				p.rc.ReleaseMemory(next.bytes())
				if found {
					return invariantf("rehash", "keys %d and %d hold equal content", next.slots.Get(idx).key, k)
				}
				return invariantf("rehash", "no slot for key %d in table of %d", k, next.capacity)
			}
			next.slots.Set(idx, slotEntry{content: content, key: Key(k), state: slotOccupied}) //nolint:gosec // k < nextKey
			ke.ref = uint32(idx)                                                               //nolint:gosec // idx < capacity
		}
		if ke.state != keyUnused {
			next.keys.Set(k, ke)
		}
	}

	p.rc.ReleaseMemory(p.t.bytes())
	p.t = next
	p.removed = 0
	return nil
}
