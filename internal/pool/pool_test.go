package pool

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romanmarkunas-com/0010-memory-optimization/immutable"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/hash"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/resource"
)

func newTestPool(t *testing.T, opts ...Option) *Pool {
	t.Helper()
	p, err := New(opts...)
	require.NoError(t, err)
	return p
}

func mustPut(t *testing.T, p *Pool, s string) Key {
	t.Helper()
	k, err := p.Put([]byte(s))
	require.NoError(t, err)
	return k
}

func TestPutSameContentSameKey(t *testing.T) {
	p := newTestPool(t)

	k1 := mustPut(t, p, "Fishery Road")
	k2 := mustPut(t, p, "Fishery Road")
	k3 := mustPut(t, p, "Boreham Wood")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Equal(t, 2, p.Len())

	u, ok := p.Usage(k1)
	require.True(t, ok)
	assert.Equal(t, uint32(2), u)

	got, ok := p.Get(k1)
	require.True(t, ok)
	assert.Equal(t, "Fishery Road", got.String())
}

func TestPutCopiesInput(t *testing.T) {
	p := newTestPool(t)

	buf := []byte("London")
	k, err := p.Put(buf)
	require.NoError(t, err)
	buf[0] = 'X'

	got, ok := p.Get(k)
	require.True(t, ok)
	assert.Equal(t, "London", got.String())
}

func TestPutBytes(t *testing.T) {
	p := newTestPool(t)

	k1, err := p.PutBytes(immutable.FromString("WD6"))
	require.NoError(t, err)
	k2 := mustPut(t, p, "WD6")
	assert.Equal(t, k1, k2)
}

func TestEmptyContent(t *testing.T) {
	p := newTestPool(t)

	k1 := mustPut(t, p, "")
	k2, err := p.Put(nil)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	got, ok := p.Get(k1)
	require.True(t, ok)
	assert.True(t, got.IsEmpty())
}

func TestHashCollisionKeepsContentDistinct(t *testing.T) {
	p := newTestPool(t, WithHasher(hash.Polynomial))

	a := []byte{1, 0}
	b := []byte{0, 31}
	require.Equal(t, hash.Polynomial(string(a)), hash.Polynomial(string(b)))

	ka, err := p.Put(a)
	require.NoError(t, err)
	kb, err := p.Put(b)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kb)

	got, _ := p.Get(ka)
	assert.Equal(t, a, got.Clone())
	got, _ = p.Get(kb)
	assert.Equal(t, b, got.Clone())
}

func TestDuplicateFoundPastRemovedSlot(t *testing.T) {
	p := newTestPool(t, WithHasher(hash.Polynomial))

	ka := mustPut(t, p, string([]byte{1, 0}))
	kb := mustPut(t, p, string([]byte{0, 31}))

	// a's slot becomes a tombstone in front of b's.
	p.Free(ka)

	again := mustPut(t, p, string([]byte{0, 31}))
	assert.Equal(t, kb, again)
	assert.Equal(t, 1, p.Len())

	u, _ := p.Usage(kb)
	assert.Equal(t, uint32(2), u)
}

func TestFree(t *testing.T) {
	p := newTestPool(t)

	k := mustPut(t, p, "Hertfordshire")
	mustPut(t, p, "Hertfordshire")

	p.Free(k)
	_, ok := p.Get(k)
	assert.True(t, ok, "one usage left")

	p.Free(k)
	_, ok = p.Get(k)
	assert.False(t, ok)
	_, ok = p.Find([]byte("Hertfordshire"))
	assert.False(t, ok)
	assert.Equal(t, 0, p.Len())
	assert.Equal(t, int64(0), p.Stats().ContentBytes)
}

func TestFreeIsNoOpForUnknownKeys(t *testing.T) {
	p := newTestPool(t)

	k := mustPut(t, p, "a")
	other := mustPut(t, p, "b")

	p.Free(k)
	p.Free(k)
	p.Free(Key(500))
	p.Free(NoKey)

	assert.Equal(t, 1, p.Len())
	u, ok := p.Usage(other)
	require.True(t, ok)
	assert.Equal(t, uint32(1), u)
}

func TestFreedKeysAreReused(t *testing.T) {
	p := newTestPool(t)

	k0 := mustPut(t, p, "zero")
	k1 := mustPut(t, p, "one")
	mustPut(t, p, "two")

	p.Free(k0)
	p.Free(k1)

	// Most recently freed first.
	assert.Equal(t, k1, mustPut(t, p, "three"))
	assert.Equal(t, k0, mustPut(t, p, "four"))
	assert.Equal(t, Key(3), mustPut(t, p, "five"))
}

func TestFind(t *testing.T) {
	p := newTestPool(t)

	k := mustPut(t, p, "Elstree")
	found, ok := p.Find([]byte("Elstree"))
	require.True(t, ok)
	assert.Equal(t, k, found)

	u, _ := p.Usage(k)
	assert.Equal(t, uint32(1), u, "Find must not retain")

	_, ok = p.Find([]byte("Borehamwood"))
	assert.False(t, ok)
}

func TestResizeExactlyOnce(t *testing.T) {
	p := newTestPool(t, WithInitialCapacity(8))
	require.Equal(t, 8, p.Stats().Capacity)
	require.Equal(t, 7, p.Stats().ProbeStep)

	keys := make([]Key, 9)
	for i := range keys {
		keys[i] = mustPut(t, p, fmt.Sprintf("street-%d", i))
	}

	st := p.Stats()
	assert.Equal(t, 1, st.Resizes)
	assert.Equal(t, 16, st.Capacity)
	assert.Equal(t, 9, st.Live)

	for i, k := range keys {
		got, ok := p.Get(k)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("street-%d", i), got.String())
	}
}

func TestGrowthPreservesKeysAcrossManyResizes(t *testing.T) {
	p := newTestPool(t, WithInitialCapacity(1))

	const n = 10_000
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = mustPut(t, p, fmt.Sprintf("v%d", i))
	}
	for i := 0; i < n; i += 3 {
		p.Free(keys[i])
	}

	for i, k := range keys {
		got, ok := p.Get(k)
		if i%3 == 0 {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("v%d", i), got.String())
	}
	assert.Greater(t, p.Stats().Capacity, 4096)
}

func TestCompactionKeepsCapacity(t *testing.T) {
	p := newTestPool(t, WithInitialCapacity(8))
	keep := mustPut(t, p, "keep")

	for i := 0; i < 50; i++ {
		k := mustPut(t, p, fmt.Sprintf("tmp-%d", i))
		p.Free(k)
	}

	st := p.Stats()
	assert.Equal(t, 8, st.Capacity)
	assert.Zero(t, st.Resizes)
	assert.LessOrEqual(t, st.Removed, st.Capacity)

	got, ok := p.Get(keep)
	require.True(t, ok)
	assert.Equal(t, "keep", got.String())
}

func TestUsageOverflow(t *testing.T) {
	p := newTestPool(t)

	k := mustPut(t, p, "hot")
	p.t.keys.Ref(int(k)).usage = maxUsage - 1

	_, err := p.Put([]byte("hot"))
	require.NoError(t, err)

	_, err = p.Put([]byte("hot"))
	assert.ErrorIs(t, err, ErrCapacityExhausted)

	u, _ := p.Usage(k)
	assert.Equal(t, uint32(maxUsage), u)
}

func TestMemoryLimit(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 8*entryBytes + 16})
	p := newTestPool(t, WithInitialCapacity(8), WithResourceController(rc))

	mustPut(t, p, "0123456789")

	_, err := p.Put([]byte("this one does not fit"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExhausted)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 8*entryBytes+10, rc.MemoryUsage())
}

func TestMemoryAccountingBalances(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	p := newTestPool(t, WithInitialCapacity(4), WithResourceController(rc))

	var keys []Key
	for i := 0; i < 100; i++ {
		keys = append(keys, mustPut(t, p, fmt.Sprintf("%03d", i)))
	}
	for _, k := range keys {
		p.Free(k)
	}

	assert.Equal(t, p.Stats().TableBytes, rc.MemoryUsage())
}

func TestCorruptFreeListIsReported(t *testing.T) {
	p := newTestPool(t)

	k := mustPut(t, p, "a")
	p.freeHead = k

	_, err := p.Put([]byte("b"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	var ie *InvariantError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "put", ie.Op)
}

func TestTablePagesAllocatedOnWrite(t *testing.T) {
	p := newTestPool(t, WithInitialCapacity(1<<16))
	assert.Zero(t, p.Stats().TablePages)

	mustPut(t, p, "a")
	assert.Equal(t, 2, p.Stats().TablePages, "one key page and one slot page")
}
