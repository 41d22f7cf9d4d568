package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGIsDeterministic(t *testing.T) {
	a := NewRNG(4711)
	b := NewRNG(4711)

	for range 16 {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}

	first := a.Uint64()
	a.Reset()
	for range 16 {
		a.Intn(1000)
	}
	assert.Equal(t, first, a.Uint64())
	assert.Equal(t, int64(4711), a.Seed())
}

func TestZipfIsSkewed(t *testing.T) {
	rng := NewRNG(1)

	counts := make([]int, 10)
	for range 2000 {
		v := rng.Zipf(10, 1.5)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 10)
		counts[v]++
	}
	assert.Greater(t, counts[0], counts[9])
	assert.Zero(t, NewRNG(1).Zipf(1, 1.5))
}

func TestOrderGenerator(t *testing.T) {
	rng := NewRNG(42)
	addrs := rng.Addresses(50)
	gen := NewOrderGenerator(rng, addrs, 20)

	users := map[string]bool{}
	for i := range 500 {
		o := gen.Next()
		assert.Equal(t, int64(i), o.ID)
		assert.Len(t, o.User, 6)
		assert.Contains(t, addrs, o.Address)
		assert.GreaterOrEqual(t, o.PricePence, int32(0))
		assert.Less(t, o.Count, int32(10))
		users[string(o.User)] = true
	}
	assert.LessOrEqual(t, len(users), 20)
}

func TestOrderGeneratorRequiresAddresses(t *testing.T) {
	assert.Panics(t, func() { NewOrderGenerator(NewRNG(1), nil, 0) })
}
