package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitSet(t *testing.T) {
	b := New(100)

	assert.Equal(t, uint64(100), b.Len())

	b.Set(10)
	assert.True(t, b.Test(10))
	assert.Equal(t, 1, b.Count())

	b.Set(10)
	assert.Equal(t, 1, b.Count(), "setting twice counts once")

	b.Unset(10)
	assert.False(t, b.Test(10))
	assert.Equal(t, 0, b.Count())

	b.Set(0)
	b.Set(63)
	b.Set(64)
	b.Set(99)
	assert.Equal(t, 4, b.Count())
	assert.Equal(t, b.Count(), b.PopCount())

	b.ClearAll()
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, 0, b.PopCount())
}

func TestBitSet_OutOfRange(t *testing.T) {
	b := New(10)

	b.Set(10)
	b.Unset(1000)
	assert.False(t, b.Test(10))
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, 8, b.SizeInBytes())
}
