package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolynomialKnownCollision(t *testing.T) {
	a := string([]byte{1, 0})
	b := string([]byte{0, 31})

	assert.Equal(t, Polynomial(a), Polynomial(b))
	assert.NotEqual(t, XXHash(a), XXHash(b))
	assert.NotEqual(t, CRC32C(a), CRC32C(b))
}

func TestPolynomialSignedBytes(t *testing.T) {
	// 31*1 + (-2)
	assert.Equal(t, uint32(29), Polynomial(string([]byte{0xFE})))
	assert.Equal(t, uint32(1), Polynomial(""))
}

func TestFold31NonNegative(t *testing.T) {
	for _, h := range []uint32{0, 1, 0x7FFF_FFFF, 0x8000_0000, 0xFFFF_FFFF} {
		assert.LessOrEqual(t, Fold31(h), uint32(0x7FFF_FFFF))
	}
	assert.Equal(t, uint32(0), Fold31(0))
}

func TestDeterministic(t *testing.T) {
	for _, f := range []Func{XXHash, CRC32C, Polynomial} {
		assert.Equal(t, f("Fishery Road"), f("Fishery Road"))
	}
	assert.Equal(t, CRC32C(""), CRC32C(""))
}
