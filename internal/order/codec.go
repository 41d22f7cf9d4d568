package order

import (
	"errors"
	"fmt"

	"github.com/romanmarkunas-com/0010-memory-optimization/immutable"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/base36"
)

// ErrCodec is returned when a stored field cannot be decoded.
var ErrCodec = errors.New("order: codec")

// Codec transforms a text field before it is interned. Encode hands its
// result to the pool without a further copy.
type Codec interface {
	Encode(s string) immutable.Bytes
	Decode(b immutable.Bytes) (string, error)
}

// PlainCodec stores text as-is.
type PlainCodec struct{}

// Encode implements Codec.
func (PlainCodec) Encode(s string) immutable.Bytes { return immutable.FromString(s) }

// Decode implements Codec.
func (PlainCodec) Decode(b immutable.Bytes) (string, error) { return b.String(), nil }

// rawMarker prefixes values the base36 codec cannot pack. No packed value
// starts with it since the first six bits of a packed byte are at most 35.
const rawMarker = 0xFF

// Base36Codec packs upper-case alphanumeric text into six bits per
// character. Other text is stored behind a marker byte.
type Base36Codec struct{}

// Encode implements Codec.
func (Base36Codec) Encode(s string) immutable.Bytes {
	var b immutable.Builder
	if base36.Valid(s) {
		b.Grow(base36.EncodedLen(len(s)))
		if err := base36.EncodeTo(&b, s); err == nil {
			return b.Freeze()
		}
		b.Reset()
	}
	b.Grow(len(s) + 1)
	_ = b.WriteByte(rawMarker)
	_, _ = b.WriteString(s)
	return b.Freeze()
}

// Decode implements Codec.
func (Base36Codec) Decode(b immutable.Bytes) (string, error) {
	if b.Len() > 0 && b.At(0) == rawMarker {
		return b.String()[1:], nil
	}
	s, err := base36.Decode(b.Clone())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCodec, err)
	}
	return s, nil
}
