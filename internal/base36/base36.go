// Package base36 packs strings over [0-9A-Z] into six bits per character.
//
// Every four characters become three bytes:
//
//	byte 0: c0<<2 | c1>>4
//	byte 1: c1<<4 | c2>>2
//	byte 2: c2<<6 | c3
//
// A trailing group of one or two characters uses one or two bytes. A trailing
// group of three characters stores the padding value 36 in place of c3.
package base36

import (
	"errors"
	"fmt"
	"io"
)

const padding = 36

var (
	// ErrUnsupportedChar is returned when encoding a character outside [0-9A-Z].
	ErrUnsupportedChar = errors.New("base36: unsupported character")

	// ErrMalformed is returned when decoding bytes no encoder would produce.
	ErrMalformed = errors.New("base36: malformed input")
)

// EncodedLen returns the encoded size of an n character string.
func EncodedLen(n int) int {
	return (n*6 + 7) / 8
}

// Encode packs s. It fails on any character outside [0-9A-Z].
func Encode(s string) ([]byte, error) {
	out := make([]byte, 0, EncodedLen(len(s)))
	err := encode(s, func(b byte) { out = append(out, b) })
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeTo packs s into w. On error w may hold a partial encoding; check
// Valid first to avoid that.
func EncodeTo(w io.ByteWriter, s string) error {
	var werr error
	err := encode(s, func(b byte) {
		if werr == nil {
			werr = w.WriteByte(b)
		}
	})
	if err != nil {
		return err
	}
	return werr
}

func encode(s string, emit func(byte)) error {
	var group [4]byte

	for i := 0; i < len(s); i += 4 {
		n := min(4, len(s)-i)
		for j := 0; j < n; j++ {
			v, ok := value(s[i+j])
			if !ok {
				return fmt.Errorf("%w: %q at %d", ErrUnsupportedChar, s[i+j], i+j)
			}
			group[j] = v
		}

		switch n {
		case 1:
			emit(group[0] << 2)
		case 2:
			emit(group[0]<<2 | group[1]>>4)
			emit(group[1] << 4)
		case 3:
			group[3] = padding
			fallthrough
		default:
			emit(group[0]<<2 | group[1]>>4)
			emit(group[1]<<4 | group[2]>>2)
			emit(group[2]<<6 | group[3])
		}
	}
	return nil
}

// Decode reverses Encode.
func Decode(b []byte) (string, error) {
	out := make([]byte, 0, len(b)*8/6+1)

	for i := 0; i < len(b); i += 3 {
		n := min(3, len(b)-i)
		g := b[i : i+n]

		var chars [4]byte
		count := 0
		switch n {
		case 1:
			if g[0]&0x03 != 0 {
				return "", fmt.Errorf("%w: trailing bits set at %d", ErrMalformed, i)
			}
			chars[0] = g[0] >> 2
			count = 1
		case 2:
			if g[1]&0x0F != 0 {
				return "", fmt.Errorf("%w: trailing bits set at %d", ErrMalformed, i+1)
			}
			chars[0] = g[0] >> 2
			chars[1] = (g[0]&0x03)<<4 | g[1]>>4
			count = 2
		default:
			chars[0] = g[0] >> 2
			chars[1] = (g[0]&0x03)<<4 | g[1]>>4
			chars[2] = (g[1]&0x0F)<<2 | g[2]>>6
			chars[3] = g[2] & 0x3F
			count = 4
			if chars[3] == padding {
				if i+3 != len(b) {
					return "", fmt.Errorf("%w: padding before end at %d", ErrMalformed, i+2)
				}
				count = 3
			}
		}

		for _, v := range chars[:count] {
			c, ok := char(v)
			if !ok {
				return "", fmt.Errorf("%w: value %d in group at %d", ErrMalformed, v, i)
			}
			out = append(out, c)
		}
	}
	return string(out), nil
}

// Valid reports whether every character of s can be encoded.
func Valid(s string) bool {
	for i := 0; i < len(s); i++ {
		if _, ok := value(s[i]); !ok {
			return false
		}
	}
	return true
}

func value(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'Z':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func char(v byte) (byte, bool) {
	switch {
	case v < 10:
		return '0' + v, true
	case v < 36:
		return 'A' + v - 10, true
	default:
		return 0, false
	}
}
