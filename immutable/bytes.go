package immutable

import (
	"io"
	"strings"
)

// Bytes is a read-only byte sequence.
//
// The zero value is the empty sequence.
type Bytes struct {
	s string
}

// Copy returns Bytes holding a private copy of p. Later writes to p are not
// observed.
func Copy(p []byte) Bytes {
	return Bytes{s: string(p)}
}

// FromString returns Bytes viewing s. No copy is made.
func FromString(s string) Bytes {
	return Bytes{s: s}
}

// Len returns the number of bytes.
func (b Bytes) Len() int { return len(b.s) }

// IsEmpty reports whether b has no bytes.
func (b Bytes) IsEmpty() bool { return len(b.s) == 0 }

// At returns the byte at index i. It panics if i is out of range.
func (b Bytes) At(i int) byte { return b.s[i] }

// String returns the content as a string without copying.
func (b Bytes) String() string { return b.s }

// Clone returns a freshly allocated, caller-owned copy of the content.
// It returns a non-nil empty slice for empty content.
func (b Bytes) Clone() []byte {
	out := make([]byte, len(b.s))
	copy(out, b.s)
	return out
}

// AppendTo appends the content to dst and returns the extended slice.
func (b Bytes) AppendTo(dst []byte) []byte {
	return append(dst, b.s...)
}

// Equal reports whether b holds exactly the bytes in p.
func (b Bytes) Equal(p []byte) bool {
	return b.s == string(p)
}

// EqualString reports whether b holds exactly the bytes of s.
func (b Bytes) EqualString(s string) bool {
	return b.s == s
}

// Compare returns an integer comparing b and o lexicographically.
func (b Bytes) Compare(o Bytes) int {
	return strings.Compare(b.s, o.s)
}

// WriteTo implements io.WriterTo.
func (b Bytes) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.s)
	return int64(n), err
}
