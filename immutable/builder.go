package immutable

import "strings"

// Builder accumulates bytes for a value that will be frozen into Bytes.
//
// The zero value is ready to use. A Builder must not be copied after first
// use.
type Builder struct {
	sb strings.Builder
}

// Write appends p. It always returns len(p), nil.
func (b *Builder) Write(p []byte) (int, error) {
	return b.sb.Write(p)
}

// WriteByte appends c.
func (b *Builder) WriteByte(c byte) error {
	return b.sb.WriteByte(c)
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	return b.sb.WriteString(s)
}

// Grow reserves room for n more bytes.
func (b *Builder) Grow(n int) {
	b.sb.Grow(n)
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return b.sb.Len()
}

// Reset discards the accumulated bytes.
func (b *Builder) Reset() {
	b.sb.Reset()
}

// Freeze returns the accumulated content as Bytes and resets the builder.
// Ownership moves to the returned value; no copy is made.
func (b *Builder) Freeze() Bytes {
	out := Bytes{s: b.sb.String()}
	b.sb.Reset()
	return out
}
