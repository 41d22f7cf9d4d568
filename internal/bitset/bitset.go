package bitset

import "math/bits"

// BitSet is a fixed-length bitset.
type BitSet struct {
	words  []uint64
	length uint64
	count  int
}

// New creates a BitSet able to hold length bits, all unset.
func New(length uint64) *BitSet {
	return &BitSet{
		words:  make([]uint64, (length+63)/64),
		length: length,
	}
}

// Len returns the number of bits.
func (b *BitSet) Len() uint64 {
	return b.length
}

// Set marks bit i. Out-of-range indexes are ignored.
func (b *BitSet) Set(i uint64) {
	if i >= b.length {
		return
	}
	mask := uint64(1) << (i & 63)
	w := &b.words[i>>6]
	if *w&mask == 0 {
		*w |= mask
		b.count++
	}
}

// Unset clears bit i. Out-of-range indexes are ignored.
func (b *BitSet) Unset(i uint64) {
	if i >= b.length {
		return
	}
	mask := uint64(1) << (i & 63)
	w := &b.words[i>>6]
	if *w&mask != 0 {
		*w &^= mask
		b.count--
	}
}

// Test returns true if bit i is set. Out-of-range indexes read as unset.
func (b *BitSet) Test(i uint64) bool {
	if i >= b.length {
		return false
	}
	return b.words[i>>6]&(uint64(1)<<(i&63)) != 0
}

// Count returns the number of set bits.
func (b *BitSet) Count() int {
	return b.count
}

// PopCount recounts the set bits from the words.
// It should always agree with Count.
func (b *BitSet) PopCount() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// ClearAll clears all bits.
func (b *BitSet) ClearAll() {
	clear(b.words)
	b.count = 0
}

// SizeInBytes returns the memory held by the bit words.
func (b *BitSet) SizeInBytes() int {
	return len(b.words) * 8
}
