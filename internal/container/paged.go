package container

const (
	// pageBits determines the size of each page.
	// 13 bits = 8192 items per page.
	pageBits = 13
	pageSize = 1 << pageBits
	pageMask = pageSize - 1
)

// PagedArray is a fixed-length array split into equally sized pages.
// Pages are allocated on first write, so a large, sparsely used table does
// not pay for untouched regions and never needs one huge contiguous
// allocation. It is not safe for concurrent use.
type PagedArray[T any] struct {
	pages  []*[pageSize]T
	length int
}

// NewPagedArray creates a PagedArray holding length zero values.
func NewPagedArray[T any](length int) *PagedArray[T] {
	if length < 0 {
		length = 0
	}
	return &PagedArray[T]{
		pages:  make([]*[pageSize]T, (length+pageMask)>>pageBits),
		length: length,
	}
}

// Len returns the number of items.
func (pa *PagedArray[T]) Len() int {
	return pa.length
}

// Get returns the item at index i.
// Unallocated pages read as the zero value. It panics if i is out of range.
func (pa *PagedArray[T]) Get(i int) T {
	pa.check(i)
	p := pa.pages[i>>pageBits]
	if p == nil {
		var zero T
		return zero
	}
	return p[i&pageMask]
}

// Set stores v at index i, allocating the page if necessary.
// It panics if i is out of range.
func (pa *PagedArray[T]) Set(i int, v T) {
	*pa.Ref(i) = v
}

// Ref returns a pointer to the item at index i, allocating the page if
// necessary. The pointer stays valid for the lifetime of the array.
func (pa *PagedArray[T]) Ref(i int) *T {
	pa.check(i)
	p := pa.pages[i>>pageBits]
	if p == nil {
		p = new([pageSize]T)
		pa.pages[i>>pageBits] = p
	}
	return &p[i&pageMask]
}

// AllocatedPages returns the number of pages backed by memory.
func (pa *PagedArray[T]) AllocatedPages() int {
	n := 0
	for _, p := range pa.pages {
		if p != nil {
			n++
		}
	}
	return n
}

// PageSize returns the number of items per page.
func PageSize() int {
	return pageSize
}

func (pa *PagedArray[T]) check(i int) {
	if i < 0 || i >= pa.length {
		panic("container: index out of range")
	}
}
