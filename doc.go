// Package memopt stores large numbers of small, highly repetitive order
// records under a tight memory budget.
//
// Two techniques do the work:
//
//   - Interning. Every variable-length field (user identifier, address
//     parts) is stored once in a reference-counted pool and records keep only
//     a 32-bit key to it.
//   - Slab packing. Records are fixed-width and packed into large byte
//     slabs rather than allocated as individual heap objects. Slabs may live
//     outside the Go heap (WithOffHeap).
//
// # Quick Start
//
//	s, err := memopt.New(memopt.WithMemoryLimit(256 << 20))
//	if err != nil {
//	    panic(err)
//	}
//	defer s.Close()
//
//	key, err := s.Insert(memopt.Order{
//	    ID:   42,
//	    User: []byte("alice"),
//	    Address: memopt.Address{
//	        Number:   "1",
//	        Street:   "Fishery Road",
//	        City:     "Seashoreworth",
//	        PostCode: "SBSP42",
//	    },
//	})
//
//	v, _ := s.Get(key)
//	street, _ := v.AddressStreet()
//	fmt.Println(street)
//
// # Records
//
// Get returns a read-only Record bound directly to slab storage. It is
// rebound on the next call, so copy what you need (Record.Load) before
// calling the store again. Bytes returned by a record are shared with the
// pool and cannot be mutated. Changes go through UpdateAddress, UpdateUser
// and Replace, which keep the id and user indexes current.
//
// # Concurrency
//
// A Store is not safe for concurrent use. Callers serialize access.
//
// # Errors
//
// ErrCapacityExhausted reports an exhausted key space or memory budget.
// ErrInvariantViolation reports detected corruption and is never recovered
// from. Deleting a record twice returns ErrInvalidFree.
package memopt
