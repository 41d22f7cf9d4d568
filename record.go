package memopt

import (
	"github.com/romanmarkunas-com/0010-memory-optimization/immutable"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/order"
)

// Record is a read-only view of one stored order. It reads slab storage
// directly and is valid only until the next call on the Store that
// returned it. Changes go through the Store so its indexes stay current.
type Record struct {
	v *order.View
}

func (r Record) ID() int64         { return r.v.ID() }
func (r Record) ArticleNr() int32  { return r.v.ArticleNr() }
func (r Record) Count() int32      { return r.v.Count() }
func (r Record) PricePence() int32 { return r.v.PricePence() }

// User returns the user identifier. The bytes are shared with the pool.
func (r Record) User() (immutable.Bytes, bool) { return r.v.User() }

func (r Record) AddressNumber() (immutable.Bytes, bool)   { return r.v.AddressNumber() }
func (r Record) AddressStreet() (immutable.Bytes, bool)   { return r.v.AddressStreet() }
func (r Record) AddressCity() (immutable.Bytes, bool)     { return r.v.AddressCity() }
func (r Record) AddressRegion() (immutable.Bytes, bool)   { return r.v.AddressRegion() }
func (r Record) AddressPostCode() (immutable.Bytes, bool) { return r.v.AddressPostCode() }

// Address returns the formatted address.
func (r Record) Address() string { return r.v.Address() }

// LoadAddress copies the address out of the record.
func (r Record) LoadAddress() Address { return r.v.LoadAddress() }

// Load copies the whole record into an Order.
func (r Record) Load() Order { return r.v.Load() }

// String implements fmt.Stringer.
func (r Record) String() string { return r.v.String() }
