package order

import (
	"fmt"

	"github.com/romanmarkunas-com/0010-memory-optimization/immutable"
	"github.com/romanmarkunas-com/0010-memory-optimization/internal/pool"
)

// View reads and writes one record in place.
type View struct {
	pool  *pool.Pool
	codec Codec // post codes only; nil stores them as-is
	buf   []byte
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithPostCodeCodec transforms post codes before they are interned.
func WithPostCodeCodec(c Codec) ViewOption {
	return func(v *View) {
		if _, plain := c.(PlainCodec); plain {
			c = nil
		}
		v.codec = c
	}
}

// NewView creates an unbound View resolving pooled fields through p.
func NewView(p *pool.Pool, opts ...ViewOption) *View {
	v := &View{pool: p}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Bind points the view at buf and returns it. It panics if buf is shorter
// than RecordSize.
func (v *View) Bind(buf []byte) *View {
	if len(buf) < RecordSize {
		panic(fmt.Sprintf("order: bind to %d bytes, need %d", len(buf), RecordSize))
	}
	v.buf = buf[:RecordSize:RecordSize]
	return v
}

// Bytes returns the raw record bytes the view is bound to.
func (v *View) Bytes() []byte {
	return v.buf
}

type fieldValue struct {
	off  int
	text string
	raw  []byte
}

func (v *View) intern(f fieldValue) (pool.Key, error) {
	switch {
	case f.off == offUser:
		return v.pool.Put(f.raw)
	case f.off == offAddressPostCode && v.codec != nil:
		return v.pool.PutBytes(v.codec.Encode(f.text))
	default:
		// Strings are immutable, so the pool can keep them without copying.
		return v.pool.PutBytes(immutable.FromString(f.text))
	}
}

// Set writes every field of o. Either all fields are written or, on error,
// the record is left untouched and nothing stays interned.
func (v *View) Set(o Order) error {
	values := [len(pooledOffsets)]fieldValue{
		{off: offUser, raw: o.User},
		{off: offAddressNumber, text: o.Address.Number},
		{off: offAddressStreet, text: o.Address.Street},
		{off: offAddressCity, text: o.Address.City},
		{off: offAddressRegion, text: o.Address.Region},
		{off: offAddressPostCode, text: o.Address.PostCode},
	}

	var keys [len(pooledOffsets)]pool.Key
	for i, f := range values {
		k, err := v.intern(f)
		if err != nil {
			for _, done := range keys[:i] {
				v.pool.Free(done)
			}
			return fmt.Errorf("order %d: intern field at offset %d: %w", o.ID, f.off, err)
		}
		keys[i] = k
	}

	var old [len(pooledOffsets)]pool.Key
	var had [len(pooledOffsets)]bool
	for i, f := range values {
		old[i], had[i] = getKey(v.buf, f.off)
		putKey(v.buf, f.off, keys[i], true)
	}

	le.PutUint64(v.buf[offID:], uint64(o.ID)) //nolint:gosec // bit pattern preserved
	putInt32(v.buf, offArticleNr, o.ArticleNr)
	putInt32(v.buf, offCount, o.Count)
	putInt32(v.buf, offPricePence, o.PricePence)

	for i := range old {
		if had[i] {
			v.pool.Free(old[i])
		}
	}
	return nil
}

// replace interns f, stores its key and then frees the key it replaced.
func (v *View) replace(f fieldValue) error {
	k, err := v.intern(f)
	if err != nil {
		return err
	}
	old, had := getKey(v.buf, f.off)
	putKey(v.buf, f.off, k, true)
	if had {
		v.pool.Free(old)
	}
	return nil
}

func (v *View) pooled(off int) (immutable.Bytes, bool) {
	k, ok := getKey(v.buf, off)
	if !ok {
		return immutable.Bytes{}, false
	}
	return v.pool.Get(k)
}

// ID returns the order id.
func (v *View) ID() int64 {
	return int64(le.Uint64(v.buf[offID:])) //nolint:gosec // bit pattern preserved
}

// SetID overwrites the order id.
func (v *View) SetID(id int64) {
	le.PutUint64(v.buf[offID:], uint64(id)) //nolint:gosec // bit pattern preserved
}

// User returns the user identifier. The bytes are shared with the pool.
func (v *View) User() (immutable.Bytes, bool) {
	return v.pooled(offUser)
}

// UserKey returns the pool key of the user identifier.
func (v *View) UserKey() (pool.Key, bool) {
	return getKey(v.buf, offUser)
}

// SetUser replaces the user identifier.
func (v *View) SetUser(user []byte) error {
	return v.replace(fieldValue{off: offUser, raw: user})
}

func (v *View) ArticleNr() int32      { return getInt32(v.buf, offArticleNr) }
func (v *View) SetArticleNr(n int32)  { putInt32(v.buf, offArticleNr, n) }
func (v *View) Count() int32          { return getInt32(v.buf, offCount) }
func (v *View) SetCount(n int32)      { putInt32(v.buf, offCount, n) }
func (v *View) PricePence() int32     { return getInt32(v.buf, offPricePence) }
func (v *View) SetPricePence(p int32) { putInt32(v.buf, offPricePence, p) }

func (v *View) AddressNumber() (immutable.Bytes, bool) { return v.pooled(offAddressNumber) }
func (v *View) AddressStreet() (immutable.Bytes, bool) { return v.pooled(offAddressStreet) }
func (v *View) AddressCity() (immutable.Bytes, bool)   { return v.pooled(offAddressCity) }
func (v *View) AddressRegion() (immutable.Bytes, bool) { return v.pooled(offAddressRegion) }

// AddressPostCode returns the post code, decoding it if a codec is set.
func (v *View) AddressPostCode() (immutable.Bytes, bool) {
	b, ok := v.pooled(offAddressPostCode)
	if !ok || v.codec == nil {
		return b, ok
	}
	s, err := v.codec.Decode(b)
	if err != nil {
		return immutable.Bytes{}, false
	}
	return immutable.FromString(s), true
}

func (v *View) SetAddressNumber(s string) error {
	return v.replace(fieldValue{off: offAddressNumber, text: s})
}

func (v *View) SetAddressStreet(s string) error {
	return v.replace(fieldValue{off: offAddressStreet, text: s})
}

func (v *View) SetAddressCity(s string) error {
	return v.replace(fieldValue{off: offAddressCity, text: s})
}

func (v *View) SetAddressRegion(s string) error {
	return v.replace(fieldValue{off: offAddressRegion, text: s})
}

func (v *View) SetAddressPostCode(s string) error {
	return v.replace(fieldValue{off: offAddressPostCode, text: s})
}

// SetAddress replaces all address fields. On error the fields already
// replaced keep their new values.
func (v *View) SetAddress(a Address) error {
	for _, f := range [...]fieldValue{
		{off: offAddressNumber, text: a.Number},
		{off: offAddressStreet, text: a.Street},
		{off: offAddressCity, text: a.City},
		{off: offAddressRegion, text: a.Region},
		{off: offAddressPostCode, text: a.PostCode},
	} {
		if err := v.replace(f); err != nil {
			return fmt.Errorf("order %d: address field at offset %d: %w", v.ID(), f.off, err)
		}
	}
	return nil
}

// LoadAddress copies the address out of the record.
func (v *View) LoadAddress() Address {
	text := func(b immutable.Bytes, _ bool) string { return b.String() }
	return Address{
		Number:   text(v.AddressNumber()),
		Street:   text(v.AddressStreet()),
		City:     text(v.AddressCity()),
		Region:   text(v.AddressRegion()),
		PostCode: text(v.AddressPostCode()),
	}
}

// Address returns the formatted address.
func (v *View) Address() string {
	return v.LoadAddress().String()
}

// Load copies the whole record into an Order.
func (v *View) Load() Order {
	user, _ := v.User()
	return Order{
		ID:         v.ID(),
		User:       user.Clone(),
		ArticleNr:  v.ArticleNr(),
		Count:      v.Count(),
		PricePence: v.PricePence(),
		Address:    v.LoadAddress(),
	}
}

// Release frees every pooled field and zeroes the record.
func (v *View) Release() {
	for _, off := range pooledOffsets {
		if k, ok := getKey(v.buf, off); ok {
			v.pool.Free(k)
		}
	}
	clear(v.buf)
}

// String implements fmt.Stringer.
func (v *View) String() string {
	user, _ := v.User()
	return fmt.Sprintf("Order{id=%d user=%x articleNr=%d count=%d pricePence=%d address=%q}",
		v.ID(), user.String(), v.ArticleNr(), v.Count(), v.PricePence(), v.Address())
}
