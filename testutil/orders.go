package testutil

import (
	"fmt"

	"github.com/romanmarkunas-com/0010-memory-optimization/internal/order"
)

var (
	streets = []string{
		"Fishery Road", "Smoke House", "High Street", "Station Road", "Church Lane",
		"Mill Lane", "Harbour View", "Kenai Spur Highway", "Old Seward Highway",
		"Tudor Road", "Airport Way", "College Road", "Chena Pump Road",
	}
	cities = []string{
		"Seashoreworth", "Anchorage", "Fairbanks", "Haines", "Kenai", "Kodiak", "Elstree",
	}
	regions = []string{
		"", "Fish'n'Chips County", "Anchorage", "Fairbanks North Star Borough",
		"Haines", "Kenai Peninsula Borough", "Kodiak Island Borough",
	}
)

// Addresses returns n addresses drawn from a small vocabulary, so that
// streets, cities and regions repeat heavily as in real address data.
func (r *RNG) Addresses(n int) []order.Address {
	out := make([]order.Address, n)
	for i := range out {
		out[i] = order.Address{
			Number:   fmt.Sprintf("%d", 1+r.Intn(400)),
			Street:   streets[r.Intn(len(streets))],
			City:     cities[r.Intn(len(cities))],
			Region:   regions[r.Intn(len(regions))],
			PostCode: fmt.Sprintf("99%03d", r.Intn(1000)),
		}
	}
	return out
}

// OrderGenerator produces a deterministic stream of orders with sequential
// ids, users of the form "ABC123" and addresses picked from a fixed archive.
type OrderGenerator struct {
	rng       *RNG
	addresses []order.Address
	users     int
	nextID    int64
}

// NewOrderGenerator creates a generator over addresses. users bounds the
// number of distinct users; zero means unbounded.
func NewOrderGenerator(rng *RNG, addresses []order.Address, users int) *OrderGenerator {
	if len(addresses) == 0 {
		panic("testutil: order generator needs at least one address")
	}
	return &OrderGenerator{rng: rng, addresses: addresses, users: users}
}

// Next returns the next order.
func (g *OrderGenerator) Next() order.Order {
	o := order.Order{
		ID:         g.nextID,
		User:       g.user(),
		ArticleNr:  g.rng.Int31n(1000),
		Count:      g.rng.Int31n(10),
		PricePence: g.rng.Int31n(10_000),
		Address:    g.addresses[g.rng.Intn(len(g.addresses))],
	}
	g.nextID++
	return o
}

func (g *OrderGenerator) user() []byte {
	n := g.rng.Intn(26 * 26 * 26 * 1000)
	if g.users > 0 {
		n = g.rng.Zipf(g.users, 1.2)
	}
	return []byte(fmt.Sprintf("%c%c%c%03d",
		'A'+byte(n/26000%26), 'A'+byte(n/1000%26), 'A'+byte(n/676000%26), n%1000))
}
