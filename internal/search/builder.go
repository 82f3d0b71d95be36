package search

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// SortKey names the ticket attribute a query orders by.
type SortKey string

const (
	SortByID       SortKey = "id"
	SortByNumber   SortKey = "number"
	SortByPrice    SortKey = "price"
	SortByBookedAt SortKey = "booked_at"
	SortBySeat     SortKey = "seat"
)

// Direction is ascending or descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

var comparators = map[SortKey]func(a, b domain.Ticket) int{
	SortByID:       func(a, b domain.Ticket) int { return cmp.Compare(a.ID, b.ID) },
	SortByNumber:   func(a, b domain.Ticket) int { return strings.Compare(a.Number.String(), b.Number.String()) },
	SortByBookedAt: func(a, b domain.Ticket) int { return a.BookedAt.Compare(b.BookedAt) },
	SortByPrice:    comparePrice,
	SortBySeat:     nil, // bound per builder to its seat class registry
}

// comparePrice groups tickets by currency, then orders by amount.
func comparePrice(a, b domain.Ticket) int {
	if c := strings.Compare(a.Price.Currency(), b.Price.Currency()); c != 0 {
		return c
	}
	return a.Price.Compare(b.Price)
}

// seatComparator orders tickets by seat in the registry's cabin order.
func seatComparator(classes *vo.SeatClassRegistry) func(a, b domain.Ticket) int {
	return func(a, b domain.Ticket) int { return classes.CompareSeats(a.Seat, b.Seat) }
}

// ParseSortKey returns the sort key named by s.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(s)
	_, ok := comparators[k]
	return k, ok
}

type filter struct {
	kind     Type
	criteria Criteria
}

// Builder accumulates filters and ordering for a ticket query. An empty
// builder's query returns every ticket.
type Builder struct {
	classes *vo.SeatClassRegistry
	filters []filter
	key     SortKey
	dir     Direction
	limit   int
}

// NewBuilder returns an empty builder. classes orders seats when sorting
// by SortBySeat.
func NewBuilder(classes *vo.SeatClassRegistry) *Builder {
	return &Builder{classes: classes}
}

// Add appends a filter of type t. Every added filter must match.
func (b *Builder) Add(t Type, criteria Criteria) *Builder {
	b.filters = append(b.filters, filter{kind: t, criteria: criteria})
	return b
}

// WithPriceRange keeps tickets priced within [minimum, maximum].
func (b *Builder) WithPriceRange(minimum, maximum vo.Price) *Builder {
	return b.Add(PriceRange, Criteria{MinPrice: minimum, MaxPrice: maximum})
}

// WithFlight keeps tickets for flight.
func (b *Builder) WithFlight(flight domain.FlightID) *Builder {
	return b.Add(ByFlight, Criteria{FlightID: flight})
}

// WithStatus keeps tickets in status.
func (b *Builder) WithStatus(status domain.TicketStatus) *Builder {
	return b.Add(ByStatus, Criteria{Status: status})
}

// WithPassenger keeps tickets held by passenger.
func (b *Builder) WithPassenger(passenger domain.PassengerID) *Builder {
	return b.Add(ByPassenger, Criteria{PassengerID: passenger})
}

// SortBy orders the result. A later call replaces an earlier one.
func (b *Builder) SortBy(key SortKey, dir Direction) *Builder {
	b.key, b.dir = key, dir
	return b
}

// Limit caps the number of tickets returned. Zero means no cap.
func (b *Builder) Limit(n int) *Builder {
	b.limit = n
	return b
}

// Build resolves every filter to its strategy and checks the query.
// All problems are reported together.
func (b *Builder) Build() (Query, error) {
	var r vo.ValidationResult
	q := Query{limit: b.limit}

	for i, f := range b.filters {
		s, err := StrategyFor(f.kind)
		if err != nil {
			r.Add(fmt.Sprintf("filters[%d].type", i), CodeUnknownType, fmt.Sprintf("unknown search type %q", f.kind))
			continue
		}
		if f.kind == PriceRange {
			checkPriceRange(&r, i, f.criteria)
		}
		q.predicates = append(q.predicates, predicate{strategy: s, criteria: f.criteria})
	}

	if b.key != "" {
		less, ok := comparators[b.key]
		if b.key == SortBySeat && b.classes != nil {
			less = seatComparator(b.classes)
		}
		switch {
		case !ok:
			r.Add("sort", CodeUnknownSortKey, fmt.Sprintf("unknown sort key %q", b.key))
		case less == nil:
			r.Add("sort", CodeUnknownSortKey, fmt.Sprintf("sort key %q needs a seat class registry", b.key))
		case b.dir == Descending:
			q.compare = func(x, y domain.Ticket) int { return less(y, x) }
		default:
			q.compare = less
		}
	}
	if b.limit < 0 {
		r.Add("limit", CodeInvalidLimit, "limit must not be negative")
	}

	if err := r.Err(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func checkPriceRange(r *vo.ValidationResult, i int, c Criteria) {
	field := fmt.Sprintf("filters[%d].price", i)
	if c.MinPrice.IsZero() || c.MaxPrice.IsZero() {
		return
	}
	if !c.MinPrice.SameCurrency(c.MaxPrice) {
		r.Add(field, CodeInvalidPriceRange, "price range bounds must use the same currency")
		return
	}
	if c.MinPrice.Compare(c.MaxPrice) > 0 {
		r.Add(field, CodeInvalidPriceRange, fmt.Sprintf("minimum %s exceeds maximum %s", c.MinPrice, c.MaxPrice))
	}
}

type predicate struct {
	strategy Strategy
	criteria Criteria
}

// Query is a built, immutable ticket filter.
type Query struct {
	predicates []predicate
	compare    func(a, b domain.Ticket) int
	limit      int
}

// Matches reports whether ticket satisfies every filter.
func (q Query) Matches(ticket domain.Ticket) bool {
	for _, p := range q.predicates {
		if !p.strategy(ticket, p.criteria) {
			return false
		}
	}
	return true
}

// Apply returns the matching tickets in query order. Without a sort key the
// input order is kept. tickets is not modified.
func (q Query) Apply(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	if q.compare != nil {
		slices.SortStableFunc(out, q.compare)
	}
	if q.limit > 0 && len(out) > q.limit {
		out = out[:q.limit]
	}
	return out
}
