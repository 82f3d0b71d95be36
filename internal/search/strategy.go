// Package search filters and orders tickets.
//
// A Strategy is a predicate over one ticket and one set of criteria.
// StrategyFor maps the closed set of search types to strategies, and a
// Builder combines any number of them (all must match) with an ordering
// into a Query.
package search

import (
	"fmt"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// Type selects the strategy used for one filter.
type Type string

const (
	PriceRange  Type = "price_range"
	ByFlight    Type = "flight"
	ByStatus    Type = "status"
	ByPassenger Type = "passenger"
)

// Validation codes reported by Builder.Build.
const (
	CodeUnknownType       vo.Code = "UNKNOWN_SEARCH_TYPE"
	CodeInvalidPriceRange vo.Code = "INVALID_PRICE_RANGE"
	CodeUnknownSortKey    vo.Code = "UNKNOWN_SORT_KEY"
	CodeInvalidLimit      vo.Code = "INVALID_LIMIT"
)

// Criteria holds the values a strategy compares against. Each strategy
// reads only its own fields. A zero MinPrice or MaxPrice leaves that side
// of the range open.
type Criteria struct {
	MinPrice    vo.Price
	MaxPrice    vo.Price
	FlightID    domain.FlightID
	Status      domain.TicketStatus
	PassengerID domain.PassengerID
}

// Strategy reports whether ticket satisfies criteria.
type Strategy func(ticket domain.Ticket, criteria Criteria) bool

var strategies = map[Type]Strategy{
	PriceRange:  matchPriceRange,
	ByFlight:    matchFlight,
	ByStatus:    matchStatus,
	ByPassenger: matchPassenger,
}

// StrategyFor returns the strategy implementing t.
func StrategyFor(t Type) (Strategy, error) {
	s, ok := strategies[t]
	if !ok {
		var r vo.ValidationResult
		r.Add("type", CodeUnknownType, fmt.Sprintf("unknown search type %q", t))
		return nil, r.Err()
	}
	return s, nil
}

// ParseType returns the search type named by s.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, err := StrategyFor(t); err != nil {
		return "", err
	}
	return t, nil
}

// matchPriceRange is inclusive on both bounds. A ticket priced in another
// currency never matches.
func matchPriceRange(t domain.Ticket, c Criteria) bool {
	if !c.MinPrice.IsZero() {
		if !t.Price.SameCurrency(c.MinPrice) || t.Price.Compare(c.MinPrice) < 0 {
			return false
		}
	}
	if !c.MaxPrice.IsZero() {
		if !t.Price.SameCurrency(c.MaxPrice) || t.Price.Compare(c.MaxPrice) > 0 {
			return false
		}
	}
	return true
}

func matchFlight(t domain.Ticket, c Criteria) bool { return t.FlightID == c.FlightID }

func matchStatus(t domain.Ticket, c Criteria) bool { return t.Status == c.Status }

func matchPassenger(t domain.Ticket, c Criteria) bool { return t.PassengerID == c.PassengerID }
