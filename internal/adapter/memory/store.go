// Package memory implements the domain repositories in process memory.
//
// A single mutex guards every table, so cross-entity checks (a flight's
// aircraft exists, a passenger has no tickets) and seat reservations are
// serialized exactly like the constraints of the SQLite store.
package memory

import (
	"cmp"
	"slices"
	"sync"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// Store holds every table. Use its accessor methods to obtain repositories.
type Store struct {
	mu sync.RWMutex

	aircraft   table[domain.Aircraft, domain.AircraftID]
	flights    table[domain.Flight, domain.FlightID]
	passengers table[domain.Passenger, domain.PassengerID]
	tickets    table[domain.Ticket, domain.TicketID]

	reservations map[domain.FlightID]map[vo.SeatNumber]struct{}
}

// New returns an empty store.
func New() *Store {
	return &Store{
		aircraft: newTable(
			func(a domain.Aircraft) domain.AircraftID { return a.ID },
			func(a *domain.Aircraft, id domain.AircraftID) { a.ID = id },
		),
		flights: newTable(
			func(f domain.Flight) domain.FlightID { return f.ID },
			func(f *domain.Flight, id domain.FlightID) { f.ID = id },
		),
		passengers: newTable(
			func(p domain.Passenger) domain.PassengerID { return p.ID },
			func(p *domain.Passenger, id domain.PassengerID) { p.ID = id },
		),
		tickets: newTable(
			func(t domain.Ticket) domain.TicketID { return t.ID },
			func(t *domain.Ticket, id domain.TicketID) { t.ID = id },
		),
		reservations: make(map[domain.FlightID]map[vo.SeatNumber]struct{}),
	}
}

// Aircraft returns the aircraft repository backed by s.
func (s *Store) Aircraft() *AircraftRepository { return &AircraftRepository{s: s} }

// Flights returns the flight repository backed by s.
func (s *Store) Flights() *FlightRepository { return &FlightRepository{s: s} }

// Passengers returns the passenger repository backed by s.
func (s *Store) Passengers() *PassengerRepository { return &PassengerRepository{s: s} }

// Tickets returns the ticket repository backed by s.
func (s *Store) Tickets() *TicketRepository { return &TicketRepository{s: s} }

// table is an auto-incrementing map of rows keyed by ID.
type table[T any, ID ~int64] struct {
	rows  map[ID]T
	last  ID
	id    func(T) ID
	setID func(*T, ID)
}

func newTable[T any, ID ~int64](id func(T) ID, setID func(*T, ID)) table[T, ID] {
	return table[T, ID]{rows: make(map[ID]T), id: id, setID: setID}
}

func (t *table[T, ID]) insert(row T) ID {
	t.last++
	t.setID(&row, t.last)
	t.rows[t.last] = row
	return t.last
}

func (t *table[T, ID]) get(id ID) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

// replace overwrites an existing row and reports whether it existed.
func (t *table[T, ID]) replace(row T) bool {
	id := t.id(row)
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[T, ID]) remove(id ID) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// all returns the rows matching keep (every row if keep is nil) in ID order.
func (t *table[T, ID]) all(keep func(T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(t.id(a), t.id(b)) })
	return out
}

// outsideLayout returns a seat reserved on flight that layout lacks.
// Callers hold mu.
func (s *Store) outsideLayout(flight domain.FlightID, layout vo.SeatClassMap) (vo.SeatNumber, bool) {
	for seat := range s.reservations[flight] {
		if !layout.Contains(seat) {
			return seat, true
		}
	}
	return vo.SeatNumber{}, false
}
