package domain

import (
	"context"

	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// Repository is the persistence contract shared by every entity type.
// FindByID returns an error matching ErrNotFound when id is unknown; Update
// and DeleteByID do the same.
type Repository[T any, ID comparable] interface {
	Create(ctx context.Context, entity T) (ID, error)
	FindByID(ctx context.Context, id ID) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity T) error
	DeleteByID(ctx context.Context, id ID) error
	Exists(ctx context.Context, id ID) (bool, error)
	Count(ctx context.Context) (int, error)
}

// AircraftRepository persists aircraft. Serials are unique; Create and
// Update return ErrConflict on a duplicate. Update also returns ErrConflict
// when the new layout lacks a seat reserved on one of the aircraft's flights.
type AircraftRepository interface {
	Repository[Aircraft, AircraftID]
	FindBySerial(ctx context.Context, serial vo.AircraftSerial) (Aircraft, error)
}

// SeatReservations is the authoritative record of taken seats. It is the only
// way to change reservation state: FlightRepository.Update never touches it.
type SeatReservations interface {
	// ReserveSeat atomically claims seat on flight. A concurrent or earlier
	// claim makes it fail with ErrSeatAlreadyReserved, and a seat missing
	// from the layout of the flight's aircraft with ErrSeatNotFound. Both
	// checks see the same state as the claim.
	ReserveSeat(ctx context.Context, flight FlightID, seat vo.SeatNumber) error
	// ReleaseSeat frees seat, failing with ErrSeatNotReserved if it was free.
	ReleaseSeat(ctx context.Context, flight FlightID, seat vo.SeatNumber) error
	ReservedSeats(ctx context.Context, flight FlightID) ([]vo.SeatNumber, error)
	IsSeatReserved(ctx context.Context, flight FlightID, seat vo.SeatNumber) (bool, error)
}

// FlightRepository persists flights and their seat reservations. Update
// returns ErrConflict when the flight's aircraft lacks a reserved seat.
type FlightRepository interface {
	Repository[Flight, FlightID]
	SeatReservations
	FindByNumber(ctx context.Context, number vo.FlightNumber) ([]Flight, error)
	FindByAircraft(ctx context.Context, aircraft AircraftID) ([]Flight, error)
}

// PassengerRepository persists passengers. Passport numbers are unique.
type PassengerRepository interface {
	Repository[Passenger, PassengerID]
	FindByPassport(ctx context.Context, passport vo.PassportNumber) (Passenger, error)
}

// TicketRepository persists tickets. Ticket numbers are unique.
type TicketRepository interface {
	Repository[Ticket, TicketID]
	FindByNumber(ctx context.Context, number vo.TicketNumber) (Ticket, error)
	FindByFlight(ctx context.Context, flight FlightID) ([]Ticket, error)
	FindByPassenger(ctx context.Context, passenger PassengerID) ([]Ticket, error)
	// UpdateStatus moves ticket id from status from to status to. It fails
	// with ErrConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id TicketID, from, to TicketStatus) error
}

// TransitionValidator decides lifecycle transitions for one status type.
type TransitionValidator[S ~string, E ~string] interface {
	Apply(ctx context.Context, current S, event E) (S, error)
}

// EventPublisher defines the contract for emitting domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
