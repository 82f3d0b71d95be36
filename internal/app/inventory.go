package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// SeatInventory answers which seats of a flight are free and claims or
// frees them. The layout comes from the flight's aircraft; the reserved set
// comes from the flight repository, which alone decides a claim.
type SeatInventory struct {
	aircraft domain.AircraftRepository
	flights  domain.FlightRepository
}

// NewSeatInventory creates an inventory over the given repositories.
func NewSeatInventory(aircraft domain.AircraftRepository, flights domain.FlightRepository) *SeatInventory {
	return &SeatInventory{aircraft: aircraft, flights: flights}
}

// Layout returns the cabin layout of flight's aircraft.
func (i *SeatInventory) Layout(ctx context.Context, flight domain.FlightID) (vo.SeatClassMap, error) {
	f, err := i.flights.FindByID(ctx, flight)
	if err != nil {
		return vo.SeatClassMap{}, err
	}
	a, err := i.aircraft.FindByID(ctx, f.AircraftID)
	if err != nil {
		return vo.SeatClassMap{}, fmt.Errorf("loading aircraft of flight %d: %w", flight, err)
	}
	return a.Layout, nil
}

// IsSeatAvailable reports whether seat exists in the layout and is not
// reserved. The answer may be stale by the time the caller acts on it.
func (i *SeatInventory) IsSeatAvailable(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) (bool, error) {
	layout, err := i.Layout(ctx, flight)
	if err != nil {
		return false, err
	}
	if !layout.Contains(seat) {
		return false, nil
	}
	reserved, err := i.flights.IsSeatReserved(ctx, flight, seat)
	if err != nil {
		return false, err
	}
	return !reserved, nil
}

// AvailableSeats returns the layout's seats that are not reserved, in
// layout order.
func (i *SeatInventory) AvailableSeats(ctx context.Context, flight domain.FlightID) ([]vo.SeatNumber, error) {
	layout, reserved, err := i.snapshot(ctx, flight)
	if err != nil {
		return nil, err
	}
	all := layout.Seats()
	out := make([]vo.SeatNumber, 0, len(all))
	for _, s := range all {
		if _, taken := reserved[s]; !taken {
			out = append(out, s)
		}
	}
	return out, nil
}

// ReservedSeats returns the reserved seats in layout order. Seats the layout
// no longer contains, if any, follow in the order the store returned them.
func (i *SeatInventory) ReservedSeats(ctx context.Context, flight domain.FlightID) ([]vo.SeatNumber, error) {
	layout, err := i.Layout(ctx, flight)
	if err != nil {
		return nil, err
	}
	stored, err := i.flights.ReservedSeats(ctx, flight)
	if err != nil {
		return nil, err
	}
	return orderByLayout(layout, stored), nil
}

// ReserveSeat claims seat on flight. It fails with ErrSeatNotFound when the
// aircraft has no such seat and with ErrSeatAlreadyReserved when another
// caller holds it.
func (i *SeatInventory) ReserveSeat(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	layout, err := i.Layout(ctx, flight)
	if err != nil {
		return err
	}
	if !layout.Contains(seat) {
		return domain.Errorf(domain.KindSeatNotFound, "seat %s does not exist on flight %d (layout %s)", seat, flight, layout)
	}
	if err := i.flights.ReserveSeat(ctx, flight, seat); err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyReserved) {
			slog.WarnContext(ctx, "seat reservation conflict", "flight_id", flight, "seat", seat.String())
		}
		return err
	}
	return nil
}

// ReleaseSeat frees seat on flight, failing with ErrSeatNotReserved if it
// was not held.
func (i *SeatInventory) ReleaseSeat(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	return i.flights.ReleaseSeat(ctx, flight, seat)
}

// ExistsFlight reports whether flight is known.
func (i *SeatInventory) ExistsFlight(ctx context.Context, flight domain.FlightID) (bool, error) {
	return i.flights.Exists(ctx, flight)
}

// FindFlightsByAircraft lists the flights operated by aircraft.
func (i *SeatInventory) FindFlightsByAircraft(ctx context.Context, aircraft domain.AircraftID) ([]domain.Flight, error) {
	return i.flights.FindByAircraft(ctx, aircraft)
}

// fitsLayout reports the first reserved seat of flight that layout lacks.
func (i *SeatInventory) fitsLayout(ctx context.Context, flight domain.FlightID, layout vo.SeatClassMap) (vo.SeatNumber, bool, error) {
	reserved, err := i.flights.ReservedSeats(ctx, flight)
	if err != nil {
		return vo.SeatNumber{}, false, err
	}
	for _, s := range reserved {
		if !layout.Contains(s) {
			return s, false, nil
		}
	}
	return vo.SeatNumber{}, true, nil
}

func (i *SeatInventory) snapshot(ctx context.Context, flight domain.FlightID) (vo.SeatClassMap, map[vo.SeatNumber]struct{}, error) {
	layout, err := i.Layout(ctx, flight)
	if err != nil {
		return vo.SeatClassMap{}, nil, err
	}
	stored, err := i.flights.ReservedSeats(ctx, flight)
	if err != nil {
		return vo.SeatClassMap{}, nil, err
	}
	reserved := make(map[vo.SeatNumber]struct{}, len(stored))
	for _, s := range stored {
		reserved[s] = struct{}{}
	}
	return layout, reserved, nil
}

func orderByLayout(layout vo.SeatClassMap, seats []vo.SeatNumber) []vo.SeatNumber {
	held := make(map[vo.SeatNumber]bool, len(seats))
	for _, s := range seats {
		held[s] = true
	}
	out := make([]vo.SeatNumber, 0, len(seats))
	for _, s := range layout.Seats() {
		if held[s] {
			out = append(out, s)
			delete(held, s)
		}
	}
	for _, s := range seats {
		if held[s] {
			out = append(out, s)
		}
	}
	return out
}
