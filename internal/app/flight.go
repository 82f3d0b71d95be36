package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// FlightService schedules flights and drives their lifecycle.
type FlightService struct {
	flights   domain.FlightRepository
	aircraft  domain.AircraftRepository
	tickets   *TicketService
	inventory *SeatInventory
	validator domain.TransitionValidator[domain.FlightStatus, domain.FlightEvent]
	publisher domain.EventPublisher
	reg       *vo.Registries
}

// NewFlightService creates a service with the given adapters. tickets
// cancels the bookings of a cancelled flight.
func NewFlightService(
	flights domain.FlightRepository,
	aircraft domain.AircraftRepository,
	tickets *TicketService,
	inventory *SeatInventory,
	validator domain.TransitionValidator[domain.FlightStatus, domain.FlightEvent],
	publisher domain.EventPublisher,
	reg *vo.Registries,
) *FlightService {
	return &FlightService{
		flights:   flights,
		aircraft:  aircraft,
		tickets:   tickets,
		inventory: inventory,
		validator: validator,
		publisher: publisher,
		reg:       reg,
	}
}

// Schedule validates in and stores a new flight. The aircraft must exist
// and must not already fly during the new schedule.
func (s *FlightService) Schedule(ctx context.Context, in FlightInput) (domain.Flight, error) {
	flight, err := s.build(in)
	if err != nil {
		return domain.Flight{}, err
	}
	if _, err := s.aircraft.FindByID(ctx, flight.AircraftID); err != nil {
		return domain.Flight{}, err
	}
	if err := s.checkOverlap(ctx, flight); err != nil {
		return domain.Flight{}, err
	}

	id, err := s.flights.Create(ctx, flight)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("creating flight: %w", err)
	}
	flight.ID = id
	return flight, nil
}

// Get returns a flight by id.
func (s *FlightService) Get(ctx context.Context, id domain.FlightID) (domain.Flight, error) {
	return s.flights.FindByID(ctx, id)
}

// List returns every flight.
func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.FindAll(ctx)
}

// FindByNumber returns every flight operating under number.
func (s *FlightService) FindByNumber(ctx context.Context, number string) ([]domain.Flight, error) {
	n, err := vo.ParseFlightNumber(number)
	if err != nil {
		return nil, err
	}
	return s.flights.FindByNumber(ctx, n)
}

// FindByAircraft returns the flights operated by aircraft.
func (s *FlightService) FindByAircraft(ctx context.Context, aircraft domain.AircraftID) ([]domain.Flight, error) {
	return s.inventory.FindFlightsByAircraft(ctx, aircraft)
}

// Update replaces number, aircraft, schedule and route of a flight that has
// not started boarding. Moving to another aircraft is refused while a
// reserved seat would not exist on it.
func (s *FlightService) Update(ctx context.Context, id domain.FlightID, in FlightInput) (domain.Flight, error) {
	current, err := s.flights.FindByID(ctx, id)
	if err != nil {
		return domain.Flight{}, err
	}
	if !current.Status.Editable() {
		return domain.Flight{}, domain.Errorf(domain.KindInvalidState, "flight %d is %s and can no longer change", id, current.Status)
	}

	next, err := s.build(in)
	if err != nil {
		return domain.Flight{}, err
	}
	next.ID, next.Status = current.ID, current.Status

	if next.AircraftID != current.AircraftID {
		a, err := s.aircraft.FindByID(ctx, next.AircraftID)
		if err != nil {
			return domain.Flight{}, err
		}
		seat, ok, err := s.inventory.fitsLayout(ctx, id, a.Layout)
		if err != nil {
			return domain.Flight{}, err
		}
		if !ok {
			return domain.Flight{}, domain.Errorf(domain.KindConflict,
				"aircraft %s has no seat %s reserved on flight %d", a.Serial, seat, id)
		}
	}
	if err := s.checkOverlap(ctx, next); err != nil {
		return domain.Flight{}, err
	}

	if err := s.flights.Update(ctx, next); err != nil {
		return domain.Flight{}, fmt.Errorf("updating flight: %w", err)
	}
	return next, nil
}

// Transition applies a lifecycle event to a flight. Cancelling a flight
// also cancels every ticket that still holds a seat on it.
func (s *FlightService) Transition(ctx context.Context, id domain.FlightID, event domain.FlightEvent) (domain.Flight, error) {
	flight, err := s.flights.FindByID(ctx, id)
	if err != nil {
		return domain.Flight{}, err
	}

	newStatus, err := s.validator.Apply(ctx, flight.Status, event)
	if err != nil {
		return domain.Flight{}, err
	}

	flight.Status = newStatus

	if err := s.flights.Update(ctx, flight); err != nil {
		return domain.Flight{}, fmt.Errorf("updating flight: %w", err)
	}

	publish(ctx, s.publisher, domain.NewFlightEvent(flight))

	if newStatus == domain.FlightCancelled {
		if err := s.tickets.cancelForFlight(ctx, id); err != nil {
			return flight, fmt.Errorf("cancelling tickets of flight %d: %w", id, err)
		}
	}
	return flight, nil
}

// Delete removes a flight with no tickets and no reserved seats.
func (s *FlightService) Delete(ctx context.Context, id domain.FlightID) error {
	reserved, err := s.flights.ReservedSeats(ctx, id)
	if err != nil {
		return err
	}
	if len(reserved) > 0 {
		return domain.Errorf(domain.KindConflict, "flight %d has %d reserved seats", id, len(reserved))
	}
	return s.flights.DeleteByID(ctx, id)
}

// AvailableSeats lists the free seats of a flight in layout order.
func (s *FlightService) AvailableSeats(ctx context.Context, id domain.FlightID) ([]vo.SeatNumber, error) {
	return s.inventory.AvailableSeats(ctx, id)
}

// ReservedSeats lists the taken seats of a flight in layout order.
func (s *FlightService) ReservedSeats(ctx context.Context, id domain.FlightID) ([]vo.SeatNumber, error) {
	return s.inventory.ReservedSeats(ctx, id)
}

// IsSeatAvailable reports whether seat can currently be booked.
func (s *FlightService) IsSeatAvailable(ctx context.Context, id domain.FlightID, seat string) (bool, error) {
	sn, err := vo.ParseSeatNumber(seat, s.reg.SeatClasses)
	if err != nil {
		return false, err
	}
	return s.inventory.IsSeatAvailable(ctx, id, sn)
}

// RemainingCapacity returns how many seats are still free.
func (s *FlightService) RemainingCapacity(ctx context.Context, id domain.FlightID) (int, error) {
	free, err := s.inventory.AvailableSeats(ctx, id)
	if err != nil {
		return 0, err
	}
	return len(free), nil
}

// IsFull reports whether every seat of the flight is reserved.
func (s *FlightService) IsFull(ctx context.Context, id domain.FlightID) (bool, error) {
	n, err := s.RemainingCapacity(ctx, id)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// checkOverlap refuses a schedule that overlaps another live flight of the
// same aircraft.
func (s *FlightService) checkOverlap(ctx context.Context, flight domain.Flight) error {
	others, err := s.flights.FindByAircraft(ctx, flight.AircraftID)
	if err != nil {
		return err
	}
	for _, o := range others {
		if o.ID == flight.ID || o.Status == domain.FlightCancelled {
			continue
		}
		if o.Schedule.Overlaps(flight.Schedule) {
			return domain.Errorf(domain.KindConflict,
				"aircraft %d already flies %s at %s", flight.AircraftID, o.Number, o.Schedule)
		}
	}
	return nil
}

func (s *FlightService) build(in FlightInput) (domain.Flight, error) {
	var v fieldErrors
	number, err := vo.ParseFlightNumber(in.Number)
	v.check(err)
	schedule, err := vo.ParseSchedule(in.Schedule)
	v.check(err)
	route, err := vo.ParseRoute(in.Route)
	v.check(err)
	if in.AircraftID <= 0 {
		v.result.Add("aircraftId", vo.CodeEmpty, "aircraft is required")
	}
	if err := v.err(); err != nil {
		return domain.Flight{}, err
	}
	return domain.NewFlight(number, in.AircraftID, schedule, route)
}
