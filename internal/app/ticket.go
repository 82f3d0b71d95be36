package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
	"github.com/neomorfeo/airdesk/internal/search"
)

// TicketService books seats and drives the ticket lifecycle. A ticket that
// holds a seat always has a matching reservation: booking claims the seat
// before the ticket is stored, and cancelling frees it before the status
// changes.
type TicketService struct {
	tickets    domain.TicketRepository
	flights    domain.FlightRepository
	passengers domain.PassengerRepository
	inventory  *SeatInventory
	validator  domain.TransitionValidator[domain.TicketStatus, domain.TicketEvent]
	publisher  domain.EventPublisher
	reg        *vo.Registries
	clock      func() time.Time
}

// NewTicketService creates a service with the given adapters.
func NewTicketService(
	tickets domain.TicketRepository,
	flights domain.FlightRepository,
	passengers domain.PassengerRepository,
	inventory *SeatInventory,
	validator domain.TransitionValidator[domain.TicketStatus, domain.TicketEvent],
	publisher domain.EventPublisher,
	reg *vo.Registries,
) *TicketService {
	return &TicketService{
		tickets:    tickets,
		flights:    flights,
		passengers: passengers,
		inventory:  inventory,
		validator:  validator,
		publisher:  publisher,
		reg:        reg,
		clock:      time.Now,
	}
}

// Book reserves in.Seat on the flight and issues a ticket for it. A seat
// taken by someone else fails with ErrSeatAlreadyReserved; the caller should
// offer the current free seats rather than retry the same one.
func (s *TicketService) Book(ctx context.Context, in BookingInput) (domain.Ticket, error) {
	var v fieldErrors
	if in.FlightID <= 0 {
		v.result.Add("flightId", vo.CodeEmpty, "flight is required")
	}
	if in.PassengerID <= 0 {
		v.result.Add("passengerId", vo.CodeEmpty, "passenger is required")
	}
	seat, err := vo.ParseSeatNumber(in.Seat, s.reg.SeatClasses)
	v.check(err)
	price, err := vo.ParsePrice(in.Price, s.reg.Currencies)
	v.check(err)
	if err := v.err(); err != nil {
		return domain.Ticket{}, err
	}

	flight, err := s.flights.FindByID(ctx, in.FlightID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if !flight.Status.Bookable() {
		return domain.Ticket{}, domain.Errorf(domain.KindInvalidState, "flight %s (%d) is %s and no longer sells seats", flight.Number, flight.ID, flight.Status)
	}
	if _, err := s.passengers.FindByID(ctx, in.PassengerID); err != nil {
		return domain.Ticket{}, err
	}

	bookedAt := s.clock().UTC()
	provisional, err := vo.NewTicketNumber(flight.Number, bookedAt, 0)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := domain.NewTicket(provisional, flight.ID, in.PassengerID, seat, price, bookedAt)
	if err != nil {
		return domain.Ticket{}, err
	}

	if err := s.inventory.ReserveSeat(ctx, flight.ID, seat); err != nil {
		return domain.Ticket{}, err
	}

	ticket, err = issueTicket(ctx, s.tickets, flight, ticket)
	if err != nil {
		if rerr := s.flights.ReleaseSeat(ctx, flight.ID, seat); rerr != nil {
			slog.ErrorContext(ctx, "releasing seat after failed booking", "flight_id", flight.ID, "seat", seat.String(), "error", rerr)
		} else {
			slog.WarnContext(ctx, "booking failed, seat released", "flight_id", flight.ID, "seat", seat.String(), "error", err)
		}
		return domain.Ticket{}, fmt.Errorf("issuing ticket: %w", err)
	}

	publish(ctx, s.publisher, domain.NewTicketEvent(ticket))
	return ticket, nil
}

// Cancel cancels a ticket and frees its seat.
func (s *TicketService) Cancel(ctx context.Context, id domain.TicketID) (domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	return s.cancel(ctx, ticket)
}

// CheckIn moves a booked ticket to checked in while the flight has not left.
func (s *TicketService) CheckIn(ctx context.Context, id domain.TicketID) (domain.Ticket, error) {
	return s.transition(ctx, id, domain.TicketEventCheckIn, func(f domain.Flight) bool {
		return f.Status.Bookable() || f.Status == domain.FlightBoarding
	})
}

// Board moves a checked-in ticket to boarded while the flight is boarding.
func (s *TicketService) Board(ctx context.Context, id domain.TicketID) (domain.Ticket, error) {
	return s.transition(ctx, id, domain.TicketEventBoard, func(f domain.Flight) bool {
		return f.Status == domain.FlightBoarding
	})
}

// Refund marks a cancelled ticket as refunded.
func (s *TicketService) Refund(ctx context.Context, id domain.TicketID) (domain.Ticket, error) {
	return s.transition(ctx, id, domain.TicketEventRefund, nil)
}

// Get returns a ticket by id.
func (s *TicketService) Get(ctx context.Context, id domain.TicketID) (domain.Ticket, error) {
	return s.tickets.FindByID(ctx, id)
}

// GetByNumber returns the ticket issued under number.
func (s *TicketService) GetByNumber(ctx context.Context, number string) (domain.Ticket, error) {
	n, err := vo.ParseTicketNumber(number)
	if err != nil {
		return domain.Ticket{}, err
	}
	return s.tickets.FindByNumber(ctx, n)
}

// List returns every ticket.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.FindAll(ctx)
}

// ForFlight returns the tickets sold on flight.
func (s *TicketService) ForFlight(ctx context.Context, flight domain.FlightID) ([]domain.Ticket, error) {
	return s.tickets.FindByFlight(ctx, flight)
}

// ForPassenger returns the tickets held by passenger.
func (s *TicketService) ForPassenger(ctx context.Context, passenger domain.PassengerID) ([]domain.Ticket, error) {
	return s.tickets.FindByPassenger(ctx, passenger)
}

// Search returns the tickets matching every filter of b, ordered by its
// last sort directive.
func (s *TicketService) Search(ctx context.Context, b *search.Builder) ([]domain.Ticket, error) {
	q, err := b.Build()
	if err != nil {
		return nil, err
	}
	all, err := s.tickets.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return q.Apply(all), nil
}

// cancel moves the ticket out of its seat-holding state with a
// compare-and-set, then releases the seat. Only the caller that wins the
// status change releases, so a stale snapshot never frees a seat that was
// booked again since. If the release fails the old status is restored.
func (s *TicketService) cancel(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	next, err := s.validator.Apply(ctx, ticket.Status, domain.TicketEventCancel)
	if err != nil {
		return domain.Ticket{}, err
	}

	prev := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, prev, next); err != nil {
		return domain.Ticket{}, fmt.Errorf("cancelling ticket %s: %w", ticket.Number, err)
	}
	ticket.Status = next

	if err := s.inventory.ReleaseSeat(ctx, ticket.FlightID, ticket.Seat); err != nil {
		if !errors.Is(err, domain.ErrSeatNotReserved) {
			if rerr := s.tickets.UpdateStatus(ctx, ticket.ID, next, prev); rerr != nil {
				slog.ErrorContext(ctx, "restoring ticket status after failed release", "ticket_id", ticket.ID, "status", string(prev), "error", rerr)
			}
			return domain.Ticket{}, fmt.Errorf("releasing seat %s: %w", ticket.Seat, err)
		}
		slog.WarnContext(ctx, "cancelled ticket had no reservation", "ticket_id", ticket.ID, "seat", ticket.Seat.String())
	}

	publish(ctx, s.publisher, domain.NewTicketEvent(ticket))
	return ticket, nil
}

// cancelForFlight cancels every ticket on flight that still holds a seat.
// It keeps going after a failure and reports all of them.
func (s *TicketService) cancelForFlight(ctx context.Context, flight domain.FlightID) error {
	tickets, err := s.tickets.FindByFlight(ctx, flight)
	if err != nil {
		return err
	}
	var errs []error
	for _, t := range tickets {
		if !t.Status.HoldsSeat() {
			continue
		}
		if _, err := s.cancel(ctx, t); err != nil {
			errs = append(errs, fmt.Errorf("ticket %s: %w", t.Number, err))
		}
	}
	return errors.Join(errs...)
}

// transition applies event to the ticket. flightOpen, when set, must accept
// the ticket's flight.
func (s *TicketService) transition(ctx context.Context, id domain.TicketID, event domain.TicketEvent, flightOpen func(domain.Flight) bool) (domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}

	newStatus, err := s.validator.Apply(ctx, ticket.Status, event)
	if err != nil {
		return domain.Ticket{}, err
	}

	if flightOpen != nil {
		flight, err := s.flights.FindByID(ctx, ticket.FlightID)
		if err != nil {
			return domain.Ticket{}, err
		}
		if !flightOpen(flight) {
			return domain.Ticket{}, domain.Errorf(domain.KindInvalidState,
				"cannot %s ticket %s while flight %s is %s", event, ticket.Number, flight.Number, flight.Status)
		}
	}

	if err := s.tickets.UpdateStatus(ctx, ticket.ID, ticket.Status, newStatus); err != nil {
		return domain.Ticket{}, fmt.Errorf("updating ticket: %w", err)
	}
	ticket.Status = newStatus

	publish(ctx, s.publisher, domain.NewTicketEvent(ticket))
	return ticket, nil
}
