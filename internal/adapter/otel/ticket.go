package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// TracingTicketRepository wraps a domain.TicketRepository with
// OpenTelemetry tracing.
type TracingTicketRepository struct {
	tracingRepository[domain.Ticket, domain.TicketID]
	tickets domain.TicketRepository
}

var _ domain.TicketRepository = (*TracingTicketRepository)(nil)

// NewTracingTicketRepository creates a tracing decorator around next.
func NewTracingTicketRepository(next domain.TicketRepository) *TracingTicketRepository {
	return &TracingTicketRepository{
		tracingRepository: newTracingRepository[domain.Ticket, domain.TicketID](next, "Ticket", "ticket",
			func(t domain.Ticket) domain.TicketID { return t.ID }),
		tickets: next,
	}
}

func (r *TracingTicketRepository) FindByNumber(ctx context.Context, number vo.TicketNumber) (domain.Ticket, error) {
	ctx, span := r.start(ctx, "FindByNumber", attribute.String("ticket.number", number.String()))
	defer span.End()

	t, err := r.tickets.FindByNumber(ctx, number)
	recordError(span, err)
	return t, err
}

func (r *TracingTicketRepository) FindByFlight(ctx context.Context, flight domain.FlightID) ([]domain.Ticket, error) {
	ctx, span := r.start(ctx, "FindByFlight", attribute.Int64("flight.id", int64(flight)))
	defer span.End()

	tickets, err := r.tickets.FindByFlight(ctx, flight)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(tickets)))
	}
	return tickets, err
}

func (r *TracingTicketRepository) FindByPassenger(ctx context.Context, passenger domain.PassengerID) ([]domain.Ticket, error) {
	ctx, span := r.start(ctx, "FindByPassenger", attribute.Int64("passenger.id", int64(passenger)))
	defer span.End()

	tickets, err := r.tickets.FindByPassenger(ctx, passenger)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(tickets)))
	}
	return tickets, err
}

// UpdateStatus records a lost compare-and-set as a span event, not an error.
func (r *TracingTicketRepository) UpdateStatus(ctx context.Context, id domain.TicketID, from, to domain.TicketStatus) error {
	ctx, span := r.start(ctx, "UpdateStatus", r.id(id),
		attribute.String("ticket.status.from", string(from)),
		attribute.String("ticket.status.to", string(to)),
	)
	defer span.End()

	err := r.tickets.UpdateStatus(ctx, id, from, to)
	if errors.Is(err, domain.ErrConflict) {
		span.AddEvent("status changed concurrently")
		return err
	}
	recordError(span, err)
	return err
}
