package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// TracingFlightRepository wraps a domain.FlightRepository with
// OpenTelemetry tracing. Seat claims and releases are also counted in
// airdesk.seat.operations, labelled by operation and outcome.
type TracingFlightRepository struct {
	tracingRepository[domain.Flight, domain.FlightID]
	flights domain.FlightRepository
	seatOps metric.Int64Counter
}

var _ domain.FlightRepository = (*TracingFlightRepository)(nil)

// NewTracingFlightRepository creates a tracing decorator around next.
func NewTracingFlightRepository(next domain.FlightRepository) *TracingFlightRepository {
	seatOps, err := otel.Meter(tracerName).Int64Counter("airdesk.seat.operations",
		metric.WithDescription("Seat reservations and releases by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		otel.Handle(err)
	}
	return &TracingFlightRepository{
		tracingRepository: newTracingRepository[domain.Flight, domain.FlightID](next, "Flight", "flight",
			func(f domain.Flight) domain.FlightID { return f.ID }),
		flights: next,
		seatOps: seatOps,
	}
}

func (r *TracingFlightRepository) FindByNumber(ctx context.Context, number vo.FlightNumber) ([]domain.Flight, error) {
	ctx, span := r.start(ctx, "FindByNumber", attribute.String("flight.number", number.String()))
	defer span.End()

	flights, err := r.flights.FindByNumber(ctx, number)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(flights)))
	}
	return flights, err
}

func (r *TracingFlightRepository) FindByAircraft(ctx context.Context, aircraft domain.AircraftID) ([]domain.Flight, error) {
	ctx, span := r.start(ctx, "FindByAircraft", attribute.Int64("aircraft.id", int64(aircraft)))
	defer span.End()

	flights, err := r.flights.FindByAircraft(ctx, aircraft)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(flights)))
	}
	return flights, err
}

func (r *TracingFlightRepository) ReserveSeat(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	ctx, span := r.start(ctx, "ReserveSeat", r.id(flight), attribute.String("seat.number", seat.String()))
	defer span.End()

	err := r.flights.ReserveSeat(ctx, flight, seat)
	// A lost race is an expected answer, not a failed span.
	if err != nil && !errors.Is(err, domain.ErrSeatAlreadyReserved) {
		recordError(span, err)
	}
	r.countSeatOp(ctx, "reserve", err)
	return err
}

func (r *TracingFlightRepository) ReleaseSeat(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	ctx, span := r.start(ctx, "ReleaseSeat", r.id(flight), attribute.String("seat.number", seat.String()))
	defer span.End()

	err := r.flights.ReleaseSeat(ctx, flight, seat)
	recordError(span, err)
	r.countSeatOp(ctx, "release", err)
	return err
}

func (r *TracingFlightRepository) ReservedSeats(ctx context.Context, flight domain.FlightID) ([]vo.SeatNumber, error) {
	ctx, span := r.start(ctx, "ReservedSeats", r.id(flight))
	defer span.End()

	seats, err := r.flights.ReservedSeats(ctx, flight)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(seats)))
	}
	return seats, err
}

func (r *TracingFlightRepository) IsSeatReserved(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) (bool, error) {
	ctx, span := r.start(ctx, "IsSeatReserved", r.id(flight), attribute.String("seat.number", seat.String()))
	defer span.End()

	reserved, err := r.flights.IsSeatReserved(ctx, flight, seat)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Bool("result.reserved", reserved))
	}
	return reserved, err
}

func (r *TracingFlightRepository) countSeatOp(ctx context.Context, op string, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrSeatAlreadyReserved):
		outcome = "conflict"
	case errors.Is(err, domain.ErrSeatNotReserved):
		outcome = "not_reserved"
	case errors.Is(err, domain.ErrSeatNotFound):
		outcome = "no_such_seat"
	case err != nil:
		outcome = "error"
	}
	r.seatOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}
