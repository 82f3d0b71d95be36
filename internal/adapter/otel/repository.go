package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

const tracerName = "github.com/neomorfeo/airdesk/internal/adapter/otel"

func recordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// tracingRepository wraps the methods every repository shares. Spans are
// named "<Entity>Repository.<Method>" and carry "<entity>.id" when the id
// is known.
type tracingRepository[T any, ID ~int64] struct {
	next   domain.Repository[T, ID]
	tracer trace.Tracer
	prefix string
	idKey  string
	idOf   func(T) ID
}

func newTracingRepository[T any, ID ~int64](next domain.Repository[T, ID], entity, key string, idOf func(T) ID) tracingRepository[T, ID] {
	return tracingRepository[T, ID]{
		next:   next,
		tracer: otel.Tracer(tracerName),
		prefix: entity + "Repository.",
		idKey:  key + ".id",
		idOf:   idOf,
	}
}

func (r *tracingRepository[T, ID]) start(ctx context.Context, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, r.prefix+method, trace.WithAttributes(attrs...))
}

func (r *tracingRepository[T, ID]) id(id ID) attribute.KeyValue {
	return attribute.Int64(r.idKey, int64(id))
}

func (r *tracingRepository[T, ID]) Create(ctx context.Context, entity T) (ID, error) {
	ctx, span := r.start(ctx, "Create")
	defer span.End()

	id, err := r.next.Create(ctx, entity)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(r.id(id))
	}
	return id, err
}

func (r *tracingRepository[T, ID]) FindByID(ctx context.Context, id ID) (T, error) {
	ctx, span := r.start(ctx, "FindByID", r.id(id))
	defer span.End()

	entity, err := r.next.FindByID(ctx, id)
	recordError(span, err)
	return entity, err
}

func (r *tracingRepository[T, ID]) FindAll(ctx context.Context) ([]T, error) {
	ctx, span := r.start(ctx, "FindAll")
	defer span.End()

	all, err := r.next.FindAll(ctx)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", len(all)))
	}
	return all, err
}

func (r *tracingRepository[T, ID]) Update(ctx context.Context, entity T) error {
	ctx, span := r.start(ctx, "Update", r.id(r.idOf(entity)))
	defer span.End()

	err := r.next.Update(ctx, entity)
	recordError(span, err)
	return err
}

func (r *tracingRepository[T, ID]) DeleteByID(ctx context.Context, id ID) error {
	ctx, span := r.start(ctx, "DeleteByID", r.id(id))
	defer span.End()

	err := r.next.DeleteByID(ctx, id)
	recordError(span, err)
	return err
}

func (r *tracingRepository[T, ID]) Exists(ctx context.Context, id ID) (bool, error) {
	ctx, span := r.start(ctx, "Exists", r.id(id))
	defer span.End()

	ok, err := r.next.Exists(ctx, id)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Bool("result.exists", ok))
	}
	return ok, err
}

func (r *tracingRepository[T, ID]) Count(ctx context.Context) (int, error) {
	ctx, span := r.start(ctx, "Count")
	defer span.End()

	n, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
	} else {
		span.SetAttributes(attribute.Int("result.count", n))
	}
	return n, err
}

// TracingAircraftRepository wraps a domain.AircraftRepository with
// OpenTelemetry tracing.
type TracingAircraftRepository struct {
	tracingRepository[domain.Aircraft, domain.AircraftID]
	aircraft domain.AircraftRepository
}

var _ domain.AircraftRepository = (*TracingAircraftRepository)(nil)

// NewTracingAircraftRepository creates a tracing decorator around next.
func NewTracingAircraftRepository(next domain.AircraftRepository) *TracingAircraftRepository {
	return &TracingAircraftRepository{
		tracingRepository: newTracingRepository[domain.Aircraft, domain.AircraftID](next, "Aircraft", "aircraft",
			func(a domain.Aircraft) domain.AircraftID { return a.ID }),
		aircraft: next,
	}
}

func (r *TracingAircraftRepository) FindBySerial(ctx context.Context, serial vo.AircraftSerial) (domain.Aircraft, error) {
	ctx, span := r.start(ctx, "FindBySerial", attribute.String("aircraft.serial", serial.String()))
	defer span.End()

	a, err := r.aircraft.FindBySerial(ctx, serial)
	recordError(span, err)
	return a, err
}

// TracingPassengerRepository wraps a domain.PassengerRepository with
// OpenTelemetry tracing. Passport numbers are never put on spans.
type TracingPassengerRepository struct {
	tracingRepository[domain.Passenger, domain.PassengerID]
	passengers domain.PassengerRepository
}

var _ domain.PassengerRepository = (*TracingPassengerRepository)(nil)

// NewTracingPassengerRepository creates a tracing decorator around next.
func NewTracingPassengerRepository(next domain.PassengerRepository) *TracingPassengerRepository {
	return &TracingPassengerRepository{
		tracingRepository: newTracingRepository[domain.Passenger, domain.PassengerID](next, "Passenger", "passenger",
			func(p domain.Passenger) domain.PassengerID { return p.ID }),
		passengers: next,
	}
}

func (r *TracingPassengerRepository) FindByPassport(ctx context.Context, passport vo.PassportNumber) (domain.Passenger, error) {
	ctx, span := r.start(ctx, "FindByPassport", attribute.String("passport.country", passport.Country()))
	defer span.End()

	p, err := r.passengers.FindByPassport(ctx, passport)
	recordError(span, err)
	return p, err
}
