package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/neomorfeo/airdesk/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// EventJobArgs carries a domain event through the River queue. River
// serializes it as JSON into its job table. EventID is unique per publish so
// consumers can drop redelivered jobs.
type EventJobArgs struct {
	EventID      string    `json:"event_id"`
	Event        string    `json:"event"`
	FlightID     int64     `json:"flight_id"`
	FlightNumber string    `json:"flight_number,omitempty"`
	TicketID     int64     `json:"ticket_id,omitempty"`
	TicketNumber string    `json:"ticket_number,omitempty"`
	Seat         string    `json:"seat,omitempty"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (EventJobArgs) Kind() string { return "event.published" }

// InsertOpts routes events to their own queue so a backlog never starves
// other job kinds.
func (EventJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueEvents, MaxAttempts: eventMaxAttempts}
}

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a domain event as an async job in River.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	_, err := p.client.Insert(ctx, newEventJobArgs(event), nil)
	if err != nil {
		return fmt.Errorf("enqueuing %s job: %w", event.Kind, err)
	}
	return nil
}

func newEventJobArgs(event domain.Event) EventJobArgs {
	return EventJobArgs{
		EventID:      uuid.NewString(),
		Event:        string(event.Kind),
		FlightID:     int64(event.FlightID),
		FlightNumber: event.FlightNumber,
		TicketID:     int64(event.TicketID),
		TicketNumber: event.TicketNumber,
		Seat:         event.Seat,
		Status:       event.Status,
		OccurredAt:   event.OccurredAt,
	}
}
