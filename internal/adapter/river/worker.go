package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// EventWorker processes domain event jobs from the River queue. It logs each
// event; ticket events carry the seat and ticket number, flight events only
// the new status.
type EventWorker struct {
	river.WorkerDefaults[EventJobArgs]
}

// Work processes a single event job.
func (w *EventWorker) Work(ctx context.Context, job *river.Job[EventJobArgs]) error {
	attrs := []any{
		"event", job.Args.Event,
		"event_id", job.Args.EventID,
		"flight_id", job.Args.FlightID,
		"status", job.Args.Status,
		"job_id", job.ID,
		"attempt", job.Attempt,
	}
	if job.Args.TicketID != 0 {
		attrs = append(attrs,
			"ticket_id", job.Args.TicketID,
			"ticket_number", job.Args.TicketNumber,
			"seat", job.Args.Seat,
		)
	} else {
		attrs = append(attrs, "flight_number", job.Args.FlightNumber)
	}
	slog.InfoContext(ctx, "processing event", attrs...)
	return nil
}
