package app

import (
	"context"
	"log/slog"

	"github.com/neomorfeo/airdesk/internal/domain"
)

// publish emits event after the change it describes has been stored. A
// failure is logged and never undoes that change.
func publish(ctx context.Context, publisher domain.EventPublisher, event domain.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "publishing domain event failed",
			"kind", string(event.Kind),
			"flight_id", event.FlightID,
			"ticket_id", event.TicketID,
			"error", err,
		)
	}
}
