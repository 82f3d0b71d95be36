package http

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// Services bundles what the API routes call into.
type Services struct {
	Aircraft   *app.AircraftService
	Flights    *app.FlightService
	Passengers *app.PassengerService
	Tickets    *app.TicketService
	Registries *vo.Registries
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc Services) {
	registerAircraft(api, svc.Aircraft)
	registerFlights(api, svc.Flights)
	registerPassengers(api, svc.Passengers)
	registerTickets(api, svc.Tickets, svc.Registries)
}

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// DeleteOutput is the empty response of a successful delete.
type DeleteOutput struct{}

// toHumaError translates domain errors to Huma HTTP errors. Validation
// failures carry one detail per field error.
func toHumaError(err error) error {
	var vr *vo.ValidationResult
	if errors.As(err, &vr) {
		details := make([]error, 0, len(vr.Errors()))
		for _, e := range vr.Errors() {
			details = append(details, &huma.ErrorDetail{
				Location: "body." + e.Field,
				Message:  fmt.Sprintf("%s: %s", e.Code, e.Message),
			})
		}
		return huma.Error422UnprocessableEntity("validation failed", details...)
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	var coreErr *domain.CoreError
	if errors.As(err, &coreErr) {
		switch coreErr.Kind {
		case domain.KindNotFound, domain.KindSeatNotFound:
			return huma.Error404NotFound(coreErr.Message)
		case domain.KindConflict, domain.KindSeatAlreadyReserved, domain.KindSeatNotReserved:
			return huma.Error409Conflict(coreErr.Message)
		case domain.KindInvalidState:
			return huma.Error422UnprocessableEntity(coreErr.Message)
		}
	}

	slog.Error("request failed", "error", err)
	return huma.Error500InternalServerError("internal server error")
}
