package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// FlightResponse is the API representation of a flight.
type FlightResponse struct {
	ID         int64  `json:"id" doc:"Unique identifier"`
	Number     string `json:"number" doc:"Flight number, e.g. VN123"`
	AircraftID int64  `json:"aircraft_id" doc:"Operating aircraft"`
	Schedule   string `json:"schedule" doc:"Canonical departure|arrival in UTC"`
	Departure  string `json:"departure" doc:"Departure timestamp (ISO 8601)"`
	Arrival    string `json:"arrival" doc:"Arrival timestamp (ISO 8601)"`
	Route      string `json:"route" doc:"Canonical route, e.g. Hanoi(HAN)-Ho Chi Minh City(SGN)"`
	Status     string `json:"status" doc:"Lifecycle state"`
}

func toFlightResponse(f domain.Flight) FlightResponse {
	return FlightResponse{
		ID:         int64(f.ID),
		Number:     f.Number.String(),
		AircraftID: int64(f.AircraftID),
		Schedule:   f.Schedule.String(),
		Departure:  formatTime(f.Schedule.Departure()),
		Arrival:    formatTime(f.Schedule.Arrival()),
		Route:      f.Route.String(),
		Status:     string(f.Status),
	}
}

// FlightBody describes a flight to schedule or replace.
type FlightBody struct {
	Number     string `json:"number" doc:"Flight number"`
	AircraftID int64  `json:"aircraft_id" doc:"Operating aircraft"`
	Schedule   string `json:"schedule" doc:"departure|arrival, e.g. 2025-06-01 08:00|2025-06-01 10:15"`
	Route      string `json:"route" doc:"Origin(CODE)-Destination(CODE)"`
}

func (b FlightBody) input() app.FlightInput {
	return app.FlightInput{
		Number:     b.Number,
		AircraftID: domain.AircraftID(b.AircraftID),
		Schedule:   b.Schedule,
		Route:      b.Route,
	}
}

type CreateFlightInput struct {
	Body FlightBody
}

type UpdateFlightInput struct {
	ID   int64 `path:"id" doc:"Flight ID"`
	Body FlightBody
}

type FlightIDInput struct {
	ID int64 `path:"id" doc:"Flight ID"`
}

type ListFlightsInput struct {
	Number     string `query:"number" required:"false" doc:"Filter by flight number"`
	AircraftID int64  `query:"aircraft_id" required:"false" doc:"Filter by operating aircraft"`
}

type FlightOutput struct {
	Body FlightResponse
}

type ListFlightsOutput struct {
	Body []FlightResponse
}

type FlightTransitionInput struct {
	ID   int64 `path:"id" doc:"Flight ID"`
	Body struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"delay,resume,board,depart,arrive,cancel"`
	}
}

// SeatMapResponse is the seat inventory of a flight.
type SeatMapResponse struct {
	Available []string `json:"available" doc:"Free seats in layout order"`
	Reserved  []string `json:"reserved" doc:"Taken seats in layout order"`
	Remaining int      `json:"remaining" doc:"Number of free seats"`
	Full      bool     `json:"full" doc:"Whether every seat is taken"`
}

type SeatMapOutput struct {
	Body SeatMapResponse
}

type SeatAvailabilityInput struct {
	ID   int64  `path:"id" doc:"Flight ID"`
	Seat string `path:"seat" doc:"Seat number, e.g. Y12"`
}

type SeatAvailabilityOutput struct {
	Body struct {
		Seat      string `json:"seat"`
		Available bool   `json:"available"`
	}
}

func toFlightResponses(flights []domain.Flight) []FlightResponse {
	resp := make([]FlightResponse, len(flights))
	for i, f := range flights {
		resp[i] = toFlightResponse(f)
	}
	return resp
}

func seatStrings(seats []vo.SeatNumber) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.String()
	}
	return out
}

func registerFlights(api huma.API, svc *app.FlightService) {
	huma.Register(api, huma.Operation{
		OperationID:   "schedule-flight",
		Method:        http.MethodPost,
		Path:          "/api/v1/flights",
		Summary:       "Schedule a flight",
		Tags:          []string{"Flights"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateFlightInput) (*FlightOutput, error) {
		f, err := svc.Schedule(ctx, input.Body.input())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &FlightOutput{Body: toFlightResponse(f)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-flights",
		Method:      http.MethodGet,
		Path:        "/api/v1/flights",
		Summary:     "List flights",
		Tags:        []string{"Flights"},
	}, func(ctx context.Context, input *ListFlightsInput) (*ListFlightsOutput, error) {
		var (
			flights []domain.Flight
			err     error
		)
		switch {
		case input.Number != "":
			flights, err = svc.FindByNumber(ctx, input.Number)
		case input.AircraftID != 0:
			flights, err = svc.FindByAircraft(ctx, domain.AircraftID(input.AircraftID))
		default:
			flights, err = svc.List(ctx)
		}
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListFlightsOutput{Body: toFlightResponses(flights)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-flight",
		Method:      http.MethodGet,
		Path:        "/api/v1/flights/{id}",
		Summary:     "Get a flight by ID",
		Tags:        []string{"Flights"},
	}, func(ctx context.Context, input *FlightIDInput) (*FlightOutput, error) {
		f, err := svc.Get(ctx, domain.FlightID(input.ID))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &FlightOutput{Body: toFlightResponse(f)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-flight",
		Method:      http.MethodPut,
		Path:        "/api/v1/flights/{id}",
		Summary:     "Replace a flight's number, aircraft, schedule and route",
		Tags:        []string{"Flights"},
	}, func(ctx context.Context, input *UpdateFlightInput) (*FlightOutput, error) {
		f, err := svc.Update(ctx, domain.FlightID(input.ID), input.Body.input())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &FlightOutput{Body: toFlightResponse(f)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-flight",
		Method:        http.MethodDelete,
		Path:          "/api/v1/flights/{id}",
		Summary:       "Remove a flight with no reservations",
		Tags:          []string{"Flights"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *FlightIDInput) (*DeleteOutput, error) {
		if err := svc.Delete(ctx, domain.FlightID(input.ID)); err != nil {
			return nil, toHumaError(err)
		}
		return &DeleteOutput{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-flight",
		Method:      http.MethodPost,
		Path:        "/api/v1/flights/{id}/events",
		Summary:     "Trigger a flight lifecycle event",
		Tags:        []string{"Flights"},
	}, func(ctx context.Context, input *FlightTransitionInput) (*FlightOutput, error) {
		f, err := svc.Transition(ctx, domain.FlightID(input.ID), domain.FlightEvent(input.Body.Event))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &FlightOutput{Body: toFlightResponse(f)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "flight-seats",
		Method:      http.MethodGet,
		Path:        "/api/v1/flights/{id}/seats",
		Summary:     "Show the seat inventory of a flight",
		Tags:        []string{"Flights"},
	}, func(ctx context.Context, input *FlightIDInput) (*SeatMapOutput, error) {
		id := domain.FlightID(input.ID)
		free, err := svc.AvailableSeats(ctx, id)
		if err != nil {
			return nil, toHumaError(err)
		}
		taken, err := svc.ReservedSeats(ctx, id)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SeatMapOutput{Body: SeatMapResponse{
			Available: seatStrings(free),
			Reserved:  seatStrings(taken),
			Remaining: len(free),
			Full:      len(free) == 0,
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "flight-seat-availability",
		Method:      http.MethodGet,
		Path:        "/api/v1/flights/{id}/seats/{seat}",
		Summary:     "Check whether one seat is free",
		Tags:        []string{"Flights"},
	}, func(ctx context.Context, input *SeatAvailabilityInput) (*SeatAvailabilityOutput, error) {
		ok, err := svc.IsSeatAvailable(ctx, domain.FlightID(input.ID), input.Seat)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &SeatAvailabilityOutput{}
		out.Body.Seat = input.Seat
		out.Body.Available = ok
		return out, nil
	})
}
