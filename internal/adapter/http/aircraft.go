package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
)

// AircraftResponse is the API representation of an aircraft.
type AircraftResponse struct {
	ID         int64  `json:"id" doc:"Unique identifier"`
	Serial     string `json:"serial" doc:"Registration serial, e.g. VNA321"`
	Model      string `json:"model" doc:"Manufacturer model"`
	Layout     string `json:"layout" doc:"Cabin layout, e.g. F:2,Y:4"`
	TotalSeats int    `json:"total_seats" doc:"Seats across all classes"`
}

func toAircraftResponse(a domain.Aircraft) AircraftResponse {
	return AircraftResponse{
		ID:         int64(a.ID),
		Serial:     a.Serial.String(),
		Model:      a.Model,
		Layout:     a.Layout.String(),
		TotalSeats: a.Layout.Total(),
	}
}

// AircraftBody describes an aircraft to register or replace.
type AircraftBody struct {
	Serial string `json:"serial" doc:"Registration serial"`
	Model  string `json:"model" doc:"Manufacturer model"`
	Layout string `json:"layout" doc:"Cabin layout, e.g. F:2,Y:4"`
}

func (b AircraftBody) input() app.AircraftInput {
	return app.AircraftInput{Serial: b.Serial, Model: b.Model, Layout: b.Layout}
}

type CreateAircraftInput struct {
	Body AircraftBody
}

type UpdateAircraftInput struct {
	ID   int64 `path:"id" doc:"Aircraft ID"`
	Body AircraftBody
}

type AircraftIDInput struct {
	ID int64 `path:"id" doc:"Aircraft ID"`
}

type ListAircraftInput struct {
	Serial string `query:"serial" required:"false" doc:"Find by registration serial"`
}

type AircraftOutput struct {
	Body AircraftResponse
}

type ListAircraftOutput struct {
	Body []AircraftResponse
}

// SeatClassResponse is one cabin of an aircraft.
type SeatClassResponse struct {
	Class string `json:"class" doc:"Seat class code"`
	Count int    `json:"count" doc:"Seats in the class"`
}

type SeatClassesOutput struct {
	Body []SeatClassResponse
}

func registerAircraft(api huma.API, svc *app.AircraftService) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-aircraft",
		Method:        http.MethodPost,
		Path:          "/api/v1/aircraft",
		Summary:       "Register an aircraft",
		Tags:          []string{"Aircraft"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateAircraftInput) (*AircraftOutput, error) {
		a, err := svc.Register(ctx, input.Body.input())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AircraftOutput{Body: toAircraftResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-aircraft",
		Method:      http.MethodGet,
		Path:        "/api/v1/aircraft",
		Summary:     "List the fleet",
		Tags:        []string{"Aircraft"},
	}, func(ctx context.Context, input *ListAircraftInput) (*ListAircraftOutput, error) {
		if input.Serial != "" {
			a, err := svc.GetBySerial(ctx, input.Serial)
			if err != nil {
				return nil, toHumaError(err)
			}
			return &ListAircraftOutput{Body: []AircraftResponse{toAircraftResponse(a)}}, nil
		}

		fleet, err := svc.List(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]AircraftResponse, len(fleet))
		for i, a := range fleet {
			resp[i] = toAircraftResponse(a)
		}
		return &ListAircraftOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-aircraft",
		Method:      http.MethodGet,
		Path:        "/api/v1/aircraft/{id}",
		Summary:     "Get an aircraft by ID",
		Tags:        []string{"Aircraft"},
	}, func(ctx context.Context, input *AircraftIDInput) (*AircraftOutput, error) {
		a, err := svc.Get(ctx, domain.AircraftID(input.ID))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AircraftOutput{Body: toAircraftResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-aircraft",
		Method:      http.MethodPut,
		Path:        "/api/v1/aircraft/{id}",
		Summary:     "Replace an aircraft's attributes",
		Tags:        []string{"Aircraft"},
	}, func(ctx context.Context, input *UpdateAircraftInput) (*AircraftOutput, error) {
		a, err := svc.Update(ctx, domain.AircraftID(input.ID), input.Body.input())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AircraftOutput{Body: toAircraftResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-aircraft",
		Method:        http.MethodDelete,
		Path:          "/api/v1/aircraft/{id}",
		Summary:       "Remove an aircraft no flight uses",
		Tags:          []string{"Aircraft"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *AircraftIDInput) (*DeleteOutput, error) {
		if err := svc.Delete(ctx, domain.AircraftID(input.ID)); err != nil {
			return nil, toHumaError(err)
		}
		return &DeleteOutput{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "aircraft-seat-classes",
		Method:      http.MethodGet,
		Path:        "/api/v1/aircraft/{id}/seat-classes",
		Summary:     "List the seat classes an aircraft offers",
		Tags:        []string{"Aircraft"},
	}, func(ctx context.Context, input *AircraftIDInput) (*SeatClassesOutput, error) {
		classes, err := svc.SeatClasses(ctx, domain.AircraftID(input.ID))
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]SeatClassResponse, len(classes))
		for i, c := range classes {
			resp[i] = SeatClassResponse{Class: c.Class.Code(), Count: c.Count}
		}
		return &SeatClassesOutput{Body: resp}, nil
	})
}
