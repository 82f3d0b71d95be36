package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
)

// PassengerResponse is the API representation of a passenger.
type PassengerResponse struct {
	ID       int64  `json:"id" doc:"Unique identifier"`
	Name     string `json:"name" doc:"Full name"`
	Passport string `json:"passport" doc:"Passport as COUNTRY:NUMBER"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func toPassengerResponse(p domain.Passenger) PassengerResponse {
	return PassengerResponse{
		ID:       int64(p.ID),
		Name:     p.Name,
		Passport: p.Passport.String(),
		Email:    p.Contact.Email(),
		Phone:    p.Contact.Phone(),
		Address:  p.Contact.Address(),
	}
}

// PassengerBody describes a passenger to register or replace.
type PassengerBody struct {
	Name     string `json:"name" doc:"Full name"`
	Passport string `json:"passport" doc:"Passport as COUNTRY:NUMBER, e.g. VNM:B1234567"`
	Contact  string `json:"contact" doc:"email|phone|address"`
}

func (b PassengerBody) input() app.PassengerInput {
	return app.PassengerInput{Name: b.Name, Passport: b.Passport, Contact: b.Contact}
}

type CreatePassengerInput struct {
	Body PassengerBody
}

type UpdatePassengerInput struct {
	ID   int64 `path:"id" doc:"Passenger ID"`
	Body PassengerBody
}

type PassengerIDInput struct {
	ID int64 `path:"id" doc:"Passenger ID"`
}

type ListPassengersInput struct {
	Passport string `query:"passport" required:"false" doc:"Find by passport"`
}

type PassengerOutput struct {
	Body PassengerResponse
}

type ListPassengersOutput struct {
	Body []PassengerResponse
}

func registerPassengers(api huma.API, svc *app.PassengerService) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-passenger",
		Method:        http.MethodPost,
		Path:          "/api/v1/passengers",
		Summary:       "Register a passenger",
		Tags:          []string{"Passengers"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreatePassengerInput) (*PassengerOutput, error) {
		p, err := svc.Register(ctx, input.Body.input())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PassengerOutput{Body: toPassengerResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-passengers",
		Method:      http.MethodGet,
		Path:        "/api/v1/passengers",
		Summary:     "List passengers",
		Tags:        []string{"Passengers"},
	}, func(ctx context.Context, input *ListPassengersInput) (*ListPassengersOutput, error) {
		if input.Passport != "" {
			p, err := svc.GetByPassport(ctx, input.Passport)
			if err != nil {
				return nil, toHumaError(err)
			}
			return &ListPassengersOutput{Body: []PassengerResponse{toPassengerResponse(p)}}, nil
		}

		all, err := svc.List(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]PassengerResponse, len(all))
		for i, p := range all {
			resp[i] = toPassengerResponse(p)
		}
		return &ListPassengersOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-passenger",
		Method:      http.MethodGet,
		Path:        "/api/v1/passengers/{id}",
		Summary:     "Get a passenger by ID",
		Tags:        []string{"Passengers"},
	}, func(ctx context.Context, input *PassengerIDInput) (*PassengerOutput, error) {
		p, err := svc.Get(ctx, domain.PassengerID(input.ID))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PassengerOutput{Body: toPassengerResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-passenger",
		Method:      http.MethodPut,
		Path:        "/api/v1/passengers/{id}",
		Summary:     "Replace a passenger's details",
		Tags:        []string{"Passengers"},
	}, func(ctx context.Context, input *UpdatePassengerInput) (*PassengerOutput, error) {
		p, err := svc.Update(ctx, domain.PassengerID(input.ID), input.Body.input())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PassengerOutput{Body: toPassengerResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-passenger",
		Method:        http.MethodDelete,
		Path:          "/api/v1/passengers/{id}",
		Summary:       "Remove a passenger with no tickets",
		Tags:          []string{"Passengers"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *PassengerIDInput) (*DeleteOutput, error) {
		if err := svc.Delete(ctx, domain.PassengerID(input.ID)); err != nil {
			return nil, toHumaError(err)
		}
		return &DeleteOutput{}, nil
	})
}
