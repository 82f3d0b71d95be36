package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
	"github.com/neomorfeo/airdesk/internal/search"
)

// TicketResponse is the API representation of a ticket.
type TicketResponse struct {
	ID          int64  `json:"id" doc:"Unique identifier"`
	Number      string `json:"number" doc:"Ticket number, e.g. VN123-20250601-0001"`
	FlightID    int64  `json:"flight_id"`
	PassengerID int64  `json:"passenger_id"`
	Seat        string `json:"seat" doc:"Seat number, e.g. Y12"`
	Price       string `json:"price" doc:"Price as AMOUNT:CURRENCY"`
	Status      string `json:"status" doc:"Lifecycle state"`
	BookedAt    string `json:"booked_at" doc:"Booking timestamp (ISO 8601)"`
}

func toTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          int64(t.ID),
		Number:      t.Number.String(),
		FlightID:    int64(t.FlightID),
		PassengerID: int64(t.PassengerID),
		Seat:        t.Seat.String(),
		Price:       t.Price.String(),
		Status:      string(t.Status),
		BookedAt:    formatTime(t.BookedAt),
	}
}

type BookTicketInput struct {
	Body struct {
		FlightID    int64  `json:"flight_id" doc:"Flight to fly"`
		PassengerID int64  `json:"passenger_id" doc:"Travelling passenger"`
		Seat        string `json:"seat" doc:"Seat number, e.g. Y12"`
		Price       string `json:"price" doc:"Fare as AMOUNT:CURRENCY, e.g. 150.00:USD"`
	}
}

type TicketIDInput struct {
	ID int64 `path:"id" doc:"Ticket ID"`
}

type TicketByNumberInput struct {
	Number string `path:"number" doc:"Ticket number"`
}

type SearchTicketsInput struct {
	MinPrice    string `query:"min_price" required:"false" doc:"Lowest price, inclusive (AMOUNT:CURRENCY)"`
	MaxPrice    string `query:"max_price" required:"false" doc:"Highest price, inclusive (AMOUNT:CURRENCY)"`
	FlightID    int64  `query:"flight_id" required:"false" doc:"Only tickets on this flight"`
	PassengerID int64  `query:"passenger_id" required:"false" doc:"Only tickets of this passenger"`
	Status      string `query:"status" required:"false" doc:"Only tickets in this state"`
	Sort        string `query:"sort" required:"false" doc:"Sort key: id, number, price, booked_at, seat"`
	Order       string `query:"order" required:"false" default:"asc" enum:"asc,desc" doc:"Sort direction"`
	Limit       int    `query:"limit" required:"false" default:"0" doc:"Max results, 0 for all"`
}

type TicketOutput struct {
	Body TicketResponse
}

type ListTicketsOutput struct {
	Body []TicketResponse
}

type TicketTransitionInput struct {
	ID   int64 `path:"id" doc:"Ticket ID"`
	Body struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"check_in,board,cancel,refund"`
	}
}

// searchBuilder turns query parameters into a ticket query.
func searchBuilder(input *SearchTicketsInput, reg *vo.Registries) (*search.Builder, error) {
	b := search.NewBuilder(reg.SeatClasses)
	if input.MinPrice != "" || input.MaxPrice != "" {
		var v vo.ValidationResult
		minimum, err := vo.ParsePrice(input.MinPrice, reg.Currencies)
		mergeInto(&v, err)
		maximum, err := vo.ParsePrice(input.MaxPrice, reg.Currencies)
		mergeInto(&v, err)
		if err := v.Err(); err != nil {
			return nil, err
		}
		b.WithPriceRange(minimum, maximum)
	}
	if input.FlightID != 0 {
		b.WithFlight(domain.FlightID(input.FlightID))
	}
	if input.PassengerID != 0 {
		b.WithPassenger(domain.PassengerID(input.PassengerID))
	}
	if input.Status != "" {
		status, ok := domain.ParseTicketStatus(input.Status)
		if !ok {
			var v vo.ValidationResult
			v.Add("status", vo.CodeInvalidFormat, "unknown ticket status "+input.Status)
			return nil, v.Err()
		}
		b.WithStatus(status)
	}
	if input.Sort != "" {
		b.SortBy(search.SortKey(input.Sort), search.Direction(input.Order))
	}
	return b.Limit(input.Limit), nil
}

func mergeInto(v *vo.ValidationResult, err error) {
	var vr *vo.ValidationResult
	if errors.As(err, &vr) {
		v.Merge(*vr)
	}
}

func registerTickets(api huma.API, svc *app.TicketService, reg *vo.Registries) {
	huma.Register(api, huma.Operation{
		OperationID:   "book-ticket",
		Method:        http.MethodPost,
		Path:          "/api/v1/tickets",
		Summary:       "Book a seat and issue a ticket",
		Tags:          []string{"Tickets"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *BookTicketInput) (*TicketOutput, error) {
		t, err := svc.Book(ctx, app.BookingInput{
			FlightID:    domain.FlightID(input.Body.FlightID),
			PassengerID: domain.PassengerID(input.Body.PassengerID),
			Seat:        input.Body.Seat,
			Price:       input.Body.Price,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TicketOutput{Body: toTicketResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "search-tickets",
		Method:      http.MethodGet,
		Path:        "/api/v1/tickets",
		Summary:     "Search tickets",
		Description: "Every given filter must match. Without filters all tickets are returned.",
		Tags:        []string{"Tickets"},
	}, func(ctx context.Context, input *SearchTicketsInput) (*ListTicketsOutput, error) {
		b, err := searchBuilder(input, reg)
		if err != nil {
			return nil, toHumaError(err)
		}
		tickets, err := svc.Search(ctx, b)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]TicketResponse, len(tickets))
		for i, t := range tickets {
			resp[i] = toTicketResponse(t)
		}
		return &ListTicketsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-ticket",
		Method:      http.MethodGet,
		Path:        "/api/v1/tickets/{id}",
		Summary:     "Get a ticket by ID",
		Tags:        []string{"Tickets"},
	}, func(ctx context.Context, input *TicketIDInput) (*TicketOutput, error) {
		t, err := svc.Get(ctx, domain.TicketID(input.ID))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TicketOutput{Body: toTicketResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-ticket-by-number",
		Method:      http.MethodGet,
		Path:        "/api/v1/ticket-numbers/{number}",
		Summary:     "Get a ticket by its number",
		Tags:        []string{"Tickets"},
	}, func(ctx context.Context, input *TicketByNumberInput) (*TicketOutput, error) {
		t, err := svc.GetByNumber(ctx, input.Number)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TicketOutput{Body: toTicketResponse(t)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-ticket",
		Method:      http.MethodPost,
		Path:        "/api/v1/tickets/{id}/events",
		Summary:     "Trigger a ticket lifecycle event",
		Tags:        []string{"Tickets"},
	}, func(ctx context.Context, input *TicketTransitionInput) (*TicketOutput, error) {
		id := domain.TicketID(input.ID)
		var (
			t   domain.Ticket
			err error
		)
		switch domain.TicketEvent(input.Body.Event) {
		case domain.TicketEventCheckIn:
			t, err = svc.CheckIn(ctx, id)
		case domain.TicketEventBoard:
			t, err = svc.Board(ctx, id)
		case domain.TicketEventCancel:
			t, err = svc.Cancel(ctx, id)
		case domain.TicketEventRefund:
			t, err = svc.Refund(ctx, id)
		default:
			return nil, huma.Error422UnprocessableEntity("unknown ticket event " + input.Body.Event)
		}
		if err != nil {
			return nil, toHumaError(err)
		}
		return &TicketOutput{Body: toTicketResponse(t)}, nil
	})
}
