package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/neomorfeo/airdesk/internal/adapter/fsm"
	adapter "github.com/neomorfeo/airdesk/internal/adapter/http"
	"github.com/neomorfeo/airdesk/internal/adapter/sqlite"
	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// noopPublisher is a no-op EventPublisher for tests.
type noopPublisher struct{}

func (p *noopPublisher) Publish(_ context.Context, _ domain.Event) error {
	return nil
}

// newTestServer creates a full-stack httptest.Server with SQLite in-memory.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	reg := vo.DefaultRegistries()
	store, err := sqlite.New(":memory:", reg)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	pub := &noopPublisher{}
	inventory := app.NewSeatInventory(store.Aircraft(), store.Flights())
	tickets := app.NewTicketService(store.Tickets(), store.Flights(), store.Passengers(), inventory, fsm.NewTicket(), pub, reg)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("airdesk", "0.1.0"))
	adapter.Register(api, adapter.Services{
		Aircraft:   app.NewAircraftService(store.Aircraft(), inventory, reg),
		Flights:    app.NewFlightService(store.Flights(), store.Aircraft(), tickets, inventory, fsm.NewFlight(), pub, reg),
		Passengers: app.NewPassengerService(store.Passengers(), store.Tickets(), reg),
		Tickets:    tickets,
		Registries: reg,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

// doRequest performs an HTTP request with context (avoids noctx linter).
func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}

	return resp
}

// mustDo performs a request, checks the status and decodes the body into out
// when out is non-nil.
func mustDo(t *testing.T, method, url, body string, want int, out any) {
	t.Helper()

	resp := doRequest(t, method, url, body)
	defer resp.Body.Close()

	if resp.StatusCode != want {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status = %d, want %d (body %s)", method, url, resp.StatusCode, want, raw)
	}
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s %s: %v", method, url, err)
	}
}

type problem struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Message  string `json:"message"`
		Location string `json:"location"`
	} `json:"errors"`
}

// fleet is one aircraft F:2,Y:4, a morning flight on it and a passenger.
type fleet struct {
	aircraft  adapter.AircraftResponse
	flight    adapter.FlightResponse
	passenger adapter.PassengerResponse
}

func mustFleet(t *testing.T, srv *httptest.Server) fleet {
	t.Helper()

	var f fleet
	mustDo(t, http.MethodPost, srv.URL+"/api/v1/aircraft",
		`{"serial":"VNA321","model":"Airbus A321","layout":"F:2,Y:4"}`, http.StatusCreated, &f.aircraft)
	mustDo(t, http.MethodPost, srv.URL+"/api/v1/flights",
		fmt.Sprintf(`{"number":"VN123","aircraft_id":%d,"schedule":"2025-06-01 08:00|2025-06-01 10:15","route":"Hanoi(HAN)-Ho Chi Minh City(SGN)"}`, f.aircraft.ID),
		http.StatusCreated, &f.flight)
	mustDo(t, http.MethodPost, srv.URL+"/api/v1/passengers",
		`{"name":"Nguyen Van A","passport":"VNM:B1234567","contact":"traveller@example.com|+84901234567|12 Hang Bai, Hanoi"}`,
		http.StatusCreated, &f.passenger)
	return f
}

func mustBook(t *testing.T, srv *httptest.Server, f fleet, seat, price string) adapter.TicketResponse {
	t.Helper()

	var ticket adapter.TicketResponse
	mustDo(t, http.MethodPost, srv.URL+"/api/v1/tickets",
		fmt.Sprintf(`{"flight_id":%d,"passenger_id":%d,"seat":%q,"price":%q}`, f.flight.ID, f.passenger.ID, seat, price),
		http.StatusCreated, &ticket)
	return ticket
}

// --- Aircraft ---

func TestRegisterAircraft(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)

	if f.aircraft.ID == 0 {
		t.Error("ID should not be zero")
	}
	if f.aircraft.Layout != "F:2,Y:4" {
		t.Errorf("Layout = %q, want %q", f.aircraft.Layout, "F:2,Y:4")
	}
	if f.aircraft.TotalSeats != 6 {
		t.Errorf("TotalSeats = %d, want 6", f.aircraft.TotalSeats)
	}
}

func TestRegisterAircraft_InvalidFieldsReported(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/aircraft", `{"serial":"x","model":"","layout":"Q:3,Y:-1"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}

	var p problem
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Errors) < 3 {
		t.Fatalf("errors = %+v, want one per invalid field", p.Errors)
	}
	var sawUnknownClass bool
	for _, e := range p.Errors {
		if strings.HasPrefix(e.Message, string(vo.CodeUnknownSeatClass)) {
			sawUnknownClass = true
		}
	}
	if !sawUnknownClass {
		t.Errorf("errors = %+v, want an %s entry", p.Errors, vo.CodeUnknownSeatClass)
	}
}

func TestRegisterAircraft_DuplicateSerial(t *testing.T) {
	srv := newTestServer(t)
	mustFleet(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/aircraft", `{"serial":"VNA321","model":"Boeing 787","layout":"Y:10"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestGetAircraft_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/aircraft/999", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestAircraftSeatClasses(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)

	var classes []adapter.SeatClassResponse
	mustDo(t, http.MethodGet, fmt.Sprintf("%s/api/v1/aircraft/%d/seat-classes", srv.URL, f.aircraft.ID), "", http.StatusOK, &classes)

	if len(classes) != 2 || classes[0].Class != "F" || classes[1].Count != 4 {
		t.Errorf("classes = %+v, want F:2 then Y:4", classes)
	}
}

func TestDeleteAircraft_InUse(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)

	resp := doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/aircraft/%d", srv.URL, f.aircraft.ID), "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

// --- Bookings ---

func TestBookingFlow(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)
	seatsURL := fmt.Sprintf("%s/api/v1/flights/%d/seats", srv.URL, f.flight.ID)

	var seats adapter.SeatMapResponse
	mustDo(t, http.MethodGet, seatsURL, "", http.StatusOK, &seats)
	if seats.Remaining != 6 {
		t.Fatalf("Remaining = %d, want 6", seats.Remaining)
	}

	ticket := mustBook(t, srv, f, "F1", "1200.00:USD")
	if ticket.Status != "booked" {
		t.Errorf("Status = %q, want %q", ticket.Status, "booked")
	}
	if !strings.HasPrefix(ticket.Number, "VN123-") {
		t.Errorf("Number = %q, want a VN123 ticket number", ticket.Number)
	}

	mustDo(t, http.MethodGet, seatsURL, "", http.StatusOK, &seats)
	if seats.Remaining != 5 || len(seats.Reserved) != 1 || seats.Reserved[0] != "F1" {
		t.Errorf("after booking seats = %+v, want F1 reserved and 5 free", seats)
	}

	var cancelled adapter.TicketResponse
	mustDo(t, http.MethodPost, fmt.Sprintf("%s/api/v1/tickets/%d/events", srv.URL, ticket.ID),
		`{"event":"cancel"}`, http.StatusOK, &cancelled)
	if cancelled.Status != "cancelled" {
		t.Errorf("Status = %q, want %q", cancelled.Status, "cancelled")
	}

	mustDo(t, http.MethodGet, seatsURL, "", http.StatusOK, &seats)
	if seats.Remaining != 6 || seats.Full {
		t.Errorf("after cancel seats = %+v, want 6 free", seats)
	}
}

func TestBook_SeatTaken(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)
	mustBook(t, srv, f, "Y2", "150.00:USD")

	body := fmt.Sprintf(`{"flight_id":%d,"passenger_id":%d,"seat":"Y2","price":"150.00:USD"}`, f.flight.ID, f.passenger.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/tickets", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestBook_SeatOutsideLayout(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)

	body := fmt.Sprintf(`{"flight_id":%d,"passenger_id":%d,"seat":"Y40","price":"150.00:USD"}`, f.flight.ID, f.passenger.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/tickets", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestGetTicketByNumber(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)
	ticket := mustBook(t, srv, f, "Y1", "150.00:USD")

	var got adapter.TicketResponse
	mustDo(t, http.MethodGet, srv.URL+"/api/v1/ticket-numbers/"+ticket.Number, "", http.StatusOK, &got)
	if got.ID != ticket.ID {
		t.Errorf("ID = %d, want %d", got.ID, ticket.ID)
	}
}

func TestSearchTickets(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)
	low := mustBook(t, srv, f, "Y1", "100.00:USD")
	mustBook(t, srv, f, "Y2", "180.00:USD")
	mustBook(t, srv, f, "F1", "900.00:USD")

	q := url.Values{}
	q.Set("min_price", "100.00:USD")
	q.Set("max_price", "200.00:USD")
	q.Set("status", "booked")
	q.Set("sort", "price")
	q.Set("order", "desc")

	var found []adapter.TicketResponse
	mustDo(t, http.MethodGet, srv.URL+"/api/v1/tickets?"+q.Encode(), "", http.StatusOK, &found)

	if len(found) != 2 {
		t.Fatalf("found %d tickets, want 2", len(found))
	}
	if found[1].ID != low.ID {
		t.Errorf("last ticket = %d, want cheapest %d", found[1].ID, low.ID)
	}
}

func TestSearchTickets_InvalidRange(t *testing.T) {
	srv := newTestServer(t)

	q := url.Values{}
	q.Set("min_price", "300.00:USD")
	q.Set("max_price", "200.00:EUR")

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/tickets?"+q.Encode(), "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

// --- Flights ---

func TestFlightTransition_Invalid(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)

	resp := doRequest(t, http.MethodPost, fmt.Sprintf("%s/api/v1/flights/%d/events", srv.URL, f.flight.ID), `{"event":"arrive"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestFlightCancel_ReleasesSeats(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)
	ticket := mustBook(t, srv, f, "Y3", "150.00:USD")

	var flight adapter.FlightResponse
	mustDo(t, http.MethodPost, fmt.Sprintf("%s/api/v1/flights/%d/events", srv.URL, f.flight.ID),
		`{"event":"cancel"}`, http.StatusOK, &flight)
	if flight.Status != "cancelled" {
		t.Errorf("Status = %q, want %q", flight.Status, "cancelled")
	}

	var got adapter.TicketResponse
	mustDo(t, http.MethodGet, fmt.Sprintf("%s/api/v1/tickets/%d", srv.URL, ticket.ID), "", http.StatusOK, &got)
	if got.Status != "cancelled" {
		t.Errorf("ticket Status = %q, want %q", got.Status, "cancelled")
	}
}

func TestListFlights_ByNumber(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)

	var flights []adapter.FlightResponse
	mustDo(t, http.MethodGet, srv.URL+"/api/v1/flights?number=VN123", "", http.StatusOK, &flights)

	if len(flights) != 1 || flights[0].ID != f.flight.ID {
		t.Errorf("flights = %+v, want only flight %d", flights, f.flight.ID)
	}
	if flights[0].Departure != "2025-06-01T08:00:00Z" {
		t.Errorf("Departure = %q, want %q", flights[0].Departure, "2025-06-01T08:00:00Z")
	}
}

// --- Passengers ---

func TestDeletePassenger(t *testing.T) {
	srv := newTestServer(t)
	f := mustFleet(t, srv)
	mustBook(t, srv, f, "Y1", "150.00:USD")
	passengerURL := fmt.Sprintf("%s/api/v1/passengers/%d", srv.URL, f.passenger.ID)

	resp := doRequest(t, http.MethodDelete, passengerURL, "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d while a ticket is held", resp.StatusCode, http.StatusConflict)
	}

	var other adapter.PassengerResponse
	mustDo(t, http.MethodPost, srv.URL+"/api/v1/passengers",
		`{"name":"Tran Thi B","passport":"VNM:C7654321","contact":"b@example.com|+84907654321|3 Le Loi, Hue"}`,
		http.StatusCreated, &other)
	mustDo(t, http.MethodDelete, fmt.Sprintf("%s/api/v1/passengers/%d", srv.URL, other.ID), "", http.StatusNoContent, nil)

	mustDo(t, http.MethodGet, fmt.Sprintf("%s/api/v1/passengers/%d", srv.URL, other.ID), "", http.StatusNotFound, nil)
}
