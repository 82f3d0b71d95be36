package app_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/neomorfeo/airdesk/internal/adapter/fsm"
	"github.com/neomorfeo/airdesk/internal/adapter/memory"
	"github.com/neomorfeo/airdesk/internal/app"
	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/domaintest"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
	"github.com/neomorfeo/airdesk/internal/search"
)

// --- Mocks ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, e domain.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockPublisher) kinds() []domain.EventKind {
	out := make([]domain.EventKind, 0, len(m.Calls))
	for _, c := range m.Calls {
		out = append(out, c.Arguments.Get(1).(domain.Event).Kind)
	}
	return out
}

// failingTickets lets a test break one ticket store operation.
type failingTickets struct {
	domain.TicketRepository
	createErr error
	statusErr error
}

func (f *failingTickets) Create(ctx context.Context, t domain.Ticket) (domain.TicketID, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.TicketRepository.Create(ctx, t)
}

func (f *failingTickets) UpdateStatus(ctx context.Context, id domain.TicketID, from, to domain.TicketStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	return f.TicketRepository.UpdateStatus(ctx, id, from, to)
}

// staleTickets answers the next FindByID with a saved snapshot, the way a
// caller that read the ticket earlier would see it.
type staleTickets struct {
	domain.TicketRepository
	snapshot *domain.Ticket
}

func (s *staleTickets) FindByID(ctx context.Context, id domain.TicketID) (domain.Ticket, error) {
	if s.snapshot != nil && s.snapshot.ID == id {
		t := *s.snapshot
		s.snapshot = nil
		return t, nil
	}
	return s.TicketRepository.FindByID(ctx, id)
}

// hookedFlights runs beforeReserve right before the store claims a seat.
type hookedFlights struct {
	domain.FlightRepository
	beforeReserve func()
}

func (h *hookedFlights) ReserveSeat(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	if h.beforeReserve != nil {
		hook := h.beforeReserve
		h.beforeReserve = nil
		hook()
	}
	return h.FlightRepository.ReserveSeat(ctx, flight, seat)
}

// --- Harness ---

const (
	morning   = "2025-06-01 08:00|2025-06-01 10:15"
	overlap   = "2025-06-01 09:00|2025-06-01 11:00"
	afternoon = "2025-06-01 13:00|2025-06-01 15:00"
	hanSgn    = "Hanoi(HAN)-Ho Chi Minh City(SGN)"
)

type harness struct {
	store      *memory.Store
	pub        *mockPublisher
	aircraft   *app.AircraftService
	flights    *app.FlightService
	passengers *app.PassengerService
	tickets    *app.TicketService
}

func newHarness(t *testing.T, wrap func(domain.TicketRepository) domain.TicketRepository) *harness {
	t.Helper()
	return newWrappedHarness(t, wrap, nil)
}

func newWrappedHarness(t *testing.T,
	wrapTickets func(domain.TicketRepository) domain.TicketRepository,
	wrapFlights func(domain.FlightRepository) domain.FlightRepository,
) *harness {
	t.Helper()
	store := memory.New()
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	var tickets domain.TicketRepository = store.Tickets()
	if wrapTickets != nil {
		tickets = wrapTickets(tickets)
	}
	var flights domain.FlightRepository = store.Flights()
	if wrapFlights != nil {
		flights = wrapFlights(flights)
	}
	reg := domaintest.Registries
	inventory := app.NewSeatInventory(store.Aircraft(), flights)
	ticketSvc := app.NewTicketService(tickets, flights, store.Passengers(), inventory, fsm.NewTicket(), pub, reg)

	return &harness{
		store:      store,
		pub:        pub,
		aircraft:   app.NewAircraftService(store.Aircraft(), inventory, reg),
		flights:    app.NewFlightService(flights, store.Aircraft(), ticketSvc, inventory, fsm.NewFlight(), pub, reg),
		passengers: app.NewPassengerService(store.Passengers(), tickets, reg),
		tickets:    ticketSvc,
	}
}

func (h *harness) registerAircraft(t *testing.T, serial, layout string) domain.Aircraft {
	t.Helper()
	a, err := h.aircraft.Register(context.Background(), app.AircraftInput{Serial: serial, Model: "Airbus A321", Layout: layout})
	require.NoError(t, err)
	return a
}

func (h *harness) scheduleFlight(t *testing.T, number string, aircraft domain.AircraftID, schedule string) domain.Flight {
	t.Helper()
	f, err := h.flights.Schedule(context.Background(), app.FlightInput{
		Number: number, AircraftID: aircraft, Schedule: schedule, Route: hanSgn,
	})
	require.NoError(t, err)
	return f
}

func (h *harness) registerPassenger(t *testing.T, name, passport string) domain.Passenger {
	t.Helper()
	p, err := h.passengers.Register(context.Background(), app.PassengerInput{
		Name: name, Passport: passport, Contact: "traveller@example.com|+84901234567|12 Hang Bai, Hanoi",
	})
	require.NoError(t, err)
	return p
}

func (h *harness) book(t *testing.T, flight domain.FlightID, passenger domain.PassengerID, seat, price string) domain.Ticket {
	t.Helper()
	tk, err := h.tickets.Book(context.Background(), app.BookingInput{
		FlightID: flight, PassengerID: passenger, Seat: seat, Price: price,
	})
	require.NoError(t, err)
	return tk
}

// fixture is one aircraft F:2,Y:4 with a morning flight and one passenger.
func (h *harness) fixture(t *testing.T) (domain.Aircraft, domain.Flight, domain.Passenger) {
	t.Helper()
	a := h.registerAircraft(t, "VNA321", "F:2,Y:4")
	f := h.scheduleFlight(t, "VN123", a.ID, morning)
	p := h.registerPassenger(t, "Nguyen Van A", "VNM:B1234567")
	return a, f, p
}

// --- Seat inventory ---

func TestSeatInventory_ReserveAndRelease(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)

	free, err := h.flights.AvailableSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"F1", "F2", "Y1", "Y2", "Y3", "Y4"}, domaintest.SeatStrings(free))

	ticket := h.book(t, flight.ID, passenger.ID, "F1", "1200.00:USD")

	free, err = h.flights.AvailableSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Len(t, free, 5)
	ok, err := h.flights.IsSeatAvailable(ctx, flight.ID, "F1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.tickets.Cancel(ctx, ticket.ID)
	require.NoError(t, err)

	free, err = h.flights.AvailableSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Len(t, free, 6)
	ok, err = h.flights.IsSeatAvailable(ctx, flight.ID, "F1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeatInventory_AvailableAndReservedPartitionLayout(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)

	for _, seat := range []string{"Y3", "F2", "Y1"} {
		h.book(t, flight.ID, passenger.ID, seat, "150.00:USD")
	}

	free, err := h.flights.AvailableSeats(ctx, flight.ID)
	require.NoError(t, err)
	taken, err := h.flights.ReservedSeats(ctx, flight.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"F2", "Y1", "Y3"}, domaintest.SeatStrings(taken))
	assert.Equal(t, []string{"F1", "Y2", "Y4"}, domaintest.SeatStrings(free))

	union := append(domaintest.SeatStrings(free), domaintest.SeatStrings(taken)...)
	assert.ElementsMatch(t, []string{"F1", "F2", "Y1", "Y2", "Y3", "Y4"}, union)

	remaining, err := h.flights.RemainingCapacity(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
}

func TestSeatInventory_FullFlight(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	a := h.registerAircraft(t, "VNA100", "Y:2")
	flight := h.scheduleFlight(t, "VN200", a.ID, morning)
	p := h.registerPassenger(t, "Tran Thi B", "VNM:C7654321")

	h.book(t, flight.ID, p.ID, "Y1", "90.00:USD")
	h.book(t, flight.ID, p.ID, "Y2", "90.00:USD")

	full, err := h.flights.IsFull(ctx, flight.ID)
	require.NoError(t, err)
	assert.True(t, full)
}

// --- Booking ---

func TestBook_IssuesNumberedTicket(t *testing.T) {
	h := newHarness(t, nil)
	_, flight, passenger := h.fixture(t)

	first := h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")
	second := h.book(t, flight.ID, passenger.ID, "Y2", "150.00:USD")

	assert.Equal(t, domain.TicketBooked, first.Status)
	assert.True(t, strings.HasPrefix(first.Number.String(), "VN123-"))
	assert.True(t, strings.HasSuffix(first.Number.String(), "-0001"))
	assert.True(t, strings.HasSuffix(second.Number.String(), "-0002"))
	assert.NotEqual(t, first.ID, second.ID)

	stored, err := h.tickets.GetByNumber(context.Background(), first.Number.String())
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)

	assert.Equal(t, []domain.EventKind{domain.EventTicketBooked, domain.EventTicketBooked}, h.pub.kinds())
}

func TestBook_ReportsEveryInvalidField(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.tickets.Book(context.Background(), app.BookingInput{
		FlightID: 0, PassengerID: 0, Seat: "Z9", Price: "12.345:USD",
	})

	var vr *vo.ValidationResult
	require.ErrorAs(t, err, &vr)
	assert.True(t, vr.Has(vo.CodeEmpty))
	assert.True(t, vr.Has(vo.CodeUnknownSeatClass))
	assert.True(t, vr.Has(vo.CodeTooPrecise))
	assert.Len(t, vr.Errors(), 4)
}

func TestBook_SeatOutsideLayout(t *testing.T) {
	h := newHarness(t, nil)
	_, flight, passenger := h.fixture(t)

	_, err := h.tickets.Book(context.Background(), app.BookingInput{
		FlightID: flight.ID, PassengerID: passenger.ID, Seat: "Y9", Price: "150.00:USD",
	})
	assert.ErrorIs(t, err, domain.ErrSeatNotFound)

	_, err = h.tickets.Book(context.Background(), app.BookingInput{
		FlightID: flight.ID, PassengerID: passenger.ID, Seat: "C1", Price: "150.00:USD",
	})
	assert.ErrorIs(t, err, domain.ErrSeatNotFound)
}

func TestBook_SeatAlreadyReserved(t *testing.T) {
	h := newHarness(t, nil)
	_, flight, passenger := h.fixture(t)
	other := h.registerPassenger(t, "Le Van C", "VNM:D1112223")

	h.book(t, flight.ID, passenger.ID, "Y2", "150.00:USD")

	_, err := h.tickets.Book(context.Background(), app.BookingInput{
		FlightID: flight.ID, PassengerID: other.ID, Seat: "Y2", Price: "150.00:USD",
	})
	assert.ErrorIs(t, err, domain.ErrSeatAlreadyReserved)

	held, err := h.tickets.ForPassenger(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Empty(t, held)
}

func TestBook_ConcurrentClaimsOnOneSeat(t *testing.T) {
	h := newHarness(t, nil)
	_, flight, passenger := h.fixture(t)

	var won, lost atomic.Int32
	var g errgroup.Group
	for range 12 {
		g.Go(func() error {
			_, err := h.tickets.Book(context.Background(), app.BookingInput{
				FlightID: flight.ID, PassengerID: passenger.ID, Seat: "Y4", Price: "150.00:USD",
			})
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, domain.ErrSeatAlreadyReserved):
				lost.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), won.Load())
	assert.Equal(t, int32(11), lost.Load())

	sold, err := h.tickets.ForFlight(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.Len(t, sold, 1)
}

func TestBook_FlightNotBookable(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)

	_, err := h.flights.Transition(ctx, flight.ID, domain.FlightEventBoard)
	require.NoError(t, err)

	_, err = h.tickets.Book(ctx, app.BookingInput{
		FlightID: flight.ID, PassengerID: passenger.ID, Seat: "Y1", Price: "150.00:USD",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestBook_UnknownPassengerLeavesSeatFree(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, _ := h.fixture(t)

	_, err := h.tickets.Book(ctx, app.BookingInput{
		FlightID: flight.ID, PassengerID: 404, Seat: "Y1", Price: "150.00:USD",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := h.flights.IsSeatAvailable(ctx, flight.ID, "Y1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBook_StoreFailureReleasesSeat(t *testing.T) {
	storeDown := domain.PersistenceError("insert ticket", errors.New("disk full"))
	h := newHarness(t, func(r domain.TicketRepository) domain.TicketRepository {
		return &failingTickets{TicketRepository: r, createErr: storeDown}
	})
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)

	_, err := h.tickets.Book(ctx, app.BookingInput{
		FlightID: flight.ID, PassengerID: passenger.ID, Seat: "F2", Price: "900.00:USD",
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	ok, err := h.flights.IsSeatAvailable(ctx, flight.ID, "F2")
	require.NoError(t, err)
	assert.True(t, ok, "seat must be released when the ticket is not stored")
	assert.Empty(t, h.pub.kinds())
}

func TestBook_PublishFailureKeepsBooking(t *testing.T) {
	h := newHarness(t, nil)
	h.pub.ExpectedCalls = nil
	h.pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))
	_, flight, passenger := h.fixture(t)

	ticket := h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")

	stored, err := h.tickets.Get(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketBooked, stored.Status)
	h.pub.AssertNumberOfCalls(t, "Publish", 1)
}

// --- Ticket lifecycle ---

func TestTicketLifecycle_CheckInBoardCancelRefund(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)
	ticket := h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")

	ticket, err := h.tickets.CheckIn(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCheckedIn, ticket.Status)

	_, err = h.tickets.Board(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "boarding needs a boarding flight")

	_, err = h.flights.Transition(ctx, flight.ID, domain.FlightEventBoard)
	require.NoError(t, err)
	ticket, err = h.tickets.Board(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketBoarded, ticket.Status)

	ticket, err = h.tickets.Cancel(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCancelled, ticket.Status)

	ticket, err = h.tickets.Refund(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketRefunded, ticket.Status)

	assert.Equal(t, []domain.EventKind{
		domain.EventTicketBooked,
		domain.EventTicketCheckedIn,
		domain.EventFlightStatusChanged,
		domain.EventTicketBoarded,
		domain.EventTicketCancelled,
		domain.EventTicketRefunded,
	}, h.pub.kinds())
}

func TestTicketLifecycle_InvalidTransitions(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)
	ticket := h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")

	_, err := h.tickets.Refund(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.tickets.Cancel(ctx, ticket.ID)
	require.NoError(t, err)
	_, err = h.tickets.Cancel(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "ticket", te.Entity)
}

func TestCancel_StoreFailureKeepsSeat(t *testing.T) {
	failing := &failingTickets{}
	h := newHarness(t, func(r domain.TicketRepository) domain.TicketRepository {
		failing.TicketRepository = r
		return failing
	})
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)
	ticket := h.book(t, flight.ID, passenger.ID, "Y3", "150.00:USD")

	failing.statusErr = domain.PersistenceError("update ticket", errors.New("locked"))
	_, err := h.tickets.Cancel(ctx, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	reserved, err := h.store.Flights().IsSeatReserved(ctx, flight.ID, domaintest.Seat(t, "Y3"))
	require.NoError(t, err)
	assert.True(t, reserved, "seat must stay with a ticket that is still booked")
}

func TestCancel_StaleSnapshotLeavesRebookedSeat(t *testing.T) {
	stale := &staleTickets{}
	h := newHarness(t, func(r domain.TicketRepository) domain.TicketRepository {
		stale.TicketRepository = r
		return stale
	})
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)
	other := h.registerPassenger(t, "Le Van C", "VNM:D1112223")

	first := h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")
	_, err := h.tickets.Cancel(ctx, first.ID)
	require.NoError(t, err)
	second := h.book(t, flight.ID, other.ID, "Y1", "150.00:USD")

	stale.snapshot = &first
	_, err = h.tickets.Cancel(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	stale.snapshot = &first
	_, err = h.tickets.CheckIn(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	reserved, err := h.store.Flights().IsSeatReserved(ctx, flight.ID, domaintest.Seat(t, "Y1"))
	require.NoError(t, err)
	assert.True(t, reserved, "rebooked seat must stay reserved")

	got, err := h.tickets.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketBooked, got.Status)
	got, err = h.tickets.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCancelled, got.Status)
}

func TestCancel_ConcurrentCallersReleaseOnce(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)
	ticket := h.book(t, flight.ID, passenger.ID, "Y2", "150.00:USD")

	var wins atomic.Int32
	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			_, err := h.tickets.Cancel(ctx, ticket.ID)
			switch {
			case err == nil:
				wins.Add(1)
			case !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrInvalidState):
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), wins.Load())

	free, err := h.flights.AvailableSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Len(t, free, 6)
}

// --- Flights ---

func TestFlightCancel_CancelsHeldTickets(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)

	a := h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")
	b := h.book(t, flight.ID, passenger.ID, "Y2", "150.00:USD")
	_, err := h.tickets.CheckIn(ctx, b.ID)
	require.NoError(t, err)

	flight, err = h.flights.Transition(ctx, flight.ID, domain.FlightEventCancel)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightCancelled, flight.Status)

	for _, id := range []domain.TicketID{a.ID, b.ID} {
		got, err := h.tickets.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketCancelled, got.Status)
	}
	taken, err := h.store.Flights().ReservedSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Empty(t, taken)
}

func TestFlightTransition_Invalid(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, _ := h.fixture(t)

	_, err := h.flights.Transition(ctx, flight.ID, domain.FlightEventDepart)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.flights.Transition(ctx, 999, domain.FlightEventDelay)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSchedule_RejectsOverlap(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	a, flight, _ := h.fixture(t)

	_, err := h.flights.Schedule(ctx, app.FlightInput{Number: "VN456", AircraftID: a.ID, Schedule: overlap, Route: hanSgn})
	assert.ErrorIs(t, err, domain.ErrConflict)

	h.scheduleFlight(t, "VN456", a.ID, afternoon)

	_, err = h.flights.Transition(ctx, flight.ID, domain.FlightEventCancel)
	require.NoError(t, err)
	h.scheduleFlight(t, "VN789", a.ID, overlap)
}

func TestSchedule_Validation(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.flights.Schedule(context.Background(), app.FlightInput{
		Number: "vn0", Schedule: "2025-06-01 10:00|2025-06-01 08:00", Route: "Hanoi(HAN)-Hanoi(HAN)",
	})
	var vr *vo.ValidationResult
	require.ErrorAs(t, err, &vr)
	assert.True(t, vr.Has(vo.CodeArrivalBeforeDeparture))
	assert.True(t, vr.Has(vo.CodeSameOriginDestination))
	assert.True(t, vr.Has(vo.CodeEmpty))

	_, err = h.flights.Schedule(context.Background(), app.FlightInput{
		Number: "VN123", AircraftID: 42, Schedule: morning, Route: hanSgn,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightUpdate(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)
	small := h.registerAircraft(t, "VNA222", "Y:2")
	h.book(t, flight.ID, passenger.ID, "Y3", "150.00:USD")

	_, err := h.flights.Update(ctx, flight.ID, app.FlightInput{Number: "VN123", AircraftID: small.ID, Schedule: morning, Route: hanSgn})
	assert.ErrorIs(t, err, domain.ErrConflict, "Y3 does not exist on the smaller aircraft")

	updated, err := h.flights.Update(ctx, flight.ID, app.FlightInput{Number: "VN124", AircraftID: flight.AircraftID, Schedule: afternoon, Route: hanSgn})
	require.NoError(t, err)
	assert.Equal(t, "VN124", updated.Number.String())
	assert.Equal(t, afternoon, updated.Schedule.String())

	_, err = h.flights.Transition(ctx, flight.ID, domain.FlightEventBoard)
	require.NoError(t, err)
	_, err = h.flights.Update(ctx, flight.ID, app.FlightInput{Number: "VN124", AircraftID: flight.AircraftID, Schedule: morning, Route: hanSgn})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestFlightDelete_RefusesReservedSeats(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	a, flight, passenger := h.fixture(t)
	h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")

	assert.ErrorIs(t, h.flights.Delete(ctx, flight.ID), domain.ErrConflict)

	empty := h.scheduleFlight(t, "VN900", a.ID, afternoon)
	require.NoError(t, h.flights.Delete(ctx, empty.ID))
	_, err := h.flights.Get(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- Aircraft ---

func TestAircraftUpdate_LayoutOutsideReservations(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	a, flight, passenger := h.fixture(t)
	h.book(t, flight.ID, passenger.ID, "Y4", "150.00:USD")

	_, err := h.aircraft.Update(ctx, a.ID, app.AircraftInput{Serial: "VNA321", Model: "Airbus A321", Layout: "F:2,Y:3"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	grown, err := h.aircraft.Update(ctx, a.ID, app.AircraftInput{Serial: "VNA321", Model: "Airbus A321neo", Layout: "F:2,Y:6"})
	require.NoError(t, err)
	assert.Equal(t, 8, grown.Layout.Total())

	free, err := h.flights.AvailableSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Len(t, free, 7)
}

func TestBook_LayoutShrinksBeforeClaim(t *testing.T) {
	hooked := &hookedFlights{}
	h := newWrappedHarness(t, nil, func(r domain.FlightRepository) domain.FlightRepository {
		hooked.FlightRepository = r
		return hooked
	})
	ctx := context.Background()
	a, flight, passenger := h.fixture(t)

	hooked.beforeReserve = func() {
		_, err := h.aircraft.Update(ctx, a.ID, app.AircraftInput{Serial: "VNA321", Model: "Airbus A321", Layout: "F:2,Y:2"})
		assert.NoError(t, err)
	}
	_, err := h.tickets.Book(ctx, app.BookingInput{
		FlightID: flight.ID, PassengerID: passenger.ID, Seat: "Y4", Price: "150.00:USD",
	})
	assert.ErrorIs(t, err, domain.ErrSeatNotFound)

	free, err := h.flights.AvailableSeats(ctx, flight.ID)
	require.NoError(t, err)
	taken, err := h.flights.ReservedSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Len(t, free, 4)
	assert.Empty(t, taken)
}

func TestAircraftSeatClasses(t *testing.T) {
	h := newHarness(t, nil)
	a := h.registerAircraft(t, "VNB787", "C:4,W:0,Y:10")

	classes, err := h.aircraft.SeatClasses(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "C", classes[0].Class.Code())
	assert.Equal(t, 10, classes[1].Count)
}

func TestAircraftRegister_DuplicateSerial(t *testing.T) {
	h := newHarness(t, nil)
	h.registerAircraft(t, "VNA321", "Y:4")

	_, err := h.aircraft.Register(context.Background(), app.AircraftInput{Serial: "VNA321", Model: "Boeing 787", Layout: "Y:8"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	n, err := h.aircraft.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAircraftDelete_RefusesAssignedAircraft(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	a, flight, _ := h.fixture(t)

	assert.ErrorIs(t, h.aircraft.Delete(ctx, a.ID), domain.ErrConflict)

	require.NoError(t, h.flights.Delete(ctx, flight.ID))
	require.NoError(t, h.aircraft.Delete(ctx, a.ID))
}

// --- Passengers ---

func TestPassengerDelete_RefusesActiveTicket(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)
	ticket := h.book(t, flight.ID, passenger.ID, "Y1", "150.00:USD")

	assert.ErrorIs(t, h.passengers.Delete(ctx, passenger.ID), domain.ErrConflict)

	_, err := h.tickets.Cancel(ctx, ticket.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, h.passengers.Delete(ctx, passenger.ID), domain.ErrConflict, "ticket history keeps the passenger")

	loner := h.registerPassenger(t, "Pham Thi D", "JPN:TK1234567")
	require.NoError(t, h.passengers.Delete(ctx, loner.ID))
}

func TestPassengerGetByPassport(t *testing.T) {
	h := newHarness(t, nil)
	p := h.registerPassenger(t, "Nguyen Van A", "VNM:B1234567")

	got, err := h.passengers.GetByPassport(context.Background(), "VNM:B1234567")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = h.passengers.Register(context.Background(), app.PassengerInput{
		Name: "Someone Else", Passport: "VNM:B1234567", Contact: "other@example.com|+84907654321|1 Tran Hung Dao, Hanoi",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// --- Search ---

func TestTicketSearch(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	_, flight, passenger := h.fixture(t)

	cheap := h.book(t, flight.ID, passenger.ID, "Y1", "100.00:USD")
	mid := h.book(t, flight.ID, passenger.ID, "Y2", "150.00:USD")
	h.book(t, flight.ID, passenger.ID, "F1", "250.00:USD")
	top := h.book(t, flight.ID, passenger.ID, "Y3", "200.00:USD")
	_, err := h.tickets.Cancel(ctx, mid.ID)
	require.NoError(t, err)

	b := search.NewBuilder(domaintest.Registries.SeatClasses).
		WithPriceRange(domaintest.Price(t, "100.00:USD"), domaintest.Price(t, "200.00:USD")).
		WithStatus(domain.TicketBooked).
		SortBy(search.SortByPrice, search.Descending)

	got, err := h.tickets.Search(ctx, b)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, top.ID, got[0].ID)
	assert.Equal(t, cheap.ID, got[1].ID)

	_, err = h.tickets.Search(ctx, search.NewBuilder(domaintest.Registries.SeatClasses).Limit(-1))
	var vr *vo.ValidationResult
	assert.ErrorAs(t, err, &vr)
}
