package domaintest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/neomorfeo/airdesk/internal/domain"
)

// Stores is one set of repositories sharing a backing store.
type Stores struct {
	Aircraft   domain.AircraftRepository
	Flights    domain.FlightRepository
	Passengers domain.PassengerRepository
	Tickets    domain.TicketRepository
}

const morningSchedule = "2025-06-01 08:00|2025-06-01 10:15"

// RunRepositoryContract checks the behaviour every repository implementation
// must share. open returns a fresh, empty store for each subtest.
func RunRepositoryContract(t *testing.T, open func(t *testing.T) Stores) {
	t.Run("AircraftCRUD", func(t *testing.T) { testAircraftCRUD(t, open(t)) })
	t.Run("AircraftSerialUnique", func(t *testing.T) { testAircraftSerialUnique(t, open(t)) })
	t.Run("FlightRequiresAircraft", func(t *testing.T) { testFlightRequiresAircraft(t, open(t)) })
	t.Run("FlightQueries", func(t *testing.T) { testFlightQueries(t, open(t)) })
	t.Run("SeatReservations", func(t *testing.T) { testSeatReservations(t, open(t)) })
	t.Run("ConcurrentReserve", func(t *testing.T) { testConcurrentReserve(t, open(t)) })
	t.Run("ReserveChecksLayout", func(t *testing.T) { testReserveChecksLayout(t, open(t)) })
	t.Run("LayoutKeepsReservations", func(t *testing.T) { testLayoutKeepsReservations(t, open(t)) })
	t.Run("PassengerPassportUnique", func(t *testing.T) { testPassengerPassportUnique(t, open(t)) })
	t.Run("TicketCRUD", func(t *testing.T) { testTicketCRUD(t, open(t)) })
	t.Run("TicketStatusCompareAndSet", func(t *testing.T) { testTicketStatusCompareAndSet(t, open(t)) })
	t.Run("DeleteRestrictions", func(t *testing.T) { testDeleteRestrictions(t, open(t)) })
}

func testAircraftCRUD(t *testing.T, s Stores) {
	ctx := context.Background()

	_, err := s.Aircraft.FindByID(ctx, 42)
	require.ErrorIs(t, err, domain.ErrNotFound)

	a := Aircraft(t, "VNA321", "F:2,Y:4")
	id, err := s.Aircraft.Create(ctx, a)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := s.Aircraft.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "VNA321", got.Serial.String())
	assert.Equal(t, "Airbus A321", got.Model)
	assert.Equal(t, "F:2,Y:4", got.Layout.String())

	bySerial, err := s.Aircraft.FindBySerial(ctx, a.Serial)
	require.NoError(t, err)
	assert.Equal(t, id, bySerial.ID)

	got.Model = "Airbus A321neo"
	require.NoError(t, s.Aircraft.Update(ctx, got))
	got, err = s.Aircraft.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Airbus A321neo", got.Model)

	second, err := s.Aircraft.Create(ctx, Aircraft(t, "VNB787", "C:4,Y:10"))
	require.NoError(t, err)

	all, err := s.Aircraft.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, second, all[1].ID)

	n, err := s.Aircraft.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Aircraft.DeleteByID(ctx, id))
	ok, err := s.Aircraft.Exists(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
	require.ErrorIs(t, s.Aircraft.DeleteByID(ctx, id), domain.ErrNotFound)

	missing := Aircraft(t, "VNC100", "Y:1")
	missing.ID = 999
	require.ErrorIs(t, s.Aircraft.Update(ctx, missing), domain.ErrNotFound)
}

func testAircraftSerialUnique(t *testing.T, s Stores) {
	ctx := context.Background()

	_, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "Y:4"))
	require.NoError(t, err)
	_, err = s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "F:1"))
	require.ErrorIs(t, err, domain.ErrConflict)

	other := Aircraft(t, "VNB787", "Y:4")
	other.ID, err = s.Aircraft.Create(ctx, other)
	require.NoError(t, err)
	other.Serial = Aircraft(t, "VNA321", "Y:4").Serial
	require.ErrorIs(t, s.Aircraft.Update(ctx, other), domain.ErrConflict)
}

func testFlightRequiresAircraft(t *testing.T, s Stores) {
	_, err := s.Flights.Create(context.Background(), Flight(t, "VN123", 77, morningSchedule))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testFlightQueries(t *testing.T, s Stores) {
	ctx := context.Background()

	a1, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "Y:4"))
	require.NoError(t, err)
	a2, err := s.Aircraft.Create(ctx, Aircraft(t, "VNB787", "Y:4"))
	require.NoError(t, err)

	f1, err := s.Flights.Create(ctx, Flight(t, "VN123", a1, morningSchedule))
	require.NoError(t, err)
	_, err = s.Flights.Create(ctx, Flight(t, "VN123", a2, "2025-06-02 08:00|2025-06-02 10:15"))
	require.NoError(t, err)
	_, err = s.Flights.Create(ctx, Flight(t, "VN456", a1, "2025-06-01 12:00|2025-06-01 14:00"))
	require.NoError(t, err)

	got, err := s.Flights.FindByID(ctx, f1)
	require.NoError(t, err)
	assert.Equal(t, "VN123", got.Number.String())
	assert.Equal(t, a1, got.AircraftID)
	assert.Equal(t, morningSchedule, got.Schedule.String())
	assert.Equal(t, "Hanoi(HAN)-Ho Chi Minh City(SGN)", got.Route.String())
	assert.Equal(t, domain.FlightScheduled, got.Status)

	byNumber, err := s.Flights.FindByNumber(ctx, got.Number)
	require.NoError(t, err)
	assert.Len(t, byNumber, 2)

	byAircraft, err := s.Flights.FindByAircraft(ctx, a1)
	require.NoError(t, err)
	require.Len(t, byAircraft, 2)
	assert.Equal(t, f1, byAircraft[0].ID)

	got.Status = domain.FlightDelayed
	require.NoError(t, s.Flights.Update(ctx, got))
	got, err = s.Flights.FindByID(ctx, f1)
	require.NoError(t, err)
	assert.Equal(t, domain.FlightDelayed, got.Status)

	n, err := s.Flights.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func testSeatReservations(t *testing.T, s Stores) {
	ctx := context.Background()

	aircraft, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "F:2,Y:4"))
	require.NoError(t, err)
	flight := Flight(t, "VN123", aircraft, morningSchedule)
	flight.ID, err = s.Flights.Create(ctx, flight)
	require.NoError(t, err)

	y2 := Seat(t, "Y2")
	require.NoError(t, s.Flights.ReserveSeat(ctx, flight.ID, y2))
	require.ErrorIs(t, s.Flights.ReserveSeat(ctx, flight.ID, y2), domain.ErrSeatAlreadyReserved)
	require.NoError(t, s.Flights.ReserveSeat(ctx, flight.ID, Seat(t, "F1")))

	reserved, err := s.Flights.IsSeatReserved(ctx, flight.ID, y2)
	require.NoError(t, err)
	assert.True(t, reserved)

	seats, err := s.Flights.ReservedSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"F1", "Y2"}, SeatStrings(seats))

	// Replacing the flight row keeps its reservations.
	flight.Status = domain.FlightDelayed
	require.NoError(t, s.Flights.Update(ctx, flight))
	seats, err = s.Flights.ReservedSeats(ctx, flight.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)

	require.NoError(t, s.Flights.ReleaseSeat(ctx, flight.ID, y2))
	require.ErrorIs(t, s.Flights.ReleaseSeat(ctx, flight.ID, y2), domain.ErrSeatNotReserved)
	require.NoError(t, s.Flights.ReserveSeat(ctx, flight.ID, y2))

	require.ErrorIs(t, s.Flights.ReserveSeat(ctx, 999, y2), domain.ErrNotFound)
	_, err = s.Flights.ReservedSeats(ctx, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testConcurrentReserve(t *testing.T, s Stores) {
	ctx := context.Background()

	aircraft, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "Y:20"))
	require.NoError(t, err)
	flight, err := s.Flights.Create(ctx, Flight(t, "VN123", aircraft, morningSchedule))
	require.NoError(t, err)

	seat := Seat(t, "Y12")
	var won, lost atomic.Int32
	var g errgroup.Group
	for range 16 {
		g.Go(func() error {
			err := s.Flights.ReserveSeat(ctx, flight, seat)
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
	assert.Equal(t, int32(15), lost.Load())
}

func testReserveChecksLayout(t *testing.T, s Stores) {
	ctx := context.Background()

	aircraft, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "F:2,Y:4"))
	require.NoError(t, err)
	flight, err := s.Flights.Create(ctx, Flight(t, "VN123", aircraft, morningSchedule))
	require.NoError(t, err)

	for _, seat := range []string{"Y5", "C1"} {
		require.ErrorIs(t, s.Flights.ReserveSeat(ctx, flight, Seat(t, seat)), domain.ErrSeatNotFound, seat)
	}
	seats, err := s.Flights.ReservedSeats(ctx, flight)
	require.NoError(t, err)
	assert.Empty(t, seats)
}

func testLayoutKeepsReservations(t *testing.T, s Stores) {
	ctx := context.Background()

	aircraftID, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "F:2,Y:4"))
	require.NoError(t, err)
	small, err := s.Aircraft.Create(ctx, Aircraft(t, "VNB787", "Y:2"))
	require.NoError(t, err)
	flight := Flight(t, "VN123", aircraftID, morningSchedule)
	flight.ID, err = s.Flights.Create(ctx, flight)
	require.NoError(t, err)
	require.NoError(t, s.Flights.ReserveSeat(ctx, flight.ID, Seat(t, "Y4")))

	aircraft, err := s.Aircraft.FindByID(ctx, aircraftID)
	require.NoError(t, err)
	aircraft.Layout = Layout(t, "F:2,Y:3")
	require.ErrorIs(t, s.Aircraft.Update(ctx, aircraft), domain.ErrConflict)
	got, err := s.Aircraft.FindByID(ctx, aircraftID)
	require.NoError(t, err)
	assert.Equal(t, "F:2,Y:4", got.Layout.String())

	aircraft.Layout = Layout(t, "F:2,Y:6")
	require.NoError(t, s.Aircraft.Update(ctx, aircraft))

	moved := flight
	moved.AircraftID = small
	require.ErrorIs(t, s.Flights.Update(ctx, moved), domain.ErrConflict)
	stored, err := s.Flights.FindByID(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, aircraftID, stored.AircraftID)
}

func testPassengerPassportUnique(t *testing.T, s Stores) {
	ctx := context.Background()

	p := Passenger(t, "Nguyen Van A", "VNM:B1234567")
	id, err := s.Passengers.Create(ctx, p)
	require.NoError(t, err)

	got, err := s.Passengers.FindByPassport(ctx, p.Passport)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Nguyen Van A", got.Name)
	assert.Equal(t, "VNM:B1234567", got.Passport.String())
	assert.Equal(t, "traveller@example.com", got.Contact.Email())

	_, err = s.Passengers.Create(ctx, Passenger(t, "Someone Else", "VNM:B1234567"))
	require.ErrorIs(t, err, domain.ErrConflict)

	got.Name = "Nguyen Van B"
	require.NoError(t, s.Passengers.Update(ctx, got))
	got, err = s.Passengers.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Nguyen Van B", got.Name)
}

func testTicketCRUD(t *testing.T, s Stores) {
	ctx := context.Background()

	aircraft, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "Y:4"))
	require.NoError(t, err)
	flight, err := s.Flights.Create(ctx, Flight(t, "VN123", aircraft, morningSchedule))
	require.NoError(t, err)
	passenger, err := s.Passengers.Create(ctx, Passenger(t, "Nguyen Van A", "VNM:B1234567"))
	require.NoError(t, err)

	_, err = s.Tickets.Create(ctx, Ticket(t, "VN123-20250520-0001", 999, passenger, "Y1", "150.00:USD"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	tk := Ticket(t, "VN123-20250520-0001", flight, passenger, "Y1", "150.00:USD")
	id, err := s.Tickets.Create(ctx, tk)
	require.NoError(t, err)

	_, err = s.Tickets.Create(ctx, Ticket(t, "VN123-20250520-0001", flight, passenger, "Y2", "90.00:USD"))
	require.ErrorIs(t, err, domain.ErrConflict)

	got, err := s.Tickets.FindByNumber(ctx, tk.Number)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Y1", got.Seat.String())
	assert.Equal(t, "150.00:USD", got.Price.String())
	assert.Equal(t, domain.TicketBooked, got.Status)
	assert.True(t, got.BookedAt.Equal(tk.BookedAt), "BookedAt = %v, want %v", got.BookedAt, tk.BookedAt)

	_, err = s.Tickets.Create(ctx, Ticket(t, "VN123-20250520-0002", flight, passenger, "Y2", "90.00:USD"))
	require.NoError(t, err)

	byFlight, err := s.Tickets.FindByFlight(ctx, flight)
	require.NoError(t, err)
	assert.Len(t, byFlight, 2)
	byPassenger, err := s.Tickets.FindByPassenger(ctx, passenger)
	require.NoError(t, err)
	assert.Len(t, byPassenger, 2)

	got.Status = domain.TicketCheckedIn
	require.NoError(t, s.Tickets.Update(ctx, got))
	got, err = s.Tickets.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCheckedIn, got.Status)

	require.NoError(t, s.Tickets.DeleteByID(ctx, id))
	_, err = s.Tickets.FindByID(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testTicketStatusCompareAndSet(t *testing.T, s Stores) {
	ctx := context.Background()

	aircraft, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "Y:4"))
	require.NoError(t, err)
	flight, err := s.Flights.Create(ctx, Flight(t, "VN123", aircraft, morningSchedule))
	require.NoError(t, err)
	passenger, err := s.Passengers.Create(ctx, Passenger(t, "Nguyen Van A", "VNM:B1234567"))
	require.NoError(t, err)
	id, err := s.Tickets.Create(ctx, Ticket(t, "VN123-20250520-0001", flight, passenger, "Y1", "150.00:USD"))
	require.NoError(t, err)

	var won, lost atomic.Int32
	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			err := s.Tickets.UpdateStatus(ctx, id, domain.TicketBooked, domain.TicketCancelled)
			switch {
			case err == nil:
				won.Add(1)
			case errors.Is(err, domain.ErrConflict):
				lost.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), won.Load())
	assert.Equal(t, int32(7), lost.Load())

	require.ErrorIs(t, s.Tickets.UpdateStatus(ctx, id, domain.TicketBooked, domain.TicketCheckedIn), domain.ErrConflict)
	got, err := s.Tickets.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCancelled, got.Status)

	require.ErrorIs(t, s.Tickets.UpdateStatus(ctx, 999, domain.TicketBooked, domain.TicketCancelled), domain.ErrNotFound)
}

func testDeleteRestrictions(t *testing.T, s Stores) {
	ctx := context.Background()

	aircraft, err := s.Aircraft.Create(ctx, Aircraft(t, "VNA321", "Y:4"))
	require.NoError(t, err)
	flight, err := s.Flights.Create(ctx, Flight(t, "VN123", aircraft, morningSchedule))
	require.NoError(t, err)
	passenger, err := s.Passengers.Create(ctx, Passenger(t, "Nguyen Van A", "VNM:B1234567"))
	require.NoError(t, err)

	require.ErrorIs(t, s.Aircraft.DeleteByID(ctx, aircraft), domain.ErrConflict)

	require.NoError(t, s.Flights.ReserveSeat(ctx, flight, Seat(t, "Y1")))
	require.ErrorIs(t, s.Flights.DeleteByID(ctx, flight), domain.ErrConflict)

	ticket, err := s.Tickets.Create(ctx, Ticket(t, "VN123-20250520-0001", flight, passenger, "Y1", "150.00:USD"))
	require.NoError(t, err)
	require.ErrorIs(t, s.Passengers.DeleteByID(ctx, passenger), domain.ErrConflict)

	require.NoError(t, s.Tickets.DeleteByID(ctx, ticket))
	require.NoError(t, s.Passengers.DeleteByID(ctx, passenger))
	require.NoError(t, s.Flights.ReleaseSeat(ctx, flight, Seat(t, "Y1")))
	require.NoError(t, s.Flights.DeleteByID(ctx, flight))
	require.NoError(t, s.Aircraft.DeleteByID(ctx, aircraft))
}
