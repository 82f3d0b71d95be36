// Package domaintest provides fixtures and a shared contract suite for
// repository implementations.
package domaintest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// Registries are the embedded defaults shared by every fixture.
var Registries = vo.DefaultRegistries()

// Aircraft builds an unsaved aircraft with the given serial and layout.
func Aircraft(t testing.TB, serial, layout string) domain.Aircraft {
	t.Helper()
	s, err := vo.ParseAircraftSerial(serial)
	require.NoError(t, err)
	a, err := domain.NewAircraft(s, "Airbus A321", Layout(t, layout))
	require.NoError(t, err)
	return a
}

// Layout parses a seat class map such as "F:2,Y:4".
func Layout(t testing.TB, text string) vo.SeatClassMap {
	t.Helper()
	l, err := vo.ParseSeatClassMap(text, Registries.SeatClasses)
	require.NoError(t, err)
	return l
}

// Flight builds an unsaved HAN-SGN flight. schedule uses the canonical
// "dep|arr" form.
func Flight(t testing.TB, number string, aircraft domain.AircraftID, schedule string) domain.Flight {
	t.Helper()
	n, err := vo.ParseFlightNumber(number)
	require.NoError(t, err)
	s, err := vo.ParseSchedule(schedule)
	require.NoError(t, err)
	r, err := vo.ParseRoute("Hanoi(HAN)-Ho Chi Minh City(SGN)")
	require.NoError(t, err)
	f, err := domain.NewFlight(n, aircraft, s, r)
	require.NoError(t, err)
	return f
}

// Passenger builds an unsaved passenger holding passport ("CTY:NUMBER").
func Passenger(t testing.TB, name, passport string) domain.Passenger {
	t.Helper()
	p, err := vo.ParsePassportNumber(passport, Registries.Passports)
	require.NoError(t, err)
	c, err := vo.ParseContactInfo("traveller@example.com|+84901234567|12 Hang Bai, Hanoi")
	require.NoError(t, err)
	out, err := domain.NewPassenger(name, p, c)
	require.NoError(t, err)
	return out
}

// Ticket builds an unsaved booked ticket.
func Ticket(t testing.TB, number string, flight domain.FlightID, passenger domain.PassengerID, seat, price string) domain.Ticket {
	t.Helper()
	n, err := vo.ParseTicketNumber(number)
	require.NoError(t, err)
	tk, err := domain.NewTicket(n, flight, passenger, Seat(t, seat), Price(t, price), time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return tk
}

// Seat parses a seat number such as "Y12".
func Seat(t testing.TB, text string) vo.SeatNumber {
	t.Helper()
	s, err := vo.ParseSeatNumber(text, Registries.SeatClasses)
	require.NoError(t, err)
	return s
}

// Price parses a price such as "150.00:USD".
func Price(t testing.TB, text string) vo.Price {
	t.Helper()
	p, err := vo.ParsePrice(text, Registries.Currencies)
	require.NoError(t, err)
	return p
}

// SeatStrings renders seats in their canonical form.
func SeatStrings(seats []vo.SeatNumber) []string {
	out := make([]string, len(seats))
	for i, s := range seats {
		out[i] = s.String()
	}
	return out
}
