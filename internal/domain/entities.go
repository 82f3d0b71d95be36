package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// Identifiers are assigned by the persistence layer on creation.
type (
	AircraftID  int64
	FlightID    int64
	PassengerID int64
	TicketID    int64
)

const (
	maxModelLength = 50
	maxNameLength  = 100
)

var personNamePattern = regexp.MustCompile(`^[\p{L}\p{M}][\p{L}\p{M} .'-]*$`)

// Aircraft is an airframe and its cabin layout.
type Aircraft struct {
	ID     AircraftID
	Serial vo.AircraftSerial
	Model  string
	Layout vo.SeatClassMap
}

// NewAircraft validates model and checks that serial and layout were built
// through their parsers. The result has no ID until it is persisted.
func NewAircraft(serial vo.AircraftSerial, model string, layout vo.SeatClassMap) (Aircraft, error) {
	var r vo.ValidationResult
	if serial.IsZero() {
		r.Add("aircraftSerial", vo.CodeEmpty, "aircraft serial is required")
	}
	r.Merge(ValidateAircraftModel(model))
	if layout.IsZero() {
		r.Add("seatClassMap", vo.CodeEmpty, "seat layout is required")
	}
	if err := r.Err(); err != nil {
		return Aircraft{}, err
	}
	return Aircraft{Serial: serial, Model: strings.TrimSpace(model), Layout: layout}, nil
}

// ValidateAircraftModel checks an aircraft model designation.
func ValidateAircraftModel(model string) vo.ValidationResult {
	var r vo.ValidationResult
	model = strings.TrimSpace(model)
	switch {
	case model == "":
		r.Add("model", vo.CodeEmpty, "model cannot be empty")
	case len(model) > maxModelLength:
		r.Add("model", vo.CodeTooLong, fmt.Sprintf("model must not exceed %d characters", maxModelLength))
	}
	return r
}

// Flight is one scheduled operation of a flight number by an aircraft.
// Which seats are taken is owned by the FlightRepository, never by Flight.
type Flight struct {
	ID         FlightID
	Number     vo.FlightNumber
	AircraftID AircraftID
	Schedule   vo.Schedule
	Route      vo.Route
	Status     FlightStatus
}

// NewFlight creates a flight in the scheduled state.
func NewFlight(number vo.FlightNumber, aircraft AircraftID, schedule vo.Schedule, route vo.Route) (Flight, error) {
	var r vo.ValidationResult
	if number.IsZero() {
		r.Add("flightNumber", vo.CodeEmpty, "flight number is required")
	}
	if aircraft <= 0 {
		r.Add("aircraftId", vo.CodeEmpty, "aircraft is required")
	}
	if schedule.IsZero() {
		r.Add("schedule", vo.CodeEmpty, "schedule is required")
	}
	if route.IsZero() {
		r.Add("route", vo.CodeEmpty, "route is required")
	}
	if err := r.Err(); err != nil {
		return Flight{}, err
	}
	return Flight{
		Number:     number,
		AircraftID: aircraft,
		Schedule:   schedule,
		Route:      route,
		Status:     FlightScheduled,
	}, nil
}

// Passenger is a traveller known to the airline.
type Passenger struct {
	ID       PassengerID
	Name     string
	Passport vo.PassportNumber
	Contact  vo.ContactInfo
}

// ValidatePassengerName checks a passenger's full name.
func ValidatePassengerName(name string) vo.ValidationResult {
	var r vo.ValidationResult
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		r.Add("name", vo.CodeEmpty, "name cannot be empty")
	case len([]rune(name)) > maxNameLength:
		r.Add("name", vo.CodeTooLong, fmt.Sprintf("name must not exceed %d characters", maxNameLength))
	case !personNamePattern.MatchString(name):
		r.Add("name", vo.CodeInvalidFormat, "name may only contain letters, spaces, dots, apostrophes and hyphens")
	}
	return r
}

// NewPassenger validates name and requires a parsed passport and contact.
func NewPassenger(name string, passport vo.PassportNumber, contact vo.ContactInfo) (Passenger, error) {
	r := ValidatePassengerName(name)
	if passport.IsZero() {
		r.Add("passportNumber", vo.CodeEmpty, "passport number is required")
	}
	if contact.IsZero() {
		r.Add("contactInfo", vo.CodeEmpty, "contact info is required")
	}
	if err := r.Err(); err != nil {
		return Passenger{}, err
	}
	return Passenger{Name: strings.TrimSpace(name), Passport: passport, Contact: contact}, nil
}

// Ticket is a passenger's right to one seat on one flight. While its status
// holds a seat, the FlightRepository holds the matching reservation.
type Ticket struct {
	ID          TicketID
	Number      vo.TicketNumber
	FlightID    FlightID
	PassengerID PassengerID
	Seat        vo.SeatNumber
	Price       vo.Price
	Status      TicketStatus
	BookedAt    time.Time
}

// NewTicket creates a ticket in the booked state.
func NewTicket(number vo.TicketNumber, flight FlightID, passenger PassengerID, seat vo.SeatNumber, price vo.Price, bookedAt time.Time) (Ticket, error) {
	var r vo.ValidationResult
	if number.IsZero() {
		r.Add("ticketNumber", vo.CodeEmpty, "ticket number is required")
	}
	if flight <= 0 {
		r.Add("flightId", vo.CodeEmpty, "flight is required")
	}
	if passenger <= 0 {
		r.Add("passengerId", vo.CodeEmpty, "passenger is required")
	}
	if seat.IsZero() {
		r.Add("seatNumber", vo.CodeEmpty, "seat is required")
	}
	if price.IsZero() {
		r.Add("price", vo.CodeEmpty, "price is required")
	}
	if err := r.Err(); err != nil {
		return Ticket{}, err
	}
	return Ticket{
		Number:      number,
		FlightID:    flight,
		PassengerID: passenger,
		Seat:        seat,
		Price:       price,
		Status:      TicketBooked,
		BookedAt:    bookedAt.UTC(),
	}, nil
}
