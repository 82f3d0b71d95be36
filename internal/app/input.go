package app

import (
	"errors"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// fieldErrors gathers the failures of several independent parses so a
// caller sees every invalid field at once.
type fieldErrors struct {
	result vo.ValidationResult
	other  error
}

func (f *fieldErrors) check(err error) {
	if err == nil {
		return
	}
	var vr *vo.ValidationResult
	if errors.As(err, &vr) {
		f.result.Merge(*vr)
		return
	}
	if f.other == nil {
		f.other = err
	}
}

func (f *fieldErrors) merge(r vo.ValidationResult) {
	f.result.Merge(r)
}

func (f *fieldErrors) err() error {
	if f.other != nil {
		return f.other
	}
	return f.result.Err()
}

// AircraftInput is the user-supplied description of an aircraft.
type AircraftInput struct {
	Serial string
	Model  string
	Layout string
}

// FlightInput is the user-supplied description of a flight. Schedule and
// Route use their canonical text forms.
type FlightInput struct {
	Number     string
	AircraftID domain.AircraftID
	Schedule   string
	Route      string
}

// PassengerInput is the user-supplied description of a passenger.
type PassengerInput struct {
	Name     string
	Passport string
	Contact  string
}

// BookingInput requests a seat on a flight for a passenger.
type BookingInput struct {
	FlightID    domain.FlightID
	PassengerID domain.PassengerID
	Seat        string
	Price       string
}
