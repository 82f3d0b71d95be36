package vo

import (
	"fmt"
	"regexp"
	"strings"
)

var flightNumberPattern = regexp.MustCompile(`^[A-Z]{2}[1-9][0-9]{0,3}$`)

// FlightNumber is an airline designator followed by a route number, e.g. "VN123".
type FlightNumber struct {
	value string
}

// ValidateFlightNumber checks text against the designator format.
// Input is not normalized; use ParseFlightNumber for user input.
func ValidateFlightNumber(text string) ValidationResult {
	var r ValidationResult
	switch {
	case text == "":
		r.Add("flightNumber", CodeEmpty, "flight number cannot be empty")
	case len(text) < 3 || len(text) > 6:
		r.Add("flightNumber", CodeInvalidLength, "flight number must be between 3 and 6 characters")
	case !flightNumberPattern.MatchString(text):
		r.Add("flightNumber", CodeInvalidFormat,
			fmt.Sprintf("flight number %q must be 2 letters followed by 1-4 digits", text))
	}
	return r
}

// ParseFlightNumber trims and upper-cases text before validating it.
func ParseFlightNumber(text string) (FlightNumber, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if err := ValidateFlightNumber(text).Err(); err != nil {
		return FlightNumber{}, err
	}
	return FlightNumber{value: text}, nil
}

// Airline returns the two-letter carrier designator.
func (f FlightNumber) Airline() string {
	if len(f.value) < 2 {
		return ""
	}
	return f.value[:2]
}

// IsZero reports whether f is the zero value.
func (f FlightNumber) IsZero() bool { return f.value == "" }

func (f FlightNumber) String() string {
	if f.value == "" {
		panic("vo: formatting an unvalidated FlightNumber")
	}
	return f.value
}
