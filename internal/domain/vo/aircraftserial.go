package vo

import (
	"fmt"
	"regexp"
	"strings"
)

var aircraftSerialPattern = regexp.MustCompile(`^[A-Z]{2,3}[0-9]{1,7}$`)

// AircraftSerial is the registration serial painted on an airframe.
type AircraftSerial struct {
	value string
}

// ValidateAircraftSerial checks text against the serial format.
func ValidateAircraftSerial(text string) ValidationResult {
	var r ValidationResult
	switch {
	case text == "":
		r.Add("aircraftSerial", CodeEmpty, "aircraft serial cannot be empty")
	case len(text) < 3 || len(text) > 10:
		r.Add("aircraftSerial", CodeInvalidLength, "aircraft serial must be between 3 and 10 characters")
	case !aircraftSerialPattern.MatchString(text):
		r.Add("aircraftSerial", CodeInvalidFormat,
			fmt.Sprintf("aircraft serial %q must be 2-3 letters followed by 1-7 digits", text))
	}
	return r
}

// ParseAircraftSerial trims and upper-cases text before validating it.
func ParseAircraftSerial(text string) (AircraftSerial, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if err := ValidateAircraftSerial(text).Err(); err != nil {
		return AircraftSerial{}, err
	}
	return AircraftSerial{value: text}, nil
}

// IsZero reports whether s is the zero value.
func (s AircraftSerial) IsZero() bool { return s.value == "" }

func (s AircraftSerial) String() string {
	if s.value == "" {
		panic("vo: formatting an unvalidated AircraftSerial")
	}
	return s.value
}
