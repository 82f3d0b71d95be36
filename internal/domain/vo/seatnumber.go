package vo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var seatNumberPattern = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// SeatNumber identifies one seat: its class followed by its position in
// that cabin, e.g. "Y12" or "F1".
type SeatNumber struct {
	class SeatClass
	seq   int
}

// NewSeatNumber builds a seat number from its parts.
func NewSeatNumber(class SeatClass, seq int) (SeatNumber, error) {
	if class.IsZero() {
		return SeatNumber{}, invalid("seatNumber", CodeUnknownSeatClass, "seat class is required")
	}
	if seq < 1 || seq > MaxSeatsPerClass {
		return SeatNumber{}, invalid("seatNumber", CodeInvalidSequence,
			fmt.Sprintf("seat position must be between 1 and %d", MaxSeatsPerClass))
	}
	return SeatNumber{class: class, seq: seq}, nil
}

// ValidateSeatNumber checks the syntax of a seat number and that its class
// prefix is registered. It says nothing about a particular aircraft.
func ValidateSeatNumber(text string, classes *SeatClassRegistry) ValidationResult {
	_, r := scanSeatNumber(text, classes)
	return r
}

// ParseSeatNumber parses "Y12"-style text. Class aliases are resolved, so
// "E12" parses to Y12, and leading zeros in the position are dropped.
func ParseSeatNumber(text string, classes *SeatClassRegistry) (SeatNumber, error) {
	s, r := scanSeatNumber(text, classes)
	if err := r.Err(); err != nil {
		return SeatNumber{}, err
	}
	return s, nil
}

func scanSeatNumber(text string, classes *SeatClassRegistry) (SeatNumber, ValidationResult) {
	var r ValidationResult
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		r.Add("seatNumber", CodeEmpty, "seat number cannot be empty")
		return SeatNumber{}, r
	}

	m := seatNumberPattern.FindStringSubmatch(text)
	if m == nil {
		r.Add("seatNumber", CodeInvalidFormat, fmt.Sprintf("seat number %q must be a class code followed by digits", text))
		return SeatNumber{}, r
	}

	class, ok := classes.Lookup(m[1])
	if !ok {
		r.Add("seatNumber", CodeUnknownSeatClass, fmt.Sprintf("seat class %q is not registered", m[1]))
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil || !isDigits(m[2]) || seq < 1 || seq > MaxSeatsPerClass {
		r.Add("seatNumber", CodeInvalidSequence,
			fmt.Sprintf("seat position must be between 1 and %d", MaxSeatsPerClass))
	}
	if !r.Valid() {
		return SeatNumber{}, r
	}
	return SeatNumber{class: class, seq: seq}, r
}

// ValidateSeatInLayout checks that seat exists on an aircraft with layout.
func ValidateSeatInLayout(seat SeatNumber, layout SeatClassMap) ValidationResult {
	var r ValidationResult
	n := layout.Count(seat.class)
	switch {
	case n == 0:
		r.Add("seatNumber", CodeClassNotInLayout,
			fmt.Sprintf("aircraft has no %s seats", seat.class))
	case seat.seq > n:
		r.Add("seatNumber", CodeSeatNotInLayout,
			fmt.Sprintf("seat %s is outside the %d %s seats", seat, n, seat.class))
	}
	return r
}

// Class returns the cabin of the seat.
func (s SeatNumber) Class() SeatClass { return s.class }

// Position returns the one-based position within the cabin.
func (s SeatNumber) Position() int { return s.seq }

// IsZero reports whether s is the zero value.
func (s SeatNumber) IsZero() bool { return s.seq == 0 }

func (s SeatNumber) String() string {
	if s.IsZero() {
		panic("vo: formatting an unvalidated SeatNumber")
	}
	return s.class.code + strconv.Itoa(s.seq)
}
