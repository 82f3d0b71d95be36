package vo

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const issueDateLayout = "20060102"

// MaxTicketSerial is the largest per-flight, per-day serial.
const MaxTicketSerial = 9999

var ticketNumberPattern = regexp.MustCompile(`^([A-Z]{2}[0-9]{1,4})-([0-9]{8})-([0-9]{4})$`)

// TicketNumber identifies an issued ticket: flight, issue date and serial,
// e.g. "VN123-20250601-0042".
type TicketNumber struct {
	value string
}

// NewTicketNumber composes a ticket number for a booking on flight issued at
// issued (in UTC) with the given serial.
func NewTicketNumber(flight FlightNumber, issued time.Time, serial int) (TicketNumber, error) {
	if flight.IsZero() {
		return TicketNumber{}, invalid("ticketNumber", CodeEmpty, "flight number is required")
	}
	if serial < 0 || serial > MaxTicketSerial {
		return TicketNumber{}, invalid("ticketNumber", CodeInvalidSequence,
			fmt.Sprintf("ticket serial must be between 0 and %d", MaxTicketSerial))
	}
	return TicketNumber{
		value: fmt.Sprintf("%s-%s-%04d", flight.value, issued.UTC().Format(issueDateLayout), serial),
	}, nil
}

// ValidateTicketNumber checks text against the ticket number format and
// that the embedded issue date is a real calendar day.
func ValidateTicketNumber(text string) ValidationResult {
	var r ValidationResult
	if text == "" {
		r.Add("ticketNumber", CodeEmpty, "ticket number cannot be empty")
		return r
	}

	m := ticketNumberPattern.FindStringSubmatch(text)
	if m == nil {
		r.Add("ticketNumber", CodeInvalidFormat,
			fmt.Sprintf("ticket number %q must look like VN123-20250601-0001", text))
		return r
	}
	r.Merge(ValidateFlightNumber(m[1]))
	if _, err := time.Parse(issueDateLayout, m[2]); err != nil {
		r.Add("ticketNumber", CodeInvalidIssueDate, fmt.Sprintf("issue date %s is not a calendar date", m[2]))
	}
	return r
}

// ParseTicketNumber trims and upper-cases text before validating it.
func ParseTicketNumber(text string) (TicketNumber, error) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if err := ValidateTicketNumber(text).Err(); err != nil {
		return TicketNumber{}, err
	}
	return TicketNumber{value: text}, nil
}

// IsZero reports whether n is the zero value.
func (n TicketNumber) IsZero() bool { return n.value == "" }

func (n TicketNumber) String() string {
	if n.value == "" {
		panic("vo: formatting an unvalidated TicketNumber")
	}
	return n.value
}
