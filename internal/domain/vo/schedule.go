package vo

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleLayout is the layout of each half of a schedule's canonical form.
const ScheduleLayout = "2006-01-02 15:04"

// Schedule is a departure and arrival pair with minute precision in UTC.
// Departure is always strictly before arrival.
type Schedule struct {
	departure time.Time
	arrival   time.Time
}

// NewSchedule truncates both instants to the minute in UTC and checks
// their order.
func NewSchedule(departure, arrival time.Time) (Schedule, error) {
	s, r := checkSchedule(departure, arrival)
	if err := r.Err(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// ValidateSchedule checks "2025-06-01 08:00|2025-06-01 10:15" text.
func ValidateSchedule(text string) ValidationResult {
	_, r := scanSchedule(text)
	return r
}

// ParseSchedule parses "departure|arrival" text, both halves in UTC.
func ParseSchedule(text string) (Schedule, error) {
	s, r := scanSchedule(text)
	if err := r.Err(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

func scanSchedule(text string) (Schedule, ValidationResult) {
	var r ValidationResult
	text = strings.TrimSpace(text)
	if text == "" {
		r.Add("schedule", CodeEmpty, "schedule cannot be empty")
		return Schedule{}, r
	}
	dep, arr, ok := strings.Cut(text, "|")
	if !ok || strings.Contains(arr, "|") {
		r.Add("schedule", CodeInvalidFormat, "schedule must look like 2025-06-01 08:00|2025-06-01 10:15")
		return Schedule{}, r
	}

	departure, err := time.Parse(ScheduleLayout, strings.TrimSpace(dep))
	if err != nil {
		r.Add("departure", CodeInvalidDeparture, fmt.Sprintf("departure %q must use %s", dep, ScheduleLayout))
	}
	arrival, err := time.Parse(ScheduleLayout, strings.TrimSpace(arr))
	if err != nil {
		r.Add("arrival", CodeInvalidArrival, fmt.Sprintf("arrival %q must use %s", arr, ScheduleLayout))
	}
	if !r.Valid() {
		return Schedule{}, r
	}
	return checkSchedule(departure, arrival)
}

func checkSchedule(departure, arrival time.Time) (Schedule, ValidationResult) {
	var r ValidationResult
	if departure.IsZero() {
		r.Add("departure", CodeInvalidDeparture, "departure is required")
	}
	if arrival.IsZero() {
		r.Add("arrival", CodeInvalidArrival, "arrival is required")
	}
	if !r.Valid() {
		return Schedule{}, r
	}

	departure = departure.UTC().Truncate(time.Minute)
	arrival = arrival.UTC().Truncate(time.Minute)
	if !arrival.After(departure) {
		r.Add("schedule", CodeArrivalBeforeDeparture, "arrival must be after departure")
		return Schedule{}, r
	}
	return Schedule{departure: departure, arrival: arrival}, r
}

func (s Schedule) Departure() time.Time { return s.departure }
func (s Schedule) Arrival() time.Time   { return s.arrival }

// Duration is the block time of the flight.
func (s Schedule) Duration() time.Duration { return s.arrival.Sub(s.departure) }

// Overlaps reports whether the two schedules share any instant.
// Back-to-back schedules do not overlap.
func (s Schedule) Overlaps(other Schedule) bool {
	return s.departure.Before(other.arrival) && other.departure.Before(s.arrival)
}

// IsZero reports whether s is the zero value.
func (s Schedule) IsZero() bool { return s.departure.IsZero() }

// Equal reports whether both schedules hold the same instants.
func (s Schedule) Equal(other Schedule) bool {
	return s.departure.Equal(other.departure) && s.arrival.Equal(other.arrival)
}

func (s Schedule) String() string {
	if s.IsZero() {
		panic("vo: formatting an unvalidated Schedule")
	}
	return s.departure.Format(ScheduleLayout) + "|" + s.arrival.Format(ScheduleLayout)
}
