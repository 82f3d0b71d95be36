package vo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxSeatsPerClass bounds a single cabin so seat numbers stay three digits.
const MaxSeatsPerClass = 999

const (
	pairSeparator  = ","
	countSeparator = ":"
)

// SeatCount is one entry of a layout.
type SeatCount struct {
	Class SeatClass
	Count int
}

// SeatClassMap is an aircraft cabin layout: how many seats each class has.
// Entries are held in registry order, which makes String canonical.
type SeatClassMap struct {
	counts []SeatCount
}

// NewSeatClassMap builds a layout from per-class counts.
func NewSeatClassMap(counts map[SeatClass]int, classes *SeatClassRegistry) (SeatClassMap, error) {
	var r ValidationResult
	if len(counts) == 0 {
		r.Add("seatClassMap", CodeEmpty, "seat class map cannot be empty")
		return SeatClassMap{}, r.Err()
	}

	entries := make([]SeatCount, 0, len(counts))
	for class, n := range counts {
		if _, ok := classes.Lookup(class.code); !ok || class.IsZero() {
			r.Add("seatClassMap", CodeUnknownSeatClass, fmt.Sprintf("seat class %q is not registered", class.code))
			continue
		}
		checkSeatCount(&r, class, n)
		entries = append(entries, SeatCount{Class: class, Count: n})
	}
	checkHasSeats(&r, entries)
	if err := r.Err(); err != nil {
		return SeatClassMap{}, err
	}

	return newOrderedMap(entries, classes), nil
}

// ValidateSeatClassMap checks a "CLASS:COUNT,CLASS:COUNT" layout string.
// Every pair is checked; the result holds all failures.
func ValidateSeatClassMap(text string, classes *SeatClassRegistry) ValidationResult {
	_, r := scanSeatClassMap(text, classes)
	return r
}

// ParseSeatClassMap parses a layout string such as "F:4,Y:150".
// Class labels may be any code, name or alias known to classes.
func ParseSeatClassMap(text string, classes *SeatClassRegistry) (SeatClassMap, error) {
	entries, r := scanSeatClassMap(text, classes)
	if err := r.Err(); err != nil {
		return SeatClassMap{}, err
	}
	return newOrderedMap(entries, classes), nil
}

func scanSeatClassMap(text string, classes *SeatClassRegistry) ([]SeatCount, ValidationResult) {
	var r ValidationResult
	if strings.TrimSpace(text) == "" {
		r.Add("seatClassMap", CodeEmpty, "seat class map cannot be empty")
		return nil, r
	}

	var entries []SeatCount
	seen := make(map[SeatClass]bool)
	for i, pair := range strings.Split(text, pairSeparator) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			r.Add("seatClassMap", CodeInvalidFormat, fmt.Sprintf("pair %d is empty", i+1))
			continue
		}

		label, count, ok := strings.Cut(pair, countSeparator)
		label, count = strings.TrimSpace(label), strings.TrimSpace(count)
		if !ok || label == "" || count == "" || strings.Contains(count, countSeparator) {
			r.Add("seatClassMap", CodeInvalidFormat, fmt.Sprintf("pair %q must look like CLASS:COUNT", pair))
			continue
		}

		class, known := classes.Lookup(label)
		if !known {
			r.Add("seatClassMap", CodeUnknownSeatClass, fmt.Sprintf("seat class %q is not registered", label))
		}

		n, err := strconv.Atoi(count)
		if err != nil || !isDigits(strings.TrimPrefix(count, "-")) {
			r.Add("seatClassMap", CodeInvalidSeatCount, fmt.Sprintf("seat count %q is not an integer", count))
			continue
		}
		if !known {
			continue
		}

		if seen[class] {
			r.Add("seatClassMap", CodeDuplicateSeatClass, fmt.Sprintf("seat class %s appears more than once", class))
			continue
		}
		seen[class] = true

		checkSeatCount(&r, class, n)
		entries = append(entries, SeatCount{Class: class, Count: n})
	}

	if r.Valid() {
		checkHasSeats(&r, entries)
	}
	return entries, r
}

func checkSeatCount(r *ValidationResult, class SeatClass, n int) {
	switch {
	case n < 0:
		r.Add("seatClassMap", CodeNegativeSeatCount, fmt.Sprintf("seat count for %s cannot be negative", class))
	case n > MaxSeatsPerClass:
		r.Add("seatClassMap", CodeInvalidSeatCount, fmt.Sprintf("seat count for %s exceeds %d", class, MaxSeatsPerClass))
	}
}

func checkHasSeats(r *ValidationResult, entries []SeatCount) {
	for _, e := range entries {
		if e.Count > 0 {
			return
		}
	}
	r.Add("seatClassMap", CodeNoSeats, "at least one seat class must have seats")
}

func newOrderedMap(entries []SeatCount, classes *SeatClassRegistry) SeatClassMap {
	sorted := append([]SeatCount(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return classes.rank(sorted[i].Class) < classes.rank(sorted[j].Class)
	})
	return SeatClassMap{counts: sorted}
}

// String renders the canonical "F:4,Y:150" form.
func (m SeatClassMap) String() string {
	if len(m.counts) == 0 {
		panic("vo: formatting an unvalidated SeatClassMap")
	}
	parts := make([]string, len(m.counts))
	for i, c := range m.counts {
		parts[i] = c.Class.code + countSeparator + strconv.Itoa(c.Count)
	}
	return strings.Join(parts, pairSeparator)
}

// IsZero reports whether m is the zero value.
func (m SeatClassMap) IsZero() bool { return len(m.counts) == 0 }

// Equal reports whether both layouts hold the same counts.
func (m SeatClassMap) Equal(other SeatClassMap) bool {
	if len(m.counts) != len(other.counts) {
		return false
	}
	for i := range m.counts {
		if m.counts[i] != other.counts[i] {
			return false
		}
	}
	return true
}

// Counts returns the layout entries in canonical order.
func (m SeatClassMap) Counts() []SeatCount {
	return append([]SeatCount(nil), m.counts...)
}

// Classes returns the classes that have at least one seat.
func (m SeatClassMap) Classes() []SeatClass {
	var out []SeatClass
	for _, c := range m.counts {
		if c.Count > 0 {
			out = append(out, c.Class)
		}
	}
	return out
}

// Count returns the number of seats of class, zero if absent.
func (m SeatClassMap) Count(class SeatClass) int {
	for _, c := range m.counts {
		if c.Class == class {
			return c.Count
		}
	}
	return 0
}

// Total is the aircraft capacity.
func (m SeatClassMap) Total() int {
	total := 0
	for _, c := range m.counts {
		total += c.Count
	}
	return total
}

// Contains reports whether seat exists in this layout.
func (m SeatClassMap) Contains(seat SeatNumber) bool {
	return seat.seq >= 1 && seat.seq <= m.Count(seat.class)
}

// Seats enumerates every seat in canonical order: class order, then number.
func (m SeatClassMap) Seats() []SeatNumber {
	out := make([]SeatNumber, 0, m.Total())
	for _, c := range m.counts {
		for seq := 1; seq <= c.Count; seq++ {
			out = append(out, SeatNumber{class: c.Class, seq: seq})
		}
	}
	return out
}
