package vo

import (
	"fmt"
	"strings"
)

// SeatClass is a cabin tier drawn from a SeatClassRegistry.
type SeatClass struct {
	code string
}

// Code returns the canonical class code, e.g. "Y".
func (c SeatClass) Code() string { return c.code }

func (c SeatClass) String() string { return c.code }

// IsZero reports whether c was never resolved from a registry.
func (c SeatClass) IsZero() bool { return c.code == "" }

// ValidateSeatClass checks that label names a registered class.
func ValidateSeatClass(label string, classes *SeatClassRegistry) ValidationResult {
	var r ValidationResult
	if strings.TrimSpace(label) == "" {
		r.Add("seatClass", CodeEmpty, "seat class cannot be empty")
		return r
	}
	if _, ok := classes.Lookup(label); !ok {
		r.Add("seatClass", CodeUnknownSeatClass, fmt.Sprintf("seat class %q is not registered", label))
	}
	return r
}

// ParseSeatClass resolves a code, name or alias into a SeatClass.
func ParseSeatClass(label string, classes *SeatClassRegistry) (SeatClass, error) {
	if err := ValidateSeatClass(label, classes).Err(); err != nil {
		return SeatClass{}, err
	}
	c, _ := classes.Lookup(label)
	return c, nil
}
