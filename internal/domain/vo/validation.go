// Package vo holds the validated value objects of the airline domain.
//
// Every value object follows the same contract: a Validate function that
// reports every problem it can find as data, a Parse function that always
// validates before constructing, and a String method producing the canonical
// form that Parse accepts back. Zero values are never valid instances.
package vo

import (
	"fmt"
	"strings"
)

// Code identifies why a field failed validation.
type Code string

// ValidationError describes a single failed check on one field.
type ValidationError struct {
	Field   string `json:"field"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Code)
}

// ValidationResult is an ordered collection of validation errors.
// An empty result means the candidate is valid.
type ValidationResult struct {
	errs []ValidationError
}

// Add records a failure for field.
func (r *ValidationResult) Add(field string, code Code, message string) {
	r.errs = append(r.errs, ValidationError{Field: field, Code: code, Message: message})
}

// Merge appends every error of other, preserving order.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.errs = append(r.errs, other.errs...)
}

// Valid reports whether no errors were recorded.
func (r ValidationResult) Valid() bool {
	return len(r.errs) == 0
}

// Errors returns a copy of the recorded errors.
func (r ValidationResult) Errors() []ValidationError {
	out := make([]ValidationError, len(r.errs))
	copy(out, r.errs)
	return out
}

// Has reports whether any recorded error carries code.
func (r ValidationResult) Has(code Code) bool {
	for _, e := range r.errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

// Err returns nil for a valid result, otherwise the result as an error.
// Callers recover the details with errors.As(err, &*ValidationResult).
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationResult{errs: r.Errors()}
}

func (r *ValidationResult) Error() string {
	parts := make([]string, len(r.errs))
	for i, e := range r.errs {
		parts[i] = e.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// invalid is a convenience for parsers that fail on a single check.
func invalid(field string, code Code, message string) error {
	var r ValidationResult
	r.Add(field, code, message)
	return r.Err()
}
