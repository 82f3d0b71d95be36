package domain

import "fmt"

// ErrorKind classifies a CoreError.
type ErrorKind string

const (
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindInvalidState        ErrorKind = "invalid_state"
	KindSeatNotFound        ErrorKind = "seat_not_found"
	KindSeatAlreadyReserved ErrorKind = "seat_already_reserved"
	KindSeatNotReserved     ErrorKind = "seat_not_reserved"
	KindPersistence         ErrorKind = "persistence"
)

// CoreError is a non-validation failure: a missing entity, a reservation
// conflict, a store outage. Two CoreErrors match under errors.Is when their
// kinds are equal, so callers test against the sentinels below.
type CoreError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	cause   error
}

// Sentinels for errors.Is. Each matches any CoreError of the same kind.
var (
	ErrNotFound            = &CoreError{Kind: KindNotFound, Message: "not found"}
	ErrConflict            = &CoreError{Kind: KindConflict, Message: "conflict"}
	ErrInvalidState        = &CoreError{Kind: KindInvalidState, Message: "invalid state"}
	ErrSeatNotFound        = &CoreError{Kind: KindSeatNotFound, Message: "seat does not exist"}
	ErrSeatAlreadyReserved = &CoreError{Kind: KindSeatAlreadyReserved, Message: "seat already reserved"}
	ErrSeatNotReserved     = &CoreError{Kind: KindSeatNotReserved, Message: "seat is not reserved"}
	ErrPersistence         = &CoreError{Kind: KindPersistence, Message: "persistence failure"}
)

// Errorf creates a CoreError of kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *CoreError {
	return &CoreError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a store failure so it matches ErrPersistence while
// keeping the driver error reachable through errors.Unwrap.
func PersistenceError(op string, err error) *CoreError {
	return &CoreError{Kind: KindPersistence, Message: op + ": " + err.Error(), cause: err}
}

func (e *CoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	return ok && t.Kind == e.Kind
}

func (e *CoreError) Unwrap() error { return e.cause }

// TransitionError is returned when a lifecycle event is not allowed from
// the entity's current status. It matches ErrInvalidState.
type TransitionError struct {
	Entity  string
	Event   string
	Current string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: event %q is not valid from state %q", e.Entity, e.Event, e.Current)
}

func (e *TransitionError) Is(target error) bool {
	t, ok := target.(*CoreError)
	return ok && t.Kind == KindInvalidState
}
