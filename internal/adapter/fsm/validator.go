package fsm

import (
	"context"
	"errors"

	loopfsm "github.com/looplab/fsm"

	"github.com/neomorfeo/airdesk/internal/domain"
)

// Compile-time checks: the lifecycles used by the services.
var (
	_ domain.TransitionValidator[domain.FlightStatus, domain.FlightEvent] = (*Validator[domain.FlightStatus, domain.FlightEvent])(nil)
	_ domain.TransitionValidator[domain.TicketStatus, domain.TicketEvent] = (*Validator[domain.TicketStatus, domain.TicketEvent])(nil)
)

// buildEvents converts domain transitions into looplab/fsm EventDesc format.
// It consolidates transitions with the same event+destination into a single
// EventDesc with multiple source states (e.g., "cancel" from "scheduled"
// and "delayed" both go to "cancelled").
func buildEvents[S ~string, E ~string](transitions []domain.Transition[S, E]) []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range transitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Validator implements domain.TransitionValidator using looplab/fsm.
// looplab machines hold their own current state, so Apply builds a
// short-lived one starting from the stored status.
type Validator[S ~string, E ~string] struct {
	entity string
	events []loopfsm.EventDesc
}

// New creates an FSM-backed validator for one lifecycle. entity names the
// kind of record in TransitionErrors.
func New[S ~string, E ~string](entity string, transitions []domain.Transition[S, E]) *Validator[S, E] {
	return &Validator[S, E]{entity: entity, events: buildEvents(transitions)}
}

// NewFlight returns the validator for the flight lifecycle.
func NewFlight() *Validator[domain.FlightStatus, domain.FlightEvent] {
	return New("flight", domain.FlightTransitions)
}

// NewTicket returns the validator for the ticket lifecycle.
func NewTicket() *Validator[domain.TicketStatus, domain.TicketEvent] {
	return New("ticket", domain.TicketTransitions)
}

// Apply checks if the given event is valid from the current status and
// returns the destination status. Returns a domain.TransitionError if
// the transition is not allowed.
func (v *Validator[S, E]) Apply(ctx context.Context, current S, event E) (S, error) {
	machine := loopfsm.NewFSM(string(current), v.events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var unknownEvent loopfsm.UnknownEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &unknownEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Entity:  v.entity,
				Event:   string(event),
				Current: string(current),
			}
		}
		return "", err
	}

	return S(machine.Current()), nil
}
