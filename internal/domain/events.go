package domain

import "time"

// EventKind names a domain event.
type EventKind string

const (
	EventTicketBooked        EventKind = "ticket.booked"
	EventTicketCheckedIn     EventKind = "ticket.checked_in"
	EventTicketBoarded       EventKind = "ticket.boarded"
	EventTicketCancelled     EventKind = "ticket.cancelled"
	EventTicketRefunded      EventKind = "ticket.refunded"
	EventFlightStatusChanged EventKind = "flight.status_changed"
)

// Event is a snapshot of something that happened, taken when it happened,
// so consumers never need to query the store.
type Event struct {
	Kind         EventKind
	FlightID     FlightID
	FlightNumber string
	TicketID     TicketID
	TicketNumber string
	Seat         string
	Status       string
	OccurredAt   time.Time
}

var ticketEventKinds = map[TicketStatus]EventKind{
	TicketBooked:    EventTicketBooked,
	TicketCheckedIn: EventTicketCheckedIn,
	TicketBoarded:   EventTicketBoarded,
	TicketCancelled: EventTicketCancelled,
	TicketRefunded:  EventTicketRefunded,
}

// NewTicketEvent describes ticket reaching its current status.
func NewTicketEvent(ticket Ticket) Event {
	return Event{
		Kind:         ticketEventKinds[ticket.Status],
		FlightID:     ticket.FlightID,
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number.String(),
		Seat:         ticket.Seat.String(),
		Status:       string(ticket.Status),
		OccurredAt:   time.Now().UTC(),
	}
}

// NewFlightEvent describes flight reaching its current status.
func NewFlightEvent(flight Flight) Event {
	return Event{
		Kind:         EventFlightStatusChanged,
		FlightID:     flight.ID,
		FlightNumber: flight.Number.String(),
		Status:       string(flight.Status),
		OccurredAt:   time.Now().UTC(),
	}
}
