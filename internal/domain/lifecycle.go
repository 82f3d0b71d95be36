package domain

// Transition defines a valid state change: an event moves an entity from Src to Dst.
type Transition[S ~string, E ~string] struct {
	Event E
	Src   S
	Dst   S
}

// FlightStatus represents the operational state of a flight.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "scheduled"
	FlightDelayed   FlightStatus = "delayed"
	FlightBoarding  FlightStatus = "boarding"
	FlightDeparted  FlightStatus = "departed"
	FlightArrived   FlightStatus = "arrived"
	FlightCancelled FlightStatus = "cancelled"
)

// FlightEvent is an operational action that changes a flight's status.
type FlightEvent string

const (
	FlightEventDelay  FlightEvent = "delay"
	FlightEventResume FlightEvent = "resume"
	FlightEventBoard  FlightEvent = "board"
	FlightEventDepart FlightEvent = "depart"
	FlightEventArrive FlightEvent = "arrive"
	FlightEventCancel FlightEvent = "cancel"
)

// FlightTransitions defines all valid state changes in the flight lifecycle.
var FlightTransitions = []Transition[FlightStatus, FlightEvent]{
	{Event: FlightEventDelay, Src: FlightScheduled, Dst: FlightDelayed},
	{Event: FlightEventResume, Src: FlightDelayed, Dst: FlightScheduled},
	{Event: FlightEventBoard, Src: FlightScheduled, Dst: FlightBoarding},
	{Event: FlightEventBoard, Src: FlightDelayed, Dst: FlightBoarding},
	{Event: FlightEventDepart, Src: FlightBoarding, Dst: FlightDeparted},
	{Event: FlightEventArrive, Src: FlightDeparted, Dst: FlightArrived},
	{Event: FlightEventCancel, Src: FlightScheduled, Dst: FlightCancelled},
	{Event: FlightEventCancel, Src: FlightDelayed, Dst: FlightCancelled},
	{Event: FlightEventCancel, Src: FlightBoarding, Dst: FlightCancelled},
}

// Bookable reports whether tickets may still be sold for a flight in s.
func (s FlightStatus) Bookable() bool {
	return s == FlightScheduled || s == FlightDelayed
}

// Editable reports whether schedule, route or aircraft may still change.
func (s FlightStatus) Editable() bool {
	return s == FlightScheduled || s == FlightDelayed
}

// TicketStatus represents the state of a ticket.
type TicketStatus string

const (
	TicketBooked    TicketStatus = "booked"
	TicketCheckedIn TicketStatus = "checked_in"
	TicketBoarded   TicketStatus = "boarded"
	TicketCancelled TicketStatus = "cancelled"
	TicketRefunded  TicketStatus = "refunded"
)

// TicketEvent is a passenger or agent action on a ticket.
type TicketEvent string

const (
	TicketEventCheckIn TicketEvent = "check_in"
	TicketEventBoard   TicketEvent = "board"
	TicketEventCancel  TicketEvent = "cancel"
	TicketEventRefund  TicketEvent = "refund"
)

// TicketTransitions defines all valid state changes in the ticket lifecycle.
var TicketTransitions = []Transition[TicketStatus, TicketEvent]{
	{Event: TicketEventCheckIn, Src: TicketBooked, Dst: TicketCheckedIn},
	{Event: TicketEventBoard, Src: TicketCheckedIn, Dst: TicketBoarded},
	{Event: TicketEventCancel, Src: TicketBooked, Dst: TicketCancelled},
	{Event: TicketEventCancel, Src: TicketCheckedIn, Dst: TicketCancelled},
	{Event: TicketEventCancel, Src: TicketBoarded, Dst: TicketCancelled},
	{Event: TicketEventRefund, Src: TicketCancelled, Dst: TicketRefunded},
}

// HoldsSeat reports whether a ticket in s owns a seat reservation.
func (s TicketStatus) HoldsSeat() bool {
	return s == TicketBooked || s == TicketCheckedIn || s == TicketBoarded
}

// ParseTicketStatus returns the status named by s.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch st := TicketStatus(s); st {
	case TicketBooked, TicketCheckedIn, TicketBoarded, TicketCancelled, TicketRefunded:
		return st, true
	}
	return "", false
}

// ParseFlightStatus returns the status named by s.
func ParseFlightStatus(s string) (FlightStatus, bool) {
	switch st := FlightStatus(s); st {
	case FlightScheduled, FlightDelayed, FlightBoarding, FlightDeparted, FlightArrived, FlightCancelled:
		return st, true
	}
	return "", false
}
