package memory

import (
	"context"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

// Compile-time checks.
var (
	_ domain.AircraftRepository  = (*AircraftRepository)(nil)
	_ domain.FlightRepository    = (*FlightRepository)(nil)
	_ domain.PassengerRepository = (*PassengerRepository)(nil)
	_ domain.TicketRepository    = (*TicketRepository)(nil)
)

// AircraftRepository implements domain.AircraftRepository.
type AircraftRepository struct{ s *Store }

func (r *AircraftRepository) Create(_ context.Context, a domain.Aircraft) (domain.AircraftID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.serialTaken(a.Serial, 0) {
		return 0, domain.Errorf(domain.KindConflict, "aircraft serial %s is already registered", a.Serial)
	}
	return r.s.aircraft.insert(a), nil
}

func (r *AircraftRepository) FindByID(_ context.Context, id domain.AircraftID) (domain.Aircraft, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.aircraft.get(id)
	if !ok {
		return domain.Aircraft{}, domain.Errorf(domain.KindNotFound, "aircraft %d not found", id)
	}
	return a, nil
}

func (r *AircraftRepository) FindBySerial(_ context.Context, serial vo.AircraftSerial) (domain.Aircraft, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, a := range r.s.aircraft.rows {
		if a.Serial == serial {
			return a, nil
		}
	}
	return domain.Aircraft{}, domain.Errorf(domain.KindNotFound, "aircraft %s not found", serial)
}

func (r *AircraftRepository) FindAll(_ context.Context) ([]domain.Aircraft, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.aircraft.all(nil), nil
}

func (r *AircraftRepository) Update(_ context.Context, a domain.Aircraft) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.serialTaken(a.Serial, a.ID) {
		return domain.Errorf(domain.KindConflict, "aircraft serial %s is already registered", a.Serial)
	}
	if _, ok := r.s.aircraft.get(a.ID); !ok {
		return domain.Errorf(domain.KindNotFound, "aircraft %d not found", a.ID)
	}
	for _, f := range r.s.flights.rows {
		if f.AircraftID != a.ID {
			continue
		}
		if seat, ok := r.s.outsideLayout(f.ID, a.Layout); ok {
			return domain.Errorf(domain.KindConflict,
				"layout %s drops seat %s reserved on flight %s (%d)", a.Layout, seat, f.Number, f.ID)
		}
	}
	r.s.aircraft.replace(a)
	return nil
}

func (r *AircraftRepository) DeleteByID(_ context.Context, id domain.AircraftID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.aircraft.get(id); !ok {
		return domain.Errorf(domain.KindNotFound, "aircraft %d not found", id)
	}
	for _, f := range r.s.flights.rows {
		if f.AircraftID == id {
			return domain.Errorf(domain.KindConflict, "aircraft %d is assigned to flights", id)
		}
	}
	r.s.aircraft.remove(id)
	return nil
}

func (r *AircraftRepository) Exists(_ context.Context, id domain.AircraftID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.aircraft.get(id)
	return ok, nil
}

func (r *AircraftRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.aircraft.rows), nil
}

func (r *AircraftRepository) serialTaken(serial vo.AircraftSerial, self domain.AircraftID) bool {
	for id, a := range r.s.aircraft.rows {
		if id != self && a.Serial == serial {
			return true
		}
	}
	return false
}

// FlightRepository implements domain.FlightRepository including its seat
// reservations.
type FlightRepository struct{ s *Store }

func (r *FlightRepository) Create(_ context.Context, f domain.Flight) (domain.FlightID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.aircraft.get(f.AircraftID); !ok {
		return 0, domain.Errorf(domain.KindNotFound, "aircraft %d not found", f.AircraftID)
	}
	return r.s.flights.insert(f), nil
}

func (r *FlightRepository) FindByID(_ context.Context, id domain.FlightID) (domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.flights.get(id)
	if !ok {
		return domain.Flight{}, domain.Errorf(domain.KindNotFound, "flight %d not found", id)
	}
	return f, nil
}

func (r *FlightRepository) FindAll(_ context.Context) ([]domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.flights.all(nil), nil
}

func (r *FlightRepository) FindByNumber(_ context.Context, number vo.FlightNumber) ([]domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.flights.all(func(f domain.Flight) bool { return f.Number == number }), nil
}

func (r *FlightRepository) FindByAircraft(_ context.Context, aircraft domain.AircraftID) ([]domain.Flight, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.flights.all(func(f domain.Flight) bool { return f.AircraftID == aircraft }), nil
}

// Update replaces the flight row. Reservations are left untouched.
func (r *FlightRepository) Update(_ context.Context, f domain.Flight) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.aircraft.get(f.AircraftID)
	if !ok {
		return domain.Errorf(domain.KindNotFound, "aircraft %d not found", f.AircraftID)
	}
	if _, ok := r.s.flights.get(f.ID); !ok {
		return domain.Errorf(domain.KindNotFound, "flight %d not found", f.ID)
	}
	if seat, ok := r.s.outsideLayout(f.ID, a.Layout); ok {
		return domain.Errorf(domain.KindConflict,
			"aircraft %s has no seat %s reserved on flight %d", a.Serial, seat, f.ID)
	}
	r.s.flights.replace(f)
	return nil
}

func (r *FlightRepository) DeleteByID(_ context.Context, id domain.FlightID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.flights.get(id); !ok {
		return domain.Errorf(domain.KindNotFound, "flight %d not found", id)
	}
	if len(r.s.reservations[id]) > 0 {
		return domain.Errorf(domain.KindConflict, "flight %d has reserved seats", id)
	}
	for _, t := range r.s.tickets.rows {
		if t.FlightID == id {
			return domain.Errorf(domain.KindConflict, "flight %d has tickets", id)
		}
	}
	r.s.flights.remove(id)
	delete(r.s.reservations, id)
	return nil
}

func (r *FlightRepository) Exists(_ context.Context, id domain.FlightID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.flights.get(id)
	return ok, nil
}

func (r *FlightRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.flights.rows), nil
}

// ReserveSeat checks the layout and claims the seat under the store's
// write lock.
func (r *FlightRepository) ReserveSeat(_ context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.flights.get(flight)
	if !ok {
		return domain.Errorf(domain.KindNotFound, "flight %d not found", flight)
	}
	if a, ok := r.s.aircraft.get(f.AircraftID); !ok || !a.Layout.Contains(seat) {
		return domain.Errorf(domain.KindSeatNotFound, "seat %s does not exist on flight %d", seat, flight)
	}
	seats := r.s.reservations[flight]
	if seats == nil {
		seats = make(map[vo.SeatNumber]struct{})
		r.s.reservations[flight] = seats
	}
	if _, taken := seats[seat]; taken {
		return domain.Errorf(domain.KindSeatAlreadyReserved, "seat %s on flight %d is already reserved", seat, flight)
	}
	seats[seat] = struct{}{}
	return nil
}

func (r *FlightRepository) ReleaseSeat(_ context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.flights.get(flight); !ok {
		return domain.Errorf(domain.KindNotFound, "flight %d not found", flight)
	}
	if _, taken := r.s.reservations[flight][seat]; !taken {
		return domain.Errorf(domain.KindSeatNotReserved, "seat %s on flight %d is not reserved", seat, flight)
	}
	delete(r.s.reservations[flight], seat)
	return nil
}

func (r *FlightRepository) ReservedSeats(_ context.Context, flight domain.FlightID) ([]vo.SeatNumber, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.flights.get(flight); !ok {
		return nil, domain.Errorf(domain.KindNotFound, "flight %d not found", flight)
	}
	out := make([]vo.SeatNumber, 0, len(r.s.reservations[flight]))
	for seat := range r.s.reservations[flight] {
		out = append(out, seat)
	}
	return out, nil
}

func (r *FlightRepository) IsSeatReserved(_ context.Context, flight domain.FlightID, seat vo.SeatNumber) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.flights.get(flight); !ok {
		return false, domain.Errorf(domain.KindNotFound, "flight %d not found", flight)
	}
	_, taken := r.s.reservations[flight][seat]
	return taken, nil
}

// PassengerRepository implements domain.PassengerRepository.
type PassengerRepository struct{ s *Store }

func (r *PassengerRepository) Create(_ context.Context, p domain.Passenger) (domain.PassengerID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.passportTaken(p.Passport, 0) {
		return 0, domain.Errorf(domain.KindConflict, "passport %s is already registered", p.Passport)
	}
	return r.s.passengers.insert(p), nil
}

func (r *PassengerRepository) FindByID(_ context.Context, id domain.PassengerID) (domain.Passenger, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.passengers.get(id)
	if !ok {
		return domain.Passenger{}, domain.Errorf(domain.KindNotFound, "passenger %d not found", id)
	}
	return p, nil
}

func (r *PassengerRepository) FindByPassport(_ context.Context, passport vo.PassportNumber) (domain.Passenger, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.passengers.rows {
		if p.Passport == passport {
			return p, nil
		}
	}
	return domain.Passenger{}, domain.Errorf(domain.KindNotFound, "passenger with passport %s not found", passport)
}

func (r *PassengerRepository) FindAll(_ context.Context) ([]domain.Passenger, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.passengers.all(nil), nil
}

func (r *PassengerRepository) Update(_ context.Context, p domain.Passenger) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.passportTaken(p.Passport, p.ID) {
		return domain.Errorf(domain.KindConflict, "passport %s is already registered", p.Passport)
	}
	if !r.s.passengers.replace(p) {
		return domain.Errorf(domain.KindNotFound, "passenger %d not found", p.ID)
	}
	return nil
}

func (r *PassengerRepository) DeleteByID(_ context.Context, id domain.PassengerID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.passengers.get(id); !ok {
		return domain.Errorf(domain.KindNotFound, "passenger %d not found", id)
	}
	for _, t := range r.s.tickets.rows {
		if t.PassengerID == id {
			return domain.Errorf(domain.KindConflict, "passenger %d has tickets", id)
		}
	}
	r.s.passengers.remove(id)
	return nil
}

func (r *PassengerRepository) Exists(_ context.Context, id domain.PassengerID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.passengers.get(id)
	return ok, nil
}

func (r *PassengerRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.passengers.rows), nil
}

func (r *PassengerRepository) passportTaken(passport vo.PassportNumber, self domain.PassengerID) bool {
	for id, p := range r.s.passengers.rows {
		if id != self && p.Passport == passport {
			return true
		}
	}
	return false
}

// TicketRepository implements domain.TicketRepository.
type TicketRepository struct{ s *Store }

func (r *TicketRepository) Create(_ context.Context, t domain.Ticket) (domain.TicketID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(t); err != nil {
		return 0, err
	}
	if r.numberTaken(t.Number, 0) {
		return 0, domain.Errorf(domain.KindConflict, "ticket number %s is already issued", t.Number)
	}
	return r.s.tickets.insert(t), nil
}

func (r *TicketRepository) FindByID(_ context.Context, id domain.TicketID) (domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets.get(id)
	if !ok {
		return domain.Ticket{}, domain.Errorf(domain.KindNotFound, "ticket %d not found", id)
	}
	return t, nil
}

func (r *TicketRepository) FindByNumber(_ context.Context, number vo.TicketNumber) (domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tickets.rows {
		if t.Number == number {
			return t, nil
		}
	}
	return domain.Ticket{}, domain.Errorf(domain.KindNotFound, "ticket %s not found", number)
}

func (r *TicketRepository) FindAll(_ context.Context) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.tickets.all(nil), nil
}

func (r *TicketRepository) FindByFlight(_ context.Context, flight domain.FlightID) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.tickets.all(func(t domain.Ticket) bool { return t.FlightID == flight }), nil
}

func (r *TicketRepository) FindByPassenger(_ context.Context, passenger domain.PassengerID) ([]domain.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.tickets.all(func(t domain.Ticket) bool { return t.PassengerID == passenger }), nil
}

func (r *TicketRepository) Update(_ context.Context, t domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(t); err != nil {
		return err
	}
	if r.numberTaken(t.Number, t.ID) {
		return domain.Errorf(domain.KindConflict, "ticket number %s is already issued", t.Number)
	}
	if !r.s.tickets.replace(t) {
		return domain.Errorf(domain.KindNotFound, "ticket %d not found", t.ID)
	}
	return nil
}

// UpdateStatus compares and sets the status under the store's write lock.
func (r *TicketRepository) UpdateStatus(_ context.Context, id domain.TicketID, from, to domain.TicketStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets.get(id)
	if !ok {
		return domain.Errorf(domain.KindNotFound, "ticket %d not found", id)
	}
	if t.Status != from {
		return domain.Errorf(domain.KindConflict, "ticket %s is %s, not %s", t.Number, t.Status, from)
	}
	t.Status = to
	r.s.tickets.replace(t)
	return nil
}

func (r *TicketRepository) DeleteByID(_ context.Context, id domain.TicketID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.tickets.remove(id) {
		return domain.Errorf(domain.KindNotFound, "ticket %d not found", id)
	}
	return nil
}

func (r *TicketRepository) Exists(_ context.Context, id domain.TicketID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.tickets.get(id)
	return ok, nil
}

func (r *TicketRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.tickets.rows), nil
}

func (r *TicketRepository) checkRefs(t domain.Ticket) error {
	if _, ok := r.s.flights.get(t.FlightID); !ok {
		return domain.Errorf(domain.KindNotFound, "flight %d not found", t.FlightID)
	}
	if _, ok := r.s.passengers.get(t.PassengerID); !ok {
		return domain.Errorf(domain.KindNotFound, "passenger %d not found", t.PassengerID)
	}
	return nil
}

func (r *TicketRepository) numberTaken(number vo.TicketNumber, self domain.TicketID) bool {
	for id, t := range r.s.tickets.rows {
		if id != self && t.Number == number {
			return true
		}
	}
	return false
}
