package sqlite

import (
	"context"
	"time"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

var _ domain.TicketRepository = (*TicketRepository)(nil)

// TicketRepository implements domain.TicketRepository using SQLite.
type TicketRepository struct {
	s *Store
}

const timeFormat = time.RFC3339Nano

const selectTicket = `SELECT id, number, flight_id, passenger_id, seat, price, status, booked_at FROM tickets`

func (r *TicketRepository) Create(ctx context.Context, t domain.Ticket) (domain.TicketID, error) {
	result, err := r.s.db.ExecContext(ctx,
		`INSERT INTO tickets (number, flight_id, passenger_id, seat, price, status, booked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Number.String(), t.FlightID, t.PassengerID, t.Seat.String(), t.Price.String(),
		string(t.Status), t.BookedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return 0, r.writeError("inserting ticket", t, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.PersistenceError("reading ticket id", err)
	}
	return domain.TicketID(id), nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id domain.TicketID) (domain.Ticket, error) {
	t, err := r.scan(r.s.db.QueryRowContext(ctx, selectTicket+` WHERE id = ?`, id))
	if err != nil {
		return domain.Ticket{}, notFound(err, "ticket %d not found", id)
	}
	return t, nil
}

func (r *TicketRepository) FindByNumber(ctx context.Context, number vo.TicketNumber) (domain.Ticket, error) {
	t, err := r.scan(r.s.db.QueryRowContext(ctx, selectTicket+` WHERE number = ?`, number.String()))
	if err != nil {
		return domain.Ticket{}, notFound(err, "ticket %s not found", number)
	}
	return t, nil
}

func (r *TicketRepository) FindAll(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.s.db.QueryContext(ctx, selectTicket+` ORDER BY id`)
	return collect(rows, err, "listing tickets", r.scan)
}

func (r *TicketRepository) FindByFlight(ctx context.Context, flight domain.FlightID) ([]domain.Ticket, error) {
	rows, err := r.s.db.QueryContext(ctx, selectTicket+` WHERE flight_id = ? ORDER BY id`, flight)
	return collect(rows, err, "listing tickets by flight", r.scan)
}

func (r *TicketRepository) FindByPassenger(ctx context.Context, passenger domain.PassengerID) ([]domain.Ticket, error) {
	rows, err := r.s.db.QueryContext(ctx, selectTicket+` WHERE passenger_id = ? ORDER BY id`, passenger)
	return collect(rows, err, "listing tickets by passenger", r.scan)
}

func (r *TicketRepository) Update(ctx context.Context, t domain.Ticket) error {
	result, err := r.s.db.ExecContext(ctx,
		`UPDATE tickets SET number = ?, flight_id = ?, passenger_id = ?, seat = ?, price = ?, status = ?, booked_at = ?
		 WHERE id = ?`,
		t.Number.String(), t.FlightID, t.PassengerID, t.Seat.String(), t.Price.String(),
		string(t.Status), t.BookedAt.UTC().Format(timeFormat), t.ID,
	)
	if err != nil {
		return r.writeError("updating ticket", t, err)
	}
	return execOne(result, nil, "updating ticket", "ticket", int64(t.ID))
}

// UpdateStatus is a single conditional UPDATE, so it is atomic with respect
// to every other writer.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id domain.TicketID, from, to domain.TicketStatus) error {
	result, err := r.s.db.ExecContext(ctx,
		`UPDATE tickets SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from),
	)
	if err != nil {
		return domain.PersistenceError("updating ticket status", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError("checking rows affected", err)
	}
	if n == 1 {
		return nil
	}
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.KindNotFound, "ticket %d not found", id)
	}
	return domain.Errorf(domain.KindConflict, "ticket %d is no longer %s", id, from)
}

func (r *TicketRepository) DeleteByID(ctx context.Context, id domain.TicketID) error {
	result, err := r.s.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id)
	return execOne(result, err, "deleting ticket", "ticket", int64(id))
}

func (r *TicketRepository) Exists(ctx context.Context, id domain.TicketID) (bool, error) {
	return r.s.exists(ctx, "tickets", int64(id))
}

func (r *TicketRepository) Count(ctx context.Context) (int, error) {
	return r.s.count(ctx, "tickets")
}

func (r *TicketRepository) writeError(op string, t domain.Ticket, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.Errorf(domain.KindConflict, "ticket number %s is already issued", t.Number)
	case isForeignKeyViolation(err):
		return domain.Errorf(domain.KindNotFound, "flight %d or passenger %d not found", t.FlightID, t.PassengerID)
	default:
		return domain.PersistenceError(op, err)
	}
}

func (r *TicketRepository) scan(row scanner) (domain.Ticket, error) {
	var t domain.Ticket
	var number, seat, price, status, bookedAt string
	if err := row.Scan(&t.ID, &number, &t.FlightID, &t.PassengerID, &seat, &price, &status, &bookedAt); err != nil {
		return domain.Ticket{}, scanError("scanning ticket", err)
	}

	var err error
	if t.Number, err = vo.ParseTicketNumber(number); err != nil {
		return domain.Ticket{}, decodeError("tickets.number", err)
	}
	if t.Seat, err = vo.ParseSeatNumber(seat, r.s.reg.SeatClasses); err != nil {
		return domain.Ticket{}, decodeError("tickets.seat", err)
	}
	if t.Price, err = vo.ParsePrice(price, r.s.reg.Currencies); err != nil {
		return domain.Ticket{}, decodeError("tickets.price", err)
	}
	if t.BookedAt, err = time.Parse(timeFormat, bookedAt); err != nil {
		return domain.Ticket{}, decodeError("tickets.booked_at", err)
	}
	var ok bool
	if t.Status, ok = domain.ParseTicketStatus(status); !ok {
		return domain.Ticket{}, domain.Errorf(domain.KindPersistence, "decoding tickets.status: unknown status %q", status)
	}
	return t, nil
}
