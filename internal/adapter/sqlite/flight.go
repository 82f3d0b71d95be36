package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

var _ domain.FlightRepository = (*FlightRepository)(nil)

// FlightRepository implements domain.FlightRepository using SQLite. Seat
// reservations live in their own table keyed by (flight_id, seat_number).
type FlightRepository struct {
	s *Store
}

const selectFlight = `SELECT id, number, aircraft_id, departure, arrival, route, status FROM flights`

func (r *FlightRepository) Create(ctx context.Context, f domain.Flight) (domain.FlightID, error) {
	result, err := r.s.db.ExecContext(ctx,
		`INSERT INTO flights (number, aircraft_id, departure, arrival, route, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.Number.String(), f.AircraftID,
		f.Schedule.Departure().Format(vo.ScheduleLayout),
		f.Schedule.Arrival().Format(vo.ScheduleLayout),
		f.Route.String(), string(f.Status),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.Errorf(domain.KindNotFound, "aircraft %d not found", f.AircraftID)
		}
		return 0, domain.PersistenceError("inserting flight", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.PersistenceError("reading flight id", err)
	}
	return domain.FlightID(id), nil
}

func (r *FlightRepository) FindByID(ctx context.Context, id domain.FlightID) (domain.Flight, error) {
	f, err := r.scan(r.s.db.QueryRowContext(ctx, selectFlight+` WHERE id = ?`, id))
	if err != nil {
		return domain.Flight{}, notFound(err, "flight %d not found", id)
	}
	return f, nil
}

func (r *FlightRepository) FindAll(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.s.db.QueryContext(ctx, selectFlight+` ORDER BY id`)
	return collect(rows, err, "listing flights", r.scan)
}

func (r *FlightRepository) FindByNumber(ctx context.Context, number vo.FlightNumber) ([]domain.Flight, error) {
	rows, err := r.s.db.QueryContext(ctx, selectFlight+` WHERE number = ? ORDER BY id`, number.String())
	return collect(rows, err, "listing flights by number", r.scan)
}

func (r *FlightRepository) FindByAircraft(ctx context.Context, aircraft domain.AircraftID) ([]domain.Flight, error) {
	rows, err := r.s.db.QueryContext(ctx, selectFlight+` WHERE aircraft_id = ? ORDER BY id`, aircraft)
	return collect(rows, err, "listing flights by aircraft", r.scan)
}

// Update replaces the flight row. Reservations are left untouched and must
// fit the layout of the flight's aircraft.
func (r *FlightRepository) Update(ctx context.Context, f domain.Flight) error {
	return r.s.inTx(ctx, "updating flight", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE flights SET number = ?, aircraft_id = ?, departure = ?, arrival = ?, route = ?, status = ?
			 WHERE id = ?`,
			f.Number.String(), f.AircraftID,
			f.Schedule.Departure().Format(vo.ScheduleLayout),
			f.Schedule.Arrival().Format(vo.ScheduleLayout),
			f.Route.String(), string(f.Status), f.ID,
		)
		if err != nil && isForeignKeyViolation(err) {
			return domain.Errorf(domain.KindNotFound, "aircraft %d not found", f.AircraftID)
		}
		if err := execOne(result, err, "updating flight", "flight", int64(f.ID)); err != nil {
			return err
		}

		layout, err := r.s.layout(ctx, tx, `SELECT layout FROM aircraft WHERE id = ?`, f.AircraftID)
		if err != nil {
			return notFound(err, "aircraft %d not found", f.AircraftID)
		}
		res, found, err := r.s.outsideLayout(ctx, tx, layout,
			`SELECT flight_id, seat_number FROM seat_reservations WHERE flight_id = ? ORDER BY rowid`, f.ID)
		if err != nil {
			return err
		}
		if found {
			return domain.Errorf(domain.KindConflict,
				"aircraft %d has no seat %s reserved on flight %d", f.AircraftID, res.seat, f.ID)
		}
		return nil
	})
}

func (r *FlightRepository) DeleteByID(ctx context.Context, id domain.FlightID) error {
	result, err := r.s.db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil && isForeignKeyViolation(err) {
		return domain.Errorf(domain.KindConflict, "flight %d has reserved seats or tickets", id)
	}
	return execOne(result, err, "deleting flight", "flight", int64(id))
}

func (r *FlightRepository) Exists(ctx context.Context, id domain.FlightID) (bool, error) {
	return r.s.exists(ctx, "flights", int64(id))
}

func (r *FlightRepository) Count(ctx context.Context) (int, error) {
	return r.s.count(ctx, "flights")
}

// ReserveSeat inserts the reservation row. The primary key makes the insert
// the atomic check-and-set: of two concurrent callers exactly one succeeds.
// The seat is then checked against the aircraft layout before commit.
func (r *FlightRepository) ReserveSeat(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	return r.s.inTx(ctx, "reserving seat", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO seat_reservations (flight_id, seat_number, reserved_at) VALUES (?, ?, ?)`,
			flight, seat.String(), time.Now().UTC().Format(time.RFC3339Nano),
		)
		switch {
		case err == nil:
		case isUniqueViolation(err):
			return domain.Errorf(domain.KindSeatAlreadyReserved, "seat %s on flight %d is already reserved", seat, flight)
		case isForeignKeyViolation(err):
			return domain.Errorf(domain.KindNotFound, "flight %d not found", flight)
		default:
			return domain.PersistenceError("reserving seat", err)
		}

		layout, err := r.s.layout(ctx, tx,
			`SELECT a.layout FROM flights f JOIN aircraft a ON a.id = f.aircraft_id WHERE f.id = ?`, flight)
		if err != nil {
			return notFound(err, "flight %d not found", flight)
		}
		if !layout.Contains(seat) {
			return domain.Errorf(domain.KindSeatNotFound, "seat %s does not exist on flight %d (layout %s)", seat, flight, layout)
		}
		return nil
	})
}

func (r *FlightRepository) ReleaseSeat(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) error {
	if err := r.mustExist(ctx, flight); err != nil {
		return err
	}
	result, err := r.s.db.ExecContext(ctx,
		`DELETE FROM seat_reservations WHERE flight_id = ? AND seat_number = ?`,
		flight, seat.String(),
	)
	if err != nil {
		return domain.PersistenceError("releasing seat", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError("checking rows affected", err)
	}
	if n == 0 {
		return domain.Errorf(domain.KindSeatNotReserved, "seat %s on flight %d is not reserved", seat, flight)
	}
	return nil
}

func (r *FlightRepository) ReservedSeats(ctx context.Context, flight domain.FlightID) ([]vo.SeatNumber, error) {
	if err := r.mustExist(ctx, flight); err != nil {
		return nil, err
	}
	rows, err := r.s.db.QueryContext(ctx,
		`SELECT seat_number FROM seat_reservations WHERE flight_id = ? ORDER BY rowid`, flight,
	)
	return collect(rows, err, "listing reserved seats", func(row scanner) (vo.SeatNumber, error) {
		var text string
		if err := row.Scan(&text); err != nil {
			return vo.SeatNumber{}, domain.PersistenceError("scanning reservation", err)
		}
		seat, err := vo.ParseSeatNumber(text, r.s.reg.SeatClasses)
		if err != nil {
			return vo.SeatNumber{}, decodeError("seat_reservations.seat_number", err)
		}
		return seat, nil
	})
}

func (r *FlightRepository) IsSeatReserved(ctx context.Context, flight domain.FlightID, seat vo.SeatNumber) (bool, error) {
	if err := r.mustExist(ctx, flight); err != nil {
		return false, err
	}
	var n int
	err := r.s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM seat_reservations WHERE flight_id = ? AND seat_number = ?`,
		flight, seat.String(),
	).Scan(&n)
	if err != nil {
		return false, domain.PersistenceError("checking reservation", err)
	}
	return n > 0, nil
}

func (r *FlightRepository) mustExist(ctx context.Context, id domain.FlightID) error {
	ok, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.KindNotFound, "flight %d not found", id)
	}
	return nil
}

func (r *FlightRepository) scan(row scanner) (domain.Flight, error) {
	var f domain.Flight
	var number, departure, arrival, route, status string
	if err := row.Scan(&f.ID, &number, &f.AircraftID, &departure, &arrival, &route, &status); err != nil {
		return domain.Flight{}, scanError("scanning flight", err)
	}

	var err error
	if f.Number, err = vo.ParseFlightNumber(number); err != nil {
		return domain.Flight{}, decodeError("flights.number", err)
	}
	if f.Schedule, err = vo.ParseSchedule(departure + "|" + arrival); err != nil {
		return domain.Flight{}, decodeError("flights.schedule", err)
	}
	if f.Route, err = vo.ParseRoute(route); err != nil {
		return domain.Flight{}, decodeError("flights.route", err)
	}
	var ok bool
	if f.Status, ok = domain.ParseFlightStatus(status); !ok {
		return domain.Flight{}, domain.Errorf(domain.KindPersistence, "decoding flights.status: unknown status %q", status)
	}
	return f, nil
}
