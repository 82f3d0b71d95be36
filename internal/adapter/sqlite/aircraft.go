package sqlite

import (
	"context"
	"database/sql"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

var _ domain.AircraftRepository = (*AircraftRepository)(nil)

// AircraftRepository implements domain.AircraftRepository using SQLite.
type AircraftRepository struct {
	s *Store
}

const selectAircraft = `SELECT id, serial, model, layout FROM aircraft`

func (r *AircraftRepository) Create(ctx context.Context, a domain.Aircraft) (domain.AircraftID, error) {
	result, err := r.s.db.ExecContext(ctx,
		`INSERT INTO aircraft (serial, model, layout) VALUES (?, ?, ?)`,
		a.Serial.String(), a.Model, a.Layout.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.Errorf(domain.KindConflict, "aircraft serial %s is already registered", a.Serial)
		}
		return 0, domain.PersistenceError("inserting aircraft", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.PersistenceError("reading aircraft id", err)
	}
	return domain.AircraftID(id), nil
}

func (r *AircraftRepository) FindByID(ctx context.Context, id domain.AircraftID) (domain.Aircraft, error) {
	a, err := r.scan(r.s.db.QueryRowContext(ctx, selectAircraft+` WHERE id = ?`, id))
	if err != nil {
		return domain.Aircraft{}, notFound(err, "aircraft %d not found", id)
	}
	return a, nil
}

func (r *AircraftRepository) FindBySerial(ctx context.Context, serial vo.AircraftSerial) (domain.Aircraft, error) {
	a, err := r.scan(r.s.db.QueryRowContext(ctx, selectAircraft+` WHERE serial = ?`, serial.String()))
	if err != nil {
		return domain.Aircraft{}, notFound(err, "aircraft %s not found", serial)
	}
	return a, nil
}

func (r *AircraftRepository) FindAll(ctx context.Context) ([]domain.Aircraft, error) {
	rows, err := r.s.db.QueryContext(ctx, selectAircraft+` ORDER BY id`)
	return collect(rows, err, "listing aircraft", r.scan)
}

// Update replaces the aircraft row. The layout is checked against the
// reservations of the aircraft's flights in the same transaction.
func (r *AircraftRepository) Update(ctx context.Context, a domain.Aircraft) error {
	return r.s.inTx(ctx, "updating aircraft", func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE aircraft SET serial = ?, model = ?, layout = ? WHERE id = ?`,
			a.Serial.String(), a.Model, a.Layout.String(), a.ID,
		)
		if err != nil && isUniqueViolation(err) {
			return domain.Errorf(domain.KindConflict, "aircraft serial %s is already registered", a.Serial)
		}
		if err := execOne(result, err, "updating aircraft", "aircraft", int64(a.ID)); err != nil {
			return err
		}

		res, found, err := r.s.outsideLayout(ctx, tx, a.Layout,
			`SELECT r.flight_id, r.seat_number FROM seat_reservations r
			 JOIN flights f ON f.id = r.flight_id
			 WHERE f.aircraft_id = ? ORDER BY r.rowid`, a.ID)
		if err != nil {
			return err
		}
		if found {
			return domain.Errorf(domain.KindConflict,
				"layout %s drops seat %s reserved on flight %d", a.Layout, res.seat, res.flight)
		}
		return nil
	})
}

func (r *AircraftRepository) DeleteByID(ctx context.Context, id domain.AircraftID) error {
	result, err := r.s.db.ExecContext(ctx, `DELETE FROM aircraft WHERE id = ?`, id)
	if err != nil && isForeignKeyViolation(err) {
		return domain.Errorf(domain.KindConflict, "aircraft %d is assigned to flights", id)
	}
	return execOne(result, err, "deleting aircraft", "aircraft", int64(id))
}

func (r *AircraftRepository) Exists(ctx context.Context, id domain.AircraftID) (bool, error) {
	return r.s.exists(ctx, "aircraft", int64(id))
}

func (r *AircraftRepository) Count(ctx context.Context) (int, error) {
	return r.s.count(ctx, "aircraft")
}

func (r *AircraftRepository) scan(row scanner) (domain.Aircraft, error) {
	var a domain.Aircraft
	var serial, layout string
	if err := row.Scan(&a.ID, &serial, &a.Model, &layout); err != nil {
		return domain.Aircraft{}, scanError("scanning aircraft", err)
	}

	var err error
	if a.Serial, err = vo.ParseAircraftSerial(serial); err != nil {
		return domain.Aircraft{}, decodeError("aircraft.serial", err)
	}
	if a.Layout, err = vo.ParseSeatClassMap(layout, r.s.reg.SeatClasses); err != nil {
		return domain.Aircraft{}, decodeError("aircraft.layout", err)
	}
	return a, nil
}
