package sqlite

import (
	"context"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"
)

var _ domain.PassengerRepository = (*PassengerRepository)(nil)

// PassengerRepository implements domain.PassengerRepository using SQLite.
type PassengerRepository struct {
	s *Store
}

const selectPassenger = `SELECT id, name, passport, contact FROM passengers`

func (r *PassengerRepository) Create(ctx context.Context, p domain.Passenger) (domain.PassengerID, error) {
	result, err := r.s.db.ExecContext(ctx,
		`INSERT INTO passengers (name, passport, contact) VALUES (?, ?, ?)`,
		p.Name, p.Passport.String(), p.Contact.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.Errorf(domain.KindConflict, "passport %s is already registered", p.Passport)
		}
		return 0, domain.PersistenceError("inserting passenger", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, domain.PersistenceError("reading passenger id", err)
	}
	return domain.PassengerID(id), nil
}

func (r *PassengerRepository) FindByID(ctx context.Context, id domain.PassengerID) (domain.Passenger, error) {
	p, err := r.scan(r.s.db.QueryRowContext(ctx, selectPassenger+` WHERE id = ?`, id))
	if err != nil {
		return domain.Passenger{}, notFound(err, "passenger %d not found", id)
	}
	return p, nil
}

func (r *PassengerRepository) FindByPassport(ctx context.Context, passport vo.PassportNumber) (domain.Passenger, error) {
	p, err := r.scan(r.s.db.QueryRowContext(ctx, selectPassenger+` WHERE passport = ?`, passport.String()))
	if err != nil {
		return domain.Passenger{}, notFound(err, "passenger with passport %s not found", passport)
	}
	return p, nil
}

func (r *PassengerRepository) FindAll(ctx context.Context) ([]domain.Passenger, error) {
	rows, err := r.s.db.QueryContext(ctx, selectPassenger+` ORDER BY id`)
	return collect(rows, err, "listing passengers", r.scan)
}

func (r *PassengerRepository) Update(ctx context.Context, p domain.Passenger) error {
	result, err := r.s.db.ExecContext(ctx,
		`UPDATE passengers SET name = ?, passport = ?, contact = ? WHERE id = ?`,
		p.Name, p.Passport.String(), p.Contact.String(), p.ID,
	)
	if err != nil && isUniqueViolation(err) {
		return domain.Errorf(domain.KindConflict, "passport %s is already registered", p.Passport)
	}
	return execOne(result, err, "updating passenger", "passenger", int64(p.ID))
}

func (r *PassengerRepository) DeleteByID(ctx context.Context, id domain.PassengerID) error {
	result, err := r.s.db.ExecContext(ctx, `DELETE FROM passengers WHERE id = ?`, id)
	if err != nil && isForeignKeyViolation(err) {
		return domain.Errorf(domain.KindConflict, "passenger %d has tickets", id)
	}
	return execOne(result, err, "deleting passenger", "passenger", int64(id))
}

func (r *PassengerRepository) Exists(ctx context.Context, id domain.PassengerID) (bool, error) {
	return r.s.exists(ctx, "passengers", int64(id))
}

func (r *PassengerRepository) Count(ctx context.Context) (int, error) {
	return r.s.count(ctx, "passengers")
}

func (r *PassengerRepository) scan(row scanner) (domain.Passenger, error) {
	var p domain.Passenger
	var passport, contact string
	if err := row.Scan(&p.ID, &p.Name, &passport, &contact); err != nil {
		return domain.Passenger{}, scanError("scanning passenger", err)
	}

	var err error
	if p.Passport, err = vo.ParsePassportNumber(passport, r.s.reg.Passports); err != nil {
		return domain.Passenger{}, decodeError("passengers.passport", err)
	}
	if p.Contact, err = vo.ParseContactInfo(contact); err != nil {
		return domain.Passenger{}, decodeError("passengers.contact", err)
	}
	return p, nil
}
