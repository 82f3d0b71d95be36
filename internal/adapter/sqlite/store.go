package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/neomorfeo/airdesk/internal/domain"
	"github.com/neomorfeo/airdesk/internal/domain/vo"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store owns the database connection shared by the SQLite repositories.
type Store struct {
	db  *sql.DB
	reg *vo.Registries
}

// New opens a SQLite database, runs migrations, and returns a ready store.
// reg decodes stored value objects back into their types.
func New(dataSourceName string, reg *vo.Registries) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := Configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewFromDB(db, reg)
}

// Configure applies the connection settings every airdesk database needs.
// SQLite allows one writer and each ":memory:" connection is its own
// database, so the pool is pinned to a single connection shared with river.
func Configure(db *sql.DB) error {
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("applying %q: %w", pragma, err)
		}
	}
	return nil
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready store.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB, reg *vo.Registries) (*Store, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &Store{db: db, reg: reg}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Aircraft returns the aircraft repository.
func (s *Store) Aircraft() *AircraftRepository { return &AircraftRepository{s} }

// Flights returns the flight and seat reservation repository.
func (s *Store) Flights() *FlightRepository { return &FlightRepository{s} }

// Passengers returns the passenger repository.
func (s *Store) Passengers() *PassengerRepository { return &PassengerRepository{s} }

// Tickets returns the ticket repository.
func (s *Store) Tickets() *TicketRepository { return &TicketRepository{s} }

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

// isUniqueViolation checks if a SQLite error is a UNIQUE or PRIMARY KEY constraint violation.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY constraint violation.
func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// execOne runs a single-row statement and reports a missing row as not found.
func execOne(result sql.Result, err error, op, entity string, id int64) error {
	if err != nil {
		return domain.PersistenceError(op, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.PersistenceError("checking rows affected", err)
	}
	if rows == 0 {
		return domain.Errorf(domain.KindNotFound, "%s %d not found", entity, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanError keeps sql.ErrNoRows intact and wraps every other failure.
func scanError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return domain.PersistenceError(op, err)
}

// notFound turns sql.ErrNoRows into a not-found CoreError.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Errorf(domain.KindNotFound, format, args...)
	}
	return err
}

// decodeError reports a stored value that no longer parses.
func decodeError(column string, err error) error {
	return domain.PersistenceError("decoding "+column, err)
}

func collect[T any](rows *sql.Rows, err error, op string, scan func(scanner) (T, error)) ([]T, error) {
	if err != nil {
		return nil, domain.PersistenceError(op, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.PersistenceError(op, err)
	}
	return out, nil
}

// exists reports whether table holds a row with id. table is never user input.
func (s *Store) exists(ctx context.Context, table string, id int64) (bool, error) {
	var found int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.PersistenceError("checking "+table, err)
	}
	return true, nil
}

func (s *Store) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, domain.PersistenceError("counting "+table, err)
	}
	return n, nil
}

// inTx runs fn in a transaction and commits only if fn succeeds. Every
// statement fn issues must go through tx: the pool holds a single
// connection. fn should write first so the database lock is held by the
// time it reads what it checks.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.PersistenceError(op, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.PersistenceError(op, err)
	}
	return nil
}

// layout decodes the aircraft layout column selected by query.
func (s *Store) layout(ctx context.Context, tx *sql.Tx, query string, arg any) (vo.SeatClassMap, error) {
	var text string
	if err := tx.QueryRowContext(ctx, query, arg).Scan(&text); err != nil {
		return vo.SeatClassMap{}, scanError("reading layout", err)
	}
	l, err := vo.ParseSeatClassMap(text, s.reg.SeatClasses)
	if err != nil {
		return vo.SeatClassMap{}, decodeError("aircraft.layout", err)
	}
	return l, nil
}

type reservation struct {
	flight domain.FlightID
	seat   vo.SeatNumber
}

func (s *Store) scanReservation(row scanner) (reservation, error) {
	var res reservation
	var text string
	if err := row.Scan(&res.flight, &text); err != nil {
		return reservation{}, domain.PersistenceError("scanning reservation", err)
	}
	seat, err := vo.ParseSeatNumber(text, s.reg.SeatClasses)
	if err != nil {
		return reservation{}, decodeError("seat_reservations.seat_number", err)
	}
	res.seat = seat
	return res, nil
}

// outsideLayout returns the first reservation selected by query that layout
// lacks.
func (s *Store) outsideLayout(ctx context.Context, tx *sql.Tx, layout vo.SeatClassMap, query string, arg any) (reservation, bool, error) {
	rows, err := tx.QueryContext(ctx, query, arg)
	reserved, err := collect(rows, err, "listing reservations", s.scanReservation)
	if err != nil {
		return reservation{}, false, err
	}
	for _, res := range reserved {
		if !layout.Contains(res.seat) {
			return res, true, nil
		}
	}
	return reservation{}, false, nil
}
