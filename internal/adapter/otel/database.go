package otel

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/neomorfeo/airdesk/internal/adapter/sqlite"
)

// OpenDB opens the airdesk SQLite database with every statement traced and
// connection pool statistics exported as metrics. Hand the result to
// sqlite.NewFromDB and river.Setup so bookings and jobs share one connection.
func OpenDB(dataSourceName string) (*sql.DB, error) {
	attrs := []attribute.KeyValue{
		semconv.DBSystemSqlite,
		attribute.String("db.namespace", dataSourceName),
	}

	db, err := otelsql.Open("sqlite", dataSourceName,
		otelsql.WithAttributes(attrs...),
		otelsql.WithSpanOptions(otelsql.SpanOptions{
			OmitConnResetSession: true,
			OmitConnPrepare:      true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("opening instrumented database: %w", err)
	}

	if err := sqlite.Configure(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(attrs...)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registering db stats metrics: %w", err)
	}

	return db, nil
}
