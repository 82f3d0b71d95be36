package otel_test

import (
	"context"
	"testing"

	adapter "github.com/neomorfeo/airdesk/internal/adapter/otel"
	"github.com/neomorfeo/airdesk/internal/adapter/sqlite"
	"github.com/neomorfeo/airdesk/internal/domain/domaintest"
)

func TestOpenDB_TracesStoreQueries(t *testing.T) {
	exporter := setupTestTracer(t)

	db, err := adapter.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	store, err := sqlite.NewFromDB(db, domaintest.Registries)
	if err != nil {
		t.Fatalf("NewFromDB failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("reading pragma: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}

	exporter.Reset()
	if _, err := store.Aircraft().Count(context.Background()); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if len(exporter.GetSpans()) == 0 {
		t.Error("expected sql spans for the count query")
	}
}
