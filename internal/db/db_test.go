package db

import (
	"database/sql"
	"testing"
)

func tableExists(t *testing.T, d *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	return n > 0
}

func TestOpenAppliesMigrations(t *testing.T) {
	d, err := Open("file:db_open_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	for _, tbl := range []string{"users", "cylinders", "orders", "pickups"} {
		if !tableExists(t, d, tbl) {
			t.Fatalf("table %s not created", tbl)
		}
	}

	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n == 0 {
		t.Fatal("no migrations recorded")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	d, err := Open("file:db_idem_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	defer d.Close()

	// Opening the same database again re-runs applyMigrations and must skip
	// the already-applied versions.
	d2, err := Open("file:db_idem_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer d2.Close()
}

func TestRollbackLast(t *testing.T) {
	d, err := Open("file:db_rollback_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if err := RollbackLast(d); err != nil {
		t.Fatalf("RollbackLast: %v", err)
	}
	if tableExists(t, d, "cylinders") {
		t.Fatal("cylinders table still present after rollback")
	}

	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&n); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if n != 0 {
		t.Fatalf("schema_migrations not emptied, %d rows left", n)
	}

	// Rolling back with nothing applied is a no-op.
	if err := RollbackLast(d); err != nil {
		t.Fatalf("RollbackLast on empty history: %v", err)
	}
}
