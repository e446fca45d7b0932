package db

import (
	"testing"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	d, err := Open("file:dbmigrate?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	for _, table := range []string{"users", "orders", "pod_photos", "pod_assets"} {
		var name string
		if err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	var fk int
	if err := d.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign keys not enabled on pooled connection")
	}
}

func TestRollbackLast(t *testing.T) {
	d, err := Open("file:dbrollback?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	if err := RollbackLast(d); err != nil {
		t.Fatalf("rollback: %v", err)
	}
	var n int
	if err := d.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='pod_assets'`).Scan(&n); err != nil {
		t.Fatalf("query: %v", err)
	}
	if n != 0 {
		t.Fatalf("pod_assets should be dropped by rollback")
	}
	var v int
	if err := d.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&v); err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 1 {
		t.Fatalf("latest applied version = %d, want 1", v)
	}
}

func TestOrdersCheckConstraint(t *testing.T) {
	d, err := Open("file:dbcheck?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	// A non-pending order without a rider violates the schema.
	_, err = d.Exec(`INSERT INTO orders (id, status, created_at) VALUES ('o1', 'assigned', 0)`)
	if err == nil {
		t.Fatalf("expected CHECK violation for assigned order without rider")
	}
	if _, err := d.Exec(`INSERT INTO orders (id, status, created_at) VALUES ('o2', 'pending', 0)`); err != nil {
		t.Fatalf("insert pending: %v", err)
	}
}
