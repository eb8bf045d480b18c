package store

import "testing"

func TestMigrateUpThenVersion(t *testing.T) {
	db, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.MigrateUp("../../data/migrations"); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}

	version, dirty, err := db.MigrateVersion("../../data/migrations")
	if err != nil {
		t.Fatalf("MigrateVersion: %v", err)
	}
	if dirty {
		t.Error("schema should not be dirty after a clean migrate up")
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.MigrateUp("../../data/migrations"); err != nil {
		t.Fatalf("first MigrateUp: %v", err)
	}
	if err := db.MigrateUp("../../data/migrations"); err != nil {
		t.Fatalf("second MigrateUp should be a no-op, got: %v", err)
	}
}

func TestMigrateDownDropsTables(t *testing.T) {
	db, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := db.MigrateUp("../../data/migrations"); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if err := db.MigrateDown("../../data/migrations"); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}

	var count int
	row := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'routes'`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan table count: %v", err)
	}
	if count != 0 {
		t.Error("routes table should not exist after migrate down")
	}
}
