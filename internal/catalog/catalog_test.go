package catalog

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE planets (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		region TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL,
		radius REAL NOT NULL
	)`)
	if err != nil {
		t.Fatalf("create planets table: %v", err)
	}
	return db
}

func seedPlanets(t *testing.T, db *sql.DB, planets []Planet) {
	t.Helper()
	for _, p := range planets {
		_, err := db.Exec(`INSERT INTO planets (id, name, region, x, y, radius) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.Name, p.Region, p.X, p.Y, p.Radius)
		if err != nil {
			t.Fatalf("seed planet %v: %v", p, err)
		}
	}
}

func TestByIDAndByName(t *testing.T) {
	db := newTestDB(t)
	seedPlanets(t, db, []Planet{
		{ID: 1, Name: "Coruscant", Region: "core", X: 0, Y: 0, Radius: 1},
		{ID: 2, Name: "Tatooine", Region: "outer", X: 10, Y: 5, Radius: 0.5},
	})
	cat := NewSQLiteCatalog(db)
	ctx := context.Background()

	p, err := cat.ByID(ctx, 2)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if p.Name != "Tatooine" {
		t.Errorf("Name = %q, want Tatooine", p.Name)
	}

	p2, err := cat.ByName(ctx, "Coruscant")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if p2.ID != 1 {
		t.Errorf("ID = %d, want 1", p2.ID)
	}
}

func TestByIDMissing(t *testing.T) {
	db := newTestDB(t)
	cat := NewSQLiteCatalog(db)
	if _, err := cat.ByID(context.Background(), 99); err == nil {
		t.Fatal("expected an error for a missing planet")
	}
}

func TestObstacleIndexExcludesIDs(t *testing.T) {
	db := newTestDB(t)
	seedPlanets(t, db, []Planet{
		{ID: 1, Name: "A", Region: "core", X: 0, Y: 0, Radius: 1},
		{ID: 2, Name: "B", Region: "core", X: 5, Y: 0, Radius: 1},
		{ID: 3, Name: "C", Region: "core", X: 10, Y: 0, Radius: 1},
	})
	cat := NewSQLiteCatalog(db)

	ix, err := ObstacleIndex(context.Background(), cat, 2.5, map[int64]bool{1: true, 3: true})
	if err != nil {
		t.Fatalf("ObstacleIndex: %v", err)
	}
	if ix.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.Len())
	}
	if ix.All()[0].ID != 2 {
		t.Errorf("remaining obstacle id = %d, want 2", ix.All()[0].ID)
	}
	if ix.All()[0].Radius != 2.5 {
		t.Errorf("obstacle radius = %v, want uniform safety 2.5 regardless of the seeded radius column", ix.All()[0].Radius)
	}
}
