package store

import (
	"context"
	"testing"

	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routeopts"
	"github.com/astrocart/hyperroute/internal/routing"
)

func newTestStore(t *testing.T) *DB {
	t.Helper()
	db, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.MigrateUp("../../data/migrations"); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	return db
}

func seedTwoPlanets(t *testing.T, db *DB) (fromID, toID int64) {
	t.Helper()
	ctx := context.Background()
	fromID, err := db.InsertPlanet(ctx, 1, "Alpha", "core", "", 0, 0, 0.1)
	if err != nil {
		t.Fatalf("InsertPlanet: %v", err)
	}
	toID, err = db.InsertPlanet(ctx, 2, "Beta", "core", "", 10, 0, 0.1)
	if err != nil {
		t.Fatalf("InsertPlanet: %v", err)
	}
	return fromID, toID
}

func TestSaveAndGetRoute(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	fromID, toID := seedTwoPlanets(t, db)

	ix := routing.NewIndex([]routing.Obstacle{{ID: 99, Center: geometry.Point{X: 5, Y: 0}, Radius: 1}})
	opts := routeopts.DefaultOptions()
	result, err := routing.Compute(ctx, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, 0, 0, ix, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	anchors := map[int]int64{0: fromID, len(result.Waypoints) - 1: toID}
	routeID, err := db.SaveRoute(ctx, fromID, toID, opts, result, anchors)
	if err != nil {
		t.Fatalf("SaveRoute: %v", err)
	}

	rec, err := db.GetRouteByPair(ctx, fromID, toID)
	if err != nil {
		t.Fatalf("GetRouteByPair: %v", err)
	}
	if rec.ID != routeID {
		t.Errorf("ID = %d, want %d", rec.ID, routeID)
	}
	if rec.Length != result.Length {
		t.Errorf("Length = %v, want %v", rec.Length, result.Length)
	}

	wps, err := db.Waypoints(ctx, routeID)
	if err != nil {
		t.Fatalf("Waypoints: %v", err)
	}
	if len(wps) != len(result.Waypoints) {
		t.Fatalf("got %d waypoints, want %d", len(wps), len(result.Waypoints))
	}
	if !wps[0].AnchorID.Valid || wps[0].AnchorID.Int64 != fromID {
		t.Errorf("first waypoint should be anchored to %d, got %+v", fromID, wps[0].AnchorID)
	}

	decs, err := db.Detours(ctx, routeID)
	if err != nil {
		t.Fatalf("Detours: %v", err)
	}
	if len(decs) != len(result.Decisions) {
		t.Errorf("got %d decisions, want %d", len(decs), len(result.Decisions))
	}
}

func TestSaveRouteRecomputeReplacesInPlace(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	fromID, toID := seedTwoPlanets(t, db)
	opts := routeopts.DefaultOptions()

	emptyIx := routing.NewIndex(nil)
	first, err := routing.Compute(ctx, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, 0, 0, emptyIx, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	firstID, err := db.SaveRoute(ctx, fromID, toID, opts, first, nil)
	if err != nil {
		t.Fatalf("SaveRoute: %v", err)
	}

	blockedIx := routing.NewIndex([]routing.Obstacle{{ID: 1, Center: geometry.Point{X: 5, Y: 0}, Radius: 1}})
	second, err := routing.Compute(ctx, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, 0, 0, blockedIx, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	secondID, err := db.SaveRoute(ctx, fromID, toID, opts, second, nil)
	if err != nil {
		t.Fatalf("SaveRoute: %v", err)
	}

	if firstID != secondID {
		t.Errorf("recompute should reuse the route row: first id %d, second id %d", firstID, secondID)
	}

	wps, err := db.Waypoints(ctx, secondID)
	if err != nil {
		t.Fatalf("Waypoints: %v", err)
	}
	if len(wps) != len(second.Waypoints) {
		t.Errorf("stale waypoints left behind: got %d, want %d", len(wps), len(second.Waypoints))
	}
}

func TestSaveRouteDedupsWaypointsByFingerprint(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	fromID, toID := seedTwoPlanets(t, db)
	otherToID, err := db.InsertPlanet(ctx, 3, "Gamma", "core", "", 10, 2, 0.1)
	if err != nil {
		t.Fatalf("InsertPlanet: %v", err)
	}

	opts := routeopts.DefaultOptions()
	ix := routing.NewIndex([]routing.Obstacle{{ID: 1, Center: geometry.Point{X: 5, Y: 0}, Radius: 1}})

	r1, err := routing.Compute(ctx, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, 0, 0, ix, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if _, err := db.SaveRoute(ctx, fromID, toID, opts, r1, nil); err != nil {
		t.Fatalf("SaveRoute: %v", err)
	}

	r2, err := routing.Compute(ctx, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, 0, 0, ix, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if _, err := db.SaveRoute(ctx, fromID, otherToID, opts, r2, nil); err != nil {
		t.Fatalf("SaveRoute: %v", err)
	}

	all, err := db.ListWaypoints(ctx)
	if err != nil {
		t.Fatalf("ListWaypoints: %v", err)
	}
	// Both routes detour around the same obstacle identically, so the
	// detour waypoint should be stored once, not twice, even though it
	// belongs to two different routes.
	seen := map[string]int{}
	for _, w := range all {
		if !w.Fingerprint.Valid {
			continue
		}
		seen[w.Fingerprint.String]++
	}
	for fp, count := range seen {
		if count > 1 {
			t.Errorf("fingerprint %s stored %d times, want at most once", fp, count)
		}
	}
}

func TestClearRoute(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()
	fromID, toID := seedTwoPlanets(t, db)
	opts := routeopts.DefaultOptions()
	ix := routing.NewIndex(nil)

	result, err := routing.Compute(ctx, geometry.Point{X: 0, Y: 0}, geometry.Point{X: 10, Y: 0}, 0, 0, ix, opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	routeID, err := db.SaveRoute(ctx, fromID, toID, opts, result, nil)
	if err != nil {
		t.Fatalf("SaveRoute: %v", err)
	}

	if err := db.ClearRoute(ctx, fromID, toID); err != nil {
		t.Fatalf("ClearRoute: %v", err)
	}
	if _, err := db.GetRoute(ctx, routeID); err == nil {
		t.Error("expected route to be gone after ClearRoute")
	}
}
