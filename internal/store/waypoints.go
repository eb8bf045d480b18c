package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ManualWaypoint is a row from the waypoint catalog, manual or computed.
// Fingerprint is only set for kind "computed" rows — manual waypoints
// carry no fingerprint, since fingerprinting only applies to points the
// routing engine actually computed a detour tuple for.
type ManualWaypoint struct {
	ID          int64
	Kind        string
	Fingerprint sql.NullString
	X, Y        float64
}

// AddWaypoint creates a manual waypoint at (x, y), deduplicating by exact
// coordinates so that adding the same point twice returns the existing
// row rather than creating a duplicate.
func (db *DB) AddWaypoint(ctx context.Context, x, y float64) (ManualWaypoint, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ManualWaypoint{}, fmt.Errorf("store: begin add waypoint tx: %w", err)
	}
	id, err := upsertManualWaypoint(ctx, tx, x, y)
	if err != nil {
		tx.Rollback()
		return ManualWaypoint{}, err
	}
	if err := tx.Commit(); err != nil {
		return ManualWaypoint{}, fmt.Errorf("store: commit add waypoint tx: %w", err)
	}
	return ManualWaypoint{ID: id, Kind: "manual", X: x, Y: y}, nil
}

// upsertManualWaypoint inserts a kind='manual' waypoint if no row at
// these exact coordinates exists yet, or returns the existing row's id
// otherwise. Manual waypoints have no fingerprint, so they cannot share
// upsertWaypoint's fingerprint lookup.
func upsertManualWaypoint(ctx context.Context, tx *sql.Tx, x, y float64) (int64, error) {
	var id int64
	row := tx.QueryRowContext(ctx, `SELECT id FROM waypoints WHERE kind = 'manual' AND x = ? AND y = ?`, x, y)
	switch err := row.Scan(&id); err {
	case nil:
		return id, nil
	case sql.ErrNoRows:
		// fall through to insert
	default:
		return 0, fmt.Errorf("store: look up manual waypoint (%v, %v): %w", x, y, err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO waypoints (kind, fingerprint, x, y) VALUES ('manual', NULL, ?, ?)`, x, y)
	if err != nil {
		return 0, fmt.Errorf("store: insert manual waypoint (%v, %v): %w", x, y, err)
	}
	return res.LastInsertId()
}

// ListWaypoints returns every waypoint in the catalog, manual or
// computed, newest id first.
func (db *DB) ListWaypoints(ctx context.Context) ([]ManualWaypoint, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, kind, fingerprint, x, y FROM waypoints ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list waypoints: %w", err)
	}
	defer rows.Close()

	var out []ManualWaypoint
	for rows.Next() {
		var w ManualWaypoint
		if err := rows.Scan(&w.ID, &w.Kind, &w.Fingerprint, &w.X, &w.Y); err != nil {
			return nil, fmt.Errorf("store: scan waypoint row: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// LinkWaypoint associates a waypoint with a planet under the given role,
// upserting so that linking the same (waypoint, planet, role) twice is a
// no-op rather than a unique-constraint error.
func (db *DB) LinkWaypoint(ctx context.Context, waypointID, planetID int64, role string) error {
	_, err := db.ExecContext(ctx, `INSERT INTO waypoint_planets (waypoint_id, planet_id, role, distance) VALUES (?, ?, ?, NULL)
		ON CONFLICT(waypoint_id, planet_id, role) DO NOTHING`, waypointID, planetID, role)
	if err != nil {
		return fmt.Errorf("store: link waypoint %d to planet %d as %s: %w", waypointID, planetID, role, err)
	}
	return nil
}

// UnlinkWaypoint removes an association between a waypoint and a planet.
func (db *DB) UnlinkWaypoint(ctx context.Context, waypointID, planetID int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM waypoint_planets WHERE waypoint_id = ? AND planet_id = ?`,
		waypointID, planetID)
	if err != nil {
		return fmt.Errorf("store: unlink waypoint %d from planet %d: %w", waypointID, planetID, err)
	}
	return nil
}

// LinkedPlanets returns the ids of every planet a waypoint is linked to.
func (db *DB) LinkedPlanets(ctx context.Context, waypointID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx, `SELECT planet_id FROM waypoint_planets WHERE waypoint_id = ?`, waypointID)
	if err != nil {
		return nil, fmt.Errorf("store: list planets linked to waypoint %d: %w", waypointID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan linked planet id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// AnchorLink is one row of the waypoint_planets table.
type AnchorLink struct {
	PlanetID int64
	Role     string
}

// AnchorLinks returns every (planet, role) link for a waypoint, including
// the roles LinkedPlanets discards.
func (db *DB) AnchorLinks(ctx context.Context, waypointID int64) ([]AnchorLink, error) {
	rows, err := db.QueryContext(ctx, `SELECT planet_id, role FROM waypoint_planets WHERE waypoint_id = ?`, waypointID)
	if err != nil {
		return nil, fmt.Errorf("store: list anchor links for waypoint %d: %w", waypointID, err)
	}
	defer rows.Close()

	var out []AnchorLink
	for rows.Next() {
		var l AnchorLink
		if err := rows.Scan(&l.PlanetID, &l.Role); err != nil {
			return nil, fmt.Errorf("store: scan anchor link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// InsertPlanet adds a planet to the catalog. It is primarily used by
// catalog-seeding tools and tests; production catalogs are expected to be
// loaded in bulk from a gazetteer import, not built up one planet at a
// time through the CLI.
func (db *DB) InsertPlanet(ctx context.Context, fid int64, name, region, sector string, x, y, radius float64) (int64, error) {
	res, err := db.ExecContext(ctx, `INSERT INTO planets (fid, name, region, sector, x, y, radius)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, fid, name, region, sector, x, y, radius)
	if err != nil {
		return 0, fmt.Errorf("store: insert planet %s: %w", name, err)
	}
	return res.LastInsertId()
}
