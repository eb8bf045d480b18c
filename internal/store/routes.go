package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routeopts"
	"github.com/astrocart/hyperroute/internal/routing"
)

// RouteRecord is a persisted route, as read back from the database.
type RouteRecord struct {
	ID         int64
	FromPlanet int64
	ToPlanet   int64
	Options    string // canonical JSON, as stored
	Length     float64
	ComputedAt string
}

// WaypointRecord is a single point along a persisted route. Fingerprint
// and WaypointID are only set for Kind "detour" rows, which are the only
// ones backed by a catalog waypoint row.
type WaypointRecord struct {
	Seq         int
	Kind        string
	WaypointID  sql.NullInt64
	Fingerprint sql.NullString
	X, Y        float64
	AnchorID    sql.NullInt64
}

// DetourRecord is a persisted detour-insertion decision.
type DetourRecord struct {
	Idx             int
	ObstacleID      int64
	OffsetTry       int
	DirTag          int
	Offset          float64
	Score           float64
	ScoreBase       float64
	ScoreTurn       float64
	ScoreBacktrack  float64
	ScoreProximity  float64
	CandidatesTried int
}

// SaveRoute persists the outcome of a routing.Compute call for the
// from/to planet pair, replacing any route previously stored for that
// pair. The route row, its waypoints, and its detour decisions are all
// written inside a single transaction: a reader must never see a route
// row whose children haven't been written yet, and a recompute must
// never leave stale waypoints or decisions from the previous attempt
// lying around.
//
// Only waypoints of kind routing.WaypointDetour are upserted into the
// shared waypoint catalog and deduplicated by fingerprint; the start and
// end waypoints are the route's own planets, recorded directly on the
// route_waypoints row with no catalog entry at all. Every detour waypoint
// also gets an "avoid" anchor link back to the obstacle it was inserted
// to route around, alongside the anchor links for the planets supplied in
// anchorIDs.
func (db *DB) SaveRoute(ctx context.Context, fromID, toID int64, opts routeopts.RoutingOptions, result *routing.Result, anchorIDs map[int]int64) (routeID int64, err error) {
	optsJSON, err := opts.CanonicalJSON()
	if err != nil {
		return 0, fmt.Errorf("store: canonicalize options: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin save route tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	routeID, err = upsertRoute(ctx, tx, fromID, toID, string(optsJSON), result.Length)
	if err != nil {
		return 0, err
	}

	if err = replaceRouteWaypoints(ctx, tx, routeID); err != nil {
		return 0, err
	}
	if err = replaceRouteDetours(ctx, tx, routeID); err != nil {
		return 0, err
	}

	// decisions are recorded in insertion order, one per detour waypoint,
	// in the same relative order the detour waypoints appear in the final
	// polyline; pairing them by position lets SaveRoute know which
	// obstacle each detour waypoint was routed around.
	decByDetourSeq := make(map[int]routing.DetourDecision, len(result.Decisions))
	detourSeq := 0
	for seq, wp := range result.Waypoints {
		if wp.Kind != routing.WaypointDetour {
			continue
		}
		if detourSeq < len(result.Decisions) {
			decByDetourSeq[seq] = result.Decisions[detourSeq]
		}
		detourSeq++
	}

	for seq, wp := range result.Waypoints {
		var anchorID sql.NullInt64
		var waypointID sql.NullInt64

		switch wp.Kind {
		case routing.WaypointStart, routing.WaypointEnd:
			// Endpoints are the route's own planets, recorded directly by
			// anchor_id; they have no catalog waypoint row to link from.
			if id, ok := anchorIDs[seq]; ok {
				anchorID = sql.NullInt64{Int64: id, Valid: true}
			} else if wp.AnchorID != 0 {
				anchorID = sql.NullInt64{Int64: wp.AnchorID, Valid: true}
			}
		case routing.WaypointDetour:
			id, werr := upsertWaypoint(ctx, tx, "computed", wp.Fingerprint, wp.Point.X, wp.Point.Y)
			if werr != nil {
				err = werr
				return 0, err
			}
			waypointID = sql.NullInt64{Int64: id, Valid: true}
			if dec, ok := decByDetourSeq[seq]; ok {
				dist := geometry.Distance(wp.Point, dec.ObstacleCenter)
				if werr := linkWaypointToPlanet(ctx, tx, id, dec.ObstacleID, "avoid", &dist); werr != nil {
					err = werr
					return 0, err
				}
			}
		}

		if _, werr := tx.ExecContext(ctx,
			`INSERT INTO route_waypoints (route_id, seq, kind, x, y, waypoint_id, anchor_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			routeID, seq, string(wp.Kind), wp.Point.X, wp.Point.Y, waypointID, anchorID); werr != nil {
			err = fmt.Errorf("store: insert route_waypoints row: %w", werr)
			return 0, err
		}
	}

	for idx, d := range result.Decisions {
		if _, werr := tx.ExecContext(ctx, `INSERT INTO route_detours (
			route_id, idx, obstacle_id, offset_try, direction_tag, offset, score, score_base, score_turn,
			score_backtrack, score_proximity, candidates_tried
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			routeID, idx, d.ObstacleID, d.OffsetTry, d.DirIdx, d.Offset, d.Score, d.ScoreBase, d.ScoreTurn,
			d.ScoreBacktrack, d.ScoreProximity, d.CandidatesTried); werr != nil {
			err = fmt.Errorf("store: insert route_detours row: %w", werr)
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit save route tx: %w", err)
	}
	return routeID, nil
}

func upsertRoute(ctx context.Context, tx *sql.Tx, fromID, toID int64, optsJSON string, length float64) (int64, error) {
	_, err := tx.ExecContext(ctx, `INSERT INTO routes (from_planet, to_planet, options_json, length)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(from_planet, to_planet) DO UPDATE SET
			options_json = excluded.options_json,
			length = excluded.length,
			computed_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')`,
		fromID, toID, optsJSON, length)
	if err != nil {
		return 0, fmt.Errorf("store: upsert route %d->%d: %w", fromID, toID, err)
	}

	// SQLite's last_insert_rowid() is not a reliable way to tell an
	// insert from an ON CONFLICT update apart — it can carry over from
	// an earlier statement on the same connection when the upsert takes
	// the update branch. Reading the id back by its unique key is slower
	// but always correct.
	var id int64
	row := tx.QueryRowContext(ctx, `SELECT id FROM routes WHERE from_planet = ? AND to_planet = ?`, fromID, toID)
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("store: read back route id for %d->%d: %w", fromID, toID, err)
	}
	return id, nil
}

// replaceRouteWaypoints deletes any waypoints previously associated with
// routeID, ahead of a fresh insert, mirroring the delete-then-reinsert
// pattern used for the other replace-all-children-of-a-parent updates in
// this store.
func replaceRouteWaypoints(ctx context.Context, tx *sql.Tx, routeID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM route_waypoints WHERE route_id = ?`, routeID); err != nil {
		return fmt.Errorf("store: clear route_waypoints for route %d: %w", routeID, err)
	}
	return nil
}

func replaceRouteDetours(ctx context.Context, tx *sql.Tx, routeID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM route_detours WHERE route_id = ?`, routeID); err != nil {
		return fmt.Errorf("store: clear route_detours for route %d: %w", routeID, err)
	}
	return nil
}

// upsertWaypoint inserts a computed waypoint if no row with this
// fingerprint exists yet, or returns the existing row's id otherwise.
// This is a check-then-insert rather than an ON CONFLICT upsert because a
// fingerprint collision here means "this exact point already exists,
// reuse it" — there is nothing to update, no excluded.* columns to
// apply, just an id to hand back.
func upsertWaypoint(ctx context.Context, tx *sql.Tx, kind, fingerprint string, x, y float64) (int64, error) {
	var id int64
	row := tx.QueryRowContext(ctx, `SELECT id FROM waypoints WHERE kind = ? AND fingerprint = ?`, kind, fingerprint)
	switch err := row.Scan(&id); err {
	case nil:
		return id, nil
	case sql.ErrNoRows:
		// fall through to insert
	default:
		return 0, fmt.Errorf("store: look up waypoint %s: %w", fingerprint, err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO waypoints (kind, fingerprint, x, y) VALUES (?, ?, ?, ?)`, kind, fingerprint, x, y)
	if err != nil {
		return 0, fmt.Errorf("store: insert waypoint %s: %w", fingerprint, err)
	}
	return res.LastInsertId()
}

// linkWaypointToPlanet creates an anchor link, upserting so that creating
// the same (waypoint, planet, role) link twice is a no-op.
func linkWaypointToPlanet(ctx context.Context, tx *sql.Tx, waypointID, planetID int64, role string, distance *float64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO waypoint_planets (waypoint_id, planet_id, role, distance) VALUES (?, ?, ?, ?)
		ON CONFLICT(waypoint_id, planet_id, role) DO UPDATE SET distance = excluded.distance`,
		waypointID, planetID, role, distance)
	if err != nil {
		return fmt.Errorf("store: link waypoint %d to planet %d as %s: %w", waypointID, planetID, role, err)
	}
	return nil
}

// GetRouteByPair returns the currently stored route between fromID and
// toID, if one exists.
func (db *DB) GetRouteByPair(ctx context.Context, fromID, toID int64) (RouteRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT id, from_planet, to_planet, options_json, length, computed_at
		FROM routes WHERE from_planet = ? AND to_planet = ?`, fromID, toID)
	var r RouteRecord
	if err := row.Scan(&r.ID, &r.FromPlanet, &r.ToPlanet, &r.Options, &r.Length, &r.ComputedAt); err != nil {
		return RouteRecord{}, fmt.Errorf("store: get route %d->%d: %w", fromID, toID, err)
	}
	return r, nil
}

// GetRoute returns a stored route by its surrogate id.
func (db *DB) GetRoute(ctx context.Context, id int64) (RouteRecord, error) {
	row := db.QueryRowContext(ctx, `SELECT id, from_planet, to_planet, options_json, length, computed_at
		FROM routes WHERE id = ?`, id)
	var r RouteRecord
	if err := row.Scan(&r.ID, &r.FromPlanet, &r.ToPlanet, &r.Options, &r.Length, &r.ComputedAt); err != nil {
		return RouteRecord{}, fmt.Errorf("store: get route %d: %w", id, err)
	}
	return r, nil
}

// Waypoints returns the waypoints of a stored route, in sequence order.
// Fingerprint is only populated for detour rows, which are the only ones
// backed by a catalog waypoint.
func (db *DB) Waypoints(ctx context.Context, routeID int64) ([]WaypointRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT rw.seq, rw.kind, rw.waypoint_id, w.fingerprint, rw.x, rw.y, rw.anchor_id
		FROM route_waypoints rw LEFT JOIN waypoints w ON w.id = rw.waypoint_id
		WHERE rw.route_id = ? ORDER BY rw.seq ASC`, routeID)
	if err != nil {
		return nil, fmt.Errorf("store: list waypoints for route %d: %w", routeID, err)
	}
	defer rows.Close()

	var out []WaypointRecord
	for rows.Next() {
		var w WaypointRecord
		if err := rows.Scan(&w.Seq, &w.Kind, &w.WaypointID, &w.Fingerprint, &w.X, &w.Y, &w.AnchorID); err != nil {
			return nil, fmt.Errorf("store: scan waypoint row: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Detours returns the detour decisions of a stored route, in the order
// they were made.
func (db *DB) Detours(ctx context.Context, routeID int64) ([]DetourRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT idx, obstacle_id, offset_try, direction_tag, offset, score, score_base,
		score_turn, score_backtrack, score_proximity, candidates_tried
		FROM route_detours WHERE route_id = ? ORDER BY idx ASC`, routeID)
	if err != nil {
		return nil, fmt.Errorf("store: list detours for route %d: %w", routeID, err)
	}
	defer rows.Close()

	var out []DetourRecord
	for rows.Next() {
		var d DetourRecord
		if err := rows.Scan(&d.Idx, &d.ObstacleID, &d.OffsetTry, &d.DirTag, &d.Offset, &d.Score, &d.ScoreBase,
			&d.ScoreTurn, &d.ScoreBacktrack, &d.ScoreProximity, &d.CandidatesTried); err != nil {
			return nil, fmt.Errorf("store: scan detour row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListRoutes returns every stored route, most recently computed first.
func (db *DB) ListRoutes(ctx context.Context) ([]RouteRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, from_planet, to_planet, options_json, length, computed_at
		FROM routes ORDER BY computed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list routes: %w", err)
	}
	defer rows.Close()

	var out []RouteRecord
	for rows.Next() {
		var r RouteRecord
		if err := rows.Scan(&r.ID, &r.FromPlanet, &r.ToPlanet, &r.Options, &r.Length, &r.ComputedAt); err != nil {
			return nil, fmt.Errorf("store: scan route row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClearRoute deletes the stored route between fromID and toID, along
// with its waypoints and detour decisions, via the same begin/loop-exec/
// commit shape used elsewhere in this store for a clear-all-of-X
// operation.
func (db *DB) ClearRoute(ctx context.Context, fromID, toID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin clear route tx: %w", err)
	}

	var routeID int64
	row := tx.QueryRowContext(ctx, `SELECT id FROM routes WHERE from_planet = ? AND to_planet = ?`, fromID, toID)
	if err := row.Scan(&routeID); err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("store: find route %d->%d to clear: %w", fromID, toID, err)
	}

	steps := []string{
		`DELETE FROM route_detours WHERE route_id = ?`,
		`DELETE FROM route_waypoints WHERE route_id = ?`,
		`DELETE FROM routes WHERE id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, routeID); err != nil {
			tx.Rollback()
			return fmt.Errorf("store: clear route step failed: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit clear route tx: %w", err)
	}
	return nil
}

// PruneOrphanWaypoints deletes computed waypoints that no route
// currently references, reclaiming the catalog space used by detour
// points from routes that have since been recomputed or cleared.
func (db *DB) PruneOrphanWaypoints(ctx context.Context) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM waypoints WHERE kind = 'computed' AND id NOT IN (
		SELECT DISTINCT waypoint_id FROM route_waypoints WHERE waypoint_id IS NOT NULL
	)`)
	if err != nil {
		return 0, fmt.Errorf("store: prune orphan waypoints: %w", err)
	}
	return res.RowsAffected()
}
