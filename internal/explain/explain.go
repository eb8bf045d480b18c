// Package explain builds the human-facing breakdown of how a route was
// planned: which obstacles forced a detour, which candidate offsets were
// tried, and how each scoring component contributed to the winning
// choice.
package explain

import (
	"context"
	"fmt"

	"github.com/astrocart/hyperroute/internal/catalog"
	"github.com/astrocart/hyperroute/internal/store"
)

// DetourView is one detour decision, shaped for display rather than for
// storage. OffsetTry, DirTag and CandidatesTried are pointers, but Build
// always sets them from the stored detour row, whose columns are NOT
// NULL; there is no separate handling for rows that lack these values.
type DetourView struct {
	Seq             int     `json:"seq"`
	ObstacleID      int64   `json:"obstacle_id"`
	ObstacleName    string  `json:"obstacle_name,omitempty"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	WaypointName    string  `json:"waypoint_name,omitempty"`
	OffsetTry       *int    `json:"offset_try,omitempty"`
	DirTag          *int    `json:"direction_tag,omitempty"`
	Score           float64 `json:"score"`
	ScoreBase       float64 `json:"score_base"`
	ScoreTurn       float64 `json:"score_turn"`
	ScoreBacktrack  float64 `json:"score_backtrack"`
	ScoreProximity  float64 `json:"score_proximity"`
	CandidatesTried *int    `json:"candidates_tried,omitempty"`
}

// RouteView is the full explain view for a stored route.
type RouteView struct {
	RouteID int64        `json:"route_id"`
	Length  float64      `json:"length"`
	Options string       `json:"options"`
	Detours []DetourView `json:"detours"`
}

// Build assembles a RouteView for routeID from the store, resolving each
// decision's obstacle id to the planet's display name via cat. A detour
// waypoint has no name column of its own, but if it has since been
// linked to a planet under a role other than "avoid" (the link SaveRoute
// always creates back to the obstacle it routed around), that planet's
// name is surfaced as the waypoint's catalogued name.
func Build(ctx context.Context, db *store.DB, cat catalog.Resolver, routeID int64) (*RouteView, error) {
	rec, err := db.GetRoute(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("explain: load route %d: %w", routeID, err)
	}
	decs, err := db.Detours(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("explain: load detours for route %d: %w", routeID, err)
	}
	wps, err := db.Waypoints(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("explain: load waypoints for route %d: %w", routeID, err)
	}

	// Detour decisions are recorded in the same order the engine
	// inserted them; the waypoint they produced is the one immediately
	// following the anchor/obstacle pair at the matching sequence
	// position. Since decisions and the detour-kind waypoints share that
	// insertion order, the i-th decision pairs with the i-th detour
	// waypoint.
	detourWps := make([]store.WaypointRecord, 0, len(wps))
	for _, w := range wps {
		if w.Kind == "detour" {
			detourWps = append(detourWps, w)
		}
	}

	nameCache := map[int64]string{}
	planetName := func(id int64) string {
		if name, ok := nameCache[id]; ok {
			return name
		}
		name := ""
		if cat != nil {
			if p, err := cat.ByID(ctx, id); err == nil {
				name = p.Name
			}
		}
		nameCache[id] = name
		return name
	}

	waypointName := func(w store.WaypointRecord) string {
		if !w.WaypointID.Valid {
			return ""
		}
		links, err := db.AnchorLinks(ctx, w.WaypointID.Int64)
		if err != nil {
			return ""
		}
		for _, l := range links {
			if l.Role == "avoid" {
				continue
			}
			if name := planetName(l.PlanetID); name != "" {
				return name
			}
		}
		return ""
	}

	views := make([]DetourView, len(decs))
	for i, d := range decs {
		offsetTry, dirTag, candidatesTried := d.OffsetTry, d.DirTag, d.CandidatesTried
		v := DetourView{
			Seq:             d.Idx,
			ObstacleID:      d.ObstacleID,
			ObstacleName:    planetName(d.ObstacleID),
			Score:           d.Score,
			ScoreBase:       d.ScoreBase,
			ScoreTurn:       d.ScoreTurn,
			ScoreBacktrack:  d.ScoreBacktrack,
			ScoreProximity:  d.ScoreProximity,
			OffsetTry:       &offsetTry,
			DirTag:          &dirTag,
			CandidatesTried: &candidatesTried,
		}
		if i < len(detourWps) {
			v.X, v.Y = detourWps[i].X, detourWps[i].Y
			v.WaypointName = waypointName(detourWps[i])
		}
		views[i] = v
	}

	return &RouteView{
		RouteID: rec.ID,
		Length:  rec.Length,
		Options: rec.Options,
		Detours: views,
	}, nil
}
