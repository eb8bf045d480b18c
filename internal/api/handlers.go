package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/astrocart/hyperroute/internal/catalog"
	"github.com/astrocart/hyperroute/internal/explain"
	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/httputil"
	"github.com/astrocart/hyperroute/internal/routeopts"
	"github.com/astrocart/hyperroute/internal/routing"
	"github.com/astrocart/hyperroute/internal/store"
)

// computeResponse is the JSON body returned by a successful compute.
type computeResponse struct {
	RouteID   int64          `json:"route_id"`
	Length    float64        `json:"length"`
	Waypoints []waypointJSON `json:"waypoints"`
	Decisions []decisionJSON `json:"decisions"`
}

type waypointJSON struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Fingerprint string  `json:"fingerprint"`
	AnchorID    int64   `json:"anchor_id,omitempty"`
}

type decisionJSON struct {
	Seq        int     `json:"seq"`
	ObstacleID int64   `json:"obstacle_id"`
	Score      float64 `json:"score"`
}

// computeAndSave resolves from/to planet names, builds an obstacle index
// excluding the two endpoints by identity, runs the routing engine, and
// persists the result. It returns the HTTP status to use if err is
// non-nil.
func computeAndSave(ctx context.Context, db *store.DB, cat catalog.Reader, from, to string, opts routeopts.RoutingOptions) (*computeResponse, int, error) {
	fromPlanet, err := cat.ByName(ctx, from)
	if err != nil {
		return nil, http.StatusNotFound, fmt.Errorf("unknown origin %q: %w", from, err)
	}
	toPlanet, err := cat.ByName(ctx, to)
	if err != nil {
		return nil, http.StatusNotFound, fmt.Errorf("unknown destination %q: %w", to, err)
	}

	exclude := map[int64]bool{fromPlanet.ID: true, toPlanet.ID: true}
	ix, err := catalog.ObstacleIndex(ctx, cat, opts.Safety, exclude)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("build obstacle index: %w", err)
	}

	result, err := routing.Compute(ctx, geometry.Point{X: fromPlanet.X, Y: fromPlanet.Y}, geometry.Point{X: toPlanet.X, Y: toPlanet.Y}, fromPlanet.ID, toPlanet.ID, ix, opts)
	if err != nil {
		return nil, statusForRoutingError(err), err
	}

	anchors := map[int]int64{0: fromPlanet.ID, len(result.Waypoints) - 1: toPlanet.ID}
	routeID, err := db.SaveRoute(ctx, fromPlanet.ID, toPlanet.ID, opts, result, anchors)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("save route: %w", err)
	}

	return toComputeResponse(routeID, result, anchors), http.StatusOK, nil
}

func toComputeResponse(routeID int64, result *routing.Result, anchors map[int]int64) *computeResponse {
	resp := &computeResponse{RouteID: routeID, Length: result.Length}
	resp.Waypoints = make([]waypointJSON, len(result.Waypoints))
	for i, wp := range result.Waypoints {
		wj := waypointJSON{X: wp.Point.X, Y: wp.Point.Y, Fingerprint: wp.Fingerprint}
		if id, ok := anchors[i]; ok {
			wj.AnchorID = id
		}
		resp.Waypoints[i] = wj
	}
	resp.Decisions = make([]decisionJSON, len(result.Decisions))
	for i, d := range result.Decisions {
		resp.Decisions[i] = decisionJSON{Seq: d.Seq, ObstacleID: d.ObstacleID, Score: d.Score}
	}
	return resp
}

func statusForRoutingError(err error) int {
	var rerr *routing.Error
	if errors.As(err, &rerr) {
		switch rerr.Kind {
		case routing.KindUnknownEndpoint:
			return http.StatusNotFound
		case routing.KindDegenerateInput:
			return http.StatusBadRequest
		case routing.KindNoDetourFound, routing.KindMaxIterationsExceeded:
			return http.StatusConflict
		case routing.KindCancelled:
			return http.StatusRequestTimeout
		}
	}
	return http.StatusInternalServerError
}

// parseRouteIDPath parses "/api/routes/{id}" and "/api/routes/{id}/explain".
func parseRouteIDPath(path string) (id int64, explainMode bool, err error) {
	trimmed := strings.TrimPrefix(path, "/api/routes/")
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return 0, false, fmt.Errorf("route id is required")
	}
	id, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid route id %q: %w", parts[0], err)
	}
	if len(parts) > 1 && parts[1] == "explain" {
		explainMode = true
	}
	return id, explainMode, nil
}

func (s *Server) serveRoute(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()
	rec, err := s.DB.GetRoute(ctx, id)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err)
		return
	}
	wps, err := s.DB.Waypoints(ctx, id)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct {
		store.RouteRecord
		Waypoints []store.WaypointRecord `json:"waypoints"`
	}{RouteRecord: rec, Waypoints: wps})
}

func (s *Server) serveExplain(w http.ResponseWriter, r *http.Request, id int64) {
	view, err := explain.Build(r.Context(), s.DB, s.Catalog, id)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
