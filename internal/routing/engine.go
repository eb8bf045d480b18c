// Package routing implements the iterative detour-insertion pathfinder:
// starting from a direct line between two planets, it repeatedly finds
// the first obstacle the current path collides with, inserts the
// best-scoring detour waypoint around it, and rescans from the head of
// the path until no collision remains or the iteration budget runs out.
package routing

import (
	"context"
	"fmt"

	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routeopts"
)

// WaypointKind classifies a point along a computed route.
type WaypointKind string

const (
	// WaypointStart and WaypointEnd are the route's own origin and
	// destination planets — never fingerprinted or upserted into the
	// waypoint catalog, since they are planets, not computed waypoints.
	WaypointStart WaypointKind = "start"
	WaypointEnd   WaypointKind = "end"
	// WaypointDetour is a point the engine inserted to route around an
	// obstacle; only these carry a Fingerprint.
	WaypointDetour WaypointKind = "detour"
)

// Waypoint is a single point along a computed route. Anchor waypoints
// (Kind start or end) are the route's own endpoints; detour waypoints are
// the points the engine inserted to avoid an obstacle.
type Waypoint struct {
	Point       geometry.Point
	Kind        WaypointKind
	AnchorID    int64 // the planet id, for start/end; 0 for a detour
	Fingerprint string
}

// DetourDecision records one detour-insertion step, for the explain view
// and for the "avoid" anchor link persistence creates against the
// obstacle that forced the detour.
type DetourDecision struct {
	Seq             int
	ObstacleID      int64
	ObstacleCenter  geometry.Point
	ObstacleRadius  float64
	Inserted        geometry.Point
	OffsetTry       int
	DirIdx          int
	Offset          float64
	Score           float64
	ScoreBase       float64
	ScoreTurn       float64
	ScoreBacktrack  float64
	ScoreProximity  float64
	CandidatesTried int
}

// Result is the outcome of a successful Compute call.
type Result struct {
	Waypoints []Waypoint
	Decisions []DetourDecision
	Length    float64
}

// pathNode is a point along the path under construction, together with
// the metadata Waypoint needs once the path is finalized. Carrying this
// metadata alongside the point itself — rather than in a side table keyed
// by position — means it survives insertAt's index shifts for free.
type pathNode struct {
	Point       geometry.Point
	Kind        WaypointKind
	AnchorID    int64
	Fingerprint string
}

// Compute plans a route from `from` to `to` avoiding every obstacle in
// ix, other than the obstacles identified by fromObstacleID and
// toObstacleID (the endpoints' own bodies, excluded by identity rather
// than by position).
func Compute(ctx context.Context, from, to geometry.Point, fromObstacleID, toObstacleID int64, ix *Index, opts routeopts.RoutingOptions) (*Result, error) {
	const op = "routing.Compute"

	if err := opts.Validate(); err != nil {
		return nil, newError(op, KindDegenerateInput, err)
	}
	if from == to {
		return nil, newError(op, KindDegenerateInput, fmt.Errorf("from and to coincide"))
	}

	exclude := map[int64]bool{}
	if fromObstacleID != 0 {
		exclude[fromObstacleID] = true
	}
	if toObstacleID != 0 {
		exclude[toObstacleID] = true
	}

	path := []pathNode{
		{Point: from, Kind: WaypointStart, AnchorID: fromObstacleID},
		{Point: to, Kind: WaypointEnd, AnchorID: toObstacleID},
	}

	var decisions []DetourDecision

	for iter := 0; iter < opts.MaxIters; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, newError(op, KindCancelled, err)
		}

		collIdx, coll, found := scanPath(path, ix, exclude)
		if !found {
			return buildResult(path, decisions), nil
		}

		node, dec, ok := pickBestCandidate(path, collIdx, coll, ix, exclude, opts, len(decisions))
		if !ok {
			return nil, newError(op, KindNoDetourFound, fmt.Errorf("no collision-free candidate around obstacle %d", coll.Obstacle.ID))
		}

		path = insertAt(path, collIdx+1, node)
		decisions = append(decisions, dec)
	}

	return nil, newError(op, KindMaxIterationsExceeded, fmt.Errorf("exceeded %d iterations", opts.MaxIters))
}

// scanPath walks the path's legs in order and returns the index of the
// leg (the index of its starting point) and the first collision found,
// restarting the search from the head of the path on every call — which
// is what gives the engine its "insert one detour, then rescan
// everything" behavior rather than resuming mid-path.
func scanPath(path []pathNode, ix *Index, exclude map[int64]bool) (int, Collision, bool) {
	for i := 0; i < len(path)-1; i++ {
		if coll, hit := firstCollisionOnSegment(path[i].Point, path[i+1].Point, ix, exclude); hit {
			return i, coll, true
		}
	}
	return -1, Collision{}, false
}

// pickBestCandidate generates detour candidates around coll and scores
// each one that produces a collision-free pair of legs, returning the
// lowest-scoring candidate. Ties are broken deterministically: lower
// direction-preference index wins, then lower offset try, then
// lexicographic (x, y) — so that re-running the same input always
// produces the same route.
func pickBestCandidate(path []pathNode, collIdx int, coll Collision, ix *Index, exclude map[int64]bool, opts routeopts.RoutingOptions, seq int) (pathNode, DetourDecision, bool) {
	prev, next := path[collIdx].Point, path[collIdx+1].Point
	candidates := generateCandidates(prev, next, coll, opts)

	var (
		bestPt    geometry.Point
		bestScore score
		bestCand  candidate
		have      bool
		tried     int
	)

	for _, c := range candidates {
		if !segmentIsSafe(prev, c.Point, ix, exclude) {
			continue
		}
		if !segmentIsSafe(c.Point, next, ix, exclude) {
			continue
		}
		tried++
		s := scoreCandidate(prev, c.Point, next, coll.Obstacle.ID, ix, opts)
		if !have || better(s, c, bestScore, bestCand) {
			bestPt, bestScore, bestCand, have = c.Point, s, c, true
		}
	}

	if !have {
		return pathNode{}, DetourDecision{}, false
	}

	fp := Fingerprint(opts.AlgoVersion, coll.Obstacle.ID, coll.Obstacle.Center, opts.Safety, opts.Clearance, bestCand.dirIdx, bestCand.offset, bestPt)

	node := pathNode{Point: bestPt, Kind: WaypointDetour, Fingerprint: fp}
	dec := DetourDecision{
		Seq:             seq,
		ObstacleID:      coll.Obstacle.ID,
		ObstacleCenter:  coll.Obstacle.Center,
		ObstacleRadius:  coll.Obstacle.Radius,
		Inserted:        bestPt,
		OffsetTry:       bestCand.tryN,
		DirIdx:          bestCand.dirIdx,
		Offset:          bestCand.offset,
		Score:           bestScore.total(),
		ScoreBase:       bestScore.Base,
		ScoreTurn:       bestScore.Turn,
		ScoreBacktrack:  bestScore.Backtrack,
		ScoreProximity:  bestScore.Proximity,
		CandidatesTried: tried,
	}
	return node, dec, true
}

// better reports whether candidate (s, c) should replace the current best
// (bestScore, bestCand), applying the deterministic tie-break once the
// total scores are equal to floating-point precision.
func better(s score, c candidate, bestScore score, bestCand candidate) bool {
	const eps = 1e-12
	diff := s.total() - bestScore.total()
	if diff < -eps {
		return true
	}
	if diff > eps {
		return false
	}
	if c.dirIdx != bestCand.dirIdx {
		return c.dirIdx < bestCand.dirIdx
	}
	if c.tryN != bestCand.tryN {
		return c.tryN < bestCand.tryN
	}
	if c.Point.X != bestCand.Point.X {
		return c.Point.X < bestCand.Point.X
	}
	if c.Point.Y != bestCand.Point.Y {
		return c.Point.Y < bestCand.Point.Y
	}
	return false
}

func insertAt(path []pathNode, idx int, n pathNode) []pathNode {
	out := make([]pathNode, 0, len(path)+1)
	out = append(out, path[:idx]...)
	out = append(out, n)
	out = append(out, path[idx:]...)
	return out
}

func buildResult(path []pathNode, decisions []DetourDecision) *Result {
	waypoints := make([]Waypoint, len(path))
	length := 0.0
	for i, n := range path {
		waypoints[i] = Waypoint{Point: n.Point, Kind: n.Kind, AnchorID: n.AnchorID, Fingerprint: n.Fingerprint}
		if i > 0 {
			length += geometry.Distance(path[i-1].Point, n.Point)
		}
	}
	return &Result{Waypoints: waypoints, Decisions: decisions, Length: length}
}
