package routing

import "github.com/astrocart/hyperroute/internal/geometry"

// Collision describes the first obstacle a segment runs into, in the order
// encountered while walking from a to b.
type Collision struct {
	Obstacle Obstacle
	Closest  geometry.Point
	T        float64
	Dist     float64
}

// firstCollisionOnSegment scans the index for the obstacle whose safety
// disc (radius alone — clearance plays no part in the collision test, only
// in candidate offset sizing) the segment a-b intersects first, breaking
// ties on smallest t, then ascending obstacle id.
//
// Obstacles anchoring either endpoint of the segment are excluded by
// identity, via excludeIDs, rather than by checking whether the closest
// approach parameter t is near 0 or 1. A planet that is itself the
// departure or arrival point must never be treated as blocking its own
// leg, even when the clamped closest point happens to land away from the
// endpoint (e.g. a very large safety radius). Filtering by id is exact;
// filtering by a t epsilon is not, since it would also suppress genuine
// obstacles that merely happen to sit near an endpoint.
func firstCollisionOnSegment(a, b geometry.Point, ix *Index, excludeIDs map[int64]bool) (Collision, bool) {
	var (
		best  Collision
		found bool
	)
	for _, obs := range ix.All() {
		if excludeIDs[obs.ID] {
			continue
		}
		hit, closest, t, dist := geometry.SegmentHitsDisc(a, b, obs.Center, obs.Radius)
		if !hit {
			continue
		}
		if !found || t < best.T || (t == best.T && obs.ID < best.Obstacle.ID) {
			best = Collision{Obstacle: obs, Closest: closest, T: t, Dist: dist}
			found = true
		}
	}
	return best, found
}

// segmentIsSafe reports whether a-b clears every obstacle in the index
// (other than those excluded by identity), using the same filter as
// firstCollisionOnSegment so validation and detection never disagree.
func segmentIsSafe(a, b geometry.Point, ix *Index, excludeIDs map[int64]bool) bool {
	_, hit := firstCollisionOnSegment(a, b, ix, excludeIDs)
	return !hit
}
