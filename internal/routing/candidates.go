package routing

import (
	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routeopts"
)

// candidate is a single proposed detour waypoint. dirIdx is the rank of
// the direction it was generated in, in the fixed preference order
// generateCandidates enumerates them — radial first, diagonals last — and
// doubles as the tie-break key and the direction_tag folded into the
// waypoint fingerprint. tryN and offset record which growing-offset pass
// produced it.
type candidate struct {
	Point  geometry.Point
	dirIdx int
	tryN   int
	offset float64
}

// generateCandidates produces the nine direction-diverse detour points
// for a collision between segment a-b and coll.Obstacle, at each of
// MaxOffsetTries growing offsets: radial away from the obstacle center,
// the two lateral directions normal to the segment, forward and backward
// along the segment, and four diagonals: radial mixed with each lateral,
// and backward mixed with each lateral.
// Offsets start at the obstacle's radius plus the configured clearance
// and grow by OffsetGrowth on each retry, so early tries hug the obstacle
// and later tries swing progressively wider.
//
// When the collision's closest-approach point sits exactly on the
// obstacle center, there is no well-defined radial direction; the
// generator falls back to the segment's own normal rather than a fixed
// global axis, so the fallback still tracks the geometry being detoured
// around.
func generateCandidates(a, b geometry.Point, coll Collision, opts routeopts.RoutingOptions) []candidate {
	base := coll.Obstacle.Radius + opts.Clearance

	segDir := geometry.Normalize(geometry.Point{X: b.X - a.X, Y: b.Y - a.Y})
	segNormal := geometry.Perp(segDir)

	away := geometry.Point{X: coll.Closest.X - coll.Obstacle.Center.X, Y: coll.Closest.Y - coll.Obstacle.Center.Y}
	radial := geometry.Normalize(away)
	if radial == (geometry.Point{}) {
		radial = segNormal
	}

	lateralLeft := segNormal
	lateralRight := geometry.Point{X: -segNormal.X, Y: -segNormal.Y}
	forward := segDir
	backward := geometry.Point{X: -segDir.X, Y: -segDir.Y}

	mix := func(p, q geometry.Point) geometry.Point {
		return geometry.Normalize(geometry.Point{X: p.X + q.X, Y: p.Y + q.Y})
	}

	// Preference order: radial, lateral-left, lateral-right, forward,
	// backward, then the four 45-degree diagonals: radial mixed with
	// each lateral, then backward mixed with each lateral.
	dirs := []geometry.Point{
		radial,
		lateralLeft,
		lateralRight,
		forward,
		backward,
		mix(radial, lateralLeft),
		mix(radial, lateralRight),
		mix(backward, lateralLeft),
		mix(backward, lateralRight),
	}

	candidates := make([]candidate, 0, opts.MaxOffsetTries*len(dirs))
	offset := base
	for try := 0; try < opts.MaxOffsetTries; try++ {
		for dirIdx, dir := range dirs {
			if dir == (geometry.Point{}) {
				// A degenerate mix (e.g. radial exactly opposing a
				// lateral) has no direction; skip rather than propose a
				// point at the obstacle's own center.
				continue
			}
			p := geometry.Point{
				X: coll.Obstacle.Center.X + dir.X*offset,
				Y: coll.Obstacle.Center.Y + dir.Y*offset,
			}
			candidates = append(candidates, candidate{Point: p, dirIdx: dirIdx, tryN: try, offset: offset})
		}
		offset *= opts.OffsetGrowth
	}
	return candidates
}
