package routing

import (
	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routeopts"
)

// score breaks a candidate's cost down into its components so the
// explain view can show why one detour point was chosen over another.
type score struct {
	Base      float64
	Turn      float64
	Backtrack float64
	Proximity float64
}

func (s score) total() float64 {
	return s.Base + s.Turn + s.Backtrack + s.Proximity
}

// scoreCandidate evaluates inserting w between a and b — the very
// segment that collided with obstacleID — against the two sub-legs that
// insertion actually produces.
func scoreCandidate(a, w, b geometry.Point, obstacleID int64, ix *Index, opts routeopts.RoutingOptions) score {
	legIn := geometry.Point{X: w.X - a.X, Y: w.Y - a.Y}
	legOut := geometry.Point{X: b.X - w.X, Y: b.Y - w.Y}
	segDir := geometry.Point{X: b.X - a.X, Y: b.Y - a.Y}

	s := score{}
	s.Base = geometry.Norm(legIn) + geometry.Norm(legOut)
	s.Turn = turnPenalty(legIn, legOut, opts.TurnWeight)
	s.Backtrack = backtrackPenalty(segDir, legIn, opts.BackWeight)
	s.Proximity = proximityPenalty(a, w, b, obstacleID, ix, opts.Safety, opts.ProximityMargin, opts.ProximityWeight)
	return s
}

// turnPenalty measures how sharply the route bends at the candidate
// point: 0 for a straight line, growing toward 2*turnWeight for a full
// reversal.
//
// When either leg has zero length there is no well-defined angle between
// them; the penalty in that case is fixed at twice the turn weight,
// treating a degenerate leg as the sharpest possible turn rather than as
// no turn at all.
func turnPenalty(legIn, legOut geometry.Point, turnWeight float64) float64 {
	ni, no := geometry.Norm(legIn), geometry.Norm(legOut)
	if ni == 0 || no == 0 {
		return turnWeight * 2
	}
	cos := (legIn.X*legOut.X + legIn.Y*legOut.Y) / (ni * no)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	// cos ranges from 1 (straight) to -1 (full reversal); rescale to a
	// [0, 2] penalty before applying the weight.
	return turnWeight * (1 - cos)
}

// backtrackPenalty penalizes a leg that points against the direction of
// the segment it is splitting — the original A-B being detoured around,
// not the route's overall origin-to-destination line — discouraging
// detours that needlessly double back on the very collision they're
// resolving.
func backtrackPenalty(segDir, legIn geometry.Point, backWeight float64) float64 {
	ns, nl := geometry.Norm(segDir), geometry.Norm(legIn)
	if ns == 0 || nl == 0 {
		return 0
	}
	cos := (segDir.X*legIn.X + segDir.Y*legIn.Y) / (ns * nl)
	if cos >= 0 {
		return 0
	}
	return backWeight * -cos
}

// proximityPenalty sums a quadratic penalty for every obstacle, other
// than obstacleID itself, whose closest approach to either new sub-leg
// (a-w or w-b) falls inside the safety-plus-margin warning band. Using
// the closer of the two sub-legs means a waypoint that hugs one leg
// tightly past a third planet is penalized even if the other leg gives
// it a wide berth.
func proximityPenalty(a, w, b geometry.Point, obstacleID int64, ix *Index, safety, margin, weight float64) float64 {
	warning := safety + margin
	total := 0.0
	for _, obs := range ix.All() {
		if obs.ID == obstacleID {
			continue
		}
		d1, _ := geometry.DistanceToSegment(a, w, obs.Center)
		d2, _ := geometry.DistanceToSegment(w, b, obs.Center)
		d := d1
		if d2 < d {
			d = d2
		}
		if d >= warning {
			continue
		}
		if margin <= 0 {
			total += weight
			continue
		}
		frac := (warning - d) / margin
		total += weight * frac * frac
	}
	return total
}
