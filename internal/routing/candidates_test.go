package routing

import (
	"testing"

	"github.com/astrocart/hyperroute/internal/routeopts"
)

func TestGenerateCandidatesCoversNineDirectionsPerTry(t *testing.T) {
	a, b := pt(0, 0), pt(10, 0)
	coll := Collision{Obstacle: Obstacle{ID: 1, Center: pt(5, 0), Radius: 1}, Closest: pt(5, 0.5), T: 0.5}
	opts := routeopts.DefaultOptions()

	cands := generateCandidates(a, b, coll, opts)
	if len(cands) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if cands[0].tryN != 0 || cands[0].dirIdx != 0 {
		t.Errorf("first candidate should be try 0, direction 0 (radial), got try %d dir %d", cands[0].tryN, cands[0].dirIdx)
	}
	seenTry0 := 0
	for _, c := range cands {
		if c.tryN == 0 {
			seenTry0++
		}
	}
	if seenTry0 != 9 {
		t.Errorf("expected 9 direction-diverse candidates on the first try, got %d", seenTry0)
	}
}

func TestGenerateCandidatesHeadOnFallbackUsesSegmentNormal(t *testing.T) {
	// A 45-degree segment with the obstacle centered dead on it: the
	// closest-approach point coincides with the obstacle center, so the
	// radial direction is undefined and must fall back to the segment's
	// own normal rather than a fixed global axis.
	a, b := pt(0, 0), pt(10, 10)
	center := pt(5, 5)
	coll := Collision{Obstacle: Obstacle{ID: 1, Center: center, Radius: 1}, Closest: center, T: 0.5}
	opts := routeopts.DefaultOptions()

	cands := generateCandidates(a, b, coll, opts)
	radial := cands[0].Point
	// The segment runs along (1,1)/sqrt(2); its normal is (-1,1)/sqrt(2)
	// or (1,-1)/sqrt(2) — dx and dy equal in magnitude, opposite in sign —
	// not the global x-axis (1,0) a hardcoded fallback would have
	// produced.
	dx, dy := radial.X-center.X, radial.Y-center.Y
	const eps = 1e-9
	if dx+dy > eps || dx+dy < -eps {
		t.Errorf("fallback radial candidate %v is not offset along the segment normal from center %v", radial, center)
	}
	if dy > -eps && dy < eps {
		t.Errorf("fallback used the hardcoded global axis (1,0) instead of the segment normal")
	}
}
