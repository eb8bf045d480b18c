package routing

import (
	"testing"

	"github.com/astrocart/hyperroute/internal/routeopts"
)

func TestTurnPenaltyStraightIsZero(t *testing.T) {
	leg := pt(1, 0)
	if got := turnPenalty(leg, leg, 0.8); got != 0 {
		t.Errorf("straight-line turn penalty = %v, want 0", got)
	}
}

func TestTurnPenaltyReversalIsMax(t *testing.T) {
	in := pt(1, 0)
	out := pt(-1, 0)
	got := turnPenalty(in, out, 0.8)
	want := 0.8 * 2
	if got != want {
		t.Errorf("reversal turn penalty = %v, want %v", got, want)
	}
}

func TestTurnPenaltyDegenerateLegIsMax(t *testing.T) {
	zero := pt(0, 0)
	nonzero := pt(1, 0)
	got := turnPenalty(zero, nonzero, 0.8)
	want := 0.8 * 2
	if got != want {
		t.Errorf("degenerate-leg turn penalty = %v, want %v (the spec's literal 2x rule, not the 0 the reference implementation used)", got, want)
	}
}

func TestBacktrackPenaltyUsesTheCollidingSegmentOwnDirection(t *testing.T) {
	segDir := pt(1, 0)
	if got := backtrackPenalty(segDir, pt(1, 0), 3.0); got != 0 {
		t.Errorf("forward leg penalty = %v, want 0", got)
	}
	if got := backtrackPenalty(segDir, pt(-1, 0), 3.0); got != 3.0 {
		t.Errorf("reversed leg penalty = %v, want 3.0", got)
	}
}

func TestProximityPenaltyZeroOutsideMargin(t *testing.T) {
	ix := NewIndex([]Obstacle{{ID: 1, Center: pt(0, 0), Radius: 1}})
	got := proximityPenalty(pt(10, 9), pt(10, 10), pt(11, 10), 99, ix, 1, 0.5, 1.5)
	if got != 0 {
		t.Errorf("far segment penalty = %v, want 0", got)
	}
}

func TestProximityPenaltyPositiveInsideMargin(t *testing.T) {
	ix := NewIndex([]Obstacle{{ID: 1, Center: pt(0, 0), Radius: 1}})
	got := proximityPenalty(pt(1.2, -1), pt(1.2, 0), pt(1.2, 1), 99, ix, 1, 0.5, 1.5)
	if got <= 0 {
		t.Errorf("near segment penalty = %v, want > 0", got)
	}
}

func TestProximityPenaltySkipsTheCurrentObstacle(t *testing.T) {
	ix := NewIndex([]Obstacle{{ID: 1, Center: pt(0, 0), Radius: 1}})
	got := proximityPenalty(pt(1.2, -1), pt(1.2, 0), pt(1.2, 1), 1, ix, 1, 0.5, 1.5)
	if got != 0 {
		t.Errorf("penalty against the obstacle being routed around = %v, want 0", got)
	}
}

func TestScoreCandidateCombinesComponents(t *testing.T) {
	ix := NewIndex(nil)
	opts := routeopts.DefaultOptions()
	s := scoreCandidate(pt(0, 0), pt(5, 1), pt(10, 0), 0, ix, opts)
	if s.total() != s.Base+s.Turn+s.Backtrack+s.Proximity {
		t.Errorf("total should be the sum of components")
	}
	if s.Base <= 0 {
		t.Errorf("base length should be positive")
	}
}
