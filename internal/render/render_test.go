package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/astrocart/hyperroute/internal/explain"
	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routing"
)

func TestSVGProducesDocument(t *testing.T) {
	path := []geometry.Point{{X: 0, Y: 0}, {X: 5, Y: 1.5}, {X: 10, Y: 0}}
	obstacles := []routing.Obstacle{{ID: 1, Center: geometry.Point{X: 5, Y: 0}, Radius: 1}}

	svg, err := SVG(path, obstacles)
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("expected SVG output to contain an <svg> tag")
	}
}

func TestSVGHandlesEmptyPath(t *testing.T) {
	svg, err := SVG(nil, nil)
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if len(svg) == 0 {
		t.Error("expected non-empty SVG even for an empty path")
	}
}

func TestDecisionBreakdownHTML(t *testing.T) {
	view := &explain.RouteView{
		RouteID: 1,
		Length:  10.44,
		Detours: []explain.DetourView{
			{Seq: 0, ObstacleID: 1, ScoreBase: 10.0, ScoreTurn: 0.3, ScoreBacktrack: 0, ScoreProximity: 0.1},
		},
	}
	var buf bytes.Buffer
	if err := DecisionBreakdownHTML(&buf, view); err != nil {
		t.Fatalf("DecisionBreakdownHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "detour score breakdown") {
		t.Error("expected the chart title to appear in the rendered HTML")
	}
}
