// Package render draws a computed route and its obstacles, either as a
// static SVG diagram (gonum/plot) or as an interactive HTML chart of the
// detour decisions that produced it (go-echarts).
package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/astrocart/hyperroute/internal/geometry"
	"github.com/astrocart/hyperroute/internal/routing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SVG renders the route's path and the obstacles it passes near as a
// static diagram, returning the SVG document bytes.
func SVG(path []geometry.Point, obstacles []routing.Obstacle) ([]byte, error) {
	p := plot.New()
	p.Title.Text = "Route"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	if len(path) > 0 {
		line, err := plotter.NewLine(toXYs(path))
		if err != nil {
			return nil, fmt.Errorf("render: build route line: %w", err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)

		pts, err := plotter.NewScatter(toXYs(path))
		if err != nil {
			return nil, fmt.Errorf("render: build waypoint scatter: %w", err)
		}
		pts.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(pts)
	}

	for _, obs := range obstacles {
		circle, err := obstacleOutline(obs)
		if err != nil {
			return nil, fmt.Errorf("render: build obstacle outline %d: %w", obs.ID, err)
		}
		p.Add(circle)
	}

	writer, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "svg")
	if err != nil {
		return nil, fmt.Errorf("render: build svg writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render: write svg: %w", err)
	}
	return buf.Bytes(), nil
}

func toXYs(path []geometry.Point) plotter.XYs {
	xys := make(plotter.XYs, len(path))
	for i, p := range path {
		xys[i].X, xys[i].Y = p.X, p.Y
	}
	return xys
}

// obstacleOutline approximates a circle as a closed polyline, since
// gonum/plot has no native circle primitive.
func obstacleOutline(obs routing.Obstacle) (*plotter.Line, error) {
	const segments = 48
	pts := make(plotter.XYs, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		pts[i].X = obs.Center.X + obs.Radius*math.Cos(theta)
		pts[i].Y = obs.Center.Y + obs.Radius*math.Sin(theta)
	}
	return plotter.NewLine(pts)
}
