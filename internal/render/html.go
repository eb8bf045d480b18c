package render

import (
	"fmt"
	"io"

	"github.com/astrocart/hyperroute/internal/explain"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// DecisionBreakdownHTML renders an interactive stacked bar chart of each
// detour decision's scoring components, so an operator can see at a
// glance whether a route's detours were driven mostly by extra distance,
// sharp turns, backtracking, or crowding near other obstacles.
func DecisionBreakdownHTML(w io.Writer, view *explain.RouteView) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Route %d — detour score breakdown", view.RouteID),
			Subtitle: fmt.Sprintf("length %.4f", view.Length),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "detour seq"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "score"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
	)

	labels := make([]string, len(view.Detours))
	base := make([]opts.BarData, len(view.Detours))
	turn := make([]opts.BarData, len(view.Detours))
	back := make([]opts.BarData, len(view.Detours))
	prox := make([]opts.BarData, len(view.Detours))

	for i, d := range view.Detours {
		labels[i] = fmt.Sprintf("#%d (obstacle %d)", d.Seq, d.ObstacleID)
		base[i] = opts.BarData{Value: d.ScoreBase}
		turn[i] = opts.BarData{Value: d.ScoreTurn}
		back[i] = opts.BarData{Value: d.ScoreBacktrack}
		prox[i] = opts.BarData{Value: d.ScoreProximity}
	}

	bar.SetXAxis(labels).
		AddSeries("base length", base, charts.WithBarChartOpts(opts.BarChart{Stack: "score"})).
		AddSeries("turn penalty", turn, charts.WithBarChartOpts(opts.BarChart{Stack: "score"})).
		AddSeries("backtrack penalty", back, charts.WithBarChartOpts(opts.BarChart{Stack: "score"})).
		AddSeries("proximity penalty", prox, charts.WithBarChartOpts(opts.BarChart{Stack: "score"}))

	return bar.Render(w)
}

func boolPtr(v bool) *bool {
	return &v
}
