// Package export renders the board's data for use outside the terminal: an
// SVG trend chart and a PNG calendar heatmap, written as one bundle.
package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"safeboard/pkg/analysis"
	"safeboard/pkg/model"
)

// Trend chart geometry.
const (
	trendWidth   = 960
	trendHeight  = 400
	trendPadding = 60
)

// WriteTrendSVG renders the trend rows as a line chart with a baseline axis
// and per-point labels.
func WriteTrendSVG(w io.Writer, rows []model.TrendRow, title string) {
	canvas := svg.New(w)
	canvas.Start(trendWidth, trendHeight)
	defer canvas.End()

	canvas.Rect(0, 0, trendWidth, trendHeight, "fill:#1e1f29")
	canvas.Text(trendPadding, 32, title, "fill:#f8f8f2;font-size:20px;font-family:sans-serif")

	sum := analysis.Summarize(rows)
	canvas.Text(trendWidth-trendPadding, 32,
		fmt.Sprintf("trend: %s", sum.Direction),
		"fill:#bfbfbf;font-size:14px;font-family:sans-serif;text-anchor:end")

	if len(rows) == 0 {
		return
	}

	maxVal := 1.0
	for _, r := range rows {
		if r.Value > maxVal {
			maxVal = r.Value
		}
	}

	plotW := trendWidth - 2*trendPadding
	plotH := trendHeight - 2*trendPadding
	baseline := trendHeight - trendPadding

	x := func(i int) int {
		if len(rows) == 1 {
			return trendPadding + plotW/2
		}
		return trendPadding + i*plotW/(len(rows)-1)
	}
	y := func(v float64) int {
		return baseline - int(v/maxVal*float64(plotH))
	}

	canvas.Line(trendPadding, baseline, trendWidth-trendPadding, baseline, "stroke:#6272a4;stroke-width:1")

	xs := make([]int, len(rows))
	ys := make([]int, len(rows))
	for i, r := range rows {
		xs[i] = x(i)
		ys[i] = y(r.Value)
	}
	canvas.Polyline(xs, ys, "fill:none;stroke:#8be9fd;stroke-width:2")

	for i, r := range rows {
		canvas.Circle(xs[i], ys[i], 4, "fill:#bd93f9")
		canvas.Text(xs[i], baseline+20, r.Label,
			"fill:#bfbfbf;font-size:12px;font-family:sans-serif;text-anchor:middle")
		canvas.Text(xs[i], ys[i]-10, fmt.Sprintf("%g", r.Value),
			"fill:#f8f8f2;font-size:11px;font-family:sans-serif;text-anchor:middle")
	}
}
