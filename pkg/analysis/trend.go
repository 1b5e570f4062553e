// Package analysis computes summary statistics over the safety record for
// the metric cards and trend chart.
package analysis

import (
	"gonum.org/v1/gonum/stat"

	"safeboard/pkg/model"
)

// Direction labels the trend of an incident series, where falling is good.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionWorsening Direction = "worsening"
	DirectionFlat      Direction = "flat"
)

// flatSlope is the per-period slope magnitude below which a trend is called
// flat rather than noise-chasing a direction.
const flatSlope = 0.05

// TrendSummary describes a metric series for the trend chart header.
type TrendSummary struct {
	Mean      float64
	Slope     float64
	Direction Direction
}

// Summarize fits a least-squares line through the trend rows (x = row index)
// and labels the direction. An empty or single-row series is flat.
func Summarize(rows []model.TrendRow) TrendSummary {
	if len(rows) == 0 {
		return TrendSummary{Direction: DirectionFlat}
	}
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = float64(i)
		ys[i] = r.Value
	}
	mean := stat.Mean(ys, nil)
	if len(rows) < 2 {
		return TrendSummary{Mean: mean, Direction: DirectionFlat}
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)

	dir := DirectionFlat
	switch {
	case slope < -flatSlope:
		dir = DirectionImproving
	case slope > flatSlope:
		dir = DirectionWorsening
	}
	return TrendSummary{Mean: mean, Slope: slope, Direction: dir}
}

// MovingAverage smooths a series with a trailing window. The first window-1
// points average whatever history exists.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// RefreshMetrics recomputes the metric cards from the calendar: safe days,
// near misses, accidents, and the day streak.
func RefreshMetrics(r *model.SafetyRecord) []model.Metric {
	counts := r.CountByStatus()
	streak := model.ComputeStreak(r)
	return []model.Metric{
		{Label: "Safe Days", Value: float64(counts[model.StatusSafe]), Unit: "days"},
		{Label: "Near Misses", Value: float64(counts[model.StatusNearMiss])},
		{Label: "Accidents", Value: float64(counts[model.StatusAccident])},
		{Label: "Current Streak", Value: float64(streak.Current), Unit: "days"},
	}
}
