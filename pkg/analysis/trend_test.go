package analysis

import (
	"math"
	"testing"

	"safeboard/pkg/model"
)

func rows(values ...float64) []model.TrendRow {
	out := make([]model.TrendRow, len(values))
	for i, v := range values {
		out[i] = model.TrendRow{Value: v}
	}
	return out
}

func TestSummarize_Directions(t *testing.T) {
	if got := Summarize(rows(9, 7, 6, 4, 3, 1)); got.Direction != DirectionImproving {
		t.Errorf("falling incidents = %s, want improving (slope %v)", got.Direction, got.Slope)
	}
	if got := Summarize(rows(1, 2, 2, 4, 5, 7)); got.Direction != DirectionWorsening {
		t.Errorf("rising incidents = %s, want worsening (slope %v)", got.Direction, got.Slope)
	}
	if got := Summarize(rows(3, 3, 3, 3)); got.Direction != DirectionFlat {
		t.Errorf("constant series = %s, want flat", got.Direction)
	}
}

func TestSummarize_SlopeAndMean(t *testing.T) {
	got := Summarize(rows(0, 1, 2, 3))
	if math.Abs(got.Slope-1) > 1e-9 {
		t.Errorf("slope = %v, want 1", got.Slope)
	}
	if math.Abs(got.Mean-1.5) > 1e-9 {
		t.Errorf("mean = %v, want 1.5", got.Mean)
	}
}

func TestSummarize_Degenerate(t *testing.T) {
	if got := Summarize(nil); got.Direction != DirectionFlat {
		t.Errorf("empty series = %s, want flat", got.Direction)
	}
	if got := Summarize(rows(5)); got.Direction != DirectionFlat || got.Mean != 5 {
		t.Errorf("single row = %+v, want flat with mean 5", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("ma[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRefreshMetrics(t *testing.T) {
	r := model.Default(2026)
	safe := model.StatusSafe
	near := model.StatusNearMiss
	r.MonthlyData[0].Days[0].Status = &safe
	r.MonthlyData[0].Days[1].Status = &safe
	r.MonthlyData[0].Days[2].Status = &near

	m := RefreshMetrics(r)
	byLabel := make(map[string]float64)
	for _, c := range m {
		byLabel[c.Label] = c.Value
	}
	if byLabel["Safe Days"] != 2 {
		t.Errorf("safe days = %v, want 2", byLabel["Safe Days"])
	}
	if byLabel["Near Misses"] != 1 {
		t.Errorf("near misses = %v, want 1", byLabel["Near Misses"])
	}
	if byLabel["Current Streak"] != 0 {
		t.Errorf("streak = %v, want 0 (near miss broke it)", byLabel["Current Streak"])
	}
}
