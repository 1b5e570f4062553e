package layout

import "math"

// Reference dimensions the scale functions measure against.
const (
	RefViewportWidth  = 1920.0
	RefViewportHeight = 1080.0
	RefPanelWidth     = 540.0
	RefPanelHeight    = 320.0
)

// Scale derivation tuning. The sub-linear exponent dampens growth so text
// stays legible at both extremes, and the ratio floor stops runaway shrinkage
// on degenerate aspect ratios.
const (
	scaleExponent = 0.45
	ratioFloor    = 0.35

	RootScaleMin  = 0.60
	RootScaleMax  = 1.50
	PanelScaleMin = 0.68
	PanelScaleMax = 1.18

	// ScaleEpsilon is the hysteresis threshold: a recomputed factor within
	// this distance of the previous one is discarded to prevent jitter.
	ScaleEpsilon = 0.02
)

func dampen(w, h, refW, refH float64) float64 {
	ratio := math.Min(w/refW, h/refH)
	return math.Pow(math.Max(ratio, ratioFloor), scaleExponent)
}

func clampScale(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RootScale derives the whole-screen base-unit factor from the viewport size.
// Pure and deterministic.
func RootScale(width, height float64) float64 {
	return clampScale(dampen(width, height, RefViewportWidth, RefViewportHeight), RootScaleMin, RootScaleMax)
}

// PanelScale derives a per-slot typography factor from the slot's container
// size. The clamp range is narrower than RootScale's because panel-internal
// scaling should vary less aggressively than the whole screen.
// PanelScale(RefPanelWidth, RefPanelHeight) is exactly 1.
func PanelScale(width, height float64) float64 {
	return clampScale(dampen(width, height, RefPanelWidth, RefPanelHeight), PanelScaleMin, PanelScaleMax)
}

// ScaleTracker retains the last adopted scale factor and applies hysteresis:
// a newly derived factor only replaces the current one when it moved by more
// than ScaleEpsilon. Callers recompute on every resize notification and let
// the tracker decide whether the change is visible.
type ScaleTracker struct {
	current float64
}

// NewScaleTracker starts a tracker at the given factor.
func NewScaleTracker(initial float64) *ScaleTracker {
	return &ScaleTracker{current: initial}
}

// Current returns the adopted factor.
func (t *ScaleTracker) Current() float64 { return t.current }

// Observe offers a freshly derived factor and reports whether it was adopted.
func (t *ScaleTracker) Observe(next float64) bool {
	if math.Abs(next-t.current) <= ScaleEpsilon {
		return false
	}
	t.current = next
	return true
}
