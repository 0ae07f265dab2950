package chart

import "math"

// MinMargin is the smallest vertical headroom added around the series.
const MinMargin = 0.01

// MarginPct is the headroom as a fraction of the series maximum.
const MarginPct = 0.005

// Bounds returns the vertical range used to draw values: the min and max
// widened by max(0.5% of max, 0.01) on each side. ok is false for an empty
// series.
func Bounds(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	margin := math.Max(MarginPct*hi, MinMargin)
	return lo - margin, hi + margin, true
}
