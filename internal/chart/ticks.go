package chart

import "math"

// TickStep computes a nice tick interval targeting ~5 ticks.
func TickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// ValueScale returns a zero-based axis ceiling and step with at most
// maxIntervals intervals. An all-zero series still gets a unit axis.
func ValueScale(maxVal float64, maxIntervals int) (ceiling, step float64) {
	if maxVal <= 0 {
		maxVal = 1
	}
	if maxIntervals < 2 {
		maxIntervals = 2
	}

	step = TickStep(maxVal)
	for int(math.Ceil(maxVal/step)) > maxIntervals {
		step *= 2
	}
	ceiling = math.Ceil(maxVal/step) * step
	return ceiling, step
}

// LabelStride returns how many points to skip between x labels so that at
// most maxLabels are shown.
func LabelStride(n, maxLabels int) int {
	if maxLabels < 1 || n <= maxLabels {
		return 1
	}
	return (n + maxLabels - 1) / maxLabels
}
