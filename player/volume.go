package player

import "math"

// SilentMillibels is what non-positive linear volumes clamp to.
const SilentMillibels = -6000.0

// LinearToMillibels converts a linear gain (1.0 is unity) to millibels.
// Gains at or below zero map to SilentMillibels instead of -Inf or NaN.
func LinearToMillibels(v float64) float64 {
	mb := 2000 * math.Log10(v)
	if math.IsNaN(mb) || math.IsInf(mb, -1) {
		return SilentMillibels
	}
	return mb
}

// MillibelsToLinear is the inverse of LinearToMillibels. It cannot recover
// the input of a clamped conversion.
func MillibelsToLinear(mb float64) float64 {
	return math.Pow(10, mb/2000)
}
