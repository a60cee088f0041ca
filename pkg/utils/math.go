package utils

import "math"

// ClampInt limits v to the range [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RoundPercent rounds v to the nearest integer and clamps it to [0, 100].
func RoundPercent(v float64) int {
	return ClampInt(int(math.Round(v)), 0, 100)
}
