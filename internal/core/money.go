// Package core provides the invoice domain types and the small amount of
// arithmetic the reports need.
package core

import "math"

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage returns part/whole*100 rounded to two decimals, or 0 when whole
// is not positive. The result is clamped to [0, 100].
func Percentage(part, whole int64) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	if part >= whole {
		return 100
	}
	return Round2(float64(part) / float64(whole) * 100)
}
