package domain

import "math"

// RoundHours rounds an hour value to two decimal places. All stored hour
// values go through this so that aggregates stay within 0.01 of the sum of
// their parts.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
