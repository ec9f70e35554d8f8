// Package algo has the numeric building blocks shared by every pipeline stage.
package algo

import (
	"math"
	"sort"
)

// Time constants in epoch milliseconds.
const (
	MillisPerHour = int64(60 * 60 * 1000)
	MillisPerDay  = 24 * MillisPerHour
	MillisPerWeek = 7 * MillisPerDay
)

// Clamp bounds v to [0, 100]. NaN maps to 0.
func Clamp(v float64) float64 {
	return ClampRange(v, 0, 100)
}

// Clamp01 bounds v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	return ClampRange(v, 0, 1)
}

// ClampRange bounds v to [lo, hi]. NaN maps to lo.
func ClampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ratio divides num by den and resolves a zero denominator to 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Percent returns num/den*100, or 0 when den is zero.
func Percent(num, den int) float64 {
	return Ratio(float64(num), float64(den)) * 100
}

// Round rounds to the nearest integer.
func Round(v float64) float64 {
	return math.Round(v)
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the median, or 0 for no values. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Days converts a millisecond duration to days.
func Days(ms int64) float64 {
	return float64(ms) / float64(MillisPerDay)
}

// Hours converts a millisecond duration to hours.
func Hours(ms int64) float64 {
	return float64(ms) / float64(MillisPerHour)
}
