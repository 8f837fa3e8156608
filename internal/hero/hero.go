// Package hero derives the bounded momentum series from per-second loudness.
package hero

import "github.com/killallgit/herotrend/internal/loudness"

// Limit bounds every value to [-Limit, Limit]
const Limit = 3

// Series is the momentum indicator, one value per second
type Series []int

// Generate walks the loudness series once, in order. A rise increments the
// previous value, a fall decrements it and a tie holds it, saturating at ±Limit.
// The first value is always zero.
func Generate(data loudness.Series) Series {
	series := make(Series, len(data))
	for i := 1; i < len(data); i++ {
		previous, current := data[i-1], data[i]
		switch {
		case current > previous:
			series[i] = min(series[i-1]+1, Limit)
		case current < previous:
			series[i] = max(series[i-1]-1, -Limit)
		default:
			series[i] = series[i-1]
		}
	}
	return series
}
