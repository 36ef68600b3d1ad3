package aggregate

import (
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
)

// Sum adds value(item) over items. An empty input sums to 0.
func Sum[T any](items []T, value func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return vec.Sum(values(items, value))
}

// Mean averages value(item) over items. The boolean is false for an empty
// input, in which case the mean is undefined and 0 is returned.
func Mean[T any](items []T, value func(T) float64) (float64, bool) {
	if len(items) == 0 {
		return 0, false
	}
	return stats.Mean(values(items, value)), true
}

// Bounds returns the min and max of value(item). ok is false on empty input.
func Bounds[T any](items []T, value func(T) float64) (lo, hi float64, ok bool) {
	if len(items) == 0 {
		return 0, 0, false
	}
	lo, hi = stats.Bounds(values(items, value))
	return lo, hi, true
}

func values[T any](items []T, value func(T) float64) []float64 {
	xs := make([]float64, len(items))
	for i, it := range items {
		xs[i] = value(it)
	}
	return xs
}
