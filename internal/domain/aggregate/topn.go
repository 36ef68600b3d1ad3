package aggregate

import (
	"cmp"
	"slices"

	"github.com/okian/fortuna/internal/domain/model"
)

// Comparator extracts the value aggregates are ranked by.
type Comparator func(model.Aggregate) float64

// ByTotalWealth ranks aggregates by summed net worth.
func ByTotalWealth(a model.Aggregate) float64 { return a.TotalWealth }

// ByCount ranks aggregates by member count.
func ByCount(a model.Aggregate) float64 { return float64(a.Count) }

// TopN returns at most n aggregates in descending order of by. The sort is
// stable so ties keep their input order. The input slice is not modified.
func TopN(aggs []model.Aggregate, by Comparator, n int) []model.Aggregate {
	if n <= 0 || len(aggs) == 0 {
		return []model.Aggregate{}
	}
	sorted := slices.Clone(aggs)
	slices.SortStableFunc(sorted, func(a, b model.Aggregate) int {
		return cmp.Compare(by(b), by(a))
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
