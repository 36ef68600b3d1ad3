package aggregate

import (
	"strconv"

	"github.com/okian/fortuna/internal/domain/model"
)

// KeyFunc derives a grouping key from a record.
type KeyFunc func(model.Billionaire) string

func ByIndustry(b model.Billionaire) string {
	if b.Industry == "" {
		return model.UnknownIndustry
	}
	return b.Industry
}

func ByYear(b model.Billionaire) string {
	if b.Year == nil {
		return ""
	}
	return strconv.Itoa(*b.Year)
}

func netWorth(b model.Billionaire) float64 { return b.NetWorth }
func age(b model.Billionaire) float64      { return float64(b.AgeValue()) }

// Summarize groups points by key and computes one Aggregate per group, in
// order of first key occurrence. Share is the percent of the total wealth of
// points.
func Summarize(points []model.Billionaire, key KeyFunc) []model.Aggregate {
	groups := GroupBy(points, key)
	total := Sum(points, netWorth)
	out := make([]model.Aggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, summarizeGroup(g.Key, g.Items, total))
	}
	return out
}

// Total summarises all points as one aggregate with an empty key.
func Total(points []model.Billionaire) model.Aggregate {
	return summarizeGroup("", points, Sum(points, netWorth))
}

func summarizeGroup(key string, items []model.Billionaire, total float64) model.Aggregate {
	a := model.Aggregate{
		Key:         key,
		Count:       len(items),
		TotalWealth: Sum(items, netWorth),
	}
	if m, ok := Mean(Filter(items, HasAge), age); ok {
		a.MeanAge = &m
	}
	for _, it := range items {
		if it.IsSelfMade {
			a.SelfMadeCount++
			a.SelfMadeWealth += it.NetWorth
		} else {
			a.InheritedCount++
			a.InheritedWealth += it.NetWorth
		}
	}
	if total > 0 {
		a.Share = a.TotalWealth / total * 100
	}
	return a
}
