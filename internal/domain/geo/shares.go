package geo

import (
	"slices"
	"strings"

	"github.com/okian/fortuna/internal/domain/aggregate"
	"github.com/okian/fortuna/internal/domain/model"
)

// mapNameUSA is how the world atlas spells the United States.
const mapNameUSA = "United States of America"

// ByCountry groups records by normalised citizenship.
func ByCountry(b model.Billionaire) string { return Normalize(b.Citizenship) }

// Shares returns per-country aggregates, richest first. Share is the
// percent of the total wealth of points.
func Shares(points []model.Billionaire) []model.Aggregate {
	aggs := aggregate.Summarize(points, ByCountry)
	return aggregate.TopN(aggs, aggregate.ByTotalWealth, len(aggs))
}

// MatchShare resolves a map feature name against shares. It tries an exact
// key, then the atlas spelling of the United States, then the first key in
// alphabetical order that contains or is contained in the name or shares
// its normalised form.
func MatchShare(mapName string, shares []model.Aggregate) (model.Aggregate, bool) {
	byKey := make(map[string]model.Aggregate, len(shares))
	for _, s := range shares {
		byKey[s.Key] = s
	}
	if s, ok := byKey[mapName]; ok {
		return s, true
	}
	if mapName == mapNameUSA {
		s, ok := byKey[UnitedStates]
		return s, ok
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	target := Normalize(mapName)
	for _, k := range keys {
		if strings.Contains(mapName, k) || strings.Contains(k, mapName) || Normalize(k) == target {
			return byKey[k], true
		}
	}
	return model.Aggregate{}, false
}
