package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/fortuna/internal/adapters/repository"
	"github.com/okian/fortuna/internal/domain/aggregate"
	"github.com/okian/fortuna/internal/domain/geo"
	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/internal/domain/tooltip"
	"github.com/okian/fortuna/pkg/metrics"
)

// Grouping keys accepted by Aggregates.
const (
	GroupIndustry = "industry"
	GroupCountry  = "country"
	GroupYear     = "year"
)

// Orderings accepted by Aggregates.
const (
	SortWealth = "wealth"
	SortCount  = "count"
)

const (
	summaryTop     = 5
	ageBinWidth    = 5
	densitySamples = 81
)

// Filter narrows the dataset before aggregation.
type Filter struct {
	WealthType string
	Year       *int
}

func (f Filter) apply(records []model.Billionaire) ([]model.Billionaire, error) {
	wt, err := aggregate.ParseWealthType(f.WealthType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	preds := []aggregate.Predicate{wt.Predicate()}
	if f.Year != nil {
		preds = append(preds, aggregate.InYear(*f.Year))
	}
	return aggregate.Filter(records, preds...), nil
}

// AggregateRequest groups the filtered dataset.
type AggregateRequest struct {
	Filter
	By    string
	Sort  string
	Limit int
}

// Summary backs the conclusion view.
type Summary struct {
	Total         model.Aggregate      `json:"total"`
	TopIndustries []model.Aggregate    `json:"topIndustries"`
	TopCountries  []model.Aggregate    `json:"topCountries"`
	Yearly        []aggregate.YearStat `json:"yearly"`
}

// AgeDistribution backs the age view's side charts.
type AgeDistribution struct {
	Bins    []aggregate.AgeBin `json:"bins"`
	Density aggregate.Density  `json:"density"`
}

// TooltipRequest identifies a record and the hover geometry.
type TooltipRequest struct {
	Name     string        `json:"name"`
	Year     *int          `json:"year"`
	Anchor   tooltip.Point `json:"anchor"`
	Box      tooltip.Size  `json:"box"`
	Viewport tooltip.Size  `json:"viewport"`
}

// TooltipResult is what to show and where.
type TooltipResult struct {
	Card      tooltip.Card      `json:"card"`
	Placement tooltip.Placement `json:"placement"`
}

// Billionaires returns the filtered records.
func (s *Service) Billionaires(_ context.Context, f Filter) ([]model.Billionaire, error) {
	records, err := s.data()
	if err != nil {
		return nil, err
	}
	return f.apply(records)
}

// Aggregates groups the filtered dataset by industry, country or year,
// richest first or, with Sort "count", most populous first. A positive
// Limit keeps only the top groups.
func (s *Service) Aggregates(_ context.Context, req AggregateRequest) ([]model.Aggregate, error) {
	defer observe("aggregates", time.Now())

	records, err := s.data()
	if err != nil {
		return nil, err
	}
	if err := s.checkLimit(req.Limit, true); err != nil {
		return nil, err
	}
	filtered, err := req.Filter.apply(records)
	if err != nil {
		return nil, err
	}
	var key aggregate.KeyFunc
	switch strings.ToLower(strings.TrimSpace(req.By)) {
	case GroupIndustry, "":
		key = aggregate.ByIndustry
	case GroupCountry:
		key = geo.ByCountry
	case GroupYear:
		key = aggregate.ByYear
		filtered = aggregate.Filter(filtered, aggregate.HasYear)
	default:
		return nil, fmt.Errorf("%w: group by %q", ErrInvalidQuery, req.By)
	}
	var by aggregate.Comparator
	switch strings.ToLower(strings.TrimSpace(req.Sort)) {
	case SortWealth, "":
		by = aggregate.ByTotalWealth
	case SortCount:
		by = aggregate.ByCount
	default:
		return nil, fmt.Errorf("%w: sort by %q", ErrInvalidQuery, req.Sort)
	}
	aggs := aggregate.Summarize(filtered, key)
	n := len(aggs)
	if req.Limit > 0 {
		n = req.Limit
	}
	return aggregate.TopN(aggs, by, n), nil
}

// Summary computes the conclusion statistics over records with a year.
func (s *Service) Summary(_ context.Context, f Filter) (Summary, error) {
	defer observe("summary", time.Now())

	records, err := s.data()
	if err != nil {
		return Summary{}, err
	}
	filtered, err := f.apply(records)
	if err != nil {
		return Summary{}, err
	}
	dated := aggregate.Filter(filtered, aggregate.HasYear)
	return Summary{
		Total:         aggregate.Total(dated),
		TopIndustries: aggregate.TopN(aggregate.Summarize(dated, aggregate.ByIndustry), aggregate.ByTotalWealth, summaryTop),
		TopCountries:  aggregate.TopN(aggregate.Summarize(dated, geo.ByCountry), aggregate.ByTotalWealth, summaryTop),
		Yearly:        aggregate.Yearly(dated),
	}, nil
}

// WorldShares returns per-country wealth shares for the map view.
func (s *Service) WorldShares(_ context.Context, f Filter) ([]model.Aggregate, error) {
	defer observe("map", time.Now())

	records, err := s.data()
	if err != nil {
		return nil, err
	}
	filtered, err := f.apply(records)
	if err != nil {
		return nil, err
	}
	return geo.Shares(filtered), nil
}

// CountryShare resolves a world map feature name to its country's share of
// the filtered wealth.
func (s *Service) CountryShare(ctx context.Context, f Filter, mapName string) (model.Aggregate, error) {
	shares, err := s.WorldShares(ctx, f)
	if err != nil {
		return model.Aggregate{}, err
	}
	if strings.TrimSpace(mapName) == "" {
		return model.Aggregate{}, fmt.Errorf("%w: empty country", ErrInvalidQuery)
	}
	share, ok := geo.MatchShare(mapName, shares)
	if !ok {
		return model.Aggregate{}, fmt.Errorf("%w: country %s", repository.ErrNotFound, mapName)
	}
	return share, nil
}

// AgeDistribution bins and estimates the ages of the filtered dataset.
func (s *Service) AgeDistribution(_ context.Context, f Filter) (AgeDistribution, error) {
	defer observe("ages", time.Now())

	records, err := s.data()
	if err != nil {
		return AgeDistribution{}, err
	}
	filtered, err := f.apply(records)
	if err != nil {
		return AgeDistribution{}, err
	}
	bins, err := aggregate.AgeHistogram(filtered, ageBinWidth)
	if err != nil {
		return AgeDistribution{}, err
	}
	density, err := aggregate.AgeDensity(filtered, densitySamples)
	if err != nil {
		return AgeDistribution{}, err
	}
	return AgeDistribution{Bins: bins, Density: density}, nil
}

// Richest returns the top-n rich list for year, or across all years when
// year is nil.
func (s *Service) Richest(ctx context.Context, year *int, n int) ([]repository.Entry, error) {
	if _, err := s.data(); err != nil {
		return nil, err
	}
	if err := s.checkLimit(n, false); err != nil {
		return nil, err
	}
	return s.richList.TopN(ctx, yearOrAll(year), n)
}

// Rank returns the rich list position of name for year, or the person's
// best position across all years when year is nil.
func (s *Service) Rank(ctx context.Context, name string, year *int) (repository.Entry, error) {
	if _, err := s.data(); err != nil {
		return repository.Entry{}, err
	}
	if strings.TrimSpace(name) == "" {
		return repository.Entry{}, fmt.Errorf("%w: empty name", ErrInvalidQuery)
	}
	return s.richList.Rank(ctx, name, yearOrAll(year))
}

// Tooltip answers a hover query for one record.
func (s *Service) Tooltip(_ context.Context, req TooltipRequest) (TooltipResult, error) {
	records, err := s.data()
	if err != nil {
		return TooltipResult{}, err
	}
	probe := model.Billionaire{Name: strings.TrimSpace(req.Name), Year: req.Year}
	s.mu.RLock()
	i, ok := s.byKey[probe.Key()]
	s.mu.RUnlock()
	if !ok {
		return TooltipResult{}, fmt.Errorf("%w: %s", repository.ErrNotFound, probe.Key())
	}
	placement, err := tooltip.Place(req.Anchor, req.Box, req.Viewport)
	if err != nil {
		return TooltipResult{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return TooltipResult{Card: tooltip.Describe(records[i]), Placement: placement}, nil
}

func (s *Service) checkLimit(n int, allowZero bool) error {
	if n < 0 || (n == 0 && !allowZero) || n > s.maxTopN {
		return fmt.Errorf("%w: limit %d outside [1,%d]", repository.ErrInvalidLimit, n, s.maxTopN)
	}
	return nil
}

func yearOrAll(year *int) int {
	if year == nil {
		return repository.AllYears
	}
	return *year
}

func observe(kind string, start time.Time) {
	metrics.RecordAggregationLatency(kind, float64(time.Since(start).Milliseconds()))
}
