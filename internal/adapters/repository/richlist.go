package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/pkg/metrics"
)

// record is the stored payload behind a tree key.
type record struct {
	name        string
	year        int
	worth       worthFP
	industry    string
	citizenship string
	selfMade    bool
}

func (m record) entry() Entry {
	return Entry{
		Name:        m.name,
		Year:        m.year,
		NetWorth:    toFloat(m.worth),
		Industry:    m.industry,
		Citizenship: m.citizenship,
		IsSelfMade:  m.selfMade,
	}
}

// RichList is a treap-backed, in-memory Store with one tree per year plus
// one spanning all years.
type RichList struct {
	mu    sync.RWMutex
	years map[int]*tree
	// all holds one entry per name: its richest observation in obs.
	all *tree
	obs map[string]map[int]record
}

var _ Store = (*RichList)(nil)

// NewRichList constructs an empty rich list.
func NewRichList() *RichList {
	return &RichList{
		years: make(map[int]*tree),
		all:   newTree(),
		obs:   make(map[string]map[int]record),
	}
}

// Build constructs a rich list holding records.
func Build(ctx context.Context, records []model.Billionaire) (*RichList, error) {
	r := NewRichList()
	for _, b := range records {
		if err := r.Put(ctx, b); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Put implements Store.Put with O(log n) expected time per tree.
func (r *RichList) Put(ctx context.Context, b model.Billionaire) error {
	start := time.Now()
	defer func() {
		metrics.RecordRankStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()
	if err := ctx.Err(); err != nil {
		return err
	}

	name := strings.TrimSpace(b.Name)
	m := record{
		name:        name,
		year:        b.YearValue(),
		worth:       toFixedPoint(b.NetWorth),
		industry:    b.Industry,
		citizenship: b.Citizenship,
		selfMade:    b.IsSelfMade,
	}

	r.mu.Lock()
	if b.HasYear() {
		t, ok := r.years[m.year]
		if !ok {
			t = newTree()
			r.years[m.year] = t
		}
		t.put(name, m)
	}
	seen, ok := r.obs[name]
	if !ok {
		seen = make(map[int]record)
		r.obs[name] = seen
	}
	seen[m.year] = m
	r.all.put(name, r.richest(name))
	count := len(r.all.byKey)
	r.mu.Unlock()

	metrics.UpdateRankStoreRecords(count)
	return nil
}

// Rank implements Store.Rank.
func (r *RichList) Rank(_ context.Context, name string, year int) (Entry, error) {
	defer r.observe(time.Now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	t := r.all
	if year != AllYears {
		t = r.years[year]
	}
	if t == nil {
		return Entry{}, r.notFound()
	}
	m, ok := t.byKey[name]
	if !ok {
		return Entry{}, r.notFound()
	}
	e := m.entry()
	e.Rank = t.rankOf(name)
	return e, nil
}

// TopN implements Store.TopN.
func (r *RichList) TopN(_ context.Context, year, n int) ([]Entry, error) {
	defer r.observe(time.Now())

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	t := r.all
	if year != AllYears {
		t = r.years[year]
	}
	if t == nil {
		return []Entry{}, nil
	}
	return t.top(n), nil
}

// Count implements Store.Count.
func (r *RichList) Count(_ context.Context, year int) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if year == AllYears {
		return len(r.all.byKey)
	}
	if t, ok := r.years[year]; ok {
		return len(t.byKey)
	}
	return 0
}

// Years implements Store.Years. Records without a year are ranked only
// across AllYears.
func (r *RichList) Years(_ context.Context) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]int, 0, len(r.years))
	for y := range r.years {
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}

// richest picks the observation of name with the highest net worth; ties go
// to the latest year. Callers hold mu.
func (r *RichList) richest(name string) record {
	var best record
	first := true
	for _, m := range r.obs[name] {
		if first || m.worth > best.worth || (m.worth == best.worth && m.year > best.year) {
			best, first = m, false
		}
	}
	return best
}

func (r *RichList) notFound() error {
	metrics.RecordErrorByComponent("repository", "not_found")
	return ErrNotFound
}

func (r *RichList) observe(start time.Time) {
	metrics.RecordRankStoreQueryLatency(float64(time.Since(start).Milliseconds()))
}
