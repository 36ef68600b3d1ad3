package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/okian/fortuna/internal/domain/model"
)

func rec(name string, year int, worth float64) model.Billionaire {
	return model.Billionaire{Name: name, Year: model.IntPtr(year), NetWorth: worth, Industry: "Technology"}
}

func TestRichList_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewRichList()

	if count := store.Count(ctx, AllYears); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if err := store.Put(ctx, rec("Bill Gates", 1997, 36)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count := store.Count(ctx, 1997); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	entry, err := store.Rank(ctx, "Bill Gates", 1997)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 {
		t.Errorf("expected rank 1, got %d", entry.Rank)
	}
	if entry.NetWorth != 36 {
		t.Errorf("expected net worth 36, got %f", entry.NetWorth)
	}

	entries, err := store.TopN(ctx, 1997, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "Bill Gates" {
		t.Errorf("unexpected top entries: %+v", entries)
	}
}

func TestRichList_Ordering(t *testing.T) {
	ctx := context.Background()
	people := []struct {
		name  string
		worth float64
	}{
		{"C", 75},
		{"B", 95},
		{"E", 80},
		{"A", 100},
		{"D", 85},
	}
	store := NewRichList()
	for _, p := range people {
		if err := store.Put(ctx, rec(p.name, 2020, p.worth)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.TopN(ctx, 2020, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"A", "B", "D", "E", "C"}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, entries[i].Name)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i, i+1, entries[i].Rank)
		}
	}

	top2, _ := store.TopN(ctx, 2020, 2)
	if len(top2) != 2 || top2[1].Name != "B" {
		t.Errorf("unexpected top 2: %+v", top2)
	}
}

func TestRichList_DenseRanks(t *testing.T) {
	ctx := context.Background()
	store := NewRichList()
	for _, b := range []model.Billionaire{
		rec("Zed", 2010, 50),
		rec("Amy", 2010, 50),
		rec("Bob", 2010, 40),
		rec("Cat", 2010, 30.1),
	} {
		_ = store.Put(ctx, b)
	}

	entries, _ := store.TopN(ctx, 2010, 4)
	wantNames := []string{"Amy", "Zed", "Bob", "Cat"}
	wantRanks := []int{1, 1, 2, 3}
	for i := range entries {
		if entries[i].Name != wantNames[i] || entries[i].Rank != wantRanks[i] {
			t.Errorf("position %d: got %s/%d, want %s/%d", i, entries[i].Name, entries[i].Rank, wantNames[i], wantRanks[i])
		}
	}

	for i, name := range wantNames {
		e, err := store.Rank(ctx, name, 2010)
		if err != nil {
			t.Fatalf("rank %s: %v", name, err)
		}
		if e.Rank != wantRanks[i] {
			t.Errorf("rank %s: got %d, want %d", name, e.Rank, wantRanks[i])
		}
	}
}

func TestRichList_Replace(t *testing.T) {
	ctx := context.Background()
	store := NewRichList()
	_ = store.Put(ctx, rec("A", 2000, 10))
	_ = store.Put(ctx, rec("B", 2000, 20))
	_ = store.Put(ctx, rec("A", 2000, 30))

	if c := store.Count(ctx, 2000); c != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", c)
	}
	e, _ := store.Rank(ctx, "A", 2000)
	if e.Rank != 1 || e.NetWorth != 30 {
		t.Errorf("expected A first with 30, got %+v", e)
	}
}

func TestRichList_AllYears(t *testing.T) {
	ctx := context.Background()
	store, err := Build(ctx, []model.Billionaire{
		rec("Gates", 1999, 90),
		rec("Gates", 2000, 60),
		rec("Buffett", 2000, 70),
		{Name: "Nobody", NetWorth: 1},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if c := store.Count(ctx, AllYears); c != 3 {
		t.Errorf("expected one entry per name, got %d", c)
	}
	if years := store.Years(ctx); len(years) != 2 || years[0] != 1999 || years[1] != 2000 {
		t.Errorf("unexpected years %v", years)
	}

	e, err := store.Rank(ctx, "Gates", AllYears)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if e.Rank != 1 || e.Year != 1999 {
		t.Errorf("expected best observation 1999 at rank 1, got %+v", e)
	}

	_ = store.Put(ctx, rec("Gates", 1999, 10))
	e, _ = store.Rank(ctx, "Gates", AllYears)
	if e.Year != 2000 || e.Rank != 2 {
		t.Errorf("expected 2000 observation at rank 2 after downgrade, got %+v", e)
	}

	if _, err := store.Rank(ctx, "Nobody", AllYears); err != nil {
		t.Errorf("yearless record should rank across all years: %v", err)
	}
}

func TestRichList_AllYearsListsEachNameOnce(t *testing.T) {
	ctx := context.Background()
	store, err := Build(ctx, []model.Billionaire{
		rec("Ada", 2000, 10),
		rec("Ada", 2001, 20),
		rec("Bo", 2000, 15),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	top, err := store.TopN(ctx, AllYears, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %+v", top)
	}
	if top[0].Name != "Ada" || top[0].Year != 2001 || top[1].Name != "Bo" {
		t.Errorf("unexpected order %+v", top)
	}
	for _, listed := range top {
		e, err := store.Rank(ctx, listed.Name, AllYears)
		if err != nil {
			t.Fatalf("rank %s: %v", listed.Name, err)
		}
		if e.Rank != listed.Rank || e.Year != listed.Year {
			t.Errorf("%s: listed %+v, looked up %+v", listed.Name, listed, e)
		}
	}
	if c := store.Count(ctx, AllYears); c != 2 {
		t.Errorf("expected count 2, got %d", c)
	}

	// A richer year replaces the entry; the per-year tree keeps both.
	_ = store.Put(ctx, rec("Bo", 2001, 30))
	top, _ = store.TopN(ctx, AllYears, 3)
	if len(top) != 2 || top[0].Name != "Bo" || top[0].Year != 2001 || top[1].Rank != 2 {
		t.Errorf("unexpected order after update %+v", top)
	}
	if c := store.Count(ctx, 2000); c != 2 {
		t.Errorf("expected 2000 to keep 2 entries, got %d", c)
	}
}

func TestRichList_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewRichList()
	_ = store.Put(ctx, rec("A", 2000, 1))

	if _, err := store.Rank(ctx, "missing", 2000); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Rank(ctx, "A", 1990); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown year, got %v", err)
	}
	if _, err := store.TopN(ctx, 2000, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if entries, err := store.TopN(ctx, 1990, 3); err != nil || len(entries) != 0 {
		t.Errorf("expected empty result for unknown year, got %v %v", entries, err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Put(cancelled, rec("B", 2000, 2)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRichList_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewRichList()
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := range 100 {
				_ = store.Put(ctx, rec(fmt.Sprintf("p%d-%d", g, i), 2000+g%3, float64(i)))
				_, _ = store.TopN(ctx, AllYears, 5)
			}
		}(g)
	}
	wg.Wait()
	if c := store.Count(ctx, AllYears); c != 800 {
		t.Errorf("expected 800 entries, got %d", c)
	}
}

func TestTreap_InvariantsUnderRandomInserts(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	tr := newTree()
	for i := range 500 {
		tr.put(fmt.Sprintf("k%03d", i%200), record{worth: toFixedPoint(float64(r.Intn(50)))})
	}
	if nsize(tr.root) != len(tr.byKey) {
		t.Fatalf("size %d != keys %d", nsize(tr.root), len(tr.byKey))
	}
	var prev *node
	walk(tr.root, func(n *node) bool {
		if prev != nil && !less(prev.worth, prev.key, n.worth, n.key) {
			t.Fatalf("out of order: %s before %s", prev.key, n.key)
		}
		if n.left != nil && n.left.prio > n.prio || n.right != nil && n.right.prio > n.prio {
			t.Fatalf("heap property violated at %s", n.key)
		}
		prev = n
		return true
	})

	if nsize(tr.levels) != len(tr.counts) {
		t.Fatalf("levels %d != distinct worths %d", nsize(tr.levels), len(tr.counts))
	}
	for key, m := range tr.byKey {
		distinct := make(map[worthFP]bool)
		for _, other := range tr.byKey {
			if other.worth > m.worth {
				distinct[other.worth] = true
			}
		}
		if got, want := tr.rankOf(key), len(distinct)+1; got != want {
			t.Fatalf("rankOf(%s) = %d, want %d", key, got, want)
		}
	}
}

func BenchmarkRichList_Put(b *testing.B) {
	ctx := context.Background()
	store := NewRichList()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Put(ctx, rec(fmt.Sprintf("p%d", i), 1997+i%28, float64(i%1000)))
	}
}

func BenchmarkRichList_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewRichList()
	for i := range 20000 {
		_ = store.Put(ctx, rec(fmt.Sprintf("p%d", i), 1997+i%28, float64(i%1000)))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.TopN(ctx, AllYears, 100)
	}
}
