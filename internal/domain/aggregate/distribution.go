package aggregate

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	"github.com/okian/fortuna/internal/domain/model"
)

// AgeBin counts records whose age falls in [Start, End).
type AgeBin struct {
	Start     int `json:"start"`
	End       int `json:"end"`
	SelfMade  int `json:"selfMade"`
	Inherited int `json:"inherited"`
}

// AgeHistogram bins the records carrying an age into buckets of binWidth
// years, split by self-made status. Bins are contiguous and aligned on
// multiples of binWidth.
func AgeHistogram(points []model.Billionaire, binWidth int) ([]AgeBin, error) {
	if binWidth <= 0 {
		return nil, fmt.Errorf("%w: bin width %d", ErrInvalidFilter, binWidth)
	}
	aged := Filter(points, HasAge)
	lo, hi, ok := Bounds(aged, age)
	if !ok {
		return []AgeBin{}, nil
	}
	first := floorTo(int(lo), binWidth)
	n := (int(hi)-first)/binWidth + 1
	bins := make([]AgeBin, n)
	for i := range bins {
		bins[i].Start = first + i*binWidth
		bins[i].End = bins[i].Start + binWidth
	}
	for _, b := range aged {
		i := (b.AgeValue() - first) / binWidth
		if b.IsSelfMade {
			bins[i].SelfMade++
		} else {
			bins[i].Inherited++
		}
	}
	return bins, nil
}

func floorTo(v, step int) int {
	if v >= 0 {
		return v - v%step
	}
	return -floorTo(-v+step-1, step)
}

// Density is a kernel density estimate of ages sampled at Ages.
type Density struct {
	Ages      []float64 `json:"ages"`
	SelfMade  []float64 `json:"selfMade"`
	Inherited []float64 `json:"inherited"`
}

// AgeDensity estimates the age distribution of self-made and inherited
// records with a Gaussian kernel (Scott's bandwidth) at samples evenly
// spaced ages spanning the observed range.
func AgeDensity(points []model.Billionaire, samples int) (Density, error) {
	if samples < 2 {
		return Density{}, fmt.Errorf("%w: density samples %d", ErrInvalidFilter, samples)
	}
	aged := Filter(points, HasAge)
	lo, hi, ok := Bounds(aged, age)
	if !ok {
		return Density{Ages: []float64{}, SelfMade: []float64{}, Inherited: []float64{}}, nil
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	xs := vec.Linspace(lo, hi, samples)
	return Density{
		Ages:      xs,
		SelfMade:  estimate(Filter(aged, SelfMade), xs),
		Inherited: estimate(Filter(aged, Inherited), xs),
	}, nil
}

func estimate(items []model.Billionaire, xs []float64) []float64 {
	if len(items) == 0 {
		return make([]float64, len(xs))
	}
	sample := stats.Sample{Xs: values(items, age)}
	bw := stats.BandwidthScott(sample)
	if bw <= 0 || math.IsNaN(bw) {
		bw = 1
	}
	kde := stats.KDE{Sample: sample, Bandwidth: bw}
	return vec.Map(kde.PDF, xs)
}

// YearStat is the aggregate of one observation year.
type YearStat struct {
	Year int `json:"year"`
	model.Aggregate
}

// Yearly summarises records per observation year in ascending year order.
// Records without a year are ignored.
func Yearly(points []model.Billionaire) []YearStat {
	dated := Filter(points, HasYear)
	aggs := Summarize(dated, ByYear)
	byYear := make(map[string]int, len(dated))
	for _, b := range dated {
		byYear[ByYear(b)] = b.YearValue()
	}
	out := make([]YearStat, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, YearStat{Year: byYear[a.Key], Aggregate: a})
	}
	slices.SortFunc(out, func(a, b YearStat) int { return cmp.Compare(a.Year, b.Year) })
	return out
}
