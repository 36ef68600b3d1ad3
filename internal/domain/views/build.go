package views

import (
	"fmt"

	"github.com/okian/fortuna/internal/domain/aggregate"
	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/internal/domain/scale"
)

const (
	axisTicks = 10
	minAge    = 20
	maxAge    = 100
)

var viewMargins = map[Kind]Margin{
	Scatter:  noMargin,
	Timeline: chartMargin,
	SelfMade: chartMargin,
	Age:      chartMargin,
	Industry: industryMargin,
}

// Build prepares the layout plan for kind. Aggregate-only views return
// ErrNoLayout; a view whose filters leave nothing returns ErrEmptyView.
func Build(kind Kind, records []model.Billionaire, p Params) (Plan, error) {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return Plan{}, err
	}
	if !kind.HasLayout() {
		return Plan{}, fmt.Errorf("%w: %s", ErrNoLayout, kind)
	}
	m := viewMargins[kind]
	if err := p.validate(m); err != nil {
		return Plan{}, err
	}
	if p.Year != nil {
		records = aggregate.Filter(records, aggregate.InYear(*p.Year))
	}

	plan := Plan{View: kind, Mode: force.Animated, Canvas: p.Canvas, Margin: m}
	w, h := p.Canvas.Width-m.Left-m.Right, p.Canvas.Height-m.Top-m.Bottom
	switch kind {
	case Scatter:
		buildScatter(&plan, records, p, w, h)
	case Timeline:
		buildTimeline(&plan, aggregate.Filter(records, aggregate.HasYear), p, w, h)
	case SelfMade:
		buildSelfMade(&plan, records, p, w, h)
	case Age:
		buildAge(&plan, aggregate.Filter(records, aggregate.HasAge), p, w, h)
	case Industry:
		buildIndustry(&plan, aggregate.Filter(records, p.WealthType.Predicate()), p, w, h)
	}
	if plan.Count() == 0 {
		return Plan{}, fmt.Errorf("%w: %s", ErrEmptyView, kind)
	}
	return plan, nil
}

func netWorth(b model.Billionaire) float64 { return b.NetWorth }

func radiusScale(plan *Plan, records []model.Billionaire, r1 float64) {
	_, hi, _ := aggregate.Bounds(records, netWorth)
	plan.Radius = scale.NewSqrt(hi, 3, r1)
	plan.warn(plan.Radius.Err())
}

func collision(plan *Plan, p Params, iterations int) force.Collision {
	r := plan.Radius
	return force.Collide(func(sp model.SimPoint) float64 {
		return r.Map(sp.NetWorth) + p.Padding
	}, p.CollisionStrength, iterations)
}

func linearAxis(name string, l scale.Linear) Axis {
	return Axis{Name: name, Domain: l.Domain(), Range: l.Range(), Ticks: l.Ticks(axisTicks)}
}

func single(plan *Plan, key string, records []model.Billionaire, p Params, w, h float64, fs ...force.Force) {
	if len(records) == 0 {
		return
	}
	plan.Layers = []Layer{{
		Key:       key,
		Records:   records,
		Forces:    fs,
		Collision: collision(plan, p, p.CollisionIterations),
		OriginX:   w / 2,
		OriginY:   h / 2,
	}}
}

func buildScatter(plan *Plan, records []model.Billionaire, p Params, w, h float64) {
	radiusScale(plan, records, 25)
	charge := force.Charge(1)
	if p.ChargeReach > 0 {
		charge = charge.Within(p.ChargeReach)
	}
	single(plan, string(Scatter), records, p, w, h, charge, force.Center(w/2, h/2, 1))
}

func buildTimeline(plan *Plan, records []model.Billionaire, p Params, w, h float64) {
	radiusScale(plan, records, 20)
	lo, hi, _ := aggregate.Bounds(records, func(b model.Billionaire) float64 { return float64(b.YearValue()) })
	x := scale.NewLinear(lo, hi, 0, w)
	plan.warn(x.Err())
	plan.Axes = []Axis{linearAxis("year", x)}
	single(plan, string(Timeline), records, p, w, h,
		force.X(func(sp model.SimPoint) float64 { return x.Map(float64(sp.YearValue())) }, 0.9),
		force.Y(force.Constant(h/2), 0.2),
	)
}

func buildSelfMade(plan *Plan, records []model.Billionaire, p Params, w, h float64) {
	radiusScale(plan, records, 20)
	plan.Axes = []Axis{{Name: "origin", Domain: [2]float64{0, 1}, Range: [2]float64{w / 3, 2 * w / 3}, Categories: []string{"Self-made", "Inherited"}}}
	single(plan, string(SelfMade), records, p, w, h,
		force.X(func(sp model.SimPoint) float64 {
			if sp.IsSelfMade {
				return w / 3
			}
			return 2 * w / 3
		}, 0.5),
		force.Y(force.Constant(h/2), 0.1),
	)
}

func buildAge(plan *Plan, records []model.Billionaire, p Params, w, h float64) {
	radiusScale(plan, records, 20)
	x := scale.NewLinear(minAge, maxAge, 0, w)
	plan.Axes = []Axis{linearAxis("age", x)}
	single(plan, string(Age), records, p, w, h,
		force.X(func(sp model.SimPoint) float64 { return x.Map(float64(sp.AgeValue())) }, 0.9),
		force.Y(func(sp model.SimPoint) float64 {
			if sp.IsSelfMade {
				return h / 4
			}
			return 3 * h / 4
		}, 0.4),
	)
}

func buildIndustry(plan *Plan, records []model.Billionaire, p Params, w, h float64) {
	plan.Mode = force.Batched
	plan.BatchTicks = p.BatchTicks
	radiusScale(plan, records, 25)

	groups := aggregate.GroupBy(records, aggregate.ByIndustry)
	members := make(map[string][]model.Billionaire, len(groups))
	for _, g := range groups {
		members[g.Key] = g.Items
	}
	top := aggregate.TopN(aggregate.Summarize(records, aggregate.ByIndustry), aggregate.ByTotalWealth, p.TopIndustries)
	if len(top) == 0 {
		return
	}
	keys := make([]string, len(top))
	for i, a := range top {
		keys[i] = a.Key
	}
	band := scale.NewBand(keys, 0, h, 0.2)
	mult := p.WealthMultiplier
	x := scale.NewLinear(0, top[0].TotalWealth*mult, 0, w)
	plan.warn(x.Err())
	plan.Axes = []Axis{
		linearAxis("wealth", x),
		{Name: "industry", Domain: [2]float64{0, float64(len(keys))}, Range: [2]float64{0, h}, Categories: keys},
	}

	target := func(sp model.SimPoint) float64 { return x.Map(sp.NetWorth / mult) }
	for _, k := range keys {
		cy, _ := band.Center(k)
		plan.Layers = append(plan.Layers, Layer{
			Key:     k,
			Records: members[k],
			Forces: []force.Force{
				force.X(target, 0.8),
				force.Y(force.Constant(cy), 0.9),
			},
			Collision: collision(plan, p, p.BatchCollisionIterations),
			Cooling:   p.BatchTicks,
			OriginX:   0,
			OriginY:   cy,
		})
	}
}
