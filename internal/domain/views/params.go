package views

import (
	"fmt"

	"github.com/okian/fortuna/internal/domain/aggregate"
)

// Canvas is the drawing surface size in pixels.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Margin reserves space for axes and labels around the plot area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

var (
	noMargin       = Margin{}
	chartMargin    = Margin{Top: 20, Right: 30, Bottom: 40, Left: 40}
	industryMargin = Margin{Top: 60, Right: 120, Bottom: 60, Left: 200}
)

// Params tunes how a view is built.
type Params struct {
	Canvas     Canvas
	WealthType aggregate.WealthType
	Year       *int

	// Padding is added to every bubble radius for collision.
	Padding           float64
	CollisionStrength float64
	// CollisionIterations is the relaxation passes per tick for animated
	// views; batched views use BatchCollisionIterations.
	CollisionIterations      int
	BatchCollisionIterations int
	// WealthMultiplier stretches the industry wealth axis beyond the
	// largest industry total.
	WealthMultiplier float64
	BatchTicks       int
	TopIndustries    int
	// ChargeReach bounds the scatter view's pairwise attraction.
	ChargeReach float64
}

// DefaultParams returns the stock dashboard tuning on an 960x600 canvas.
func DefaultParams() Params {
	return Params{
		Canvas:                   Canvas{Width: 960, Height: 600},
		WealthType:               aggregate.WealthAll,
		Padding:                  1,
		CollisionStrength:        1,
		CollisionIterations:      2,
		BatchCollisionIterations: 4,
		WealthMultiplier:         5,
		BatchTicks:               120,
		TopIndustries:            10,
		ChargeReach:              200,
	}
}

func (p Params) validate(m Margin) error {
	w, h := p.Canvas.Width-m.Left-m.Right, p.Canvas.Height-m.Top-m.Bottom
	switch {
	case !(w > 0) || !(h > 0):
		return fmt.Errorf("%w: canvas %gx%g leaves no plot area", ErrInvalidParams, p.Canvas.Width, p.Canvas.Height)
	case p.Padding < 0:
		return fmt.Errorf("%w: padding %g", ErrInvalidParams, p.Padding)
	case p.CollisionStrength < 0 || p.CollisionStrength > 1:
		return fmt.Errorf("%w: collision strength %g", ErrInvalidParams, p.CollisionStrength)
	case p.CollisionIterations < 1 || p.BatchCollisionIterations < 1:
		return fmt.Errorf("%w: collision iterations %d/%d", ErrInvalidParams, p.CollisionIterations, p.BatchCollisionIterations)
	case !(p.WealthMultiplier > 0):
		return fmt.Errorf("%w: wealth multiplier %g", ErrInvalidParams, p.WealthMultiplier)
	case p.BatchTicks <= 0:
		return fmt.Errorf("%w: batch ticks %d", ErrInvalidParams, p.BatchTicks)
	case p.TopIndustries <= 0:
		return fmt.Errorf("%w: top industries %d", ErrInvalidParams, p.TopIndustries)
	case p.ChargeReach < 0:
		return fmt.Errorf("%w: charge reach %g", ErrInvalidParams, p.ChargeReach)
	}
	return nil
}
