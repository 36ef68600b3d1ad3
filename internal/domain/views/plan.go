package views

import (
	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/internal/domain/scale"
)

// Axis describes one rendered axis. Categorical axes list Categories and
// leave Ticks empty.
type Axis struct {
	Name       string     `json:"name"`
	Domain     [2]float64 `json:"domain"`
	Range      [2]float64 `json:"range"`
	Ticks      []float64  `json:"ticks,omitempty"`
	Categories []string   `json:"categories,omitempty"`
}

// Layer is one independently simulated group of bubbles.
type Layer struct {
	Key       string
	Records   []model.Billionaire
	Forces    []force.Force
	Collision force.Collision
	// Cooling, when positive, fits the run's cooling into that many ticks.
	Cooling          int
	OriginX, OriginY float64
}

// Options returns the simulation options the layer prescribes.
func (l Layer) Options() []force.Option {
	opts := []force.Option{
		force.WithForces(l.Forces...),
		force.WithCollision(l.Collision),
		force.WithOrigin(l.OriginX, l.OriginY),
	}
	if l.Cooling > 0 {
		opts = append(opts, force.WithCooling(l.Cooling))
	}
	return opts
}

// Plan is everything needed to lay out and draw one view.
type Plan struct {
	View       Kind
	Mode       force.Mode
	BatchTicks int
	Canvas     Canvas
	Margin     Margin
	Layers     []Layer
	Axes       []Axis
	Radius     scale.Sqrt
	// Warnings carries numeric degeneracies the plan worked around.
	Warnings []string
}

// RadiusOf returns the drawn radius of b.
func (p Plan) RadiusOf(b model.Billionaire) float64 { return p.Radius.Map(b.NetWorth) }

// Count returns the number of bubbles across all layers.
func (p Plan) Count() int {
	n := 0
	for _, l := range p.Layers {
		n += len(l.Records)
	}
	return n
}

func (p *Plan) warn(err error) {
	if err != nil {
		p.Warnings = append(p.Warnings, err.Error())
	}
}
