package force

import (
	"math"

	"github.com/okian/fortuna/internal/domain/model"
)

// Defaults mirror the usual d3-force tuning: alpha cools from 1 to
// DefaultAlphaMin over DefaultMaxTicks ticks.
const (
	DefaultVelocityDecay = 0.4
	DefaultAlphaMin      = 0.001
	DefaultMaxTicks      = 300
	DefaultGridThreshold = 512
	DefaultSeed          = 1997
)

// DefaultAlphaDecay cools alpha to DefaultAlphaMin in DefaultMaxTicks ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/DefaultMaxTicks)

// Option configures a Simulation.
type Option func(*Simulation)

// WithForces appends directional forces, applied in order each tick.
func WithForces(fs ...Force) Option {
	return func(s *Simulation) {
		s.forces = append(s.forces, fs...)
	}
}

// WithCollision enables overlap resolution.
func WithCollision(c Collision) Option {
	return func(s *Simulation) {
		s.collision = &c
	}
}

// WithVelocityDecay sets the per-tick damping in (0,1).
func WithVelocityDecay(d float64) Option {
	return func(s *Simulation) {
		s.velocityDecay = d
	}
}

// WithAlphaDecay sets the per-tick cooling rate in (0,1).
func WithAlphaDecay(d float64) Option {
	return func(s *Simulation) {
		s.alphaDecay = d
	}
}

// WithAlphaMin sets the convergence threshold.
func WithAlphaMin(a float64) Option {
	return func(s *Simulation) {
		s.alphaMin = a
	}
}

// WithMaxTicks caps the number of ticks before convergence is forced.
func WithMaxTicks(n int) Option {
	return func(s *Simulation) {
		s.maxTicks = n
	}
}

// WithCooling fits the run into n ticks: alpha cools from 1 to the alpha
// minimum over exactly n ticks and the run ends there. It overrides the
// alpha decay and max ticks. With a zero alpha minimum only the tick cap
// applies.
func WithCooling(n int) Option {
	return func(s *Simulation) {
		s.coolingTicks = n
	}
}

// WithOrigin centres the default phyllotaxis placement on (x, y).
func WithOrigin(x, y float64) Option {
	return func(s *Simulation) {
		s.originX, s.originY = x, y
	}
}

// WithInitialPositions places points explicitly instead of on a spiral. The
// slice is matched to points by index.
func WithInitialPositions(ps []model.Position) Option {
	return func(s *Simulation) {
		s.initial = ps
	}
}

// WithGridThreshold sets the point count above which pair searches use a
// uniform grid instead of all pairs.
func WithGridThreshold(n int) Option {
	return func(s *Simulation) {
		s.gridThreshold = n
	}
}

// WithSeed seeds the noise used to separate coincident points.
func WithSeed(seed int64) Option {
	return func(s *Simulation) {
		s.seed = seed
	}
}
