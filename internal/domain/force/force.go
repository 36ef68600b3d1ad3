// Package force implements a deterministic force-directed bubble layout.
//
// A Simulation owns its points for its whole lifetime and advances them in
// discrete ticks. Each tick applies the directional forces, resolves
// collisions, damps velocities, integrates positions and cools alpha.
package force

import (
	"fmt"
	"math"

	"github.com/okian/fortuna/internal/domain/model"
)

// Kind tags a directional force descriptor.
type Kind int

const (
	KindX Kind = iota
	KindY
	KindCenter
	KindCharge
)

func (k Kind) String() string {
	switch k {
	case KindX:
		return "x"
	case KindY:
		return "y"
	case KindCenter:
		return "center"
	case KindCharge:
		return "charge"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Accessor reads a per-point value such as a target coordinate or radius.
type Accessor func(model.SimPoint) float64

// Constant returns an accessor that ignores the point.
func Constant(v float64) Accessor {
	return func(model.SimPoint) float64 { return v }
}

// Force describes one directional force. Use the X, Y, Center and Charge
// constructors rather than building descriptors by hand.
type Force struct {
	Kind     Kind
	Target   Accessor // X and Y
	CX, CY   float64  // Center
	Strength float64

	// Charge only. Pairs closer than DistanceMin are softened, pairs at or
	// beyond DistanceMax are ignored. DistanceMax of 0 means unbounded.
	DistanceMin float64
	DistanceMax float64
}

// X pulls every point's x toward target(point), closing strength of the gap
// per tick at full alpha.
func X(target Accessor, strength float64) Force {
	return Force{Kind: KindX, Target: target, Strength: strength}
}

// Y pulls every point's y toward target(point).
func Y(target Accessor, strength float64) Force {
	return Force{Kind: KindY, Target: target, Strength: strength}
}

// Center pulls the centroid of all points toward (x, y).
func Center(x, y, strength float64) Force {
	return Force{Kind: KindCenter, CX: x, CY: y, Strength: strength}
}

// Charge applies a constant pairwise force. Negative strength repels,
// positive attracts.
func Charge(strength float64) Force {
	return Force{Kind: KindCharge, Strength: strength, DistanceMin: 1}
}

// Within bounds the reach of a charge force.
func (f Force) Within(distanceMax float64) Force {
	f.DistanceMax = distanceMax
	return f
}

func (f Force) validate() error {
	switch f.Kind {
	case KindX, KindY:
		if f.Target == nil {
			return fmt.Errorf("%w: %s force without target", ErrInvalidInput, f.Kind)
		}
		return fraction(f.Kind.String()+" strength", f.Strength)
	case KindCenter:
		if !finite(f.CX) || !finite(f.CY) {
			return fmt.Errorf("%w: center (%g,%g)", ErrInvalidInput, f.CX, f.CY)
		}
		return fraction("center strength", f.Strength)
	case KindCharge:
		if !finite(f.Strength) {
			return fmt.Errorf("%w: charge strength %g", ErrInvalidInput, f.Strength)
		}
		if !finite(f.DistanceMin) || f.DistanceMin < 0 || !finite(f.DistanceMax) || f.DistanceMax < 0 {
			return fmt.Errorf("%w: charge distance bounds [%g,%g]", ErrInvalidInput, f.DistanceMin, f.DistanceMax)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown force %s", ErrInvalidInput, f.Kind)
	}
}

// Collision keeps bubbles from overlapping. Radius is evaluated once per
// point when the simulation is created.
type Collision struct {
	Radius     Accessor
	Strength   float64
	Iterations int
}

// Collide builds a collision force. strength in [0,1] is the fraction of an
// overlap resolved per iteration.
func Collide(radius Accessor, strength float64, iterations int) Collision {
	return Collision{Radius: radius, Strength: strength, Iterations: iterations}
}

func (c Collision) validate() error {
	if c.Radius == nil {
		return fmt.Errorf("%w: collision without radius", ErrInvalidInput)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("%w: collision iterations %d", ErrInvalidInput, c.Iterations)
	}
	return fraction("collision strength", c.Strength)
}

func fraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("%w: %s %g outside [0,1]", ErrInvalidInput, name, v)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
