// Package scale maps data domains onto visual ranges.
package scale

import (
	"fmt"
	"math"

	mscale "github.com/aclements/go-moremath/scale"
)

// Linear interpolates a domain onto a range. Values outside the domain
// extrapolate unless the scale is clamped.
type Linear struct {
	norm   mscale.Linear
	r0, r1 float64
	err    error
}

// NewLinear builds a linear mapper from [d0,d1] to [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	l := Linear{norm: mscale.Linear{Min: d0, Max: d1, Base: 10}, r0: r0, r1: r1}
	if d0 == d1 || math.IsNaN(d0) || math.IsNaN(d1) {
		l.err = fmt.Errorf("%w: linear domain [%g,%g]", ErrNumericDegeneracy, d0, d1)
		if math.IsNaN(d0) {
			d0 = 0
		}
		l.norm.Min, l.norm.Max = d0, d0+1
	}
	return l
}

// Clamped returns a copy that pins outputs to the range.
func (l Linear) Clamped() Linear {
	l.norm.Clamp = true
	return l
}

// Map returns the range value for v.
func (l Linear) Map(v float64) float64 {
	return l.r0 + (l.r1-l.r0)*l.norm.Map(v)
}

// Invert returns the domain value mapping to y.
func (l Linear) Invert(y float64) float64 {
	if l.r1 == l.r0 {
		return l.norm.Min
	}
	return l.norm.Unmap((y - l.r0) / (l.r1 - l.r0))
}

// Domain returns the effective domain.
func (l Linear) Domain() [2]float64 { return [2]float64{l.norm.Min, l.norm.Max} }

// Range returns the output range.
func (l Linear) Range() [2]float64 { return [2]float64{l.r0, l.r1} }

// Ticks returns at most max round tick values within the domain.
func (l Linear) Ticks(max int) []float64 {
	if max <= 0 {
		return nil
	}
	major, _ := l.norm.Ticks(mscale.TickOptions{Max: max})
	return major
}

// Err reports whether the domain was degenerate.
func (l Linear) Err() error { return l.err }
