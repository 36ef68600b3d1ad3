package scale

import (
	"fmt"
	"math"
)

// Sqrt maps [0,d1] onto [r0,r1] so that r-r0 grows with the square root of
// the value. Bubble areas then scale linearly with the value.
type Sqrt struct {
	d1     float64
	r0, r1 float64
	err    error
}

// NewSqrt builds a square-root mapper. A non-positive or NaN d1 is treated
// as 1 and reported through Err.
func NewSqrt(d1, r0, r1 float64) Sqrt {
	s := Sqrt{d1: d1, r0: r0, r1: r1}
	if !(d1 > 0) || math.IsInf(d1, 0) {
		s.err = fmt.Errorf("%w: sqrt domain max %g", ErrNumericDegeneracy, d1)
		s.d1 = 1
	}
	return s
}

// Map returns the range value for v. Negative and NaN inputs map as 0.
func (s Sqrt) Map(v float64) float64 {
	if !(v > 0) {
		v = 0
	}
	return s.r0 + (s.r1-s.r0)*math.Sqrt(v/s.d1)
}

// Domain returns [0, d1].
func (s Sqrt) Domain() [2]float64 { return [2]float64{0, s.d1} }

// Range returns the output range.
func (s Sqrt) Range() [2]float64 { return [2]float64{s.r0, s.r1} }

// Err reports whether the domain was degenerate.
func (s Sqrt) Err() error { return s.err }
