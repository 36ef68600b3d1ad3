package force

import (
	perlin "github.com/aquilax/go-perlin"
)

const jiggleScale = 1e-6

// jiggler yields tiny deterministic offsets used when two points coincide.
type jiggler struct {
	noise *perlin.Perlin
	n     int
}

func newJiggler(seed int64) *jiggler {
	return &jiggler{noise: perlin.NewPerlin(2, 2, 3, seed)}
}

func (j *jiggler) next() float64 {
	j.n++
	// noise vanishes on integer lattice points
	v := j.noise.Noise1D(float64(j.n) + 0.5)
	if v == 0 {
		v = 0.5
	}
	return v * jiggleScale
}
