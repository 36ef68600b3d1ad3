package force

import "math"

func (s *Simulation) applyForce(fi int, f Force) {
	alpha := s.alpha
	switch f.Kind {
	case KindX:
		k := f.Strength * alpha
		for i := range s.points {
			p := &s.points[i]
			p.VX += (s.targets[fi][i] - p.X) * k
		}
	case KindY:
		k := f.Strength * alpha
		for i := range s.points {
			p := &s.points[i]
			p.VY += (s.targets[fi][i] - p.Y) * k
		}
	case KindCenter:
		s.center(f, alpha)
	case KindCharge:
		s.charge(f, alpha)
	}
}

// center nudges every velocity by the same amount so the centroid drifts
// toward the force's centre without changing relative positions.
func (s *Simulation) center(f Force, alpha float64) {
	var sx, sy float64
	for _, p := range s.points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(s.points))
	dx := (f.CX - sx/n) * f.Strength * alpha
	dy := (f.CY - sy/n) * f.Strength * alpha
	for i := range s.points {
		s.points[i].VX += dx
		s.points[i].VY += dy
	}
}

// charge applies strength*alpha/d² along every pair's centre line. Pairs
// closer than DistanceMin use a softened distance.
func (s *Simulation) charge(f Force, alpha float64) {
	n := len(s.points)
	min2 := f.DistanceMin * f.DistanceMin
	max2 := math.Inf(1)
	if f.DistanceMax > 0 {
		max2 = f.DistanceMax * f.DistanceMax
	}
	dvx := make([]float64, n)
	dvy := make([]float64, n)
	pair := func(i, j int) {
		pi, pj := s.points[i], s.points[j]
		x, y := pj.X-pi.X, pj.Y-pi.Y
		l := x*x + y*y
		if l >= max2 {
			return
		}
		if x == 0 {
			x = s.jiggle.next()
			l += x * x
		}
		if y == 0 {
			y = s.jiggle.next()
			l += y * y
		}
		if l < min2 {
			l = math.Sqrt(min2 * l)
		}
		w := f.Strength * alpha / l
		dvx[i] += x * w
		dvy[i] += y * w
		dvx[j] -= x * w
		dvy[j] -= y * w
	}
	if f.DistanceMax > 0 && n > s.gridThreshold {
		g := newGrid(f.DistanceMax, n, func(i int) (float64, float64) {
			return s.points[i].X, s.points[i].Y
		})
		for i := 0; i < n; i++ {
			g.neighbours(s.points[i].X, s.points[i].Y, func(j int) {
				if j > i {
					pair(i, j)
				}
			})
		}
	} else {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pair(i, j)
			}
		}
	}
	for i := range s.points {
		s.points[i].VX += dvx[i]
		s.points[i].VY += dvy[i]
	}
}
