package force

import "math"

// collide resolves overlaps on predicted positions (x+vx). Each overlap is
// split between the pair by squared radius so the smaller bubble moves more.
func (s *Simulation) collide() {
	c := s.collision
	n := len(s.points)
	for k := 0; k < c.Iterations; k++ {
		if n > s.gridThreshold {
			g := newGrid(2*s.maxRadius, n, s.predicted)
			for i := 0; i < n; i++ {
				xi, yi := s.predicted(i)
				g.neighbours(xi, yi, func(j int) {
					if j > i {
						s.collidePair(i, j, xi, yi, c.Strength)
					}
				})
			}
			continue
		}
		for i := 0; i < n; i++ {
			xi, yi := s.predicted(i)
			for j := i + 1; j < n; j++ {
				s.collidePair(i, j, xi, yi, c.Strength)
			}
		}
	}
}

func (s *Simulation) predicted(i int) (float64, float64) {
	p := &s.points[i]
	return p.X + p.VX, p.Y + p.VY
}

func (s *Simulation) collidePair(i, j int, xi, yi, strength float64) {
	ri, rj := s.radii[i], s.radii[j]
	r := ri + rj
	xj, yj := s.predicted(j)
	x, y := xi-xj, yi-yj
	l := x*x + y*y
	if l >= r*r {
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
	d := math.Sqrt(l)
	f := (r - d) / d * strength
	x, y = x*f, y*f
	ri2, rj2 := ri*ri, rj*rj
	share := 0.5
	if ri2+rj2 > 0 {
		share = rj2 / (ri2 + rj2)
	}
	pi, pj := &s.points[i], &s.points[j]
	pi.VX += x * share
	pi.VY += y * share
	pj.VX -= x * (1 - share)
	pj.VY -= y * (1 - share)
}
