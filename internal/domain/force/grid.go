package force

import "math"

type cell struct{ x, y int }

// grid buckets point indices into square cells for neighbour queries.
type grid struct {
	size  float64
	cells map[cell][]int
}

func newGrid(size float64, n int, pos func(i int) (float64, float64)) *grid {
	if !(size > 0) {
		size = 1
	}
	g := &grid{size: size, cells: make(map[cell][]int, n)}
	for i := 0; i < n; i++ {
		c := g.cellOf(pos(i))
		g.cells[c] = append(g.cells[c], i)
	}
	return g
}

func (g *grid) cellOf(x, y float64) cell {
	return cell{int(math.Floor(x / g.size)), int(math.Floor(y / g.size))}
}

// neighbours calls fn for every index in the 3x3 block around (x, y).
func (g *grid) neighbours(x, y float64, fn func(j int)) {
	c := g.cellOf(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, j := range g.cells[cell{c.x + dx, c.y + dy}] {
				fn(j)
			}
		}
	}
}
