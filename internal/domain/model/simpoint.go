package model

// SimPoint is a Billionaire augmented with transient layout state.
// A SimPoint belongs to exactly one simulation run.
type SimPoint struct {
	Billionaire

	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
}

// Position is the renderer-facing projection of a SimPoint.
type Position struct {
	Index int     `json:"i"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Position returns the point's current coordinates.
func (p SimPoint) Position() Position {
	return Position{Index: p.Index, X: p.X, Y: p.Y}
}
