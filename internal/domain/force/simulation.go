package force

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/fortuna/internal/domain/model"
)

// phyllotaxis spiral used for default placement
var (
	initialRadius = 10.0
	initialAngle  = math.Pi * (3 - math.Sqrt(5))
)

// Frame is the observable result of one completed tick.
type Frame struct {
	RunID     string           `json:"runId"`
	Tick      int              `json:"tick"`
	Alpha     float64          `json:"alpha"`
	State     string           `json:"state"`
	Positions []model.Position `json:"positions"`
}

// Simulation is one layout run. All methods are safe for concurrent use, but
// ticks are serialised and never observed half-applied.
type Simulation struct {
	id string

	mu        sync.Mutex
	points    []model.SimPoint
	radii     []float64
	maxRadius float64
	forces    []Force
	targets   [][]float64
	collision *Collision
	jiggle    *jiggler

	velocityDecay float64
	alphaDecay    float64
	alphaMin      float64
	maxTicks      int
	coolingTicks  int
	gridThreshold int
	seed          int64

	originX, originY float64
	initial          []model.Position

	alpha float64
	ticks int
	state atomic.Int32
	stop  atomic.Bool
}

// New validates the inputs and places every point. It returns
// ErrInvalidInput rather than a simulation that would produce NaN positions.
func New(records []model.Billionaire, opts ...Option) (*Simulation, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty point set", ErrInvalidInput)
	}
	s := &Simulation{
		id:            uuid.NewString(),
		velocityDecay: DefaultVelocityDecay,
		alphaDecay:    DefaultAlphaDecay,
		alphaMin:      DefaultAlphaMin,
		maxTicks:      DefaultMaxTicks,
		gridThreshold: DefaultGridThreshold,
		seed:          DefaultSeed,
		alpha:         1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.coolingTicks < 0 {
		return nil, fmt.Errorf("%w: cooling over %d ticks", ErrInvalidInput, s.coolingTicks)
	}
	if n := s.coolingTicks; n > 0 {
		s.maxTicks = n
		if s.alphaMin > 0 && s.alphaMin < 1 {
			s.alphaDecay = 1 - math.Pow(s.alphaMin, 1/float64(n))
		}
	}
	if err := s.validate(len(records)); err != nil {
		return nil, err
	}

	s.points = make([]model.SimPoint, len(records))
	for i, r := range records {
		p := model.SimPoint{Billionaire: r, Index: i}
		if s.initial != nil {
			p.X, p.Y = s.initial[i].X, s.initial[i].Y
		} else {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			p.X = s.originX + radius*math.Cos(angle)
			p.Y = s.originY + radius*math.Sin(angle)
		}
		s.points[i] = p
	}
	s.jiggle = newJiggler(s.seed)

	s.targets = make([][]float64, len(s.forces))
	for fi, f := range s.forces {
		if f.Target == nil {
			continue
		}
		ts := make([]float64, len(s.points))
		for i, p := range s.points {
			ts[i] = f.Target(p)
			if !finite(ts[i]) {
				return nil, fmt.Errorf("%w: %s target %g for point %d", ErrInvalidInput, f.Kind, ts[i], i)
			}
		}
		s.targets[fi] = ts
	}

	if s.collision != nil {
		s.radii = make([]float64, len(s.points))
		for i, p := range s.points {
			r := s.collision.Radius(p)
			if !finite(r) || r < 0 {
				return nil, fmt.Errorf("%w: radius %g for point %d", ErrInvalidInput, r, i)
			}
			s.radii[i] = r
			s.maxRadius = math.Max(s.maxRadius, r)
		}
	}
	return s, nil
}

func (s *Simulation) validate(n int) error {
	if math.IsNaN(s.velocityDecay) || s.velocityDecay <= 0 || s.velocityDecay >= 1 {
		return fmt.Errorf("%w: velocity decay %g outside (0,1)", ErrInvalidInput, s.velocityDecay)
	}
	if math.IsNaN(s.alphaDecay) || s.alphaDecay <= 0 || s.alphaDecay >= 1 {
		return fmt.Errorf("%w: alpha decay %g outside (0,1)", ErrInvalidInput, s.alphaDecay)
	}
	if !finite(s.alphaMin) || s.alphaMin < 0 || s.alphaMin >= 1 {
		return fmt.Errorf("%w: alpha min %g", ErrInvalidInput, s.alphaMin)
	}
	if s.maxTicks <= 0 {
		return fmt.Errorf("%w: max ticks %d", ErrInvalidInput, s.maxTicks)
	}
	if s.gridThreshold < 0 {
		return fmt.Errorf("%w: grid threshold %d", ErrInvalidInput, s.gridThreshold)
	}
	if !finite(s.originX) || !finite(s.originY) {
		return fmt.Errorf("%w: origin (%g,%g)", ErrInvalidInput, s.originX, s.originY)
	}
	if s.initial != nil {
		if len(s.initial) != n {
			return fmt.Errorf("%w: %d initial positions for %d points", ErrInvalidInput, len(s.initial), n)
		}
		for i, p := range s.initial {
			if !finite(p.X) || !finite(p.Y) {
				return fmt.Errorf("%w: initial position %d is (%g,%g)", ErrInvalidInput, i, p.X, p.Y)
			}
		}
	}
	for _, f := range s.forces {
		if err := f.validate(); err != nil {
			return err
		}
	}
	if s.collision != nil {
		if err := s.collision.validate(); err != nil {
			return err
		}
	}
	return nil
}

// ID is the run identifier carried by frames and logs.
func (s *Simulation) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Simulation) State() State { return State(s.state.Load()) }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alpha
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Radii returns each point's collision radius, or nil without collision.
func (s *Simulation) Radii() []float64 {
	if s.radii == nil {
		return nil
	}
	out := make([]float64, len(s.radii))
	copy(out, s.radii)
	return out
}

// Points returns a snapshot of every point as of the last completed tick.
func (s *Simulation) Points() []model.SimPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SimPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Positions returns the coordinates of every point as of the last tick.
func (s *Simulation) Positions() []model.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positions()
}

func (s *Simulation) positions() []model.Position {
	out := make([]model.Position, len(s.points))
	for i, p := range s.points {
		out[i] = p.Position()
	}
	return out
}

// Stop cancels the run. It takes effect at the next tick boundary.
func (s *Simulation) Stop() { s.stop.Store(true) }

// Tick advances one step unless the run has finished, and returns the
// resulting state. A pending Stop cancels instead of ticking.
func (s *Simulation) Tick() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked()
}

func (s *Simulation) tickLocked() State {
	st := State(s.state.Load())
	if st.Terminal() {
		return st
	}
	if s.stop.Load() {
		s.state.Store(int32(Cancelled))
		return Cancelled
	}
	s.state.Store(int32(Running))
	s.step()
	if s.alpha < s.alphaMin || s.ticks >= s.maxTicks {
		s.state.Store(int32(Converged))
		return Converged
	}
	return Running
}

// step is the per-tick algorithm shared by every driving mode.
func (s *Simulation) step() {
	for fi, f := range s.forces {
		s.applyForce(fi, f)
	}
	if s.collision != nil {
		s.collide()
	}
	keep := 1 - s.velocityDecay
	for i := range s.points {
		p := &s.points[i]
		p.VX *= keep
		p.VY *= keep
		p.X += p.VX
		p.Y += p.VY
	}
	s.alpha *= 1 - s.alphaDecay
	s.ticks++
}

// Run ticks synchronously until the simulation converges, ctx is done or
// Stop is called.
func (s *Simulation) Run(ctx context.Context) (State, error) {
	for {
		if ctx.Err() != nil {
			s.Stop()
		}
		st := s.Tick()
		switch st {
		case Converged:
			return st, nil
		case Cancelled:
			return st, ErrCancelled
		}
	}
}

// RunBatch runs up to n ticks with no intermediate observation. It stops
// early once the run converges; otherwise the run stays Running and may be
// continued.
func (s *Simulation) RunBatch(n int) (State, error) {
	if n <= 0 {
		return s.State(), fmt.Errorf("%w: batch of %d ticks", ErrInvalidInput, n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := State(s.state.Load()); st.Terminal() {
		return st, nil
	}
	for i := 0; i < n; i++ {
		st := s.tickLocked()
		switch st {
		case Converged:
			return st, nil
		case Cancelled:
			return st, ErrCancelled
		}
	}
	return Running, nil
}

// Animate ticks once per interval and hands every completed tick to
// observe. It returns nil on convergence, ErrCancelled when stopped or when
// ctx is done, and the observer's error if it fails.
func (s *Simulation) Animate(ctx context.Context, interval time.Duration, observe func(Frame) error) error {
	if interval <= 0 {
		return fmt.Errorf("%w: frame interval %s", ErrInvalidInput, interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			s.Tick()
			return fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		case <-ticker.C:
		}
		s.mu.Lock()
		st := s.tickLocked()
		frame := Frame{RunID: s.id, Tick: s.ticks, Alpha: s.alpha, State: st.String(), Positions: s.positions()}
		s.mu.Unlock()
		if st == Cancelled {
			return ErrCancelled
		}
		if observe != nil {
			if err := observe(frame); err != nil {
				s.Stop()
				s.Tick()
				return fmt.Errorf("observe tick %d: %w", frame.Tick, err)
			}
		}
		if st == Converged {
			return nil
		}
	}
}
