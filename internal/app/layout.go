package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/fortuna/internal/domain/aggregate"
	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/internal/domain/views"
	"github.com/okian/fortuna/pkg/logger"
	"github.com/okian/fortuna/pkg/metrics"
)

// LayoutRequest selects and tunes one view layout. Zero values fall back to
// the service defaults.
type LayoutRequest struct {
	View       string
	Width      float64
	Height     float64
	WealthType string
	Year       *int
}

// Bubble is one laid-out record.
type Bubble struct {
	Index  int               `json:"i"`
	Layer  string            `json:"layer,omitempty"`
	X      float64           `json:"x"`
	Y      float64           `json:"y"`
	R      float64           `json:"r"`
	Record model.Billionaire `json:"record"`
}

// LayoutResult is a view's plan together with bubble positions.
type LayoutResult struct {
	RunID    string       `json:"runId"`
	View     views.Kind   `json:"view"`
	Mode     force.Mode   `json:"mode"`
	State    string       `json:"state"`
	Ticks    int          `json:"ticks"`
	Canvas   views.Canvas `json:"canvas"`
	Margin   views.Margin `json:"margin"`
	Axes     []views.Axis `json:"axes"`
	Bubbles  []Bubble     `json:"bubbles"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Observer receives an animation's initial layout followed by one frame
// per completed tick.
type Observer interface {
	Setup(LayoutResult) error
	Frame(force.Frame) error
}

// run is one view's set of layer simulations.
type run struct {
	plan views.Plan
	sims []*force.Simulation
}

func (r run) id() string { return r.sims[0].ID() }

// stop cancels every layer at its next tick boundary.
func (r run) stop() {
	for _, sim := range r.sims {
		sim.Stop()
	}
}

// animation tracks the single active animated run.
type animation struct{ run }

// Layout computes final bubble positions for a view.
func (s *Service) Layout(ctx context.Context, req LayoutRequest) (LayoutResult, error) {
	start := time.Now()
	r, err := s.prepare(req)
	if err != nil {
		return LayoutResult{}, err
	}
	mode := string(r.plan.Mode)

	if err := r.complete(ctx); err != nil {
		metrics.RecordLayoutRun(string(r.plan.View), mode, "cancelled")
		return LayoutResult{}, err
	}
	res := r.result()

	metrics.RecordLayoutRun(string(r.plan.View), mode, "converged")
	metrics.RecordLayoutTicks(string(r.plan.View), res.Ticks)
	metrics.RecordLayoutDuration(string(r.plan.View), mode, float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "layout computed",
		logger.String("view", string(r.plan.View)),
		logger.String("run_id", res.RunID),
		logger.Int("bubbles", len(res.Bubbles)),
		logger.Int("ticks", res.Ticks),
		logger.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// Animate streams a view's layout tick by tick. Only one animation runs at a
// time: starting another cancels this one at its next tick boundary, and
// Animate then returns force.ErrCancelled. Batched views and multi-layer
// views are computed in full and delivered as a single frame.
func (s *Service) Animate(ctx context.Context, req LayoutRequest, obs Observer) error {
	start := time.Now()
	r, err := s.prepare(req)
	if err != nil {
		return err
	}
	view, mode := string(r.plan.View), string(r.plan.Mode)

	a := s.begin(r)
	defer s.end(a)
	metrics.IncActiveAnimations()
	defer metrics.DecActiveAnimations()

	if err := obs.Setup(r.result()); err != nil {
		r.stop()
		return fmt.Errorf("setup: %w", err)
	}

	if r.plan.Mode == force.Animated && len(r.sims) == 1 {
		err = r.sims[0].Animate(ctx, s.frameInterval, obs.Frame)
	} else if err = r.complete(ctx); err == nil {
		res := r.result()
		err = obs.Frame(force.Frame{
			RunID:     res.RunID,
			Tick:      res.Ticks,
			State:     res.State,
			Positions: positions(res.Bubbles),
		})
	}

	outcome := "converged"
	switch {
	case errors.Is(err, force.ErrCancelled):
		outcome = "cancelled"
	case err != nil:
		outcome = "failed"
	}
	metrics.RecordLayoutRun(view, mode, outcome)
	metrics.RecordLayoutDuration(view, mode, float64(time.Since(start).Milliseconds()))
	if err == nil {
		metrics.RecordLayoutTicks(view, r.result().Ticks)
	}
	s.logger.Debug(ctx, "animation finished",
		logger.String("view", view),
		logger.String("run_id", r.id()),
		logger.String("outcome", outcome),
	)
	return err
}

// prepare builds the plan and one simulation per layer.
func (s *Service) prepare(req LayoutRequest) (run, error) {
	records, err := s.data()
	if err != nil {
		return run{}, err
	}
	kind, err := views.ParseKind(req.View)
	if err != nil {
		return run{}, err
	}
	p, err := s.viewParams(req)
	if err != nil {
		return run{}, err
	}
	plan, err := views.Build(kind, records, p)
	if err != nil {
		return run{}, err
	}

	r := run{plan: plan, sims: make([]*force.Simulation, 0, len(plan.Layers))}
	for _, layer := range plan.Layers {
		opts := append(append([]force.Option{}, s.simOpts...), layer.Options()...)
		sim, err := force.New(layer.Records, opts...)
		if err != nil {
			return run{}, fmt.Errorf("layer %q: %w", layer.Key, err)
		}
		r.sims = append(r.sims, sim)
	}
	return r, nil
}

func (s *Service) viewParams(req LayoutRequest) (views.Params, error) {
	s.mu.RLock()
	p := s.params
	s.mu.RUnlock()

	if req.Width < 0 || req.Height < 0 {
		return p, fmt.Errorf("%w: canvas %gx%g", ErrInvalidQuery, req.Width, req.Height)
	}
	if req.Width > 0 {
		p.Canvas.Width = req.Width
	}
	if req.Height > 0 {
		p.Canvas.Height = req.Height
	}
	wt, err := aggregate.ParseWealthType(req.WealthType)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	p.WealthType = wt
	p.Year = req.Year
	return p, nil
}

// complete drives every layer to its end concurrently.
func (r run) complete(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sim := range r.sims {
		g.Go(func() error {
			stop := context.AfterFunc(gctx, sim.Stop)
			defer stop()
			if r.plan.Mode == force.Batched {
				_, err := sim.RunBatch(r.plan.BatchTicks)
				return err
			}
			_, err := sim.Run(gctx)
			return err
		})
	}
	return g.Wait()
}

// result snapshots the current positions of every layer.
func (r run) result() LayoutResult {
	res := LayoutResult{
		RunID:    r.id(),
		View:     r.plan.View,
		Mode:     r.plan.Mode,
		State:    force.Converged.String(),
		Canvas:   r.plan.Canvas,
		Margin:   r.plan.Margin,
		Axes:     r.plan.Axes,
		Bubbles:  make([]Bubble, 0, r.plan.Count()),
		Warnings: r.plan.Warnings,
	}
	if res.Axes == nil {
		res.Axes = []views.Axis{}
	}
	offset := 0
	for li, sim := range r.sims {
		layer := r.plan.Layers[li]
		if st := sim.State(); st != force.Converged {
			res.State = st.String()
		}
		res.Ticks = max(res.Ticks, sim.Ticks())
		for _, p := range sim.Positions() {
			b := layer.Records[p.Index]
			res.Bubbles = append(res.Bubbles, Bubble{
				Index:  offset + p.Index,
				Layer:  layer.Key,
				X:      p.X,
				Y:      p.Y,
				R:      r.plan.RadiusOf(b),
				Record: b,
			})
		}
		offset += len(layer.Records)
	}
	return res
}

func positions(bubbles []Bubble) []model.Position {
	out := make([]model.Position, len(bubbles))
	for i, b := range bubbles {
		out[i] = model.Position{Index: b.Index, X: b.X, Y: b.Y}
	}
	return out
}

// begin registers r as the active animation and cancels its predecessor.
func (s *Service) begin(r run) *animation {
	a := &animation{run: r}
	s.animMu.Lock()
	prev := s.anim
	s.anim = a
	s.animMu.Unlock()
	if prev != nil {
		prev.stop()
		s.logger.Debug(context.Background(), "superseded animation",
			logger.String("run_id", prev.id()))
	}
	return a
}

func (s *Service) end(a *animation) {
	s.animMu.Lock()
	if s.anim == a {
		s.anim = nil
	}
	s.animMu.Unlock()
}
