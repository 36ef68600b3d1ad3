// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and FORTUNA_ environment variables on top.
// - Errors are wrapped with this package's sentinels.
package config

import (
	"time"

	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/views"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataPath is a directory of billionaires_<year>.csv files or a merged
	// JSON file.
	DataPath string `koanf:"data_path"`

	// Default canvas for layouts requested without explicit dimensions.
	CanvasWidth  float64 `koanf:"canvas_width"`
	CanvasHeight float64 `koanf:"canvas_height"`

	// Simulation tuning.
	VelocityDecay float64 `koanf:"velocity_decay"`
	AlphaDecay    float64 `koanf:"alpha_decay"`
	AlphaMin      float64 `koanf:"alpha_min"`
	MaxTicks      int     `koanf:"max_ticks"`
	BatchTicks    int     `koanf:"batch_ticks"`
	GridThreshold int     `koanf:"grid_threshold"`
	// JiggleSeed seeds the noise separating coincident points.
	JiggleSeed int64 `koanf:"jiggle_seed"`

	// CollisionPadding is added to every bubble radius.
	CollisionPadding  float64 `koanf:"collision_padding"`
	CollisionStrength float64 `koanf:"collision_strength"`
	// Relaxation passes per tick; batched views get their own count.
	CollisionIterations      int `koanf:"collision_iterations"`
	BatchCollisionIterations int `koanf:"batch_collision_iterations"`

	// WealthAxisMultiplier stretches the industry view's wealth axis.
	WealthAxisMultiplier float64 `koanf:"wealth_axis_multiplier"`

	// FrameIntervalMS paces animated layouts streamed to clients.
	FrameIntervalMS int `koanf:"frame_interval_ms"`

	// MaxTopN caps limit parameters on list endpoints.
	MaxTopN int `koanf:"max_top_n"`
}

// New creates a Config with defaults.
func New() *Config {
	vp := views.DefaultParams()
	return &Config{
		LogLevel:                 "info",
		LogFormat:                "text",
		Addr:                     ":9080",
		DataPath:                 "data",
		CanvasWidth:              vp.Canvas.Width,
		CanvasHeight:             vp.Canvas.Height,
		VelocityDecay:            force.DefaultVelocityDecay,
		AlphaDecay:               force.DefaultAlphaDecay,
		AlphaMin:                 force.DefaultAlphaMin,
		MaxTicks:                 force.DefaultMaxTicks,
		BatchTicks:               vp.BatchTicks,
		GridThreshold:            force.DefaultGridThreshold,
		JiggleSeed:               force.DefaultSeed,
		CollisionPadding:         vp.Padding,
		CollisionStrength:        vp.CollisionStrength,
		CollisionIterations:      vp.CollisionIterations,
		BatchCollisionIterations: vp.BatchCollisionIterations,
		WealthAxisMultiplier:     vp.WealthMultiplier,
		FrameIntervalMS:          16,
		MaxTopN:                  100,
	}
}

// FrameInterval returns the animation frame pacing.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// ViewParams returns the view tuning this configuration implies.
func (c *Config) ViewParams() views.Params {
	p := views.DefaultParams()
	p.Canvas = views.Canvas{Width: c.CanvasWidth, Height: c.CanvasHeight}
	p.Padding = c.CollisionPadding
	p.CollisionStrength = c.CollisionStrength
	p.CollisionIterations = c.CollisionIterations
	p.BatchCollisionIterations = c.BatchCollisionIterations
	p.WealthMultiplier = c.WealthAxisMultiplier
	p.BatchTicks = c.BatchTicks
	return p
}

// SimulationOptions returns the engine tuning this configuration implies.
func (c *Config) SimulationOptions() []force.Option {
	return []force.Option{
		force.WithVelocityDecay(c.VelocityDecay),
		force.WithAlphaDecay(c.AlphaDecay),
		force.WithAlphaMin(c.AlphaMin),
		force.WithMaxTicks(c.MaxTicks),
		force.WithGridThreshold(c.GridThreshold),
		force.WithSeed(c.JiggleSeed),
	}
}
