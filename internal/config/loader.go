package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix  = "FORTUNA_"
	envConfig  = "FORTUNA_CONFIG"
	keyDivider = "."
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FORTUNA_CONFIG is set
//  3. env (prefix FORTUNA_)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(envConfig))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file
// layer.
func LoadFile(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(keyDivider)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FORTUNA_MAX_TICKS -> max_ticks; underscores are kept to match the
	// flat koanf tags.
	envProvider := env.Provider(envPrefix, keyDivider, func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges the service depends on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !(c.CanvasWidth > 0) || !(c.CanvasHeight > 0):
		return fmt.Errorf("%w: canvas %gx%g", ErrInvalidConfig, c.CanvasWidth, c.CanvasHeight)
	case !(c.VelocityDecay > 0 && c.VelocityDecay < 1):
		return fmt.Errorf("%w: velocity_decay %g outside (0,1)", ErrInvalidConfig, c.VelocityDecay)
	case !(c.AlphaDecay > 0 && c.AlphaDecay < 1):
		return fmt.Errorf("%w: alpha_decay %g outside (0,1)", ErrInvalidConfig, c.AlphaDecay)
	case !(c.AlphaMin >= 0 && c.AlphaMin < 1):
		return fmt.Errorf("%w: alpha_min %g", ErrInvalidConfig, c.AlphaMin)
	case c.MaxTicks <= 0:
		return fmt.Errorf("%w: max_ticks %d", ErrInvalidConfig, c.MaxTicks)
	case c.BatchTicks <= 0:
		return fmt.Errorf("%w: batch_ticks %d", ErrInvalidConfig, c.BatchTicks)
	case c.GridThreshold < 0:
		return fmt.Errorf("%w: grid_threshold %d", ErrInvalidConfig, c.GridThreshold)
	case c.CollisionPadding < 0:
		return fmt.Errorf("%w: collision_padding %g", ErrInvalidConfig, c.CollisionPadding)
	case !(c.CollisionStrength >= 0 && c.CollisionStrength <= 1):
		return fmt.Errorf("%w: collision_strength %g outside [0,1]", ErrInvalidConfig, c.CollisionStrength)
	case c.CollisionIterations < 1 || c.BatchCollisionIterations < 1:
		return fmt.Errorf("%w: collision_iterations %d, batch_collision_iterations %d", ErrInvalidConfig, c.CollisionIterations, c.BatchCollisionIterations)
	case !(c.WealthAxisMultiplier > 0):
		return fmt.Errorf("%w: wealth_axis_multiplier %g", ErrInvalidConfig, c.WealthAxisMultiplier)
	case c.FrameIntervalMS <= 0:
		return fmt.Errorf("%w: frame_interval_ms %d", ErrInvalidConfig, c.FrameIntervalMS)
	case c.MaxTopN <= 0:
		return fmt.Errorf("%w: max_top_n %d", ErrInvalidConfig, c.MaxTopN)
	}
	return nil
}
