package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/fortuna/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataPath, convey.ShouldEqual, "data")
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FORTUNA_ADDR", ":8080")
			_ = os.Setenv("FORTUNA_MAX_TICKS", "150")
			_ = os.Setenv("FORTUNA_VELOCITY_DECAY", "0.3")
			_ = os.Setenv("FORTUNA_DATA_PATH", "/srv/billionaires")
			_ = os.Setenv("FORTUNA_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.MaxTicks, convey.ShouldEqual, 150)
				convey.So(cfg.VelocityDecay, convey.ShouldEqual, 0.3)
				convey.So(cfg.DataPath, convey.ShouldEqual, "/srv/billionaires")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
canvas_width: 1200
canvas_height: 800
batch_ticks: 200
wealth_axis_multiplier: 3
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FORTUNA_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CanvasWidth, convey.ShouldEqual, 1200)
				convey.So(cfg.CanvasHeight, convey.ShouldEqual, 800)
				convey.So(cfg.BatchTicks, convey.ShouldEqual, 200)
				convey.So(cfg.WealthAxisMultiplier, convey.ShouldEqual, 3)
				convey.So(cfg.MaxTicks, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When env vars and a file both set a key", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nmax_ticks: 200\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FORTUNA_CONFIG", tmpFile)
			_ = os.Setenv("FORTUNA_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxTicks, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("FORTUNA_CONFIG", "/non/existent/file.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading an explicit file path", func() {
			path := createTempConfigFile("max_top_n: 25\ncanvas_width: 1200\n")
			defer func() { _ = os.Remove(path) }()

			cfg, err := config.LoadFile(ctx, path)

			convey.Convey("Then the file layer applies without FORTUNA_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 25)
				convey.So(cfg.CanvasWidth, convey.ShouldEqual, 1200)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			})
		})

		convey.Convey("When the address is empty", func() {
			_ = os.Setenv("FORTUNA_ADDR", "")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a tuning value is out of range", func() {
			_ = os.Setenv("FORTUNA_VELOCITY_DECAY", "1.5")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "velocity_decay")
			})
		})

		convey.Convey("When collision passes and the jiggle seed come from env vars", func() {
			_ = os.Setenv("FORTUNA_BATCH_COLLISION_ITERATIONS", "6")
			_ = os.Setenv("FORTUNA_JIGGLE_SEED", "42")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they reach the view params", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.JiggleSeed, convey.ShouldEqual, 42)
				convey.So(cfg.ViewParams().BatchCollisionIterations, convey.ShouldEqual, 6)
				convey.So(cfg.ViewParams().CollisionIterations, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When collision passes drop below one", func() {
			_ = os.Setenv("FORTUNA_COLLISION_ITERATIONS", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "collision_iterations")
			})
		})
	})
}

func clearConfigEnvVars() {
	envVars := []string{
		"FORTUNA_CONFIG",
		"FORTUNA_ADDR",
		"FORTUNA_MAX_TICKS",
		"FORTUNA_VELOCITY_DECAY",
		"FORTUNA_DATA_PATH",
		"FORTUNA_LOG_FORMAT",
		"FORTUNA_COLLISION_ITERATIONS",
		"FORTUNA_BATCH_COLLISION_ITERATIONS",
		"FORTUNA_JIGGLE_SEED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "fortuna-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
