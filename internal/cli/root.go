// Package cli implements the fortuna command line: offline layouts and
// aggregates over the configured dataset, and a probe against a running
// server.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/fortuna/internal/adapters/dataset"
	service "github.com/okian/fortuna/internal/app"
	"github.com/okian/fortuna/internal/config"
	"github.com/okian/fortuna/pkg/logger"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ErrUsage marks invalid flag values.
var ErrUsage = errors.New("invalid usage")

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	DataPath   string
	LogLevel   string
	OutPath    string
}

// cliContext carries initialized dependencies through the command tree.
type cliContext struct {
	cfg *config.Config
	log logger.Logger
	out string
}

type cliContextKey struct{}

// NewRootCommand creates the root command with its global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "fortuna-layout",
		Short:   "Billionaire dashboard layouts and statistics",
		Long:    "Computes the dashboard's bubble layouts and aggregates from the configured\ndataset, and probes a running fortuna server.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: $FORTUNA_CONFIG)")
	pf.StringVar(&opts.DataPath, "data", "", "dataset directory or file (overrides data_path)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutPath, "out", "o", "", "write JSON here instead of stdout")

	cmd.AddCommand(
		newLayoutCmd(),
		newAggregateCmd(),
		newSummaryCmd(),
		newRichestCmd(),
		newProbeCmd(),
		newVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv("FORTUNA_CONFIG")
	}
	cfg, err := config.LoadFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	if opts.DataPath != "" {
		cfg.DataPath = opts.DataPath
	}
	if err := logger.Init(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(opts.LogLevel),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	cc := &cliContext{cfg: cfg, log: logger.Get().Named("cli"), out: opts.OutPath}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cc))
	return nil
}

func getCLIContext(cmd *cobra.Command) *cliContext {
	if cc, ok := cmd.Context().Value(cliContextKey{}).(*cliContext); ok {
		return cc
	}
	return &cliContext{cfg: config.New(), log: logger.Nop()}
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// openService loads the dataset and starts a service configured like the
// server. Unlike the server, a dataset that fails to load is an error.
func openService(ctx context.Context, cc *cliContext) (*service.Service, error) {
	src, err := dataset.Open(cc.cfg.DataPath)
	if err != nil {
		return nil, err
	}
	svc := service.New(
		service.WithSource(src),
		service.WithLogger(cc.log),
		service.WithViewParams(cc.cfg.ViewParams()),
		service.WithSimulationOptions(cc.cfg.SimulationOptions()...),
		service.WithFrameInterval(cc.cfg.FrameInterval()),
		service.WithMaxTopN(cc.cfg.MaxTopN),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	if err := svc.LoadError(); err != nil {
		svc.Stop()
		return nil, err
	}
	return svc, nil
}

// writeJSON prints v as indented JSON to stdout or the --out file.
func writeJSON(cmd *cobra.Command, cc *cliContext, v any) error {
	w := cmd.OutOrStdout()
	if cc.out != "" {
		f, err := os.Create(cc.out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseYear accepts a year, "all" or the empty string.
func parseYear(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: year %q", ErrUsage, raw)
	}
	return &y, nil
}
