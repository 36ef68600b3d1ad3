package cli

import (
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/fortuna/internal/probe"
)

const (
	defaultProbeTop     = 50
	defaultProbeTimeout = 30 * time.Second
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
)

func newProbeCmd() *cobra.Command {
	cfg := &probe.Config{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check a running server end to end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := getCLIContext(cmd)
			cfg.Logger = cc.log
			stats, err := probe.Run(cmd.Context(), cfg)
			if stats != nil {
				if werr := writeJSON(cmd, cc, stats); werr != nil && err == nil {
					err = werr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the service")
	cmd.Flags().IntVar(&cfg.TopN, "top", defaultProbeTop, "rich list entries to cross-check")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultProbeTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&cfg.Stream, "stream", true, "also consume one animated stream")
	cmd.Flags().BoolVar(&cfg.Verbose, "verbose", false, "log every check")
	return cmd
}
