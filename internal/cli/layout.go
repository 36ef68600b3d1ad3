package cli

import (
	"github.com/spf13/cobra"

	service "github.com/okian/fortuna/internal/app"
	"github.com/okian/fortuna/internal/domain/views"
)

func newLayoutCmd() *cobra.Command {
	var (
		width, height float64
		wealth, year  string
	)
	cmd := &cobra.Command{
		Use:       "layout <view>",
		Short:     "Run a view's layout to convergence and print the bubbles",
		Args:      cobra.ExactArgs(1),
		ValidArgs: layoutViews(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := getCLIContext(cmd)
			y, err := parseYear(year)
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), cc)
			if err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.Layout(cmd.Context(), service.LayoutRequest{
				View:       args[0],
				Width:      width,
				Height:     height,
				WealthType: wealth,
				Year:       y,
			})
			if err != nil {
				return err
			}
			return writeJSON(cmd, cc, res)
		},
	}
	cmd.Flags().Float64Var(&width, "width", 0, "canvas width (default canvas_width)")
	cmd.Flags().Float64Var(&height, "height", 0, "canvas height (default canvas_height)")
	cmd.Flags().StringVar(&wealth, "wealth", "all", "wealth filter: all|selfmade|inherited")
	cmd.Flags().StringVar(&year, "year", "", "observation year, or all")
	return cmd
}

func layoutViews() []string {
	var out []string
	for _, info := range views.Catalog() {
		if info.Layout {
			out = append(out, string(info.Kind))
		}
	}
	return out
}
