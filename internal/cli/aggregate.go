package cli

import (
	"github.com/spf13/cobra"

	service "github.com/okian/fortuna/internal/app"
)

type filterFlags struct {
	wealth, year string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.wealth, "wealth", "all", "wealth filter: all|selfmade|inherited")
	cmd.Flags().StringVar(&f.year, "year", "", "observation year, or all")
}

func (f *filterFlags) filter() (service.Filter, error) {
	y, err := parseYear(f.year)
	if err != nil {
		return service.Filter{}, err
	}
	return service.Filter{WealthType: f.wealth, Year: y}, nil
}

func newAggregateCmd() *cobra.Command {
	var (
		ff    filterFlags
		by    string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Group the dataset by industry, country or year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := getCLIContext(cmd)
			f, err := ff.filter()
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), cc)
			if err != nil {
				return err
			}
			defer svc.Stop()

			aggs, err := svc.Aggregates(cmd.Context(), service.AggregateRequest{Filter: f, By: by, Limit: limit})
			if err != nil {
				return err
			}
			return writeJSON(cmd, cc, aggs)
		},
	}
	ff.register(cmd)
	cmd.Flags().StringVar(&by, "by", service.GroupIndustry, "grouping: industry|country|year")
	cmd.Flags().IntVar(&limit, "limit", 0, "keep only the richest groups (0 keeps all)")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	var ff filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the conclusion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := getCLIContext(cmd)
			f, err := ff.filter()
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), cc)
			if err != nil {
				return err
			}
			defer svc.Stop()

			sum, err := svc.Summary(cmd.Context(), f)
			if err != nil {
				return err
			}
			return writeJSON(cmd, cc, sum)
		},
	}
	ff.register(cmd)
	return cmd
}

func newRichestCmd() *cobra.Command {
	var (
		year  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "richest",
		Short: "Print the top of the rich list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			entries, err := svc.Richest(cmd.Context(), y, limit)
			if err != nil {
				return err
			}
			return writeJSON(cmd, cc, entries)
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "observation year, or all")
	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries")
	return cmd
}
