// =============================================================================
// sharecharts - Analysis Commands
// =============================================================================
//
// COMMAND USAGE:
//   sharecharts revenue [--years 2015,2023] [--no-charts]
//   sharecharts retention [--no-charts]
//   sharecharts all [--no-charts]
//
// OUTPUT:
//   PNG charts and one XLSX workbook per analysis in the output directory,
//   the text summary on stdout, logs on stderr.
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sharecharts/internal/analysis"
)

var (
	// years overrides revenue.years from the configuration when set.
	years []int

	// noCharts skips PNG rendering; workbooks and summaries are still written.
	noCharts bool
)

var revenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Draw revenue share pie charts by country",
	Long: `Draw one pie chart of revenue share by country per year.

Countries are ranked by average annual share up to revenue.ranking_through
and colored from the configured palette in that order, so each country has
the same color in every year's chart. A year without data prints a notice
and is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyChartFlags()
		return runAnalyses(cmd, revenueStep)
	},
}

var retentionCmd = &cobra.Command{
	Use:   "retention",
	Short: "Draw customer retention stacked bar charts by cohort year",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyChartFlags()
		return runAnalyses(cmd, retentionStep)
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run the revenue and retention analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyChartFlags()
		return runAnalyses(cmd, revenueStep, retentionStep)
	},
}

func revenueStep(r *analysis.Runner) analysis.Result {
	return r.Revenue(cfg.Revenue.Years)
}

func retentionStep(r *analysis.Runner) analysis.Result {
	return r.Retention()
}

// applyChartFlags copies analysis flags onto the loaded configuration.
func applyChartFlags() {
	if len(years) > 0 {
		cfg.Revenue.Years = years
	}
	if noCharts {
		cfg.Chart.Disabled = true
	}
}

func init() {
	revenueCmd.Flags().IntSliceVar(&years, "years", nil, "Years to chart (default from revenue.years)")
	allCmd.Flags().IntSliceVar(&years, "years", nil, "Years to chart in the revenue analysis")

	for _, c := range []*cobra.Command{revenueCmd, retentionCmd, allCmd} {
		c.Flags().BoolVar(&noCharts, "no-charts", false, "Skip PNG charts; still write workbooks and summaries")
		rootCmd.AddCommand(c)
	}
}
