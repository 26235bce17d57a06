package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sharecharts/internal/analysis"
)

// paletteCmd prints the country color map the revenue analysis uses.
var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "Print the country color map",
	Long: `Print the ranking and colors the revenue analysis assigns, one country
per line in rank order, followed by the fallback color for unknown countries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := analysis.LoadRevenue(cfg)
		if err != nil {
			return err
		}

		colors, err := analysis.RevenueColors(cfg, records)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Palette: %s (ranked through %d)\n", cfg.Palette.Name, cfg.Revenue.RankingThrough)
		for i, label := range colors.Labels() {
			fmt.Fprintf(out, "%2d. %-4s %s\n", i+1, label, colors.Lookup(label))
		}
		fmt.Fprintf(out, "    %-4s %s\n", "*", colors.Fallback())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(paletteCmd)
}
