// =============================================================================
// sharecharts - Main Entry Point
// =============================================================================
//
// USAGE:
//   sharecharts revenue     - Revenue share pie charts by country and year
//   sharecharts retention   - Customer status stacked bars by cohort year
//   sharecharts all         - Both analyses
//   sharecharts palette     - Print the country color map
//   sharecharts version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Data loading, aggregation, colors, charts, summaries
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/sharecharts/cmd"
)

func main() {
	cmd.Execute()
}
