// =============================================================================
// sharecharts - Analysis Module
// =============================================================================
//
// This module orchestrates one analysis from data to artifacts. It is the
// only place where the loader, aggregator, color assigner, renderer and
// summary printer meet.
//
// ANALYSIS PIPELINE:
//   1. Load the records (embedded literal or configured override file)
//   2. Pivot and aggregate into shares or a period × category table
//   3. Build the ColorMap once for the whole analysis
//   4. Render every chart through that ColorMap
//   5. Add the data and native charts to the analysis workbook
//   6. Print the text summary
//
// CONCURRENCY:
//   Analyses run sequentially. A ColorMap is immutable once built, so the
//   renderers only ever read it.
//
// =============================================================================

package analysis

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/sharecharts/internal/chart"
	"github.com/ginjaninja78/sharecharts/internal/config"
	"github.com/ginjaninja78/sharecharts/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one analysis.
type Result struct {
	// Name identifies the analysis ("revenue", "retention").
	Name string

	// Artifacts are the paths of every file written, in write order.
	Artifacts []string

	// Success indicates whether the analysis completed.
	Success bool

	// Error contains the error if the analysis failed.
	Error error

	Stats Stats
}

// Stats contains statistics about one analysis.
type Stats struct {
	// RecordsLoaded is the number of records parsed from the dataset.
	RecordsLoaded int

	// ScopesRendered is the number of years or tables charted.
	ScopesRendered int

	// NoDataScopes lists requested periods that had no records.
	NoDataScopes []int

	// Warnings counts consistency problems that did not stop the analysis.
	Warnings int

	ProcessingTime time.Duration
}

// Info converts the result into the run summary's representation.
func (r Result) Info() utils.AnalysisInfo {
	info := utils.AnalysisInfo{
		Name:         r.Name,
		Success:      r.Success,
		Records:      r.Stats.RecordsLoaded,
		Scopes:       r.Stats.ScopesRendered,
		NoDataScopes: r.Stats.NoDataScopes,
		Warnings:     r.Stats.Warnings,
		Artifacts:    r.Artifacts,
		ProcessTime:  r.Stats.ProcessingTime,
	}
	if r.Error != nil {
		info.ErrorMessage = r.Error.Error()
	}
	return info
}

// =============================================================================
// RUNNER STRUCTURE
// =============================================================================

// Runner executes analyses against one configuration.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger

	// out receives the text summaries.
	out io.Writer

	files *utils.FileManager
}

// New creates a Runner.
//
// PARAMETERS:
//   - cfg: The validated configuration.
//   - logger: The structured logger; zap.NewNop() silences it.
//   - out: Where text summaries are printed (usually stdout).
//   - files: Where charts and workbooks are written.
func New(cfg *config.Config, logger *zap.Logger, out io.Writer, files *utils.FileManager) *Runner {
	return &Runner{cfg: cfg, logger: logger, out: out, files: files}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeChart renders one PNG chart unless charts are disabled.
func (r *Runner) writeChart(result *Result, name string, render func(w io.Writer) error) error {
	if r.cfg.Chart.Disabled {
		r.logger.Debug("chart rendering disabled", zap.String("chart", name))
		return nil
	}

	path, err := r.files.WriteArtifact(name, ".png", render)
	if err != nil {
		return fmt.Errorf("failed to write chart %s: %w", name, err)
	}

	result.Artifacts = append(result.Artifacts, path)
	r.logger.Info("wrote chart", zap.String("path", path))
	return nil
}

// saveWorkbook writes the analysis workbook if it holds any sheet.
func (r *Runner) saveWorkbook(result *Result, wb *chart.Workbook, name string) error {
	if wb.SheetCount() == 0 {
		r.logger.Debug("workbook has no sheets, skipping", zap.String("workbook", name))
		return nil
	}

	path := r.files.OutputPath(name, ".xlsx")
	if err := wb.SaveAs(path); err != nil {
		return err
	}

	result.Artifacts = append(result.Artifacts, path)
	r.logger.Info("wrote workbook", zap.String("path", path), zap.Int("sheets", wb.SheetCount()))
	return nil
}

// fail finishes a failed result.
func fail(result Result, start time.Time, err error) Result {
	result.Error = err
	result.Stats.ProcessingTime = time.Since(start)
	return result
}
