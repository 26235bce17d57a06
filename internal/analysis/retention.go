package analysis

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/sharecharts/internal/aggregate"
	"github.com/ginjaninja78/sharecharts/internal/chart"
	"github.com/ginjaninja78/sharecharts/internal/config"
	"github.com/ginjaninja78/sharecharts/internal/dataset"
	"github.com/ginjaninja78/sharecharts/internal/palette"
	"github.com/ginjaninja78/sharecharts/internal/summary"
)

// totalTolerance is how far a reported cohort total may drift from the sum
// of its statuses before a warning is logged.
const totalTolerance = 0.5

// percentLabelThreshold hides labels on percentage segments at or below 1%.
const percentLabelThreshold = 1.0

// RetentionColors gives the first status the base color and every further
// status the base color at the configured alpha.
func RetentionColors(cfg *config.Config) (*palette.ColorMap, error) {
	base, err := palette.ParseHex(cfg.Retention.BaseColor)
	if err != nil {
		return nil, fmt.Errorf("invalid retention base color: %w", err)
	}

	entries := make([]palette.Entry, len(cfg.Retention.Statuses))
	for i, status := range cfg.Retention.Statuses {
		c := base
		if i > 0 {
			c = base.WithAlpha(*cfg.Retention.Alpha)
		}
		entries[i] = palette.Entry{Label: status, Color: c}
	}

	fallback, err := palette.ParseHex(cfg.Palette.Fallback)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback color: %w", err)
	}

	return palette.Fixed(entries, palette.WithFallback(fallback))
}

// Retention draws the count and percentage stacked bar charts of customer
// status by cohort year.
func (r *Runner) Retention() Result {
	start := time.Now()
	result := Result{Name: dataset.Retention.Name}

	records, err := dataset.Load(dataset.Retention, r.cfg.DatasetFile(dataset.Retention.Name))
	if err != nil {
		return fail(result, start, fmt.Errorf("failed to load retention data: %w", err))
	}
	result.Stats.RecordsLoaded = len(records)
	r.logger.Debug("loaded retention records", zap.Int("records", len(records)))

	counts, err := aggregate.Pivot(records, aggregate.Options{Expected: r.cfg.Retention.Statuses})
	if err != nil {
		return fail(result, start, err)
	}

	for _, m := range aggregate.CheckReportedTotals(records, counts, totalTolerance) {
		result.Stats.Warnings++
		r.logger.Warn("reported cohort total differs from status sum",
			zap.Int("cohort_year", m.Period),
			zap.Float64("reported", m.Reported),
			zap.Float64("aggregated", m.Aggregated))
	}

	colors, err := RetentionColors(r.cfg)
	if err != nil {
		return fail(result, start, err)
	}

	percents := counts.Percentages()

	wb := chart.NewWorkbook()
	defer wb.Close()

	views := []struct {
		name    string
		title   string
		yLabel  string
		table   *aggregate.Table
		percent bool
	}{
		{"retention_counts", "Customer Status by Cohort Year (Counts)", "Number of Customers", counts, false},
		{"retention_percent", "Customer Status by Cohort Year (Percentage)", "Percentage of Customers", percents, true},
	}

	for _, v := range views {
		err := r.writeChart(&result, v.name, func(w io.Writer) error {
			return chart.StackedBar(w, chart.BarSpec{
				Title:          v.title,
				XLabel:         "Cohort Year",
				YLabel:         v.yLabel,
				Table:          v.table,
				Colors:         colors,
				Percent:        v.percent,
				LabelThreshold: percentLabelThreshold,
				Width:          r.cfg.Chart.Width,
				Height:         r.cfg.Chart.Height,
			})
		})
		if err != nil {
			return fail(result, start, err)
		}

		sheet := "Counts"
		if v.percent {
			sheet = "Percentage"
		}
		if err := wb.AddTable(sheet, v.title, v.table, colors, v.percent); err != nil {
			return fail(result, start, err)
		}

		result.Stats.ScopesRendered++
	}

	if err := summary.New(r.out).Table("Customer Status by Cohort Year", counts); err != nil {
		return fail(result, start, err)
	}

	if err := r.saveWorkbook(&result, wb, dataset.Retention.Name); err != nil {
		return fail(result, start, err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	return result
}
