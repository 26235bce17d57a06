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

// RevenueColors ranks the countries by average annual revenue share through
// cfg.Revenue.RankingThrough and assigns them colors from the configured
// palette. The same map is used for every year, so a country keeps its color
// even in years where its rank differs.
func RevenueColors(cfg *config.Config, records []dataset.Record) (*palette.ColorMap, error) {
	ranking, err := aggregate.RankThrough(records, cfg.Revenue.RankingThrough)
	if err != nil {
		return nil, fmt.Errorf("failed to rank countries: %w", err)
	}

	cmap, err := palette.ByName(cfg.Palette.Name)
	if err != nil {
		return nil, err
	}

	fallback, err := palette.ParseHex(cfg.Palette.Fallback)
	if err != nil {
		return nil, fmt.Errorf("invalid fallback color: %w", err)
	}

	return palette.Assign(ranking, cmap, palette.WithFallback(fallback))
}

// LoadRevenue loads the revenue records named by the configuration.
func LoadRevenue(cfg *config.Config) ([]dataset.Record, error) {
	records, err := dataset.Load(dataset.Revenue, cfg.DatasetFile(dataset.Revenue.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue data: %w", err)
	}
	return records, nil
}

// Revenue draws one pie per requested year with consistent country colors.
//
// PARAMETERS:
//   - years: The years to chart, in output order. A year without records
//     prints a notice and is skipped. A year whose revenue sums to zero gets
//     its summary and workbook sheet but no PNG.
//
// RETURNS:
//   - A Result with one PNG per charted year plus the revenue workbook.
func (r *Runner) Revenue(years []int) Result {
	start := time.Now()
	result := Result{Name: dataset.Revenue.Name}

	records, err := LoadRevenue(r.cfg)
	if err != nil {
		return fail(result, start, err)
	}
	result.Stats.RecordsLoaded = len(records)
	r.logger.Debug("loaded revenue records", zap.Int("records", len(records)))

	colors, err := RevenueColors(r.cfg, records)
	if err != nil {
		return fail(result, start, err)
	}
	r.logger.Debug("assigned country colors",
		zap.Strings("ranking", colors.Labels()),
		zap.String("palette", r.cfg.Palette.Name),
		zap.Int("ranking_through", r.cfg.Revenue.RankingThrough))

	var unranked []string
	for _, country := range dataset.Categories(records) {
		if !colors.Has(country) {
			unranked = append(unranked, country)
		}
	}
	if len(unranked) > 0 {
		r.logger.Debug("countries without an assigned color use the fallback",
			zap.Strings("countries", unranked),
			zap.String("fallback", colors.Fallback().String()))
	}

	wb := chart.NewWorkbook()
	defer wb.Close()

	printer := summary.New(r.out)

	for _, year := range years {
		shares, ok := aggregate.SharesForPeriod(records, year)
		if !ok {
			result.Stats.NoDataScopes = append(result.Stats.NoDataScopes, year)
			r.logger.Info("no revenue records for year", zap.Int("year", year))
			if err := printer.NoData(year); err != nil {
				return fail(result, start, err)
			}
			continue
		}

		title := fmt.Sprintf("Revenue Contribution by Country - %d", year)

		// A year whose countries all report zero has no slices to draw.
		if aggregate.SumPercent(shares) == 0 {
			result.Stats.Warnings++
			r.logger.Warn("revenue total is zero for year, skipping pie chart", zap.Int("year", year))
		} else {
			err := r.writeChart(&result, fmt.Sprintf("revenue_%d", year), func(w io.Writer) error {
				return chart.Pie(w, chart.PieSpec{
					Title:  title,
					Shares: shares,
					Colors: colors,
					Width:  r.cfg.Chart.Width,
					Height: r.cfg.Chart.Height,
				})
			})
			if err != nil {
				return fail(result, start, err)
			}
		}

		if err := wb.AddShares(fmt.Sprintf("Revenue %d", year), title, shares, colors); err != nil {
			return fail(result, start, err)
		}

		if err := printer.Shares(fmt.Sprintf("Revenue Contribution for %d", year), shares); err != nil {
			return fail(result, start, err)
		}

		result.Stats.ScopesRendered++
	}

	if err := r.saveWorkbook(&result, wb, dataset.Revenue.Name); err != nil {
		return fail(result, start, err)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(start)
	return result
}
