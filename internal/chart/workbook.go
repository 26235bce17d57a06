package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sharecharts/internal/aggregate"
	"github.com/ginjaninja78/sharecharts/internal/palette"
)

// =============================================================================
// WORKBOOK
// =============================================================================

// Workbook collects analysis sheets into one XLSX file. Each sheet holds the
// data behind a chart, category cells filled with their ColorMap color, and a
// native spreadsheet chart next to the data.
//
// USAGE:
//   wb := chart.NewWorkbook()
//   defer wb.Close()
//   wb.AddShares("Revenue 2015", "Revenue Contribution by Country - 2015", shares, colors)
//   wb.AddTable("Counts", "Customer Status by Cohort Year", table, colors, false)
//   wb.SaveAs("revenue.xlsx")
type Workbook struct {
	f      *excelize.File
	sheets int

	// styles caches fill style IDs by color.
	styles map[string]int
}

// NewWorkbook creates an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		f:      excelize.NewFile(),
		styles: make(map[string]int),
	}
}

// SheetCount returns the number of sheets added so far.
func (w *Workbook) SheetCount() int { return w.sheets }

// newSheet creates a sheet, reusing the default sheet for the first one.
func (w *Workbook) newSheet(name string) error {
	if len(name) > 31 {
		return fmt.Errorf("sheet name %q is longer than 31 characters", name)
	}

	if w.sheets == 0 {
		if err := w.f.SetSheetName(w.f.GetSheetName(0), name); err != nil {
			return fmt.Errorf("failed to rename default sheet: %w", err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	w.sheets++
	return nil
}

// fillStyle returns a style that fills a cell with c.
func (w *Workbook) fillStyle(c palette.Color) (int, error) {
	key := c.RGBHex()
	if id, ok := w.styles[key]; ok {
		return id, nil
	}

	id, err := w.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{key}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create fill style: %w", err)
	}

	w.styles[key] = id
	return id, nil
}

// AddShares writes one scope's shares and a pie chart.
//
// SHEET LAYOUT:
//   | Category | Value     | Percent |
//   | US       | 3885990.9 | 48.19   |
func (w *Workbook) AddShares(sheet, title string, shares []aggregate.Share, colors *palette.ColorMap) error {
	if len(shares) == 0 {
		return ErrEmpty
	}
	if err := w.newSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Category", "Value", "Percent"}
	for i, h := range headers {
		if err := w.setCell(sheet, i+1, 1, h); err != nil {
			return err
		}
	}

	for i, s := range shares {
		row := i + 2
		if err := w.setCell(sheet, 1, row, s.Category); err != nil {
			return err
		}
		if err := w.setCell(sheet, 2, row, s.Total); err != nil {
			return err
		}
		if err := w.setCell(sheet, 3, row, round2(s.Percent)); err != nil {
			return err
		}
		if err := w.colorCell(sheet, 1, row, colors.Lookup(s.Category)); err != nil {
			return err
		}
	}

	last := len(shares) + 1
	ref := quoteSheet(sheet)
	err := w.f.AddChart(sheet, "E2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       ref + "!$B$1",
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
		}},
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: true},
		Dimension: excelize.ChartDimension{Width: 640, Height: 480},
	})
	if err != nil {
		return fmt.Errorf("failed to add pie chart to %q: %w", sheet, err)
	}

	return nil
}

// AddTable writes a period × category table and a stacked column chart with
// one series per category, each filled with its ColorMap color.
//
// SHEET LAYOUT:
//   | Period | Active | Churned |
//   | 2015   | 237    | 2588    |
func (w *Workbook) AddTable(sheet, title string, table *aggregate.Table, colors *palette.ColorMap, percent bool) error {
	periods := table.Periods()
	categories := table.Categories()
	if len(periods) == 0 || len(categories) == 0 {
		return ErrEmpty
	}
	if err := w.newSheet(sheet); err != nil {
		return err
	}

	if err := w.setCell(sheet, 1, 1, "Period"); err != nil {
		return err
	}
	for j, c := range categories {
		if err := w.setCell(sheet, j+2, 1, c); err != nil {
			return err
		}
		if err := w.colorCell(sheet, j+2, 1, colors.Lookup(c)); err != nil {
			return err
		}
	}

	for i, p := range periods {
		row := i + 2
		// Periods are written as text so the chart treats them as categories.
		if err := w.setCell(sheet, 1, row, strconv.Itoa(p)); err != nil {
			return err
		}
		for j, c := range categories {
			v := table.Value(p, c)
			if percent {
				v = round2(v)
			}
			if err := w.setCell(sheet, j+2, row, v); err != nil {
				return err
			}
		}
	}

	ref := quoteSheet(sheet)
	last := len(periods) + 1
	series := make([]excelize.ChartSeries, len(categories))
	for j, c := range categories {
		col, err := excelize.ColumnNumberToName(j + 2)
		if err != nil {
			return err
		}
		series[j] = excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", ref, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ref, col, col, last),
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{colors.Lookup(c).RGBHex()},
				Pattern: 1,
			},
		}
	}

	chartType := excelize.ColStacked
	if percent {
		chartType = excelize.ColPercentStacked
	}

	anchor, err := excelize.CoordinatesToCellName(len(categories)+3, 2)
	if err != nil {
		return err
	}
	err = w.f.AddChart(sheet, anchor, &excelize.Chart{
		Type:      chartType,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 720, Height: 420},
	})
	if err != nil {
		return fmt.Errorf("failed to add stacked chart to %q: %w", sheet, err)
	}

	return nil
}

// SaveAs writes the workbook to a file.
func (w *Workbook) SaveAs(path string) error {
	if w.sheets == 0 {
		return ErrEmpty
	}
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Close releases the workbook's resources.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (w *Workbook) setCell(sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func (w *Workbook) colorCell(sheet string, col, row int, c palette.Color) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	style, err := w.fillStyle(c)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, cell, cell, style)
}

// quoteSheet quotes a sheet name for use in a cell reference.
func quoteSheet(name string) string {
	return "'" + name + "'"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
