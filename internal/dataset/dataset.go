// =============================================================================
// sharecharts - Dataset Loader
// =============================================================================
//
// This module parses the tab-separated literals that ship with the binary
// (or a file with the same layout) into immutable Records.
//
// FORMAT:
//   No header row. One record per line. Columns are addressed by position
//   through a Layout, so the revenue literal (year, country, revenue) and
//   the retention literal (year, status, count, total, share) share one
//   parser.
//
//   | Column 0 | Column 1 | Column 2 | Column 3 (optional)   |
//   |----------|----------|----------|-----------------------|
//   | 2015     | AU       | 480825.2 |                       |
//   | 2015     | Active   | 237      | 2825                  |
//
// ERRORS:
//   A malformed literal is a defect in the data, not a runtime condition.
//   Every failure is reported as a *ParseError naming the line and column.
//
// =============================================================================

package dataset

import (
	"bufio"
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

//go:embed data/*.tsv
var embedded embed.FS

// =============================================================================
// RECORD STRUCTURE
// =============================================================================

// Record is one parsed row: a metric for a category within a period.
type Record struct {
	// Period is the year the metric belongs to.
	Period int

	// Category is the grouping label (country code, customer status).
	Category string

	// Metric is the non-negative measured value.
	Metric float64

	// ReportedTotal is the period total carried by the source row, or 0 when
	// the layout has no total column. It is only used for consistency checks.
	ReportedTotal float64
}

// =============================================================================
// LAYOUT
// =============================================================================

// Layout tells the parser which column holds which field.
// Column indices are 0-based.
type Layout struct {
	PeriodColumn   int
	CategoryColumn int
	MetricColumn   int

	// TotalColumn is the column with the reported period total, or -1.
	TotalColumn int

	// Delimiter is a single character or an alias such as "\\t", "tab",
	// "pipe" or "comma". Default: tab.
	Delimiter string
}

// RevenueLayout describes the revenue literal: year, country, revenue.
var RevenueLayout = Layout{PeriodColumn: 0, CategoryColumn: 1, MetricColumn: 2, TotalColumn: -1, Delimiter: "tab"}

// RetentionLayout describes the retention literal:
// cohort year, status, customers, total customers, status share.
var RetentionLayout = Layout{PeriodColumn: 0, CategoryColumn: 1, MetricColumn: 2, TotalColumn: 3, Delimiter: "tab"}

// Source pairs a named embedded literal with its layout.
type Source struct {
	Name   string
	Layout Layout
}

var (
	// Revenue is the yearly revenue by country literal.
	Revenue = Source{Name: "revenue", Layout: RevenueLayout}

	// Retention is the customer status by cohort year literal.
	Retention = Source{Name: "retention", Layout: RetentionLayout}
)

// =============================================================================
// ERRORS
// =============================================================================

// ParseError describes a malformed field in the input.
type ParseError struct {
	// Line is the 1-based line number in the input.
	Line int

	// Column is the 0-based column index, or -1 for row-level problems.
	Column int

	// Value is the offending raw value.
	Value string

	Err error
}

func (e *ParseError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %d (%q): %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNegativeMetric is wrapped by a ParseError when a metric is below zero.
var ErrNegativeMetric = errors.New("metric must not be negative")

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Load returns the records of an embedded source, or of overrideFile when it
// is not empty. An override ending in .xlsx is read with ParseWorkbook.
func Load(src Source, overrideFile string) ([]Record, error) {
	if overrideFile != "" && strings.EqualFold(filepath.Ext(overrideFile), ".xlsx") {
		records, err := ParseWorkbook(overrideFile, src.Layout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", overrideFile, err)
		}
		return records, nil
	}

	if overrideFile != "" {
		f, err := os.Open(overrideFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s dataset: %w", src.Name, err)
		}
		defer f.Close()

		records, err := Parse(bufio.NewReader(f), src.Layout)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", overrideFile, err)
		}
		return records, nil
	}

	f, err := embedded.Open("data/" + src.Name + ".tsv")
	if err != nil {
		return nil, fmt.Errorf("unknown dataset %q: %w", src.Name, err)
	}
	defer f.Close()

	records, err := Parse(f, src.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded %s dataset: %w", src.Name, err)
	}
	return records, nil
}

// Parse reads delimited rows from r and converts them to Records.
//
// PARAMETERS:
//   - r: The input. Blank lines are skipped.
//   - layout: Which columns hold the period, category, metric and total.
//
// RETURNS:
//   - The records in input order.
//   - A *ParseError for the first malformed row.
func Parse(r io.Reader, layout Layout) ([]Record, error) {
	reader := csv.NewReader(r)
	configureReader(reader, layout.Delimiter)

	width := requiredWidth(layout)

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Column: -1, Err: csvErr.Err}
			}
			return nil, fmt.Errorf("failed to read rows: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if isRowEmpty(row) {
			continue
		}
		if len(row) < width {
			return nil, &ParseError{
				Line:   line,
				Column: -1,
				Err:    fmt.Errorf("expected at least %d columns, got %d", width, len(row)),
			}
		}

		record, err := parseRow(row, layout, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// configureReader configures the CSV reader for the delimiter alias.
func configureReader(reader *csv.Reader, delimiter string) {
	switch delimiter {
	case "", "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	case ",", "comma":
		reader.Comma = ','
	default:
		reader.Comma = rune(delimiter[0])
	}

	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true
}

func requiredWidth(layout Layout) int {
	width := max(layout.PeriodColumn, layout.CategoryColumn, layout.MetricColumn, layout.TotalColumn)
	return width + 1
}

// parseRow extracts a Record from a single row.
func parseRow(row []string, layout Layout, line int) (Record, error) {
	cell := func(index int) string {
		return strings.TrimSpace(row[index])
	}

	var record Record

	periodStr := cell(layout.PeriodColumn)
	period, err := strconv.Atoi(periodStr)
	if err != nil {
		return Record{}, &ParseError{Line: line, Column: layout.PeriodColumn, Value: periodStr, Err: err}
	}
	record.Period = period

	record.Category = cell(layout.CategoryColumn)
	if record.Category == "" {
		return Record{}, &ParseError{Line: line, Column: layout.CategoryColumn, Err: errors.New("empty category")}
	}

	record.Metric, err = parseMetric(cell(layout.MetricColumn))
	if err != nil {
		return Record{}, &ParseError{Line: line, Column: layout.MetricColumn, Value: cell(layout.MetricColumn), Err: err}
	}

	if layout.TotalColumn >= 0 {
		record.ReportedTotal, err = parseMetric(cell(layout.TotalColumn))
		if err != nil {
			return Record{}, &ParseError{Line: line, Column: layout.TotalColumn, Value: cell(layout.TotalColumn), Err: err}
		}
	}

	return record, nil
}

func parseMetric(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("metric %q is not finite", s)
	}
	if v < 0 {
		return 0, ErrNegativeMetric
	}
	return v, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// Categories returns the distinct categories in order of first appearance.
func Categories(records []Record) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, r := range records {
		if !seen[r.Category] {
			seen[r.Category] = true
			unique = append(unique, r.Category)
		}
	}

	return unique
}
