package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads records from the first sheet of an XLSX file laid out
// like the tab-separated literals.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//   - layout: Which columns hold the period, category, metric and total.
//     The delimiter is ignored.
//
// RETURNS:
//   - The records in sheet order. A first row whose period cell is not an
//     integer is treated as a header and skipped.
//   - A *ParseError for the first malformed row.
func ParseWorkbook(path string, layout Layout) ([]Record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	width := requiredWidth(layout)
	seenData := false

	var records []Record
	for i, row := range rows {
		line := i + 1

		if len(row) == 0 || isRowEmpty(row) {
			continue
		}
		if !seenData {
			seenData = true
			if isHeader(row, layout) {
				continue
			}
		}

		// GetRows trims trailing empty cells.
		for len(row) < width {
			row = append(row, "")
		}

		record, err := parseRow(row, layout, line)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func isHeader(row []string, layout Layout) bool {
	if layout.PeriodColumn >= len(row) {
		return true
	}
	_, err := strconv.Atoi(strings.TrimSpace(row[layout.PeriodColumn]))
	return err != nil
}
