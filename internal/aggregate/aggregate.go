// Package aggregate groups dataset records by period and category, turns the
// sums into shares of each period's total, and ranks categories.
package aggregate

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ginjaninja78/sharecharts/internal/dataset"
)

// Share is one category's total within a scope and its percentage of the
// scope total.
type Share struct {
	Category string
	Total    float64
	Percent  float64
}

// UnexpectedCategoryError is returned by Pivot when a record carries a
// category outside the expected list.
type UnexpectedCategoryError struct {
	Category string
	Period   int
	Expected []string
}

func (e *UnexpectedCategoryError) Error() string {
	return fmt.Sprintf("unexpected category %q in period %d (expected one of %s)",
		e.Category, e.Period, strings.Join(e.Expected, ", "))
}

// Options controls Pivot.
type Options struct {
	// Expected fixes the category order of the table. When set, a record
	// with any other category fails the pivot.
	Expected []string
}

// Table is a period × category grid of summed metrics. Missing cells are 0.
type Table struct {
	periods    []int
	categories []string
	cells      map[int]map[string]float64
}

// Pivot sums record metrics per period and category.
//
// Periods are sorted ascending. Without Options.Expected, categories are
// sorted by label; with it, they follow the expected order exactly, including
// expected categories that never occur.
func Pivot(records []dataset.Record, opts Options) (*Table, error) {
	t := &Table{cells: make(map[int]map[string]float64)}

	var allowed map[string]bool
	if len(opts.Expected) > 0 {
		allowed = make(map[string]bool, len(opts.Expected))
		for _, c := range opts.Expected {
			allowed[c] = true
		}
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if allowed != nil && !allowed[r.Category] {
			return nil, &UnexpectedCategoryError{Category: r.Category, Period: r.Period, Expected: opts.Expected}
		}

		row, ok := t.cells[r.Period]
		if !ok {
			row = make(map[string]float64)
			t.cells[r.Period] = row
			t.periods = append(t.periods, r.Period)
		}
		row[r.Category] += r.Metric

		if !seen[r.Category] {
			seen[r.Category] = true
			t.categories = append(t.categories, r.Category)
		}
	}

	sort.Ints(t.periods)
	if allowed != nil {
		t.categories = slices.Clone(opts.Expected)
	} else {
		sort.Strings(t.categories)
	}

	return t, nil
}

// Periods returns the table's periods in ascending order.
func (t *Table) Periods() []int { return slices.Clone(t.periods) }

// Categories returns the table's categories in column order.
func (t *Table) Categories() []string { return slices.Clone(t.categories) }

// Value returns the summed metric for a cell, or 0.
func (t *Table) Value(period int, category string) float64 {
	return t.cells[period][category]
}

// Total returns the sum over all categories of a period.
func (t *Table) Total(period int) float64 {
	var total float64
	for _, c := range t.categories {
		total += t.cells[period][c]
	}
	return total
}

// Percentages returns a table of the same shape where every period row is
// normalized to percent of that period's total. A period whose total is zero
// yields 0 for every category.
func (t *Table) Percentages() *Table {
	out := &Table{
		periods:    slices.Clone(t.periods),
		categories: slices.Clone(t.categories),
		cells:      make(map[int]map[string]float64, len(t.periods)),
	}

	for _, p := range t.periods {
		total := t.Total(p)
		row := make(map[string]float64, len(t.categories))
		for _, c := range t.categories {
			row[c] = percent(t.cells[p][c], total)
		}
		out.cells[p] = row
	}

	return out
}

// Shares returns one period's row as shares sorted by total descending.
// ok is false when the table has no such period.
func (t *Table) Shares(period int) (shares []Share, ok bool) {
	row, ok := t.cells[period]
	if !ok {
		return []Share{}, false
	}

	total := t.Total(period)
	shares = make([]Share, 0, len(t.categories))
	for _, c := range t.categories {
		v, present := row[c]
		if !present {
			continue
		}
		shares = append(shares, Share{Category: c, Total: v, Percent: percent(v, total)})
	}

	sortShares(shares)
	return shares, true
}

// AveragePercent returns, for every category, the mean of its per-period
// percentage across all periods of the table.
func (t *Table) AveragePercent() map[string]float64 {
	avg := make(map[string]float64, len(t.categories))
	if len(t.periods) == 0 {
		return avg
	}

	pct := t.Percentages()
	for _, c := range t.categories {
		var sum float64
		for _, p := range pct.periods {
			sum += pct.cells[p][c]
		}
		avg[c] = sum / float64(len(pct.periods))
	}

	return avg
}

// SharesForPeriod groups the records of one period by category.
//
// When no record matches the period, the result is an empty slice and
// ok is false; callers report "no data" and carry on.
func SharesForPeriod(records []dataset.Record, period int) (shares []Share, ok bool) {
	scoped := Filter(records, func(r dataset.Record) bool { return r.Period == period })
	if len(scoped) == 0 {
		return []Share{}, false
	}

	// Pivot without Expected cannot fail.
	t, _ := Pivot(scoped, Options{})
	return t.Shares(period)
}

// Filter returns the records for which keep returns true.
func Filter(records []dataset.Record, keep func(dataset.Record) bool) []dataset.Record {
	var out []dataset.Record
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ThroughPeriod selects records whose period is at most last.
func ThroughPeriod(last int) func(dataset.Record) bool {
	return func(r dataset.Record) bool { return r.Period <= last }
}

// SumPercent adds up the percentages of a share list.
func SumPercent(shares []Share) float64 {
	var sum float64
	for _, s := range shares {
		sum += s.Percent
	}
	return sum
}

func percent(v, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return v / total * 100
}

func sortShares(shares []Share) {
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Total != shares[j].Total {
			return shares[i].Total > shares[j].Total
		}
		return shares[i].Category < shares[j].Category
	})
}
