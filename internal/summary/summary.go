// Package summary prints the text breakdown that accompanies each chart.
//
// Numbers are grouped by thousands with golang.org/x/text so a revenue line
// reads "US: 3,885,990.92 (48.19%)".
package summary

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/sharecharts/internal/aggregate"
)

// Printer writes summaries to one output stream.
type Printer struct {
	p *message.Printer
	w io.Writer
}

// New returns a Printer writing English-formatted numbers to w.
func New(w io.Writer) *Printer {
	return &Printer{p: message.NewPrinter(language.English), w: w}
}

// Shares prints a heading followed by one "category: value (pct%)" line per
// share, in the order given.
func (pr *Printer) Shares(heading string, shares []aggregate.Share) error {
	if _, err := pr.p.Fprintf(pr.w, "\n%s:\n", heading); err != nil {
		return err
	}
	for _, s := range shares {
		if _, err := pr.p.Fprintf(pr.w, "%s: %.2f (%.2f%%)\n", s.Category, s.Total, s.Percent); err != nil {
			return err
		}
	}
	return nil
}

// Table prints a per-period breakdown. Values of counts are printed without
// decimals; each category line also carries its share of the period total.
//
//	2022 (total 9,010):
//	  Active: 937 (10.40%)
//	  Churned: 8,073 (89.60%)
func (pr *Printer) Table(heading string, table *aggregate.Table) error {
	if _, err := pr.p.Fprintf(pr.w, "\n%s:\n", heading); err != nil {
		return err
	}

	pct := table.Percentages()
	for _, period := range table.Periods() {
		// Periods are years, so they bypass digit grouping.
		if _, err := pr.p.Fprintf(pr.w, "%s (total %.0f):\n", strconv.Itoa(period), table.Total(period)); err != nil {
			return err
		}
		for _, c := range table.Categories() {
			_, err := pr.p.Fprintf(pr.w, "  %s: %.0f (%.2f%%)\n", c, table.Value(period, c), pct.Value(period, c))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// NoData prints the message for a period with no records.
func (pr *Printer) NoData(period int) error {
	_, err := fmt.Fprintf(pr.w, "No data found for the year %d.\n", period)
	return err
}
