package aggregate

import (
	"fmt"
	"sort"

	"github.com/ginjaninja78/sharecharts/internal/dataset"
)

// Rank orders the table's categories by average annual percentage,
// largest first. Equal averages are ordered by label so the ranking never
// depends on map iteration.
func Rank(t *Table) []string {
	avg := t.AveragePercent()

	order := t.Categories()
	sort.SliceStable(order, func(i, j int) bool {
		if avg[order[i]] != avg[order[j]] {
			return avg[order[i]] > avg[order[j]]
		}
		return order[i] < order[j]
	})

	return order
}

// RankThrough pivots the records up to and including period last and ranks
// the categories found there.
func RankThrough(records []dataset.Record, last int) ([]string, error) {
	scoped := Filter(records, ThroughPeriod(last))
	if len(scoped) == 0 {
		return nil, fmt.Errorf("no records at or before period %d to rank", last)
	}

	t, err := Pivot(scoped, Options{})
	if err != nil {
		return nil, err
	}

	return Rank(t), nil
}

// Mismatch reports a period whose source rows carry a total that disagrees
// with the sum of its categories.
type Mismatch struct {
	Period     int
	Reported   float64
	Aggregated float64
}

// CheckReportedTotals compares each record's ReportedTotal against the
// aggregated period total. Records without a reported total are ignored.
func CheckReportedTotals(records []dataset.Record, t *Table, tolerance float64) []Mismatch {
	var out []Mismatch
	flagged := make(map[int]bool)

	for _, r := range records {
		if r.ReportedTotal == 0 || flagged[r.Period] {
			continue
		}
		got := t.Total(r.Period)
		if diff := got - r.ReportedTotal; diff > tolerance || diff < -tolerance {
			flagged[r.Period] = true
			out = append(out, Mismatch{Period: r.Period, Reported: r.ReportedTotal, Aggregated: got})
		}
	}

	return out
}
