package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedRevenue(t *testing.T) {
	records, err := Load(Revenue, "")
	require.NoError(t, err)

	require.Len(t, records, 80)
	assert.Equal(t, Record{Period: 2018, Category: "AU", Metric: 1497129.3626000015}, records[0])
	assert.Equal(t, []string{"AU", "CA", "DE", "FR", "GB", "IT", "NL", "US"}, Categories(records))
}

func TestLoad_EmbeddedRetention(t *testing.T) {
	records, err := Load(Retention, "")
	require.NoError(t, err)

	require.Len(t, records, 18)
	assert.Equal(t, Record{Period: 2015, Category: "Active", Metric: 237, ReportedTotal: 2825}, records[0])
	assert.Equal(t, []string{"Active", "Churned"}, Categories(records))
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revenue.tsv")
	require.NoError(t, os.WriteFile(path, []byte("2030\tXX\t10\n2030\tYY\t30\n"), 0644))

	records, err := Load(Revenue, path)
	require.NoError(t, err)

	want := []Record{
		{Period: 2030, Category: "XX", Metric: 10},
		{Period: 2030, Category: "YY", Metric: 30},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingOverrideFile(t *testing.T) {
	_, err := Load(Revenue, filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}

func TestParse_SkipsBlankLinesAndTrims(t *testing.T) {
	input := "\n2015\t AU \t1.5\n\n2016\tCA\t2\n"

	records, err := Parse(strings.NewReader(input), RevenueLayout)
	require.NoError(t, err)

	want := []Record{
		{Period: 2015, Category: "AU", Metric: 1.5},
		{Period: 2016, Category: "CA", Metric: 2},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_CommaDelimiter(t *testing.T) {
	layout := RevenueLayout
	layout.Delimiter = "comma"

	records, err := Parse(strings.NewReader("2015,AU,3\n"), layout)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "AU", records[0].Category)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		layout     Layout
		wantLine   int
		wantColumn int
	}{
		{"bad year", "20x5\tAU\t1\n", RevenueLayout, 1, 0},
		{"empty category", "2015\t\t1\n", RevenueLayout, 1, 1},
		{"bad metric", "2015\tAU\t1\n2016\tAU\tlots\n", RevenueLayout, 2, 2},
		{"negative metric", "2015\tAU\t-4\n", RevenueLayout, 1, 2},
		{"too few columns", "2015\tAU\n", RevenueLayout, 1, -1},
		{"missing total", "2015\tActive\t237\n", RetentionLayout, 1, -1},
		{"bad total", "2015\tActive\t237\tmany\t0.08\n", RetentionLayout, 1, 3},
		{"missing metric", "2015\tActive\t\t2825\t0.08\n", RetentionLayout, 1, 2},
		{"missing category mid file", "2015\tAU\t1\n2016\t\t2\n", RevenueLayout, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), tt.layout)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Equal(t, tt.wantColumn, pe.Column)
		})
	}
}

func TestParse_NegativeMetricIsWrapped(t *testing.T) {
	_, err := Parse(strings.NewReader("2015\tAU\t-4\n"), RevenueLayout)
	assert.ErrorIs(t, err, ErrNegativeMetric)
}

func TestParse_EmptyFieldDoesNotShiftColumns(t *testing.T) {
	records, err := Parse(strings.NewReader("2015\tActive\t\t2825\t0.08\n"), RetentionLayout)

	assert.Nil(t, records)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, RetentionLayout.MetricColumn, pe.Column)
	assert.Equal(t, "", pe.Value)
}
