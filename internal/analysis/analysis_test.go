package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ginjaninja78/sharecharts/internal/config"
	"github.com/ginjaninja78/sharecharts/internal/dataset"
	"github.com/ginjaninja78/sharecharts/pkg/utils"
)

func newRunner(t *testing.T, cfg *config.Config) (*Runner, *bytes.Buffer) {
	t.Helper()
	cfg.OutputDir = t.TempDir()
	fm := utils.NewFileManager(cfg.OutputDir, cfg.FileNameFormat)
	require.NoError(t, fm.EnsureDirectories())

	var out bytes.Buffer
	return New(cfg, zap.NewNop(), &out, fm), &out
}

func TestRevenue_ChartsAndSummary(t *testing.T) {
	cfg := config.Default()
	r, out := newRunner(t, cfg)

	result := r.Revenue([]int{2015, 2099, 2023})
	require.NoError(t, result.Error)
	assert.True(t, result.Success)

	assert.Equal(t, 80, result.Stats.RecordsLoaded)
	assert.Equal(t, 2, result.Stats.ScopesRendered)
	assert.Equal(t, []int{2099}, result.Stats.NoDataScopes)
	assert.Equal(t, []string{
		filepath.Join(cfg.OutputDir, "revenue_2015.png"),
		filepath.Join(cfg.OutputDir, "revenue_2023.png"),
		filepath.Join(cfg.OutputDir, "revenue.xlsx"),
	}, result.Artifacts)
	for _, path := range result.Artifacts {
		assert.FileExists(t, path)
	}

	text := out.String()
	assert.Contains(t, text, "Revenue Contribution for 2015:\nUS: ")
	assert.Contains(t, text, "(48.19%)")
	assert.Contains(t, text, "No data found for the year 2099.\n")
	assert.Contains(t, text, "Revenue Contribution for 2023:")
}

func TestRevenue_WorkbookColorsMatchAcrossYears(t *testing.T) {
	cfg := config.Default()
	cfg.Chart.Disabled = true
	r, _ := newRunner(t, cfg)

	result := r.Revenue([]int{2015, 2023})
	require.NoError(t, result.Error)
	require.Len(t, result.Artifacts, 1)

	f, err := excelize.OpenFile(result.Artifacts[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Revenue 2015", "Revenue 2023"}, f.GetSheetList())

	fills := func(sheet string) map[string]string {
		out := make(map[string]string)
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		for i, row := range rows[1:] {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			id, err := f.GetCellStyle(sheet, cell)
			require.NoError(t, err)
			style, err := f.GetStyle(id)
			require.NoError(t, err)
			require.NotEmpty(t, style.Fill.Color)
			out[row[0]] = style.Fill.Color[0]
		}
		return out
	}

	a, b := fills("Revenue 2015"), fills("Revenue 2023")
	for country, fill := range a {
		if other, ok := b[country]; ok {
			assert.Equal(t, fill, other, "color of %s changed between years", country)
		}
	}
}

func TestRevenueColors_RankingThroughConfiguredYear(t *testing.T) {
	cfg := config.Default()
	records, err := LoadRevenue(cfg)
	require.NoError(t, err)

	colors, err := RevenueColors(cfg, records)
	require.NoError(t, err)
	assert.Equal(t, []string{"US", "GB", "CA", "DE", "AU", "NL", "IT", "FR"}, colors.Labels())
	assert.Equal(t, "9E0142", colors.Lookup("US").RGBHex())
	assert.Equal(t, "CCCCCC", colors.Lookup("JP").RGBHex())
}

func TestRevenue_BadOverrideFile(t *testing.T) {
	cfg := config.Default()
	bad := filepath.Join(t.TempDir(), "revenue.tsv")
	require.NoError(t, os.WriteFile(bad, []byte("2015\tUS\t-1\n"), 0o644))
	cfg.Datasets = map[string]config.DatasetConfig{"revenue": {File: bad}}

	r, _ := newRunner(t, cfg)
	result := r.Revenue([]int{2015})

	assert.False(t, result.Success)
	assert.Error(t, result.Error)
	assert.Empty(t, result.Artifacts)
	assert.ErrorIs(t, result.Error, dataset.ErrNegativeMetric)
	assert.NotEmpty(t, result.Info().ErrorMessage)
}

func TestRevenue_ZeroTotalYearStillSummarized(t *testing.T) {
	cfg := config.Default()
	data := filepath.Join(t.TempDir(), "revenue.tsv")
	require.NoError(t, os.WriteFile(data, []byte(
		"2015\tUS\t10\n"+
			"2015\tDE\t5\n"+
			"2023\tUS\t0\n"+
			"2023\tDE\t0\n"), 0o644))
	cfg.Datasets = map[string]config.DatasetConfig{"revenue": {File: data}}

	r, out := newRunner(t, cfg)
	result := r.Revenue([]int{2015, 2023})

	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Stats.ScopesRendered)
	assert.Equal(t, 1, result.Stats.Warnings)
	assert.Equal(t, []string{
		filepath.Join(cfg.OutputDir, "revenue_2015.png"),
		filepath.Join(cfg.OutputDir, "revenue.xlsx"),
	}, result.Artifacts)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "revenue_2023.png"))

	text := out.String()
	assert.Contains(t, text, "Revenue Contribution for 2023:\n")
	assert.Contains(t, text, "US: 0.00 (0.00%)\n")
	assert.Contains(t, text, "DE: 0.00 (0.00%)\n")
}

func TestRetention_ChartsAndSummary(t *testing.T) {
	cfg := config.Default()
	r, out := newRunner(t, cfg)

	result := r.Retention()
	require.NoError(t, result.Error)
	assert.True(t, result.Success)
	assert.Equal(t, 18, result.Stats.RecordsLoaded)
	assert.Equal(t, 2, result.Stats.ScopesRendered)
	assert.Zero(t, result.Stats.Warnings)

	assert.Equal(t, []string{
		filepath.Join(cfg.OutputDir, "retention_counts.png"),
		filepath.Join(cfg.OutputDir, "retention_percent.png"),
		filepath.Join(cfg.OutputDir, "retention.xlsx"),
	}, result.Artifacts)

	text := out.String()
	assert.Contains(t, text, "2022 (total 9,010):\n  Active: 937 (10.40%)\n  Churned: 8,073 (89.60%)\n")
}

func TestRetention_MismatchedTotalsWarn(t *testing.T) {
	cfg := config.Default()
	cfg.Chart.Disabled = true
	data := filepath.Join(t.TempDir(), "retention.tsv")
	require.NoError(t, os.WriteFile(data, []byte(
		"2022\tActive\t937\t9999\t0.10\n"+
			"2022\tChurned\t8073\t9999\t0.90\n"), 0o644))
	cfg.Datasets = map[string]config.DatasetConfig{"retention": {File: data}}

	r, _ := newRunner(t, cfg)
	result := r.Retention()

	require.NoError(t, result.Error)
	assert.Equal(t, 1, result.Stats.Warnings)
}

func TestRetention_UnexpectedStatusFails(t *testing.T) {
	cfg := config.Default()
	data := filepath.Join(t.TempDir(), "retention.tsv")
	require.NoError(t, os.WriteFile(data, []byte("2022\tPaused\t10\t10\t1.0\n"), 0o644))
	cfg.Datasets = map[string]config.DatasetConfig{"retention": {File: data}}

	r, _ := newRunner(t, cfg)
	result := r.Retention()

	assert.False(t, result.Success)
	assert.ErrorContains(t, result.Error, "Paused")
}

func TestRetentionColors(t *testing.T) {
	colors, err := RetentionColors(config.Default())
	require.NoError(t, err)

	assert.Equal(t, "#4169e1", colors.Lookup("Active").String())
	assert.Equal(t, "#4169e1@0.65", colors.Lookup("Churned").String())
}

func TestRetentionColors_ZeroAlpha(t *testing.T) {
	cfg, err := config.Parse([]byte("retention: {alpha: 0, statuses: [Active, Churned, Paused]}"))
	require.NoError(t, err)

	colors, err := RetentionColors(cfg)
	require.NoError(t, err)

	assert.Equal(t, "#4169e1", colors.Lookup("Active").String())
	assert.Equal(t, "#4169e1@0.00", colors.Lookup("Churned").String())
	assert.Equal(t, "#4169e1@0.00", colors.Lookup("Paused").String())
}
