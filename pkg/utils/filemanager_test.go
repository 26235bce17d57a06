package utils

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputFileName(t *testing.T) {
	tests := []struct {
		name   string
		format string
		ext    string
		want   *regexp.Regexp
	}{
		{"name only", "{name}", ".png", regexp.MustCompile(`^revenue_2015\.png$`)},
		{"extension already present", "{name}.png", ".png", regexp.MustCompile(`^revenue_2015\.png$`)},
		{"timestamp", "{name}_{timestamp}", ".xlsx", regexp.MustCompile(`^revenue_2015_\d{8}_\d{6}\.xlsx$`)},
		{"uuid", "{uuid}", ".png", regexp.MustCompile(`^[0-9a-f-]{36}\.png$`)},
		{"no extension", "{name}", "", regexp.MustCompile(`^revenue_2015$`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateOutputFileName(tt.format, map[string]string{"name": "revenue_2015"}, tt.ext)
			assert.Regexp(t, tt.want, got)
		})
	}
}

func TestWriteArtifact(t *testing.T) {
	fm := NewFileManager(filepath.Join(t.TempDir(), "out"), "{name}")
	require.NoError(t, fm.EnsureDirectories())

	path, err := fm.WriteArtifact("chart", ".png", func(w io.Writer) error {
		_, err := io.WriteString(w, "data")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.OutputDir, "chart.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestWriteArtifact_RenderFailureRemovesFile(t *testing.T) {
	fm := NewFileManager(t.TempDir(), "{name}")
	boom := errors.New("boom")

	_, err := fm.WriteArtifact("broken", ".png", func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, fm.OutputPath("broken", ".png"))
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	path, err := WriteSummaryLog(RunSummary{
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Analyses: []AnalysisInfo{
			{Name: "revenue", Success: true, Records: 80, Scopes: 2, NoDataScopes: []int{2099}, Artifacts: []string{"revenue_2015.png"}},
			{Name: "retention", ErrorMessage: "parse failed"},
		},
	}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run_summary_20240115_143022.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Successful:     1")
	assert.Contains(t, text, "Failed:         1")
	assert.Contains(t, text, "No Data:      [2099]")
	assert.Contains(t, text, "Artifact:     revenue_2015.png")
	assert.Contains(t, text, "Error:        parse failed")
	assert.True(t, strings.HasSuffix(text, "End of Summary\n"))
}
