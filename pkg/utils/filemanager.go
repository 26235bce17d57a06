// =============================================================================
// sharecharts - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the analyses, including:
//   - Output directory management
//   - Artifact naming from a configurable pattern
//   - Run summary log generation
//
// NAMING STRATEGY:
//   Every chart and workbook is written to the output directory under a name
//   built from FileNameFormat. The default "{name}" gives stable names such
//   as revenue_2015.png; adding {uuid} or {timestamp} keeps earlier runs.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager places analysis artifacts in the output directory.
type FileManager struct {
	// OutputDir is the directory where charts, workbooks and logs are placed.
	OutputDir string

	// FileNameFormat is the pattern passed to GenerateOutputFileName.
	FileNameFormat string
}

// NewFileManager creates a new FileManager for the given directory and pattern.
func NewFileManager(outputDir, fileNameFormat string) *FileManager {
	return &FileManager{
		OutputDir:      outputDir,
		FileNameFormat: fileNameFormat,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory if it doesn't exist.
//
// RETURNS:
//   - An error if the directory cannot be created.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// =============================================================================
// ARTIFACT OUTPUT
// =============================================================================

// OutputPath returns the full path for an artifact.
//
// PARAMETERS:
//   - name: The artifact's logical name (e.g., "revenue_2015").
//   - ext:  The file extension including the dot (e.g., ".png").
func (fm *FileManager) OutputPath(name, ext string) string {
	fileName := GenerateOutputFileName(fm.FileNameFormat, map[string]string{"name": name}, ext)
	return filepath.Join(fm.OutputDir, fileName)
}

// WriteArtifact creates an artifact file and hands it to render.
//
// PARAMETERS:
//   - name:   The artifact's logical name.
//   - ext:    The file extension including the dot.
//   - render: Writes the artifact's content.
//
// RETURNS:
//   - The path to the written file.
//   - An error if the file cannot be created or render fails. A partially
//     written file is removed.
func (fm *FileManager) WriteArtifact(name, ext string, render func(w io.Writer) error) (string, error) {
	path := fm.OutputPath(name, ext)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	writer := bufio.NewWriter(file)
	if err := render(writer); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to flush %s: %w", path, err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	return path, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {name}      - The artifact's logical name
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//   - params: A map of placeholder values.
//   - ext:    The extension appended when the name doesn't already end in it.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "{name}_{timestamp}"
//   params: {"name": "retention_counts"}
//   output: "retention_counts_20240115_143022.png"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about one command invocation.
type RunSummary struct {
	StartTime time.Time
	EndTime   time.Time
	Analyses  []AnalysisInfo
}

// AnalysisInfo describes one analysis within a run.
type AnalysisInfo struct {
	Name         string
	Success      bool
	ErrorMessage string
	Records      int
	Scopes       int
	NoDataScopes []int
	Warnings     int
	Artifacts    []string
	ProcessTime  time.Duration
}

// Failed returns the number of analyses that did not succeed.
func (s RunSummary) Failed() int {
	n := 0
	for _, a := range s.Analyses {
		if !a.Success {
			n++
		}
	}
	return n
}

// WriteSummaryLog writes a run summary to a log file.
//
// PARAMETERS:
//   - summary: The run summary.
//   - outputDir: The directory to write the summary file.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func WriteSummaryLog(summary RunSummary, outputDir string) (string, error) {
	timestamp := summary.StartTime.Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("run_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "sharecharts - Run Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Analyses:       %d\n"+
		"  Successful:     %d\n"+
		"  Failed:         %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		len(summary.Analyses),
		len(summary.Analyses)-summary.Failed(),
		summary.Failed())

	for _, a := range summary.Analyses {
		fmt.Fprintf(writer, "Analysis: %s\n", a.Name)
		writer.WriteString("--------------------------------------------------------------------------------\n")
		if !a.Success {
			fmt.Fprintf(writer, "  Error:        %s\n\n", a.ErrorMessage)
			continue
		}
		fmt.Fprintf(writer, "  Records:      %d\n", a.Records)
		fmt.Fprintf(writer, "  Scopes:       %d\n", a.Scopes)
		if len(a.NoDataScopes) > 0 {
			fmt.Fprintf(writer, "  No Data:      %v\n", a.NoDataScopes)
		}
		if a.Warnings > 0 {
			fmt.Fprintf(writer, "  Warnings:     %d\n", a.Warnings)
		}
		for _, artifact := range a.Artifacts {
			fmt.Fprintf(writer, "  Artifact:     %s\n", artifact)
		}
		fmt.Fprintf(writer, "  Process Time: %s\n\n", a.ProcessTime.String())
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}
