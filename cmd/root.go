// =============================================================================
// sharecharts - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sharecharts)
//   ├── revenueCmd   (sharecharts revenue)
//   ├── retentionCmd (sharecharts retention)
//   ├── allCmd       (sharecharts all)
//   ├── paletteCmd   (sharecharts palette)
//   └── versionCmd   (sharecharts version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --output-dir)
//   2. Loading the YAML configuration
//   3. Setting up logging (zap, on stderr)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/sharecharts/internal/analysis"
	"github.com/ginjaninja78/sharecharts/internal/config"
	"github.com/ginjaninja78/sharecharts/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// outputDir overrides output_dir from the configuration when set.
var outputDir string

// cfg is the configuration loaded in PersistentPreRunE.
var cfg *config.Config

// logger is built in PersistentPreRunE and synced in PersistentPostRun.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "sharecharts",
	Short: "sharecharts - Category share charts with consistent colors",
	Long: `sharecharts renders share-of-total charts from small tabular datasets and
keeps every category's color identical across all charts of an analysis.

Analyses:
  - revenue:   pie charts of revenue share by country for selected years
  - retention: stacked bar charts of active/churned customers by cohort year

Each analysis writes PNG charts and an XLSX workbook to the output directory
and prints a text summary.

Example Usage:
  sharecharts revenue                      # Pies for the configured years
  sharecharts revenue --years 2015,2020    # Pies for specific years
  sharecharts all --output-dir ./charts    # Both analyses into ./charts
  sharecharts palette                      # Show the country color map`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if outputDir != "" {
			cfg.OutputDir = outputDir
		}

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Debug("configuration loaded",
			zap.String("config", cfgFile),
			zap.String("output_dir", cfg.OutputDir),
			zap.String("palette", cfg.Palette.Name))
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"sharecharts.yaml",
		"Path to the configuration file (missing file means defaults)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVarP(
		&outputDir,
		"output-dir",
		"o",
		"",
		"Directory for charts, workbooks and the run summary (overrides output_dir)",
	)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newLogger builds a production zap logger at the configured level.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = lvl
	if debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return zcfg.Build()
}

// runAnalyses prepares the output directory, runs each analysis in order,
// writes the run summary log and reports failures.
//
// PARAMETERS:
//   - cmd: The running command; summaries go to its output stream.
//   - steps: The analyses to run, each returning its Result.
//
// RETURNS:
//   - An error if the output directory is unusable or any analysis failed.
func runAnalyses(cmd *cobra.Command, steps ...func(r *analysis.Runner) analysis.Result) error {
	fm := utils.NewFileManager(cfg.OutputDir, cfg.FileNameFormat)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}

	runner := analysis.New(cfg, logger, cmd.OutOrStdout(), fm)
	run := utils.RunSummary{StartTime: time.Now()}

	var errs []error
	for _, step := range steps {
		result := step(runner)
		run.Analyses = append(run.Analyses, result.Info())

		if !result.Success {
			logger.Error("analysis failed", zap.String("analysis", result.Name), zap.Error(result.Error))
			errs = append(errs, fmt.Errorf("%s: %w", result.Name, result.Error))
			continue
		}

		logger.Info("analysis complete",
			zap.String("analysis", result.Name),
			zap.Int("artifacts", len(result.Artifacts)),
			zap.Ints("no_data", result.Stats.NoDataScopes),
			zap.Duration("elapsed", result.Stats.ProcessingTime))
	}

	run.EndTime = time.Now()
	summaryPath, err := utils.WriteSummaryLog(run, cfg.OutputDir)
	if err != nil {
		logger.Warn("failed to write run summary", zap.Error(err))
	} else {
		logger.Debug("wrote run summary", zap.String("path", summaryPath))
	}

	return errors.Join(errs...)
}
