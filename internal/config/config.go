// =============================================================================
// sharecharts - Configuration Module
// =============================================================================
//
// This module loads the application configuration. Every setting has a
// default, so running without a configuration file charts the embedded
// revenue and retention datasets.
//
// CONFIGURATION FILE (sharecharts.yaml):
//
//   output_dir: ./output
//   file_name_format: "{name}_{timestamp}"
//   log_level: info
//   chart:
//     width: 1000
//     height: 800
//   palette:
//     name: spectral
//     fallback: "#CCCCCC"
//   revenue:
//     years: [2015, 2023]
//     ranking_through: 2023
//   retention:
//     statuses: [Active, Churned]
//     base_color: "#4169E1"
//     alpha: 0.65
//   datasets:
//     revenue:
//       file: ./my_revenue.tsv
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/sharecharts/internal/palette"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// OutputDir is the directory where charts, workbooks and the run
	// summary are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// FileNameFormat defines the base name of every output artifact.
	// Placeholders:
	//   {name}      - Artifact name (e.g. "revenue_2015")
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	// Default: "{name}"
	FileNameFormat string `yaml:"file_name_format"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// Chart contains rendering settings shared by all charts.
	Chart ChartConfig `yaml:"chart"`

	// Palette selects the color source used for ranked categories.
	Palette PaletteConfig `yaml:"palette"`

	// Revenue contains settings for the revenue share analysis.
	Revenue RevenueConfig `yaml:"revenue"`

	// Retention contains settings for the cohort retention analysis.
	Retention RetentionConfig `yaml:"retention"`

	// Datasets optionally replaces an embedded dataset with a file on disk.
	// The key is the dataset name ("revenue" or "retention").
	Datasets map[string]DatasetConfig `yaml:"datasets"`
}

// ChartConfig contains chart rendering settings.
type ChartConfig struct {
	// Width is the chart width in pixels.
	// Default: 1000
	Width int `yaml:"width"`

	// Height is the chart height in pixels.
	// Default: 800
	Height int `yaml:"height"`

	// Disabled skips PNG rendering. Workbooks and summaries are still written.
	Disabled bool `yaml:"disabled"`
}

// PaletteConfig selects the continuous palette and fallback color.
type PaletteConfig struct {
	// Name is the continuous palette name ("spectral" or "viridis").
	// Default: "spectral"
	Name string `yaml:"name"`

	// Fallback is the hex color used for categories outside the ranking.
	// Default: "#CCCCCC"
	Fallback string `yaml:"fallback"`
}

// RevenueConfig contains settings for the revenue share analysis.
type RevenueConfig struct {
	// Years are the years that get a pie chart, in rendering order.
	// Default: [2015, 2023]
	Years []int `yaml:"years"`

	// RankingThrough is the last year included when ranking countries for
	// color assignment. The ranking scope may differ from the years rendered.
	// Default: 2023
	RankingThrough int `yaml:"ranking_through"`
}

// RetentionConfig contains settings for the cohort retention analysis.
type RetentionConfig struct {
	// Statuses is the expected, ordered list of customer statuses. Bars are
	// stacked in this order and an unexpected status fails the analysis.
	// Default: ["Active", "Churned"]
	Statuses []string `yaml:"statuses"`

	// BaseColor is the color of the first status. Every later status uses it
	// at Alpha.
	// Default: "#4169E1" (royalblue)
	BaseColor string `yaml:"base_color"`

	// Alpha is the opacity of the statuses after the first. An explicit 0
	// is kept.
	// Default: 0.65
	Alpha *float64 `yaml:"alpha"`
}

// DatasetConfig overrides an embedded dataset.
type DatasetConfig struct {
	// File is a tab-separated file with the same columns as the embedded data.
	File string `yaml:"file"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is not
//     an error; the defaults are returned instead.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file exists but cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.FileNameFormat == "" {
		cfg.FileNameFormat = "{name}"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1000
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 800
	}
	if cfg.Palette.Name == "" {
		cfg.Palette.Name = "spectral"
	}
	if cfg.Palette.Fallback == "" {
		cfg.Palette.Fallback = "#CCCCCC"
	}
	if len(cfg.Revenue.Years) == 0 {
		cfg.Revenue.Years = []int{2015, 2023}
	}
	if cfg.Revenue.RankingThrough == 0 {
		cfg.Revenue.RankingThrough = 2023
	}
	if len(cfg.Retention.Statuses) == 0 {
		cfg.Retention.Statuses = []string{"Active", "Churned"}
	}
	if cfg.Retention.BaseColor == "" {
		cfg.Retention.BaseColor = "#4169E1"
	}
	if cfg.Retention.Alpha == nil {
		alpha := 0.65
		cfg.Retention.Alpha = &alpha
	}
}

// Validate checks the configuration for values that cannot be used.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	if c.Chart.Width < 100 || c.Chart.Height < 100 {
		return fmt.Errorf("chart size %dx%d is too small", c.Chart.Width, c.Chart.Height)
	}

	if _, err := palette.ByName(c.Palette.Name); err != nil {
		return err
	}
	if _, err := palette.ParseHex(c.Palette.Fallback); err != nil {
		return fmt.Errorf("palette fallback: %w", err)
	}
	if _, err := palette.ParseHex(c.Retention.BaseColor); err != nil {
		return fmt.Errorf("retention base_color: %w", err)
	}

	if alpha := *c.Retention.Alpha; alpha < 0 || alpha > 1 {
		return fmt.Errorf("retention alpha %v must be within [0, 1]", alpha)
	}

	seen := make(map[string]bool, len(c.Retention.Statuses))
	for _, status := range c.Retention.Statuses {
		if status == "" {
			return fmt.Errorf("retention statuses must not contain empty names")
		}
		if seen[status] {
			return fmt.Errorf("duplicate retention status %q", status)
		}
		seen[status] = true
	}

	if !strings.Contains(c.FileNameFormat, "{name}") && !strings.Contains(c.FileNameFormat, "{uuid}") {
		// Without either placeholder every artifact would overwrite the last.
		return fmt.Errorf("file_name_format must contain {name} or {uuid}")
	}

	return nil
}

// DatasetFile returns the override file for a dataset, or "" to use the
// embedded data.
func (c *Config) DatasetFile(name string) string {
	if c.Datasets == nil {
		return ""
	}
	return c.Datasets[name].File
}
