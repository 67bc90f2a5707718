// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ExportFormats are the accepted values for the export format setting.
var ExportFormats = []string{"markdown", "html", "docx", "json"}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Intake       string `json:"intake,omitempty"`        // Path to intake JSON file
	CatalogueURL string `json:"catalogue_url,omitempty"` // Unit catalogue URL to ingest

	// Generation
	APIKey         string `json:"api_key,omitempty"`         // Gemini API key
	Model          string `json:"model,omitempty"`           // Model tier: lite, standard, advanced
	MaxAttempts    int    `json:"max_attempts,omitempty"`    // Orchestrator attempt budget
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Wall-clock bound per run
	Reflect        bool   `json:"reflect,omitempty"`         // Enable the advisory reflection pass

	// Output
	OutDir string `json:"out_dir,omitempty"` // Directory for exported documents
	Format string `json:"format,omitempty"`  // Export format: markdown, html, docx, json

	// Behavior
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for script-rendered catalogues
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are not checked here since those are handled by CLI flag validation after
// merging.
func (c *Config) Validate() error {
	if c.MaxAttempts < 0 || c.MaxAttempts > 10 {
		return fmt.Errorf("config error: 'max_attempts' must be between 0 and 10")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}

	if c.Format != "" && !isExportFormat(c.Format) {
		return fmt.Errorf("config error: unknown format %q (expected one of %v)", c.Format, ExportFormats)
	}

	if c.Model != "" {
		switch c.Model {
		case "lite", "standard", "advanced":
		default:
			return fmt.Errorf("config error: unknown model tier %q", c.Model)
		}
	}

	if c.Intake != "" {
		if _, err := os.Stat(c.Intake); os.IsNotExist(err) {
			return fmt.Errorf("config error: intake file not found: %s", c.Intake)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Intake == "" {
		result.Intake = defaults.Intake
	}
	if result.CatalogueURL == "" {
		result.CatalogueURL = defaults.CatalogueURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.OutDir == "" {
		result.OutDir = defaults.OutDir
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func isExportFormat(format string) bool {
	for _, f := range ExportFormats {
		if f == format {
			return true
		}
	}
	return false
}
