package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/course-planner/internal/config"
	"github.com/jonathan/course-planner/internal/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a training plan from an intake record",
	Long: `Runs the full planning pipeline: intake loading -> catalogue ingestion -> plan generation with verification and repair -> document export.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath   string
	genIntake       string
	genCatalogueURL string
	genModel        string
	genMaxAttempts  int
	genTimeout      int
	genReflect      bool
	genOutDir       string
	genFormat       string
	genAPIKey       string
	genUseBrowser   bool
	genVerbose      bool
	genDatabaseURL  string
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genIntake, "intake", "i", "", "Path to intake JSON file")
	generateCmd.Flags().StringVar(&genCatalogueURL, "catalogue-url", "", "Unit catalogue URL to ingest (overrides the intake's URL)")
	generateCmd.Flags().StringVarP(&genModel, "model", "m", "", "Model tier: lite, standard or advanced")
	generateCmd.Flags().IntVar(&genMaxAttempts, "max-attempts", 0, "Generation attempt budget")
	generateCmd.Flags().IntVar(&genTimeout, "timeout", 0, "Wall-clock timeout in seconds for the whole run")
	generateCmd.Flags().BoolVar(&genReflect, "reflect", false, "Enable the advisory reflection pass between generation and verification")
	generateCmd.Flags().StringVarP(&genOutDir, "out", "o", "", "Output directory for the exported document")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "", "Export format: markdown, html, docx or json")
	generateCmd.Flags().BoolVar(&genUseBrowser, "use-browser", false, "Use headless browser for script-rendered catalogues (requires Chrome)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	generateCmd.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if genVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", genConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("intake") {
		cfg.Intake = genIntake
	}
	if cmd.Flags().Changed("catalogue-url") {
		cfg.CatalogueURL = genCatalogueURL
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = genModel
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts = genMaxAttempts
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = genTimeout
	}
	if cmd.Flags().Changed("reflect") {
		cfg.Reflect = genReflect
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = genOutDir
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = genFormat
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = genUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Model:  "standard",
		OutDir: "out",
		Format: "markdown",
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate required fields
	if cfg.Intake == "" {
		return fmt.Errorf("--intake must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 5: API Key handling
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	// Step 6: Database URL is optional; runs without it skip persistence
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	opts := pipeline.RunOptions{
		IntakePath:   cfg.Intake,
		CatalogueURL: cfg.CatalogueURL,
		Model:        cfg.Model,
		MaxAttempts:  cfg.MaxAttempts,
		Timeout:      time.Duration(cfg.TimeoutSeconds) * time.Second,
		Reflect:      cfg.Reflect,
		OutDir:       cfg.OutDir,
		Format:       cfg.Format,
		APIKey:       cfg.APIKey,
		UseBrowser:   cfg.UseBrowser,
		Verbose:      cfg.Verbose,
		DatabaseURL:  cfg.DatabaseURL,
	}

	return pipeline.RunPipeline(ctx, opts)
}
