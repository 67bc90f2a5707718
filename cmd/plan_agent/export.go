package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	exportRunID  string
	exportDBURL  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a stored plan to a document",
	Long: `Export the validated plan from a previous run to a document file.

Reads the plan from the database, so a database connection is required.
Supported formats: markdown, html, docx, json.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportRunID, "run-id", "", "Run ID whose plan to export")
	exportCmd.Flags().StringVar(&exportDBURL, "db-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "markdown", "Export format (markdown, html, docx, json)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "out", "Output directory")
	if err := exportCmd.MarkFlagRequired("run-id"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	runID, err := uuid.Parse(exportRunID)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", exportRunID, err)
	}

	databaseURL := exportDBURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (use --db-url or set DATABASE_URL)")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	plan, err := database.GetPlanByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load plan for run %s: %w", runID, err)
	}

	path, err := pipeline.ExportPlan(plan, exportFormat, exportOut)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("Exported plan to %s\n", path)
	return nil
}
