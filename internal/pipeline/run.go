// Package pipeline provides the high-level orchestration for the plan generation process.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/course-planner/internal/db"
	"github.com/jonathan/course-planner/internal/ingestion"
	"github.com/jonathan/course-planner/internal/llm"
	"github.com/jonathan/course-planner/internal/observability"
	"github.com/jonathan/course-planner/internal/planner"
	"github.com/jonathan/course-planner/internal/rendering"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	IntakePath   string
	IntakeData   *types.IntakeRecord // When set, IntakePath is ignored
	RunID        uuid.UUID           // When set, the database run and progress events carry this ID
	CatalogueURL string
	APIKey       string
	Model        string // lite, standard or advanced
	MaxAttempts  int
	Timeout      time.Duration
	Reflect      bool
	OutDir       string
	Format       string
	UseBrowser   bool
	Verbose      bool
	DatabaseURL  string
	Client       llm.Client // Overrides APIKey when set; used by the server and tests
	OnProgress   ProgressCallback
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.OnProgress == nil {
		return
	}
	event := ProgressEvent{
		Step:     step,
		Category: category,
		Message:  message,
		Content:  content,
	}
	if opts.RunID != uuid.Nil {
		event.RunID = opts.RunID.String()
	}
	opts.OnProgress(event)
}

// loadIntake resolves the intake record from direct data or from a JSON file.
// File intakes pass the structural schema check before decoding so malformed
// files fail with field-level messages instead of decode errors.
func loadIntake(opts *RunOptions) (*types.IntakeRecord, error) {
	if opts.IntakeData != nil {
		return opts.IntakeData, nil
	}
	raw, err := os.ReadFile(opts.IntakePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read intake file: %w", err)
	}
	if err := schemas.Validate(schemas.IntakeSchema, raw); err != nil {
		return nil, fmt.Errorf("intake file is invalid: %w", err)
	}
	var intake types.IntakeRecord
	if err := json.Unmarshal(raw, &intake); err != nil {
		return nil, fmt.Errorf("failed to parse intake file: %w", err)
	}
	return &intake, nil
}

// RunPipeline orchestrates the full plan generation pipeline
func RunPipeline(ctx context.Context, opts RunOptions) error {

	// Initialize observability printer for verbose output
	printer := observability.NewPrinter(os.Stdout)

	// Initialize database connection if configured
	var database *db.DB
	var runID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without database persistence...\n")
		} else {
			defer database.Close()
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Connected to database\n")
			}
		}
	}

	// Step 1: Load and validate the intake record
	fmt.Printf("Step 1/5: Loading intake record...\n")
	intake, err := loadIntake(&opts)
	if err != nil {
		return fmt.Errorf("intake loading failed: %w", err)
	}
	intake.Normalize()
	if err := intake.Validate(); err != nil {
		return fmt.Errorf("intake validation failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintIntake(intake)
	}
	emitProgress(&opts, db.StepIntake, db.CategoryIntake,
		fmt.Sprintf("Loaded intake for %s (%s)", intake.QualificationName, intake.QualificationCode), intake)

	// Save to database if connected
	if database != nil {
		if opts.RunID != uuid.Nil {
			runID = opts.RunID
			err = database.CreateRunWithID(ctx, runID, intake.QualificationName, intake.QualificationCode, intake.DeliveryMode)
		} else {
			runID, err = database.CreateRun(ctx, intake.QualificationName, intake.QualificationCode, intake.DeliveryMode)
		}
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
			runID = uuid.Nil
		} else {
			if opts.Verbose {
				fmt.Printf("[VERBOSE] Created database run: %s\n", runID)
			}
			_ = database.SaveArtifact(ctx, runID, db.StepIntake, db.CategoryIntake, intake)
		}
	}

	// Step 2: Ingest the unit catalogue when a URL is available
	catalogueURL := opts.CatalogueURL
	if catalogueURL == "" {
		catalogueURL = intake.UnitCatalogueURL
	}
	if catalogueURL != "" {
		fmt.Printf("Step 2/5: Ingesting unit catalogue from %s...\n", catalogueURL)
		_, refs, err := ingestion.IngestCatalogueURL(ctx, database, catalogueURL, opts.UseBrowser, opts.Verbose)
		if err != nil {
			fmt.Printf("Warning: Catalogue ingestion failed: %v\n", err)
			fmt.Printf("Continuing with the intake's own unit list...\n")
		} else {
			intake.UnitListText = ingestion.FormatForPrompt(refs)
			emitProgress(&opts, db.StepUnitRefs, db.CategoryIntake,
				fmt.Sprintf("Extracted %d unit references from catalogue", len(refs)), refs)
			if database != nil && runID != uuid.Nil {
				_ = database.SaveArtifact(ctx, runID, db.StepUnitRefs, db.CategoryIntake, refs)
			}
		}
	} else {
		fmt.Printf("Step 2/5: No unit catalogue URL, using intake unit list.\n")
	}

	// Step 3: Generate the plan through the repair loop
	client := opts.Client
	if client == nil {
		geminiClient, err := llm.NewGeminiClient(ctx, nil, opts.APIKey)
		if err != nil {
			failRun(ctx, database, runID)
			return fmt.Errorf("failed to create generation client: %w", err)
		}
		defer func() { _ = geminiClient.Close() }()
		client = geminiClient
	}
	orchestrator := planner.New(client, planner.Options{
		MaxAttempts: opts.MaxAttempts,
		Timeout:     opts.Timeout,
		Reflect:     opts.Reflect,
		Tier:        llm.ModelTier(opts.Model),
	})

	fmt.Printf("Step 3/5: Generating training plan...\n")
	if database != nil && runID != uuid.Nil {
		_ = database.SaveTextArtifact(ctx, runID, db.StepPrompt, db.CategoryGeneration, planner.BuildPrompt(intake, ""))
	}
	emitProgress(&opts, db.StepPrompt, db.CategoryGeneration, "Submitted generation prompt", nil)

	result, err := orchestrator.Run(ctx, intake)
	if result != nil {
		if opts.Verbose {
			printer.PrintPhaseLog(result.Log)
		}
		if database != nil && runID != uuid.Nil {
			if result.RawOutput != "" {
				_ = database.SaveTextArtifact(ctx, runID, db.StepRawResponse, db.CategoryGeneration, result.RawOutput)
			}
			_ = database.SaveArtifact(ctx, runID, db.StepPhaseLog, db.CategoryGeneration, result.Log)
		}
	}
	if err != nil {
		if result != nil && len(result.Issues) > 0 {
			printer.PrintIssues(result.Issues)
		}
		failRun(ctx, database, runID)
		return fmt.Errorf("plan generation failed: %w", err)
	}
	plan := result.Plan

	// Step 4: Report the validated plan
	fmt.Printf("Step 4/5: Plan validated after %d attempt(s).\n", result.Attempts)
	if opts.Verbose {
		printer.PrintPlan(plan)
	}
	if len(result.Warnings) > 0 {
		printer.PrintWarnings(result.Warnings)
	}
	emitProgress(&opts, db.StepPlan, db.CategoryValidation,
		fmt.Sprintf("Validated plan: %d weeks, %d units", len(plan.WeeklyPlan), len(plan.Units)), plan)
	if database != nil && runID != uuid.Nil {
		_ = database.SaveArtifact(ctx, runID, db.StepPlan, db.CategoryValidation, plan)
		if _, err := database.SavePlan(ctx, runID, plan, result.Attempts); err != nil {
			fmt.Printf("Warning: Failed to save plan history: %v\n", err)
		}
	}

	// Step 5: Export the document
	format := opts.Format
	if format == "" {
		format = "markdown"
	}
	fmt.Printf("Step 5/5: Exporting %s document...\n", format)
	outPath, err := ExportPlan(plan, format, opts.OutDir)
	if err != nil {
		failRun(ctx, database, runID)
		return fmt.Errorf("exporting plan failed: %w", err)
	}
	emitProgress(&opts, db.StepMarkdown, db.CategoryExport,
		fmt.Sprintf("Exported plan to %s", outPath), nil)

	// The markdown rendering is always stored as the run's document artifact,
	// whatever format was written to disk.
	if database != nil && runID != uuid.Nil {
		if md, err := rendering.RenderMarkdown(plan); err == nil {
			_ = database.SaveTextArtifact(ctx, runID, db.StepMarkdown, db.CategoryExport, md)
		}
		_ = database.CompleteRun(ctx, runID, db.RunStatusCompleted)
	}

	fmt.Printf("Done! Plan written to %s\n", outPath)
	return nil
}

// failRun marks the database run as failed, best effort.
func failRun(ctx context.Context, database *db.DB, runID uuid.UUID) {
	if database != nil && runID != uuid.Nil {
		_ = database.CompleteRun(ctx, runID, db.RunStatusFailed)
	}
}
