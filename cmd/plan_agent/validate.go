package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/course-planner/internal/observability"
	"github.com/jonathan/course-planner/internal/schemas"
	"github.com/jonathan/course-planner/internal/types"
	"github.com/jonathan/course-planner/internal/validation"
	"github.com/spf13/cobra"
)

var (
	validateSchema string
	validateJSON   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against an embedded schema",
	Long: `Validate a JSON document against one of the embedded schemas.

Supported schemas: plan, intake. Plan documents are additionally checked
against the structural rules the generation pipeline enforces.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Schema to validate against (plan or intake)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON document")
	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(err)
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	var schemaName string
	switch validateSchema {
	case "plan":
		schemaName = schemas.PlanSchema
	case "intake":
		schemaName = schemas.IntakeSchema
	default:
		return fmt.Errorf("unknown schema %q (expected plan or intake)", validateSchema)
	}

	if err := schemas.ValidateFile(schemaName, validateJSON); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed:\n%v\n", err)
		os.Exit(1)
	}

	if validateSchema == "plan" {
		raw, err := os.ReadFile(validateJSON)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", validateJSON, err)
		}
		plan, issues := validation.ValidateJSON(raw)
		if len(issues) > 0 {
			fmt.Fprintln(os.Stderr, "Validation failed:")
			observability.NewPrinter(os.Stderr).PrintIssues(issues)
			os.Exit(1)
		}
		printHourDriftWarning(os.Stdout, plan)
	}

	fmt.Println("Validation passed")
	return nil
}

// printHourDriftWarning reports the advisory hour-total check. Drift never
// fails validation, it only warns.
func printHourDriftWarning(w io.Writer, plan *types.TrainingPlan) {
	if note, drifted := validation.CheckHourTotals(plan); drifted {
		fmt.Fprintf(w, "Warning: %s\n", note)
	}
}
