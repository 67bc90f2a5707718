// Package steps provides step definitions and dependency validation for the
// plan generation pipeline. A step counts as completed once its artifact has
// been stored for the run.
package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	dbpkg "github.com/jonathan/course-planner/internal/db"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	dbpkg.StepIntake: {
		Name:         dbpkg.StepIntake,
		Category:     dbpkg.CategoryIntake,
		Dependencies: []string{},
		Optional:     []string{},
	},
	dbpkg.StepUnitRefs: {
		Name:         dbpkg.StepUnitRefs,
		Category:     dbpkg.CategoryIntake,
		Dependencies: []string{dbpkg.StepIntake},
		Optional:     []string{},
	},
	dbpkg.StepPrompt: {
		Name:         dbpkg.StepPrompt,
		Category:     dbpkg.CategoryGeneration,
		Dependencies: []string{dbpkg.StepIntake},
		Optional:     []string{dbpkg.StepUnitRefs},
	},
	dbpkg.StepRawResponse: {
		Name:         dbpkg.StepRawResponse,
		Category:     dbpkg.CategoryGeneration,
		Dependencies: []string{dbpkg.StepPrompt},
		Optional:     []string{},
	},
	dbpkg.StepPhaseLog: {
		Name:         dbpkg.StepPhaseLog,
		Category:     dbpkg.CategoryGeneration,
		Dependencies: []string{dbpkg.StepPrompt},
		Optional:     []string{},
	},
	dbpkg.StepPlan: {
		Name:         dbpkg.StepPlan,
		Category:     dbpkg.CategoryValidation,
		Dependencies: []string{dbpkg.StepRawResponse},
		Optional:     []string{},
	},
	dbpkg.StepMarkdown: {
		Name:         dbpkg.StepMarkdown,
		Category:     dbpkg.CategoryExport,
		Dependencies: []string{dbpkg.StepPlan},
		Optional:     []string{},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.MissingDependencies)
}

// ValidateDependencies checks if all required dependencies for a step have
// stored artifacts for the run
func ValidateDependencies(ctx context.Context, db *dbpkg.DB, runID uuid.UUID, stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		content, err := db.GetArtifact(ctx, runID, dep)
		if err != nil {
			return fmt.Errorf("failed to check dependency %s: %w", dep, err)
		}
		if content == nil {
			missing = append(missing, dep)
		}
	}

	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	return nil
}

// GetAvailableSteps returns steps that can be executed for the run: not yet
// completed, with every dependency's artifact present
func GetAvailableSteps(ctx context.Context, db *dbpkg.DB, runID uuid.UUID) ([]string, error) {
	var available []string

	for stepName := range StepRegistry {
		existing, err := db.GetArtifact(ctx, runID, stepName)
		if err != nil {
			return nil, fmt.Errorf("failed to check step %s: %w", stepName, err)
		}
		if existing != nil {
			continue // Already completed
		}
		if err := ValidateDependencies(ctx, db, runID, stepName); err != nil {
			continue // Dependencies not met
		}
		available = append(available, stepName)
	}

	return available, nil
}
