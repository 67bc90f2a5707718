package planner

import (
	"fmt"

	"github.com/jonathan/course-planner/internal/types"
)

// ExhaustedError is returned when every attempt produced an invalid plan.
// Issues holds the violations from the final attempt only; earlier attempt
// output is assumed strictly less informed and is not aggregated.
type ExhaustedError struct {
	Attempts int
	Issues   types.Issues
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no valid plan after %d attempts (%d issues outstanding)", e.Attempts, len(e.Issues))
}

// TimeoutError is returned when a run exceeds its wall-clock budget.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("planning run timed out: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}
