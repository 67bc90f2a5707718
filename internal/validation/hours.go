package validation

import (
	"fmt"
	"math"

	"github.com/jonathan/course-planner/internal/types"
)

// hourToleranceFraction is how far the summed weekly hours may drift from
// the declared program total before a warning is raised.
const hourToleranceFraction = 0.15

// CheckHourTotals compares the sum of weekly hours against the declared
// program total. This is advisory only: a mismatch produces a warning
// string, never a validation issue, because generated plans routinely
// exclude self-paced and assessment hours from the weekly breakdown.
func CheckHourTotals(plan *types.TrainingPlan) (string, bool) {
	if plan == nil || plan.Duration.TotalHours <= 0 {
		return "", false
	}
	weekly := plan.TotalWeeklyHours()
	total := float64(plan.Duration.TotalHours)
	drift := math.Abs(weekly-total) / total
	if drift <= hourToleranceFraction {
		return "", false
	}
	return fmt.Sprintf("weekly hours sum to %.1f but the program declares %d total hours (%.0f%% drift)",
		weekly, plan.Duration.TotalHours, drift*100), true
}
