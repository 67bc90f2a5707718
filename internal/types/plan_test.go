package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalWeeklyHours(t *testing.T) {
	plan := TrainingPlan{
		WeeklyPlan: []WeeklyEntry{
			{Week: 1, Hours: 20},
			{Week: 2, Hours: 17.5},
			{Week: 3, Hours: 22.5},
		},
	}
	assert.InDelta(t, 60.0, plan.TotalWeeklyHours(), 0.001)
}

func TestTotalWeeklyHoursEmpty(t *testing.T) {
	var plan TrainingPlan
	assert.Zero(t, plan.TotalWeeklyHours())
}

func TestPlanResultSucceeded(t *testing.T) {
	ok := PlanResult{Plan: &TrainingPlan{}}
	assert.True(t, ok.Succeeded())

	failed := PlanResult{Issues: Issues{{Path: "units", Message: "is required"}}}
	assert.False(t, failed.Succeeded())
}
