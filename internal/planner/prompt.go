// Package planner owns the plan generation loop: it builds prompts from an
// intake record, calls the generation client, validates the candidate plan
// and re-prompts with the collected violations until a plan passes or the
// attempt budget runs out.
package planner

import (
	"fmt"
	"strings"

	"github.com/jonathan/course-planner/internal/prompts"
	"github.com/jonathan/course-planner/internal/types"
)

const promptFile = "planning.json"

// BuildPrompt composes the full generation prompt for an intake record.
// Deterministic and pure: the same intake and priorError always produce the
// same string. A non-empty priorError appends a corrections section telling
// the generator to fix exactly those issues and nothing else.
func BuildPrompt(intake *types.IntakeRecord, priorError string) string {
	prompt := prompts.Format(prompts.MustGet(promptFile, "generate-plan"), map[string]string{
		"IntakeBlock": intakeBlock(intake),
	})
	if priorError != "" {
		prompt += prompts.Format(prompts.MustGet(promptFile, "repair-suffix"), map[string]string{
			"PriorError": priorError,
		})
	}
	return prompt
}

// SystemPrompt returns the system instruction for plan generation calls.
func SystemPrompt() string {
	return prompts.MustGet(promptFile, "system-plan")
}

// intakeBlock serializes every present intake field into a labeled line.
// Absent optional fields are omitted entirely rather than rendered as
// placeholders.
func intakeBlock(intake *types.IntakeRecord) string {
	var b strings.Builder

	qual := intake.QualificationName
	if intake.QualificationCode != "" {
		qual = fmt.Sprintf("%s (%s)", qual, intake.QualificationCode)
	}
	writeLabeled(&b, "Qualification", qual)
	writeLabeled(&b, "Delivery mode", intake.DeliveryMode)

	if intake.Duration.Weeks > 0 {
		duration := fmt.Sprintf("%d weeks", intake.Duration.Weeks)
		if intake.Duration.TotalHours > 0 {
			duration += fmt.Sprintf(", %d total hours", intake.Duration.TotalHours)
		}
		writeLabeled(&b, "Duration", duration)
	}

	writeLabeled(&b, "Cohort", intake.CohortProfile)
	writeLabeled(&b, "Available resources", strings.Join(intake.Resources, ", "))
	writeLabeled(&b, "Assessment preferences", strings.Join(intake.AssessmentPreferences, ", "))

	if intake.UnitListText != "" {
		b.WriteString("Units to cover:\n")
		b.WriteString(intake.UnitListText)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeLabeled(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
