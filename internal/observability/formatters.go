// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/course-planner/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 6
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintIntake outputs a human-readable summary of a submitted intake record.
func (p *Printer) PrintIntake(intake *types.IntakeRecord) {
	if intake == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Qualification: %s (%s)\n", intake.QualificationName, intake.QualificationCode))
	sb.WriteString(fmt.Sprintf("Delivery:      %s\n", intake.DeliveryMode))
	sb.WriteString(fmt.Sprintf("Duration:      %d weeks, %d hours\n", intake.Duration.Weeks, intake.Duration.TotalHours))
	sb.WriteString(fmt.Sprintf("Cohort:        %s", intake.CohortProfile))
	if len(intake.Resources) > 0 {
		sb.WriteString(fmt.Sprintf("\nResources:     %s", strings.Join(intake.Resources, ", ")))
	}

	p.printBox("INTAKE", sb.String())
}

// PrintPlan outputs a summary of a validated training plan.
func (p *Printer) PrintPlan(plan *types.TrainingPlan) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%s)\n", plan.Qualification.Name, plan.Qualification.Code))
	sb.WriteString(fmt.Sprintf("%d weeks, %d hours, %s\n", plan.Duration.Weeks, plan.Duration.TotalHours, plan.DeliveryMode))
	sb.WriteString("\n")

	count := min(len(plan.WeeklyPlan), maxItemsToShow)
	for i := 0; i < count; i++ {
		week := plan.WeeklyPlan[i]
		sb.WriteString(fmt.Sprintf("  W%-2d %s (%sh)\n", week.Week, week.Topic, trimFloat(week.Hours)))
	}
	if len(plan.WeeklyPlan) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more weeks\n", len(plan.WeeklyPlan)-maxItemsToShow))
	}

	sb.WriteString(fmt.Sprintf("\nUnits: %d", len(plan.Units)))
	if plan.Confidence != nil {
		sb.WriteString(fmt.Sprintf("   Confidence: %.2f", *plan.Confidence))
	}

	p.printBox("TRAINING PLAN", sb.String())
}

// PrintIssues outputs the validation issues of a failed attempt.
func (p *Printer) PrintIssues(issues types.Issues) {
	if len(issues) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(issues), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s: %s\n", issues[i].Path, issues[i].Message))
	}
	if len(issues) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(issues)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("VALIDATION ISSUES (%d)", len(issues)), strings.TrimRight(sb.String(), "\n"))
}

// PrintPhaseLog outputs the orchestration log of a run.
func (p *Printer) PrintPhaseLog(log []types.PhaseLog) {
	if len(log) == 0 {
		return
	}

	var sb strings.Builder
	for i, entry := range log {
		marker := "✓"
		switch entry.Status {
		case types.StatusFailure:
			marker = "✗"
		case types.StatusWarning:
			marker = "!"
		}
		sb.WriteString(fmt.Sprintf("%s [%d] %-8s %s", marker, entry.Attempt, entry.Phase, entry.Detail))
		if i < len(log)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("RUN LOG", sb.String())
}

// PrintWarnings outputs advisory warnings from a successful run.
func (p *Printer) PrintWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	p.printBox("WARNINGS", strings.Join(warnings, "\n"))
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", f), ".0")
}
