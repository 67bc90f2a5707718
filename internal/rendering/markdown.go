package rendering

import (
	"embed"
	"strings"
	"text/template"

	"github.com/jonathan/course-planner/internal/types"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

var markdownFuncs = template.FuncMap{
	"join":       strings.Join,
	"hours":      formatHours,
	"mdcell":     EscapeMarkdownCell,
	"confidence": formatConfidence,
}

// RenderMarkdown produces a plain-text markdown document for the plan.
func RenderMarkdown(plan *types.TrainingPlan) (string, error) {
	if plan == nil {
		return "", &RenderError{Message: "plan is nil"}
	}

	tmpl, err := template.New("plan.md.tmpl").Funcs(markdownFuncs).ParseFS(templateFiles, "templates/plan.md.tmpl")
	if err != nil {
		return "", &TemplateError{Message: "failed to parse markdown template", Cause: err}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, plan); err != nil {
		return "", &TemplateError{Message: "failed to execute markdown template", Cause: err}
	}
	return sb.String(), nil
}
