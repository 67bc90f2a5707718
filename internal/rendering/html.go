package rendering

import (
	"html/template"
	"strings"

	"github.com/jonathan/course-planner/internal/types"
)

var htmlFuncs = template.FuncMap{
	"join":       strings.Join,
	"hours":      formatHours,
	"confidence": formatConfidence,
}

// RenderHTML produces a self-contained print-ready HTML view of the plan.
// Field values are escaped by html/template's contextual auto-escaping.
func RenderHTML(plan *types.TrainingPlan) (string, error) {
	if plan == nil {
		return "", &RenderError{Message: "plan is nil"}
	}

	tmpl, err := template.New("print.html.tmpl").Funcs(htmlFuncs).ParseFS(templateFiles, "templates/print.html.tmpl")
	if err != nil {
		return "", &TemplateError{Message: "failed to parse HTML template", Cause: err}
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, plan); err != nil {
		return "", &TemplateError{Message: "failed to execute HTML template", Cause: err}
	}
	return sb.String(), nil
}
