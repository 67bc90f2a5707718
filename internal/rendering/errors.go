// Package rendering turns a validated training plan into export documents.
// Renderers are pure: they never mutate the plan and never feed anything
// back into validation.
package rendering

import "fmt"

// TemplateError reports a failure parsing or executing a document template.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	return formatRenderErr("template error", e.Message, e.Cause)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// RenderError reports any other rendering failure.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	return formatRenderErr("render error", e.Message, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

func formatRenderErr(kind, message string, cause error) string {
	if cause != nil {
		return fmt.Sprintf("%s: %s: %v", kind, message, cause)
	}
	return fmt.Sprintf("%s: %s", kind, message)
}
