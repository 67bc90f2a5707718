package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/course-planner/internal/rendering"
	"github.com/jonathan/course-planner/internal/types"
)

// ExportPlan renders the plan in the requested format and writes it under
// outDir, creating the directory if needed. It returns the written path.
// An empty outDir means the current directory.
func ExportPlan(plan *types.TrainingPlan, format, outDir string) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("cannot export a nil plan")
	}

	var (
		data []byte
		ext  string
	)
	switch format {
	case "", "markdown":
		md, err := rendering.RenderMarkdown(plan)
		if err != nil {
			return "", err
		}
		data, ext = []byte(md), ".md"
	case "html":
		html, err := rendering.RenderHTML(plan)
		if err != nil {
			return "", err
		}
		data, ext = []byte(html), ".html"
	case "docx":
		docx, err := rendering.RenderDOCX(plan)
		if err != nil {
			return "", err
		}
		data, ext = docx, ".docx"
	case "json":
		raw, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal plan: %w", err)
		}
		data, ext = raw, ".json"
	default:
		return "", fmt.Errorf("unknown export format: %s", format)
	}

	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outDir, planFileName(plan)+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// planFileName derives a stable file name from the qualification code.
func planFileName(plan *types.TrainingPlan) string {
	code := strings.ToLower(strings.TrimSpace(plan.Qualification.Code))
	if code == "" {
		return "training_plan"
	}
	return code + "_plan"
}
