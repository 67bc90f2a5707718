package types

import (
	"fmt"
	"strings"
)

// Issue is a single schema violation found during plan validation. Path is a
// dot-separated field path (e.g. "weekly_plan[2].week").
type Issue struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
}

func (i Issue) String() string {
	if i.Expected != "" || i.Received != "" {
		return fmt.Sprintf("%s: %s (expected %s, got %s)", i.Path, i.Message, i.Expected, i.Received)
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Issues is the full set of violations from one validation pass. Validation
// never short-circuits, so the collection always reflects every defect found.
type Issues []Issue

// FormatForPrompt renders the issue list as a numbered block suitable for
// feeding back into a repair prompt.
func (is Issues) FormatForPrompt() string {
	var sb strings.Builder
	for n, issue := range is {
		sb.WriteString(fmt.Sprintf("%d. %s\n", n+1, issue.String()))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Paths returns the field paths of every issue, in order.
func (is Issues) Paths() []string {
	paths := make([]string, 0, len(is))
	for _, issue := range is {
		paths = append(paths, issue.Path)
	}
	return paths
}

// IntakeError reports a defect in the submitted intake record.
type IntakeError struct {
	Field   string
	Message string
}

func (e *IntakeError) Error() string {
	return fmt.Sprintf("intake error: %s - %s", e.Field, e.Message)
}
