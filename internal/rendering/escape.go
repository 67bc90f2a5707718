package rendering

import (
	"fmt"
	"strings"
)

// EscapeXML escapes the five XML special characters for WordprocessingML
// text runs.
func EscapeXML(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		case '"':
			result.WriteString("&quot;")
		case '\'':
			result.WriteString("&apos;")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// EscapeMarkdownCell makes free text safe inside a markdown table cell.
// Pipes would split the cell and newlines would break the row.
func EscapeMarkdownCell(text string) string {
	text = strings.ReplaceAll(text, "|", `\|`)
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return text
}

// formatHours renders an hour count without a trailing ".0" for whole values.
func formatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%d", int64(h))
	}
	return fmt.Sprintf("%.1f", h)
}

// formatConfidence renders a confidence score as a percentage.
func formatConfidence(c *float64) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%.0f%%", *c*100)
}
