package llm

import "strings"

// CleanJSONBlock strips a markdown code fence from a model response. Models
// wrap JSON in ```json fences even when the prompt forbids it.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		return trimClosingFence(strings.TrimPrefix(text, "```json"))
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// A bare fence may still carry a language tag on its first line.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {") {
				text = text[idx+1:]
			}
		}
		return trimClosingFence(text)
	}

	return text
}

func trimClosingFence(text string) string {
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// ExtractJSONObject scans text for the first balanced {...} span and returns
// it. The scan is string- and escape-aware, so braces inside string values do
// not terminate the span. Returns "" when no balanced object is present; the
// caller treats that as a structural failure, not an exception.
func ExtractJSONObject(text string) string {
	text = CleanJSONBlock(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	// Unbalanced: the model truncated its output.
	return ""
}
