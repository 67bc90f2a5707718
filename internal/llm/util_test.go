package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
		{
			name:     "leading whitespace",
			input:    "\n\n  {\"key\": \"value\"}  ",
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "pure JSON",
			input:    `{"a":1}`,
			expected: `{"a":1}`,
		},
		{
			name:     "fenced block with surrounding prose",
			input:    "Here is the plan:\n```json\n{\"a\":1}\n```\nThanks",
			expected: `{"a":1}`,
		},
		{
			name:     "JSON embedded in prose",
			input:    `I analyzed it. The result: {"weeks": 2, "ok": true} hope that helps`,
			expected: `{"weeks": 2, "ok": true}`,
		},
		{
			name:     "nested objects",
			input:    `prefix {"outer": {"inner": {"deep": 1}}} suffix`,
			expected: `{"outer": {"inner": {"deep": 1}}}`,
		},
		{
			name:     "braces inside string values",
			input:    `{"template": "Hello {name}!"}`,
			expected: `{"template": "Hello {name}!"}`,
		},
		{
			name:     "escaped quotes inside strings",
			input:    `{"msg": "he said \"{\" loudly"}`,
			expected: `{"msg": "he said \"{\" loudly"}`,
		},
		{
			name:     "no balanced braces",
			input:    "no json here",
			expected: "",
		},
		{
			name:     "truncated object",
			input:    `{"a": {"b": 1}`,
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}
