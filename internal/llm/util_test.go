package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json code block", "```json\n{\"culture_fit_score\": 0.7}\n```", `{"culture_fit_score": 0.7}`},
		{"generic code block", "```\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"code block with language", "```javascript\n{\"key\": \"value\"}\n```", `{"key": "value"}`},
		{"plain JSON", `{"key": "value"}`, `{"key": "value"}`},
		{"bare number", "  0.82\n", "0.82"},
		{"single line fence", "```json {\"a\": 1}```", `{"a": 1}`},
		{"object on fence line", "```{\"a\": 1}\n```", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple object", `{"key": "value"}`, `{"key": "value"}`},
		{"preamble", "Here is the JSON:\n{\"title\": \"Engineer\"}", `{"title": "Engineer"}`},
		{"trailing text", "{\"key\": \"value\"}\n\nLet me know!", `{"key": "value"}`},
		{"nested objects", `Output: {"outer": {"inner": "value"}}`, `{"outer": {"inner": "value"}}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no object", "not json", "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}
