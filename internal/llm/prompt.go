package llm

import (
	"fmt"
	"strings"
)

// Kind is the JSON type the model is asked to produce for a field.
type Kind string

// Field kinds
const (
	KindString     Kind = "string"
	KindStringList Kind = "string[]"
	KindNumber     Kind = "number"
)

// OutputField describes one key of the JSON object a prompt asks for.
type OutputField struct {
	Name     string
	Kind     Kind
	Hint     string
	Required bool
	Nullable bool
}

func (f OutputField) typeLabel() string {
	label := string(f.Kind)
	if label == "" {
		label = string(KindString)
	}
	if f.Nullable {
		label += " | null"
	}
	if f.Required {
		label += ", required"
	}
	return label
}

// JSONPrompt builds a prompt asking the model to answer with a single JSON object
// holding fields, extracted from input. preamble describes the task.
func JSONPrompt(preamble string, fields []OutputField, input string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(preamble))
	sb.WriteString("\n\nAnswer with one JSON object and nothing else. Keys:\n")
	for _, f := range fields {
		fmt.Fprintf(&sb, "- %q (%s)", f.Name, f.typeLabel())
		if f.Hint != "" {
			sb.WriteString(": ")
			sb.WriteString(f.Hint)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Use null or an empty value for anything the text does not state.\n\n")

	sb.WriteString("Text:\n\"\"\"\n")
	sb.WriteString(input)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}
