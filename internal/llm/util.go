package llm

import "strings"

// CleanJSONBlock trims text and strips a surrounding markdown code fence, including
// an optional language tag such as json on the opening line.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isFenceTag(body[:nl]) {
		body = body[nl+1:]
	} else if strings.HasPrefix(body, "json") {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// isFenceTag reports whether line looks like a code fence language tag.
func isFenceTag(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) < 20 && !strings.ContainsAny(line, " {[")
}

// ExtractJSONObject returns the outermost {...} span of text, or text unchanged
// when no object is present. Models sometimes wrap JSON in a sentence.
func ExtractJSONObject(text string) string {
	text = CleanJSONBlock(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}
