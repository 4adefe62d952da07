package parsing

import "strings"

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"aws":        "AWS",
	"gcp":        "GCP",
	"sql":        "SQL",
	"nosql":      "NoSQL",
	"azure":      "Azure",
	"python":     "Python",
	"java":       "Java",
	"docker":     "Docker",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Single lowercase words get a capital first letter; anything else keeps its casing
	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// NormalizeSkills canonicalizes skill names, dropping blanks and case-insensitive
// duplicates while preserving first-seen order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		name := NormalizeSkillName(skill)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
