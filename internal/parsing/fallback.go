package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/recruiting-platform/internal/types"
)

var (
	technicalSkillPattern = regexp.MustCompile(`(?i)\b(?:Python|Java|JavaScript|TypeScript|React|Node\.js|Golang|SQL|NoSQL|PostgreSQL|AWS|Azure|GCP|Docker|Kubernetes|Terraform)\b`)
	softSkillPattern      = regexp.MustCompile(`(?i)\b(?:Leadership|Communication|Teamwork|Problem-solving|Analytical)\b`)
	experiencePattern     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)?\s*(?:of\s+)?(?:[a-z-]+\s+)?experience`)
	educationPattern      = regexp.MustCompile(`(?i)\b(?:Bachelor|Master|PhD|BS|MS|MBA)\b.*?(?:degree|in)\b`)
	remotePattern         = regexp.MustCompile(`(?i)\bremote\b`)
)

// maxTitleLength bounds the first line accepted as a job title.
const maxTitleLength = 100

// FallbackParse extracts job requirements with regular expressions. It is used
// when no language model is available or the model call fails.
func FallbackParse(text string) *JobParseResult {
	job := types.JobRequirements{
		Description:    strings.TrimSpace(text),
		RequiredSkills: []string{},
	}

	var skills []string
	skills = append(skills, technicalSkillPattern.FindAllString(text, -1)...)
	skills = append(skills, softSkillPattern.FindAllString(text, -1)...)
	job.RequiredSkills = NormalizeSkills(skills)

	if m := experiencePattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			job.MinYearsExperience = types.Years(years)
		}
	}

	if m := educationPattern.FindString(text); m != "" {
		job.RequiredEducation = m
	}

	if remotePattern.MatchString(text) {
		job.Location = "Remote"
	}

	job.Title = firstLineTitle(text)

	return &JobParseResult{
		Requirements:    job,
		PreferredSkills: []string{},
		Method:          MethodFallback,
	}
}

// firstLineTitle returns the first non-blank line when it is short enough to be a title.
func firstLineTitle(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line == "" {
			continue
		}
		if len(line) <= maxTitleLength {
			return line
		}
		return ""
	}
	return ""
}
