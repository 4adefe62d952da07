package fitscore

import (
	"strings"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// Scores assigned by the sub-score rules
const (
	neutralScore        = 0.5
	partialSkillCredit  = 0.8
	locationContains    = 0.8
	locationRemote      = 0.9
	locationMismatch    = 0.3
	remoteLocationToken = "remote"
)

// educationVocabulary maps education keywords onto an ordered scale.
// Order matters: the first keyword contained in the text wins.
var educationVocabulary = []struct {
	keyword string
	level   int
}{
	{"high school", 1},
	{"associate", 2},
	{"bachelor", 3},
	{"mba", 4},
	{"master", 4},
	{"phd", 5},
}

// normalize case-folds and trims a value for comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SkillMatch scores how well the candidate's skills cover the required skills.
// Each required skill earns 1.0 for a case-insensitive exact match anywhere in the
// candidate list, otherwise 0.8 for a substring match in either direction.
// Returns 0.0 when either list is empty, along with per-skill evidence.
func SkillMatch(required, candidate []string) (float64, types.SkillEvidence) {
	evidence := types.SkillEvidence{
		Matched:   []types.SkillMatch{},
		Unmatched: []string{},
	}
	if len(required) == 0 || len(candidate) == 0 {
		evidence.Unmatched = append(evidence.Unmatched, required...)
		return 0.0, evidence
	}

	normalizedCandidates := make([]string, len(candidate))
	for i, skill := range candidate {
		normalizedCandidates[i] = normalize(skill)
	}

	matched := 0.0
	for _, req := range required {
		match, ok := matchSkill(req, candidate, normalizedCandidates)
		if !ok {
			evidence.Unmatched = append(evidence.Unmatched, req)
			continue
		}
		matched += match.Credit
		evidence.Matched = append(evidence.Matched, match)
	}

	score := matched / float64(len(required))
	if score > 1.0 {
		score = 1.0
	}
	return score, evidence
}

// matchSkill finds the best candidate skill for one required skill.
// Blank skills on either side never match.
func matchSkill(required string, candidate, normalizedCandidates []string) (types.SkillMatch, bool) {
	req := normalize(required)
	if req == "" {
		return types.SkillMatch{}, false
	}

	for i, c := range normalizedCandidates {
		if c == req {
			return types.SkillMatch{
				Required:  required,
				Candidate: candidate[i],
				Kind:      types.SkillMatchExact,
				Credit:    1.0,
			}, true
		}
	}

	for i, c := range normalizedCandidates {
		if c == "" {
			continue
		}
		if strings.Contains(c, req) || strings.Contains(req, c) {
			return types.SkillMatch{
				Required:  required,
				Candidate: candidate[i],
				Kind:      types.SkillMatchPartial,
				Credit:    partialSkillCredit,
			}, true
		}
	}

	return types.SkillMatch{}, false
}

// ExperienceMatch scores the candidate's years of experience against the minimum requirement.
// Absent or invalid values on either side yield the neutral score.
func ExperienceMatch(required, candidate *float64) float64 {
	req, okReq := types.ValidYears(required)
	cand, okCand := types.ValidYears(candidate)
	if !okReq || !okCand {
		return neutralScore
	}
	if cand >= req {
		return 1.0
	}
	return clamp(cand / req)
}

// EducationLevel maps free-text education onto the ordered scale.
// Text matching no known keyword maps to level 0.
func EducationLevel(text string) int {
	t := normalize(text)
	if t == "" {
		return 0
	}
	for _, entry := range educationVocabulary {
		if strings.Contains(t, entry.keyword) {
			return entry.level
		}
	}
	return 0
}

// EducationMatch compares the candidate's highest education with the required level.
func EducationMatch(required, candidate string) float64 {
	score, _ := educationMatch(required, candidate)
	return score
}

func educationMatch(required, candidate string) (float64, types.EducationEvidence) {
	if !types.Present(required) || !types.Present(candidate) {
		return neutralScore, types.EducationEvidence{}
	}

	reqLevel := EducationLevel(required)
	candLevel := EducationLevel(candidate)
	evidence := types.EducationEvidence{
		RequiredLevel:  reqLevel,
		CandidateLevel: candLevel,
	}

	// reqLevel is positive past this point
	if candLevel >= reqLevel {
		return 1.0, evidence
	}
	return clamp(float64(candLevel) / float64(reqLevel)), evidence
}

// LocationMatch compares job and candidate locations.
// Checks run in order: exact match, containment, then remote-friendliness.
func LocationMatch(job, candidate string) float64 {
	j := normalize(job)
	c := normalize(candidate)
	if j == "" || c == "" {
		return neutralScore
	}

	switch {
	case j == c:
		return 1.0
	case strings.Contains(j, c) || strings.Contains(c, j):
		return locationContains
	case strings.Contains(j, remoteLocationToken) || strings.Contains(c, remoteLocationToken):
		return locationRemote
	default:
		return locationMismatch
	}
}
