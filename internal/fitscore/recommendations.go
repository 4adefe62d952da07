package fitscore

import (
	"fmt"
	"strings"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// Recommendation thresholds and limits
const (
	maxRecommendations   = 5
	maxMissingSkills     = 3
	weakSkillThreshold   = 0.7
	weakExperience       = 0.8
	weakCultureThreshold = 0.6
	strongMatchThreshold = 0.9
)

// subScores carries the five sub-scores into recommendation rules.
type subScores struct {
	skill      float64
	experience float64
	education  float64
	location   float64
	culture    float64
}

// recommendationRule appends at most one recommendation when its predicate holds.
type recommendationRule func(s subScores, job *types.JobRequirements, candidate *types.CandidateProfile, recs []string) (string, bool)

// recommendationRules are evaluated in order.
var recommendationRules = []recommendationRule{
	missingSkillsRule,
	experienceGapRule,
	cultureResearchRule,
	strongSkillsRule,
	strongExperienceRule,
	fallbackRule,
}

// generateRecommendations builds actionable feedback for the candidate.
func generateRecommendations(s subScores, job *types.JobRequirements, candidate *types.CandidateProfile) []string {
	recs := make([]string, 0, maxRecommendations)
	for _, rule := range recommendationRules {
		if msg, ok := rule(s, job, candidate, recs); ok {
			recs = append(recs, msg)
		}
	}
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func missingSkillsRule(s subScores, job *types.JobRequirements, candidate *types.CandidateProfile, _ []string) (string, bool) {
	if s.skill >= weakSkillThreshold {
		return "", false
	}
	missing := missingSkills(job.RequiredSkills, candidate.Skills)
	if len(missing) == 0 {
		return "", false
	}
	if len(missing) > maxMissingSkills {
		missing = missing[:maxMissingSkills]
	}
	return fmt.Sprintf("Consider developing these skills: %s", strings.Join(missing, ", ")), true
}

func experienceGapRule(s subScores, job *types.JobRequirements, candidate *types.CandidateProfile, _ []string) (string, bool) {
	if s.experience >= weakExperience {
		return "", false
	}
	required, okReq := types.ValidYears(job.MinYearsExperience)
	years, okCand := types.ValidYears(candidate.YearsExperience)
	if !okReq || !okCand || years >= required {
		return "", false
	}
	return fmt.Sprintf("Gain %.1f more years of relevant experience", required-years), true
}

func cultureResearchRule(s subScores, _ *types.JobRequirements, _ *types.CandidateProfile, _ []string) (string, bool) {
	if s.culture >= weakCultureThreshold {
		return "", false
	}
	return "Research company culture and values to better align your application", true
}

func strongSkillsRule(s subScores, _ *types.JobRequirements, _ *types.CandidateProfile, _ []string) (string, bool) {
	if s.skill <= strongMatchThreshold {
		return "", false
	}
	return "Excellent skill match! Your technical skills align well with the requirements", true
}

func strongExperienceRule(s subScores, _ *types.JobRequirements, _ *types.CandidateProfile, _ []string) (string, bool) {
	if s.experience <= strongMatchThreshold {
		return "", false
	}
	return "Strong experience match for this role", true
}

func fallbackRule(_ subScores, _ *types.JobRequirements, _ *types.CandidateProfile, recs []string) (string, bool) {
	if len(recs) > 0 {
		return "", false
	}
	return "Good overall match - consider applying for this position", true
}

// missingSkills returns required skills absent from the candidate list, compared
// case-insensitively, in required order without duplicates.
func missingSkills(required, candidate []string) []string {
	have := make(map[string]bool, len(candidate))
	for _, skill := range candidate {
		have[normalize(skill)] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, skill := range required {
		key := normalize(skill)
		if key == "" || have[key] || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, strings.TrimSpace(skill))
	}
	return missing
}
