package types

import "time"

// Weights holds the per-dimension weights combined into the overall fit score.
type Weights struct {
	Skill      float64 `json:"skill_match"`
	Experience float64 `json:"experience_match"`
	Education  float64 `json:"education_match"`
	Location   float64 `json:"location_match"`
	Culture    float64 `json:"culture_fit"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Skill + w.Experience + w.Education + w.Location + w.Culture
}

// FitScoreResult is the explainable outcome of scoring one candidate against one job.
// A result is never mutated after it is produced; rescoring creates a new one.
type FitScoreResult struct {
	JobID           string    `json:"job_id,omitempty"`
	CandidateID     string    `json:"candidate_id,omitempty"`
	OverallScore    float64   `json:"overall_score"`
	SkillMatch      float64   `json:"skill_match"`
	ExperienceMatch float64   `json:"experience_match"`
	EducationMatch  float64   `json:"education_match"`
	LocationMatch   float64   `json:"location_match"`
	CultureFit      float64   `json:"culture_fit"`
	Weights         Weights   `json:"weights"`
	Recommendations []string  `json:"recommendations"`
	Breakdown       Breakdown `json:"breakdown"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Breakdown is the evidence retained alongside a result for audit.
type Breakdown struct {
	Job       JobRequirements   `json:"job_analysis"`
	Candidate CandidateProfile  `json:"candidate_analysis"`
	Skills    SkillEvidence     `json:"skills"`
	Education EducationEvidence `json:"education"`
	Culture   CultureEvidence   `json:"culture"`
}

// SkillMatchKind describes how a required skill was satisfied.
type SkillMatchKind string

// Skill match kinds
const (
	SkillMatchExact   SkillMatchKind = "exact"
	SkillMatchPartial SkillMatchKind = "partial"
)

// SkillMatch records which candidate skill satisfied a required skill.
type SkillMatch struct {
	Required  string         `json:"required"`
	Candidate string         `json:"candidate"`
	Kind      SkillMatchKind `json:"kind"`
	Credit    float64        `json:"credit"`
}

// SkillEvidence lists matched and unmatched required skills.
type SkillEvidence struct {
	Matched   []SkillMatch `json:"matched"`
	Unmatched []string     `json:"unmatched"`
}

// EducationEvidence records the resolved education levels.
type EducationEvidence struct {
	RequiredLevel  int `json:"required_level"`
	CandidateLevel int `json:"candidate_level"`
}

// CultureSource describes where the culture-fit sub-score came from.
type CultureSource string

// Culture sources
const (
	CultureFromJudge    CultureSource = "judge"
	CultureMissingInput CultureSource = "missing_input"
	CultureNoJudge      CultureSource = "no_judge"
	CultureFallback     CultureSource = "fallback"
)

// CultureEvidence records how the culture-fit sub-score was obtained.
type CultureEvidence struct {
	Source CultureSource `json:"source"`
	Raw    *float64      `json:"raw,omitempty"`
	Error  string        `json:"error,omitempty"`
}
