package db

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/recruiting-platform/internal/types"
)

// Default and maximum page sizes for list queries
const (
	DefaultListLimit = 50
	MaxListLimit     = 1000
	DefaultTopLimit  = 10
)

// Application status constants
const (
	ApplicationStatusNew = "new"
)

// Job status constants
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

// Organization is a tenant. Every other record belongs to exactly one.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Job is a stored job posting with its scoring requirements.
type Job struct {
	ID                 uuid.UUID `json:"id"`
	OrganizationID     uuid.UUID `json:"organization_id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	RequiredSkills     []string  `json:"required_skills"`
	PreferredSkills    []string  `json:"preferred_skills"`
	MinYearsExperience *float64  `json:"min_years_experience,omitempty"`
	RequiredEducation  string    `json:"required_education,omitempty"`
	Location           string    `json:"location,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Requirements converts the job into scoring input.
func (j *Job) Requirements() *types.JobRequirements {
	if j == nil {
		return nil
	}
	return &types.JobRequirements{
		ID:                 j.ID.String(),
		Title:              j.Title,
		RequiredSkills:     append([]string(nil), j.RequiredSkills...),
		MinYearsExperience: validYears(j.MinYearsExperience),
		RequiredEducation:  j.RequiredEducation,
		Description:        j.Description,
		Location:           j.Location,
	}
}

// JobCreateInput holds the fields needed to create a job.
type JobCreateInput struct {
	OrganizationID     uuid.UUID
	Title              string
	Description        string
	RequiredSkills     []string
	PreferredSkills    []string
	MinYearsExperience *float64
	RequiredEducation  string
	Location           string
}

// Candidate is a stored candidate profile.
type Candidate struct {
	ID               uuid.UUID `json:"id"`
	OrganizationID   uuid.UUID `json:"organization_id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Skills           []string  `json:"skills"`
	YearsExperience  *float64  `json:"years_experience,omitempty"`
	HighestEducation string    `json:"highest_education,omitempty"`
	Summary          string    `json:"summary,omitempty"`
	Location         string    `json:"location,omitempty"`
	CurrentTitle     string    `json:"current_title,omitempty"`
	CurrentCompany   string    `json:"current_company,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Profile converts the candidate into scoring input.
func (c *Candidate) Profile() *types.CandidateProfile {
	if c == nil {
		return nil
	}
	return &types.CandidateProfile{
		ID:               c.ID.String(),
		Name:             c.Name,
		Skills:           append([]string(nil), c.Skills...),
		YearsExperience:  validYears(c.YearsExperience),
		HighestEducation: c.HighestEducation,
		Summary:          c.Summary,
		Location:         c.Location,
		CurrentTitle:     c.CurrentTitle,
		CurrentCompany:   c.CurrentCompany,
	}
}

// CandidateCreateInput holds the fields needed to create a candidate.
type CandidateCreateInput struct {
	OrganizationID   uuid.UUID
	Name             string
	Email            string
	Skills           []string
	YearsExperience  *float64
	HighestEducation string
	Summary          string
	Location         string
	CurrentTitle     string
	CurrentCompany   string
}

// Application links a candidate to a job and carries the latest fit score.
type Application struct {
	ID              uuid.UUID             `json:"id"`
	JobID           uuid.UUID             `json:"job_id"`
	CandidateID     uuid.UUID             `json:"candidate_id"`
	OrganizationID  uuid.UUID             `json:"organization_id"`
	Status          string                `json:"status"`
	FitScore        *float64              `json:"fit_score,omitempty"`
	FitScoreDetails *types.FitScoreResult `json:"fit_score_details,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// FitScoreEntry is one result in a batch save for a job.
type FitScoreEntry struct {
	CandidateID uuid.UUID
	Result      *types.FitScoreResult
}

// TopCandidate is one row of the top-candidates query.
type TopCandidate struct {
	Candidate   Candidate   `json:"candidate"`
	Application Application `json:"application"`
}

// ListFilters holds pagination for list queries.
type ListFilters struct {
	Limit  int
	Offset int
}

// normalize applies defaults and bounds.
func (f ListFilters) normalize() ListFilters {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// normalizeTopLimit applies defaults and bounds to a top-N limit.
func normalizeTopLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	return min(limit, MaxListLimit)
}

// cleanStrings trims entries and drops blanks; the result is never nil so TEXT[] columns stay NOT NULL.
func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// validYears drops values the scorer would treat as absent.
func validYears(v *float64) *float64 {
	if years, ok := types.ValidYears(v); ok {
		return &years
	}
	return nil
}
