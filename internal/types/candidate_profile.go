package types

// CandidateProfile is the structured view of a candidate consumed by the fit scorer.
// HighestEducation comes from the resume parse output and is free text.
type CandidateProfile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	Skills           []string `json:"skills"`
	YearsExperience  *float64 `json:"years_experience,omitempty"`
	HighestEducation string   `json:"highest_education,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	Location         string   `json:"location,omitempty"`
	CurrentTitle     string   `json:"current_title,omitempty"`
	CurrentCompany   string   `json:"current_company,omitempty"`
}

// Clone returns a deep copy of the profile.
func (c CandidateProfile) Clone() CandidateProfile {
	out := c
	out.Skills = cloneStrings(c.Skills)
	out.YearsExperience = cloneYears(c.YearsExperience)
	return out
}
