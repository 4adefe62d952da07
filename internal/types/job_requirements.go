// Package types provides type definitions for structured data used throughout the recruiting platform.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"math"
	"strings"
)

// JobRequirements is the structured view of a job posting consumed by the fit scorer.
// Optional strings are considered absent when empty or whitespace-only.
type JobRequirements struct {
	ID                 string   `json:"id,omitempty"`
	Title              string   `json:"title,omitempty"`
	RequiredSkills     []string `json:"required_skills"`
	MinYearsExperience *float64 `json:"min_years_experience,omitempty"`
	RequiredEducation  string   `json:"required_education,omitempty"`
	Description        string   `json:"description"`
	Location           string   `json:"location,omitempty"`
}

// Years returns a pointer to v, for building optional year fields.
func Years(v float64) *float64 {
	return &v
}

// ValidYears resolves an optional years value. Negative, NaN and infinite
// values are reported as absent.
func ValidYears(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	y := *v
	if math.IsNaN(y) || math.IsInf(y, 0) || y < 0 {
		return 0, false
	}
	return y, true
}

// Present reports whether an optional text field carries content.
func Present(s string) bool {
	return strings.TrimSpace(s) != ""
}

// cloneStrings copies a string slice, keeping nil as nil.
func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// cloneYears copies an optional years value.
func cloneYears(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Clone returns a deep copy of the requirements.
func (j JobRequirements) Clone() JobRequirements {
	c := j
	c.RequiredSkills = cloneStrings(j.RequiredSkills)
	c.MinYearsExperience = cloneYears(j.MinYearsExperience)
	return c
}
