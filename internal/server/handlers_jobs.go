package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/parsing"
)

// CreateJobRequest is the body of POST /jobs.
type CreateJobRequest struct {
	Title              string   `json:"title" validate:"max=255"`
	Description        string   `json:"description" validate:"max=200000"`
	DescriptionHTML    bool     `json:"description_html"`
	ParseDescription   bool     `json:"parse_description"`
	RequiredSkills     []string `json:"required_skills" validate:"max=200,dive,max=100"`
	PreferredSkills    []string `json:"preferred_skills" validate:"max=200,dive,max=100"`
	MinYearsExperience *float64 `json:"min_years_experience" validate:"omitempty,gte=0,lte=80"`
	RequiredEducation  string   `json:"required_education" validate:"max=255"`
	Location           string   `json:"location" validate:"max=255"`
}

// ParseJobRequest is the body of POST /jobs/parse.
type ParseJobRequest struct {
	Description     string `json:"description" validate:"required,max=200000"`
	DescriptionHTML bool   `json:"description_html"`
}

// descriptionText converts an HTML description to plain text when requested.
func descriptionText(description string, isHTML bool) (string, error) {
	if !isHTML {
		return description, nil
	}
	text, err := parsing.HTMLToText(description)
	if err != nil {
		return "", &ErrValidation{Field: "description", Message: err.Error()}
	}
	return text, nil
}

// mergeParsed fills fields the caller left empty from a parse result.
func mergeParsed(input *db.JobCreateInput, parsed *parsing.JobParseResult) {
	req := parsed.Requirements
	if strings.TrimSpace(input.Title) == "" {
		input.Title = req.Title
	}
	if len(input.RequiredSkills) == 0 {
		input.RequiredSkills = req.RequiredSkills
	}
	if len(input.PreferredSkills) == 0 {
		input.PreferredSkills = parsed.PreferredSkills
	}
	if input.MinYearsExperience == nil {
		input.MinYearsExperience = req.MinYearsExperience
	}
	if strings.TrimSpace(input.RequiredEducation) == "" {
		input.RequiredEducation = req.RequiredEducation
	}
	if strings.TrimSpace(input.Location) == "" {
		input.Location = req.Location
	}
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	orgID, err := s.organizationID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req CreateJobRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	description, err := descriptionText(req.Description, req.DescriptionHTML)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	input := &db.JobCreateInput{
		OrganizationID:     orgID,
		Title:              req.Title,
		Description:        description,
		RequiredSkills:     parsing.NormalizeSkills(req.RequiredSkills),
		PreferredSkills:    parsing.NormalizeSkills(req.PreferredSkills),
		MinYearsExperience: req.MinYearsExperience,
		RequiredEducation:  req.RequiredEducation,
		Location:           req.Location,
	}

	if req.ParseDescription {
		parsed, err := s.parser.Parse(r.Context(), description)
		if err != nil {
			s.handleError(w, r, err)
			return
		}
		mergeParsed(input, parsed)
	}

	if strings.TrimSpace(input.Title) == "" {
		s.handleError(w, r, &ErrValidation{Field: "title", Message: "is required"})
		return
	}

	job, err := s.store.CreateJob(r.Context(), input)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	orgID, err := s.organizationID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	filters, err := listFilters(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	jobs, err := s.store.ListJobs(r.Context(), orgID, filters)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	orgID, err := s.organizationID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.store.DeleteJob(r.Context(), orgID, jobID); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleParseJob(w http.ResponseWriter, r *http.Request) {
	var req ParseJobRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	description, err := descriptionText(req.Description, req.DescriptionHTML)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	result, err := s.parser.Parse(r.Context(), description)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// loadJob resolves the organization and the {id} job, writing the error response on failure.
func (s *Server) loadJob(w http.ResponseWriter, r *http.Request) (*db.Job, bool) {
	orgID, err := s.organizationID(r)
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	jobID, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}

	job, err := s.store.GetJob(r.Context(), orgID, jobID)
	if err != nil {
		s.handleError(w, r, err)
		return nil, false
	}
	if job == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "job", ID: jobID.String()})
		return nil, false
	}
	return job, true
}
