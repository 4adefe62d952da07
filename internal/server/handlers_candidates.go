package server

import (
	"net/http"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/parsing"
)

// CreateCandidateRequest is the body of POST /candidates.
type CreateCandidateRequest struct {
	Name             string   `json:"name" validate:"required,max=255"`
	Email            string   `json:"email" validate:"omitempty,email,max=255"`
	Skills           []string `json:"skills" validate:"max=500,dive,max=100"`
	YearsExperience  *float64 `json:"years_experience" validate:"omitempty,gte=0,lte=80"`
	HighestEducation string   `json:"highest_education" validate:"max=255"`
	Summary          string   `json:"summary" validate:"max=50000"`
	Location         string   `json:"location" validate:"max=255"`
	CurrentTitle     string   `json:"current_title" validate:"max=255"`
	CurrentCompany   string   `json:"current_company" validate:"max=255"`
}

func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	orgID, err := s.organizationID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req CreateCandidateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	candidate, err := s.store.CreateCandidate(r.Context(), &db.CandidateCreateInput{
		OrganizationID:   orgID,
		Name:             req.Name,
		Email:            req.Email,
		Skills:           parsing.NormalizeSkills(req.Skills),
		YearsExperience:  req.YearsExperience,
		HighestEducation: req.HighestEducation,
		Summary:          req.Summary,
		Location:         req.Location,
		CurrentTitle:     req.CurrentTitle,
		CurrentCompany:   req.CurrentCompany,
	})
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, candidate)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
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

	candidates, err := s.store.ListCandidates(r.Context(), orgID, filters)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"candidates": candidates, "count": len(candidates)})
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	orgID, err := s.organizationID(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	candidateID, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), orgID, candidateID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if candidate == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "candidate", ID: candidateID.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, candidate)
}
