package server

import (
	"net/http"
)

// CreateOrganizationRequest is the body of POST /organizations.
type CreateOrganizationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	org, err := s.store.CreateOrganization(r.Context(), req.Name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, org)
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	org, err := s.store.GetOrganization(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if org == nil {
		s.handleError(w, r, &ErrNotFound{Resource: "organization", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, org)
}
