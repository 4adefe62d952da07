package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/recruiting-platform/internal/db"
)

// maxBodyBytes caps request bodies; job descriptions and summaries are the largest fields.
const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON body into dst and validates it.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "request body is required"}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}

	if err := s.validate.Struct(dst); err != nil {
		return extractValidationError(err)
	}
	return nil
}

// extractValidationError converts validator errors into an ErrValidation for the first failing field.
func extractValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: jsonFieldName(ve.Namespace()), Message: "failed '" + ve.Tag() + "' check"}
	}
	return &ErrValidation{Field: "body", Message: "invalid request"}
}

// jsonFieldName strips the struct name from a validator namespace, leaving the JSON path.
func jsonFieldName(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// organizationID reads the tenant header and checks the organization exists.
func (s *Server) organizationID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(r.Header.Get(OrganizationHeader))
	if raw == "" {
		return uuid.Nil, &ErrValidation{Field: OrganizationHeader, Message: "header is required"}
	}
	orgID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: OrganizationHeader, Message: "must be a UUID"}
	}

	org, err := s.store.GetOrganization(r.Context(), orgID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load organization: %w", err)
	}
	if org == nil {
		return uuid.Nil, &ErrNotFound{Resource: "organization", ID: orgID.String()}
	}
	return orgID, nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	if raw == "" {
		return uuid.Nil, &ErrValidation{Field: name, Message: "is required"}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return v, nil
}

// listFilters reads limit and offset query parameters.
func listFilters(r *http.Request) (db.ListFilters, error) {
	limit, err := queryInt(r, "limit", db.DefaultListLimit)
	if err != nil {
		return db.ListFilters{}, err
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return db.ListFilters{}, err
	}
	return db.ListFilters{Limit: limit, Offset: offset}, nil
}
