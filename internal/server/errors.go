package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/parsing"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a resource does not exist in the caller's organization
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	var validationErr *ErrValidation
	var notFoundErr *ErrNotFound
	var parseValidationErr *parsing.ValidationError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &parseValidationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
