package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/parsing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusInternalServerError},
		{"validation", &ErrValidation{Field: "title", Message: "is required"}, http.StatusBadRequest},
		{"parse validation", &parsing.ValidationError{Field: "description", Message: "empty"}, http.StatusBadRequest},
		{"not found", &ErrNotFound{Resource: "job", ID: "1"}, http.StatusNotFound},
		{"db not found wrapped", fmt.Errorf("delete: %w", db.ErrNotFound), http.StatusNotFound},
		{"wrapped validation", fmt.Errorf("decode: %w", &ErrValidation{Field: "x"}), http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation error: title - is required", (&ErrValidation{Field: "title", Message: "is required"}).Error())
	assert.Equal(t, "job not found: 42", (&ErrNotFound{Resource: "job", ID: "42"}).Error())
}
