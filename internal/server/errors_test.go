package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-maker/internal/editor"
	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/templates"
	"github.com/jonathan/cv-maker/internal/types"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "section_id", Message: "is required"}
	assert.Equal(t, "validation error: section_id - is required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "duplicate template name",
			err:      &templates.ValidationError{Message: `a template named "x" already exists`, Cause: templates.ErrDuplicateName},
			expected: http.StatusConflict,
		},
		{
			name:     "invalid template name",
			err:      &templates.ValidationError{Message: "name is required", Cause: templates.ErrInvalidName},
			expected: http.StatusBadRequest,
		},
		{
			name:     "schema violation",
			err:      &schemas.ValidationError{Errors: []schemas.FieldError{{Field: "id", Message: "required"}}},
			expected: http.StatusBadRequest,
		},
		{
			name:     "section type mismatch",
			err:      &editor.SectionTypeError{SectionID: "s1", Want: types.SectionSummary, Got: types.SectionCustom},
			expected: http.StatusBadRequest,
		},
		{
			name:     "content error",
			err:      &editor.ContentError{Message: "summary too long"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "unknown section type",
			err:      fmt.Errorf("decode: %w", &types.UnknownSectionTypeError{Type: "hobbies"}),
			expected: http.StatusBadRequest,
		},
		{
			name:     "generic error",
			err:      errors.New("disk full"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
