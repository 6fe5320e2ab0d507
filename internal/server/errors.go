package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/cv-maker/internal/editor"
	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/templates"
	"github.com/jonathan/cv-maker/internal/types"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr      *ErrValidation
		templateErr *templates.ValidationError
		schemaErr   *schemas.ValidationError
		typeErr     *editor.SectionTypeError
		contentErr  *editor.ContentError
		unknownErr  *types.UnknownSectionTypeError
	)
	switch {
	case errors.Is(err, templates.ErrDuplicateName):
		return http.StatusConflict
	case errors.As(err, &reqErr),
		errors.As(err, &templateErr),
		errors.As(err, &schemaErr),
		errors.As(err, &typeErr),
		errors.As(err, &contentErr),
		errors.As(err, &unknownErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes it. Schema violations carry
// their field list.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("request failed")
	}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		s.jsonResponse(w, status, map[string]any{
			"error":   err.Error(),
			"details": schemaErr.Errors,
		})
		return
	}
	s.errorResponse(w, status, err.Error())
}
