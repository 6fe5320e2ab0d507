package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/cv-maker/internal/types"
)

// suggestionSections are the sections suggestions may belong to
var suggestionSections = map[types.SectionType]bool{
	types.SectionHeader:     true,
	types.SectionExperience: true,
	types.SectionEducation:  true,
	types.SectionSkills:     true,
	types.SectionSummary:    true,
}

// AddSuggestionRequest is the body of POST /suggestions
type AddSuggestionRequest struct {
	Value       string            `json:"value"`
	FieldType   string            `json:"field_type"`
	SectionType types.SectionType `json:"section_type"`
}

// ConfirmSuggestionsRequest is the body of POST /suggestions/confirm
type ConfirmSuggestionsRequest struct {
	Candidates []types.SuggestionCandidate `json:"candidates"`
}

func validateSuggestionField(fieldType string, sectionType types.SectionType) error {
	if strings.TrimSpace(fieldType) == "" {
		return &ErrValidation{Field: "field_type", Message: "is required"}
	}
	if !suggestionSections[sectionType] {
		return &ErrValidation{Field: "section_type", Message: "must be one of header, experience, education, skills, summary"}
	}
	return nil
}

// handleListSuggestions lists suggestions, ranked for one field when both
// field_type and section_type are given
func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	store := s.session.Suggestions()
	fieldType := r.URL.Query().Get("field_type")
	sectionType := types.SectionType(r.URL.Query().Get("section_type"))

	var list []types.FieldSuggestion
	switch {
	case fieldType == "" && sectionType == "":
		list = store.All()
	case fieldType == "" || sectionType == "":
		s.writeError(w, &ErrValidation{Field: "field_type", Message: "field_type and section_type must be given together"})
		return
	default:
		list = store.ForField(fieldType, sectionType)
	}
	if list == nil {
		list = []types.FieldSuggestion{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"suggestions": list})
}

// handleAddSuggestion records one use of a value
func (s *Server) handleAddSuggestion(w http.ResponseWriter, r *http.Request) {
	var req AddSuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateSuggestionField(req.FieldType, req.SectionType); err != nil {
		s.writeError(w, err)
		return
	}

	got, ok := s.session.Suggestions().Add(r.Context(), req.Value, req.FieldType, req.SectionType)
	if !ok {
		s.writeError(w, &ErrValidation{Field: "value", Message: "must not be blank"})
		return
	}
	s.jsonResponse(w, http.StatusCreated, got)
}

// handleConfirmSuggestions adds the candidates offered after a template save
func (s *Server) handleConfirmSuggestions(w http.ResponseWriter, r *http.Request) {
	var req ConfirmSuggestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	for _, c := range req.Candidates {
		if err := validateSuggestionField(c.FieldType, c.SectionType); err != nil {
			s.writeError(w, err)
			return
		}
	}

	n := s.session.ConfirmSuggestions(r.Context(), req.Candidates)
	s.jsonResponse(w, http.StatusOK, map[string]int{"added": n})
}

// handleRemoveSuggestion removes one suggestion
func (s *Server) handleRemoveSuggestion(w http.ResponseWriter, r *http.Request) {
	s.session.Suggestions().Remove(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// handleClearSuggestions removes every suggestion
func (s *Server) handleClearSuggestions(w http.ResponseWriter, r *http.Request) {
	s.session.Suggestions().Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
