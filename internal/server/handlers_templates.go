package server

import (
	"net/http"

	"github.com/jonathan/cv-maker/internal/types"
)

// SaveTemplateRequest is the body of POST /templates
type SaveTemplateRequest struct {
	Name string `json:"name"`
}

// UpdateTemplateRequest is the body of PUT /templates/{id}. A nil name keeps
// the current name.
type UpdateTemplateRequest struct {
	Name *string `json:"name,omitempty"`
}

// SaveTemplateResponse carries the saved template and the values of its CV
// that are not yet in the suggestion store
type SaveTemplateResponse struct {
	Template    types.SavedTemplate         `json:"template"`
	Suggestions []types.SuggestionCandidate `json:"suggestions"`
}

// TemplateListResponse lists templates and the active one
type TemplateListResponse struct {
	Templates        []types.SavedTemplate `json:"templates"`
	ActiveTemplateID string                `json:"active_template_id,omitempty"`
}

// handleListTemplates lists saved templates
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	store := s.session.Templates()
	list := store.List()
	if list == nil {
		list = []types.SavedTemplate{}
	}
	s.jsonResponse(w, http.StatusOK, TemplateListResponse{
		Templates:        list,
		ActiveTemplateID: store.ActiveID(),
	})
}

// handleGetTemplate returns one template
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.session.Templates().Get(r.PathValue("id"))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Template not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, t)
}

// handleSaveTemplate saves the current CV as a new template
func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req SaveTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	t, candidates, err := s.session.SaveTemplate(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if candidates == nil {
		candidates = []types.SuggestionCandidate{}
	}
	s.jsonResponse(w, http.StatusCreated, SaveTemplateResponse{Template: t, Suggestions: candidates})
}

// handleUpdateTemplate re-saves the current CV into an existing template
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req UpdateTemplateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}

	t, err := s.session.UpdateTemplate(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if t == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.jsonResponse(w, http.StatusOK, t)
}

// handleSelectTemplate loads a template into the editor
func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	if !s.session.SelectTemplate(r.Context(), r.PathValue("id")) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.CV())
}

// handleNewTemplate detaches the editor from the active template
func (s *Server) handleNewTemplate(w http.ResponseWriter, r *http.Request) {
	s.session.NewTemplate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteTemplate removes a template
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	s.session.DeleteTemplate(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}
