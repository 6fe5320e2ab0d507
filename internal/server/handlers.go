package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/cv-maker/internal/ordering"
	"github.com/jonathan/cv-maker/internal/schemas"
	"github.com/jonathan/cv-maker/internal/types"
)

// maxBodyBytes bounds request bodies. A CV document is a few kilobytes.
const maxBodyBytes = 1 << 20

// DragStartRequest is the body of POST /cv/drag/start
type DragStartRequest struct {
	SectionID string `json:"section_id"`
}

// DragEndRequest is the body of POST /cv/drag/end. Zone, when set, wins
// over OverID.
type DragEndRequest struct {
	OverID string `json:"over_id,omitempty"`
	Zone   string `json:"zone,omitempty"`
}

// DragEndResponse reports whether the drop changed the section list
type DragEndResponse struct {
	Changed bool `json:"changed"`
}

// decodeJSON reads a JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}

// handleGetCV returns the CV being edited
func (s *Server) handleGetCV(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.CV())
}

// handleReplaceCV swaps in a whole CV document after schema validation
func (s *Server) handleReplaceCV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	cv, err := schemas.DecodeCV(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.session.ReplaceCV(cv); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.CV())
}

// handleUpdateSection replaces the data of one section
func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	data, err := types.UnmarshalSectionData(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ok, err := s.session.UpdateSection(id, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	section, _ := s.session.CV().SectionByID(id)
	s.jsonResponse(w, http.StatusOK, section)
}

// handleUpdateSettings applies a partial settings update
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch types.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.session.UpdateSettings(patch); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.CV().Settings)
}

// handleDragStart begins a drag gesture
func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req DragStartRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.SectionID == "" {
		s.writeError(w, &ErrValidation{Field: "section_id", Message: "is required"})
		return
	}
	if !s.session.StartDrag(req.SectionID) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"dragging": req.SectionID})
}

// handleDragEnd drops the dragged section. The gesture ends on every
// path; an unknown zone is a drop outside any target.
func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	var req DragEndRequest
	if err := decodeJSON(r, &req); err != nil {
		s.session.CancelDrag()
		s.writeError(w, err)
		return
	}

	target := ordering.ParseTarget(req.OverID)
	if req.Zone != "" {
		target = ordering.Target{}
		if zone := ordering.ZoneID(req.Zone); zone == ordering.ActiveZone || zone == ordering.InactiveZone {
			target = ordering.OverZone(zone)
		}
	}

	s.jsonResponse(w, http.StatusOK, DragEndResponse{Changed: s.session.EndDrag(target)})
}

// handleDragCancel abandons the drag gesture
func (s *Server) handleDragCancel(w http.ResponseWriter, _ *http.Request) {
	s.session.CancelDrag()
	w.WriteHeader(http.StatusNoContent)
}
