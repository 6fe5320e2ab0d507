package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jonathan/cv-maker/internal/editor"
	"github.com/jonathan/cv-maker/internal/exporter"
	"github.com/jonathan/cv-maker/internal/rendering"
	"github.com/jonathan/cv-maker/internal/types"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// PreviewMessage is pushed to live-preview clients after each change
type PreviewMessage struct {
	Type      string    `json:"type"`
	HTML      string    `json:"html"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExportRequest is the body of POST /cv/exports
type ExportRequest struct {
	Formats []string `json:"formats"`
}

func previewMessage(cv types.CV, reason string) (PreviewMessage, error) {
	html, err := rendering.HTML(cv)
	if err != nil {
		return PreviewMessage{}, err
	}
	return PreviewMessage{Type: "preview", HTML: html, Reason: reason, UpdatedAt: cv.UpdatedAt}, nil
}

// handlePreviewHTML serves the printable preview page
func (s *Server) handlePreviewHTML(w http.ResponseWriter, _ *http.Request) {
	html, err := rendering.HTML(s.session.CV())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, html) //nolint:errcheck
}

// handlePreviewTree serves the preview as a block tree
func (s *Server) handlePreviewTree(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, rendering.Render(s.session.CV()))
}

// handleHeaderLayout serves the packed contact rows of the header
func (s *Server) handleHeaderLayout(w http.ResponseWriter, _ *http.Request) {
	rows := rendering.HeaderRows(s.session.CV())
	if rows == nil {
		rows = [][]rendering.ContactItem{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"rows": rows})
}

// handleOverflow reports whether the preview fits on one page
func (s *Server) handleOverflow(w http.ResponseWriter, r *http.Request) {
	if s.overflow == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "page measurement requires a browser")
		return
	}
	html, err := rendering.HTML(s.session.CV())
	if err != nil {
		s.writeError(w, err)
		return
	}
	o, err := s.overflow.CheckOverflow(r.Context(), html)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, o)
}

// handleExportDownload renders one format and returns it as an attachment
func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	formats, err := exporter.ParseFormats([]string{r.PathValue("format")})
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}
	artifacts, err := s.exporter.Render(r.Context(), s.session.CV(), formats)
	if err != nil {
		s.writeError(w, err)
		return
	}

	a := artifacts[0]
	w.Header().Set("Content-Type", a.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(a.Data) //nolint:errcheck
}

// handleExportToSink renders formats and stores them in the artifact sink
func (s *Server) handleExportToSink(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	var req ExportRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}
	formats, err := exporter.ParseFormats(req.Formats)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "formats", Message: err.Error()})
		return
	}
	keys, err := s.exporter.Export(r.Context(), s.session.CV(), formats)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string][]string{"keys": keys})
}

// handlePreviewEvents streams the preview as Server-Sent Events
func (s *Server) handlePreviewEvents(w http.ResponseWriter, r *http.Request) {
	changes, unsubscribe := s.session.Subscribe()
	defer unsubscribe()

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	send := func(cv types.CV, reason string) error {
		msg, err := previewMessage(cv, reason)
		if err != nil {
			sse.WriteError(err.Error())
			return nil
		}
		return sse.WriteEvent("preview", strconv.FormatInt(cv.UpdatedAt.UnixMilli(), 10), msg)
	}

	if err := send(s.session.CV(), ""); err != nil {
		return
	}

	keepAlive := time.NewTicker(wsPingPeriod)
	defer keepAlive.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAlive.C:
			if err := sse.Ping(); err != nil {
				return
			}
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := send(c.CV, c.Reason); err != nil {
				return
			}
		}
	}
}

// handlePreviewSocket pushes the preview over a websocket after each change
func (s *Server) handlePreviewSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("upgrade websocket failed")
		return
	}
	defer conn.Close()

	changes, unsubscribe := s.session.Subscribe()
	defer unsubscribe()

	log := s.logger.With().Str("client", s.extractClientID(r)).Logger()
	log.Debug().Msg("preview client connected")

	// Clients only send control frames; the read loop services pongs and
	// notices the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(wsPongWait)) //nolint:errcheck
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	if err := s.writePreview(conn, editor.Change{CV: s.session.CV()}); err != nil {
		log.Debug().Err(err).Msg("preview client write failed")
		return
	}
	for {
		select {
		case <-closed:
			log.Debug().Msg("preview client disconnected")
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := s.writePreview(conn, c); err != nil {
				log.Debug().Err(err).Msg("preview client write failed")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) writePreview(conn *websocket.Conn, c editor.Change) error {
	msg, err := previewMessage(c.CV, c.Reason)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to render preview")
		return nil
	}
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait)) //nolint:errcheck
	return conn.WriteJSON(msg)
}
