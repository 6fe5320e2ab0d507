// Package server provides the HTTP API of the CV editing session.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jonathan/cv-maker/internal/config"
	"github.com/jonathan/cv-maker/internal/editor"
	"github.com/jonathan/cv-maker/internal/exporter"
	"github.com/jonathan/cv-maker/internal/metrics"
	"github.com/jonathan/cv-maker/internal/printing"
	"github.com/jonathan/cv-maker/internal/server/middleware"
	"github.com/jonathan/cv-maker/internal/server/ratelimit"
)

// OverflowChecker measures whether a rendered page fits on one A4 sheet.
type OverflowChecker interface {
	CheckOverflow(ctx context.Context, html string) (printing.Overflow, error)
}

// Deps are the collaborators the server exposes over HTTP.
type Deps struct {
	Session  *editor.Session
	Exporter *exporter.Exporter
	Overflow OverflowChecker // optional; /cv/overflow answers 503 without it
	Logger   zerolog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer    *http.Server
	handler       http.Handler
	session       *editor.Session
	exporter      *exporter.Exporter
	overflow      OverflowChecker
	rateLimiter   *ratelimit.Limiter
	logger        zerolog.Logger
	allowedOrigin string
	upgrader      websocket.Upgrader
}

// New creates a new server instance
func New(cfg config.ServerConfig, deps Deps) *Server {
	s := &Server{
		session:       deps.Session,
		exporter:      deps.Exporter,
		overflow:      deps.Overflow,
		logger:        deps.Logger,
		allowedOrigin: cfg.AllowedOrigin,
		rateLimiter:   ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	// Document
	mux.HandleFunc("GET /cv", s.handleGetCV)
	mux.HandleFunc("PUT /cv", s.handleReplaceCV)
	mux.HandleFunc("PUT /cv/sections/{id}", s.handleUpdateSection)
	mux.HandleFunc("PATCH /cv/settings", s.handleUpdateSettings)

	// Drag and drop
	mux.HandleFunc("POST /cv/drag/start", s.handleDragStart)
	mux.HandleFunc("POST /cv/drag/end", s.handleDragEnd)
	mux.HandleFunc("POST /cv/drag/cancel", s.handleDragCancel)

	// Derived views
	mux.HandleFunc("GET /cv/preview", s.handlePreviewHTML)
	mux.HandleFunc("GET /cv/preview/tree", s.handlePreviewTree)
	mux.HandleFunc("GET /cv/preview/events", s.handlePreviewEvents)
	mux.HandleFunc("GET /cv/layout/header", s.handleHeaderLayout)
	mux.HandleFunc("GET /cv/overflow", s.handleOverflow)
	mux.HandleFunc("GET /ws/preview", s.handlePreviewSocket)

	// Export
	mux.HandleFunc("GET /cv/export/{format}", s.handleExportDownload)
	mux.HandleFunc("POST /cv/exports", s.handleExportToSink)

	// Templates
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /templates", s.handleSaveTemplate)
	mux.HandleFunc("POST /templates/new", s.handleNewTemplate)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("PUT /templates/{id}", s.handleUpdateTemplate)
	mux.HandleFunc("POST /templates/{id}/select", s.handleSelectTemplate)
	mux.HandleFunc("DELETE /templates/{id}", s.handleDeleteTemplate)

	// Suggestions
	mux.HandleFunc("GET /suggestions", s.handleListSuggestions)
	mux.HandleFunc("POST /suggestions", s.handleAddSuggestion)
	mux.HandleFunc("POST /suggestions/confirm", s.handleConfirmSuggestions)
	mux.HandleFunc("DELETE /suggestions/{id}", s.handleRemoveSuggestion)
	mux.HandleFunc("DELETE /suggestions", s.handleClearSuggestions)

	// RequestID wraps the chain from outside so the mux writes r.Pattern on
	// the request withMetrics holds.
	s.handler = middleware.RequestID(s.withMetrics(s.withRateLimit(s.withLogging(s.withCORS(mux)))))
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF printing starts a browser
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.logger.Info().Msg("server stopped")
	return nil
}

// Close releases background resources without serving. Used by tests.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// checkOrigin accepts same-host requests, requests without Origin, and the
// configured origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.allowedOrigin == "*" || origin == s.allowedOrigin {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	origin := s.allowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", middleware.RequestIDHeader+", Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("hijacking not supported")
	}
	if r.status == 0 {
		r.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (r *statusRecorder) code() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// withMetrics records request counts and latency by route pattern.
func (s *Server) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := metrics.RequestStarted()
		defer done()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.ObserveRequest(r.Method, pattern, rec.code(), time.Since(start))
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		event := s.logger.Debug()
		if rec.code() >= http.StatusInternalServerError {
			event = s.logger.Warn()
		}
		event.
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", rec.code()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is ignored; the service is meant to run without a proxy.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	retryAfter := max(int(info.RetryAfter.Round(time.Second).Seconds()), 1)
	w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))

	s.logger.Info().
		Str("client", s.extractClientID(r)).
		Str("path", r.URL.Path).
		Int("limit", info.Limit).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded, please try again later",
		"limit":       info.Limit,
		"retry_after": retryAfter,
	})
}
