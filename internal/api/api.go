// Package api exposes the routing engine over HTTP.
//
// It provides a message ingestion endpoint used by webhook-style channels
// and operator tooling, plus stats, recent-event, and health endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/BTreeMap/CareRoute/internal/coordinator"
	"github.com/BTreeMap/CareRoute/internal/events"
)

// Constants for server configuration
const (
	// DefaultAddr is the default listen address for the API server.
	DefaultAddr = ":8080"
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultEventLimit is the number of events returned when no limit is given.
	DefaultEventLimit = 50
	// MaxEventLimit caps the events endpoint page size.
	MaxEventLimit = 500
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr          string
	TwilioWebhook http.HandlerFunc
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithTwilioWebhook mounts an inbound Twilio webhook handler at
// /webhooks/twilio.
func WithTwilioWebhook(handler http.HandlerFunc) Option {
	return func(o *Opts) { o.TwilioWebhook = handler }
}

// Server wires the routing engine behind HTTP handlers.
type Server struct {
	coord    *coordinator.Coordinator
	recorder *events.Recorder
	addr     string
	webhook  http.HandlerFunc
}

// NewServer creates an API server around the given coordinator. The recorder
// may be nil, in which case the events endpoint reports unavailable.
func NewServer(coord *coordinator.Coordinator, recorder *events.Recorder, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		coord:    coord,
		recorder: recorder,
		addr:     cfg.Addr,
		webhook:  cfg.TwilioWebhook,
	}
}

// Handler returns the routing mux, exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", s.messagesHandler)
	mux.HandleFunc("/stats", s.statsHandler)
	mux.HandleFunc("/events", s.eventsHandler)
	mux.HandleFunc("/health", s.healthHandler)
	if s.webhook != nil {
		mux.HandleFunc("/webhooks/twilio", s.webhook)
	}
	return mux
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown failed: %w", err)
	}
	slog.Info("API server stopped")
	return nil
}

// messageRequest is the body of POST /messages.
type messageRequest struct {
	UserID  string `json:"user_id"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// messagesHandler routes one user message and returns the routing result.
func (s *Server) messagesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, errorResponse("Method not allowed"))
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.messagesHandler: invalid request body", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, errorResponse("Invalid JSON body"))
		return
	}
	if req.UserID == "" {
		writeJSONResponse(w, http.StatusBadRequest, errorResponse("user_id is required"))
		return
	}
	if req.Channel == "" {
		req.Channel = "api"
	}

	result := s.coord.Process(r.Context(), req.UserID, req.Channel, req.Text)
	writeJSONResponse(w, http.StatusOK, result)
}

// statsSummary is the body of GET /stats.
type statsSummary struct {
	Routing        coordinator.StatsSnapshot `json:"routing"`
	ActiveSessions int                       `json:"active_sessions"`
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, errorResponse("Method not allowed"))
		return
	}
	writeJSONResponse(w, http.StatusOK, statsSummary{
		Routing:        s.coord.Snapshot(),
		ActiveSessions: s.coord.ActiveSessions(),
	})
}

func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, errorResponse("Method not allowed"))
		return
	}
	if s.recorder == nil {
		writeJSONResponse(w, http.StatusServiceUnavailable, errorResponse("Event recording is not enabled"))
		return
	}

	limit := DefaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSONResponse(w, http.StatusBadRequest, errorResponse("limit must be a positive integer"))
			return
		}
		if parsed > MaxEventLimit {
			parsed = MaxEventLimit
		}
		limit = parsed
	}

	recent, err := s.recorder.Recent(limit)
	if err != nil {
		slog.Error("Server.eventsHandler: failed to read events", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, errorResponse("Failed to read events"))
		return
	}
	writeJSONResponse(w, http.StatusOK, recent)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, errorResponse("Method not allowed"))
		return
	}
	writeJSONResponse(w, http.StatusOK, statusResponse{Status: "ok"})
}
