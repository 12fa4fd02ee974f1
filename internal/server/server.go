// Package server provides the HTTP server for the Zentrol gesture
// analytics and live-view endpoints.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/coder-dipesh/zentrol/internal/capture"
	"github.com/coder-dipesh/zentrol/internal/metrics"
	"github.com/coder-dipesh/zentrol/internal/server/api"
	"github.com/coder-dipesh/zentrol/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Metrics   *metrics.Metrics

	// AccessLog enables per-request logging to stdout.
	AccessLog bool
}

// Server represents the Zentrol HTTP server.
type Server struct {
	config  Config
	handler http.Handler
	hub     *EventsHub
	start   time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		hub:    NewEventsHub(),
		start:  time.Now(),
	}
	s.handler = s.buildHandler()
	return s
}

// buildHandler configures all HTTP routes and middleware.
func (s *Server) buildHandler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if s.config.Store != nil {
		eventsHandler := api.NewEventsHandler(s.config.Store)
		sessionsHandler := api.NewSessionsHandler(s.config.Store)

		r.HandleFunc("/api/gestures/log", eventsHandler.LogGesture).Methods(http.MethodPost)
		r.HandleFunc("/api/logs", eventsHandler.ListLogs).Methods(http.MethodGet)
		r.HandleFunc("/api/sessions", sessionsHandler.Create).Methods(http.MethodPost)
		r.HandleFunc("/api/sessions/{id}/stats", sessionsHandler.Stats).Methods(http.MethodGet)
		r.HandleFunc("/api/sessions/{id}/end", sessionsHandler.End).Methods(http.MethodPost)
	}

	if s.config.Metrics != nil {
		r.Handle("/metrics", s.config.Metrics.Handler()).Methods(http.MethodGet)
	}

	if s.config.Camera != nil {
		r.Handle("/api/stream", NewStreamHandler(s.config.Camera)).Methods(http.MethodGet)
	}

	r.Handle("/api/ws", s.hub)

	if s.config.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	if s.config.AccessLog {
		h = handlers.CombinedLoggingHandler(os.Stdout, h)
	}
	return h
}

// Hub returns the websocket hub broadcasting fired gesture events.
func (s *Server) Hub() *EventsHub {
	return s.hub
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
