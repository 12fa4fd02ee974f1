package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/coder-dipesh/zentrol/internal/store"
)

// SessionsHandler handles HTTP requests for presentation session resources.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a new SessionsHandler with the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

type createSessionRequest struct {
	SessionID   string `json:"session_id"`
	TotalSlides int    `json:"total_slides"`
}

type sessionResponse struct {
	ID           string  `json:"id"`
	SessionID    string  `json:"session_id"`
	GestureCount int     `json:"gesture_count"`
	AvgLatencyMs float64 `json:"avg_latency_ms"`
	CurrentSlide int     `json:"current_slide"`
	TotalSlides  int     `json:"total_slides"`
	IsFullscreen bool    `json:"is_fullscreen"`
	StartedAt    string  `json:"started_at"`
	EndedAt      string  `json:"ended_at,omitempty"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:           s.ID,
		SessionID:    s.SessionID,
		GestureCount: s.GestureCount,
		AvgLatencyMs: s.AvgLatencyMs,
		CurrentSlide: s.CurrentSlide,
		TotalSlides:  s.TotalSlides,
		IsFullscreen: s.IsFullscreen,
		StartedAt:    s.StartedAt.Format(time.RFC3339),
	}
	if s.EndedAt.Valid {
		resp.EndedAt = s.EndedAt.Time.Format(time.RFC3339)
	}
	return resp
}

// Create handles POST /api/sessions and registers a new session.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	sess := &store.Session{
		ID:          uuid.New().String(),
		SessionID:   req.SessionID,
		TotalSlides: req.TotalSlides,
	}

	if err := h.store.Sessions().Create(sess); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

// Stats handles GET /api/sessions/{id}/stats and returns the session's
// aggregate gesture statistics.
func (h *SessionsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	stats, err := h.store.Events().Stats(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// End handles POST /api/sessions/{id}/end and marks the session finished.
func (h *SessionsHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.store.Sessions().End(sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to end session")
		return
	}

	sess, err := h.store.Sessions().GetBySessionID(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}
