// Package api implements the HTTP API handlers for gesture logs and
// presentation sessions.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/coder-dipesh/zentrol/internal/store"
)

// EventsHandler handles HTTP requests for gesture log resources.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

// Request and response types

type logGestureRequest struct {
	SessionID       string   `json:"session_id"`
	Gesture         string   `json:"gesture_type"`
	Confidence      float64  `json:"confidence"`
	FrameCount      int      `json:"frame_count"`
	HandX           *float64 `json:"hand_x"`
	HandY           *float64 `json:"hand_y"`
	HandZ           *float64 `json:"hand_z"`
	DetectionTimeMs float64  `json:"detection_time_ms"`
	FPS             float64  `json:"fps"`
}

type logGestureResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Gesture   string `json:"gesture_type"`
	CreatedAt string `json:"created_at"`
}

type eventLogResponse struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	Gesture         string  `json:"gesture_type"`
	Confidence      float64 `json:"confidence"`
	FrameCount      int     `json:"frame_count"`
	DetectionTimeMs float64 `json:"detection_time_ms"`
	FPS             float64 `json:"fps"`
	CreatedAt       string  `json:"created_at"`
}

type listLogsResponse struct {
	Logs []eventLogResponse `json:"logs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// LogGesture handles POST /api/gestures/log and records a fired gesture.
func (h *EventsHandler) LogGesture(w http.ResponseWriter, r *http.Request) {
	var req logGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.Gesture == "" {
		writeError(w, http.StatusBadRequest, "gesture_type is required")
		return
	}

	log := &store.EventLog{
		ID:              uuid.New().String(),
		SessionID:       req.SessionID,
		Gesture:         req.Gesture,
		Confidence:      req.Confidence,
		FrameCount:      req.FrameCount,
		HandX:           nullFloat(req.HandX),
		HandY:           nullFloat(req.HandY),
		HandZ:           nullFloat(req.HandZ),
		DetectionTimeMs: req.DetectionTimeMs,
		FPS:             req.FPS,
	}

	if err := h.store.Events().Create(log); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to log gesture")
		return
	}

	writeJSON(w, http.StatusCreated, logGestureResponse{
		ID:        log.ID,
		SessionID: log.SessionID,
		Gesture:   log.Gesture,
		CreatedAt: log.CreatedAt.Format(time.RFC3339),
	})
}

// ListLogs handles GET /api/logs?session_id=...&limit=... and returns a
// session's gesture logs, newest first.
func (h *EventsHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	logs, err := h.store.Events().ListBySession(sessionID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list logs")
		return
	}

	response := listLogsResponse{
		Logs: make([]eventLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		response.Logs = append(response.Logs, eventLogResponse{
			ID:              l.ID,
			SessionID:       l.SessionID,
			Gesture:         l.Gesture,
			Confidence:      l.Confidence,
			FrameCount:      l.FrameCount,
			DetectionTimeMs: l.DetectionTimeMs,
			FPS:             l.FPS,
			CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
