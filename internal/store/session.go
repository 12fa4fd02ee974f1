package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session represents one presentation session.
type Session struct {
	ID           string
	SessionID    string
	GestureCount int
	AvgLatencyMs float64
	CurrentSlide int
	TotalSlides  int
	IsFullscreen bool
	StartedAt    time.Time
	LastActivity time.Time
	EndedAt      sql.NullTime
}

// SessionRepository provides operations on presentation sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session.
func (r *SessionRepository) Create(sess *Session) error {
	now := time.Now()
	sess.StartedAt = now
	sess.LastActivity = now

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, session_id, gesture_count, avg_latency_ms,
		 current_slide, total_slides, is_fullscreen, started_at, last_activity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.SessionID, sess.GestureCount, sess.AvgLatencyMs,
		sess.CurrentSlide, sess.TotalSlides, boolToInt(sess.IsFullscreen),
		sess.StartedAt, sess.LastActivity,
	)
	return err
}

// GetBySessionID retrieves a session by its public session identifier.
func (r *SessionRepository) GetBySessionID(sessionID string) (*Session, error) {
	sess := &Session{}
	var fullscreen int

	err := r.db.QueryRow(
		`SELECT id, session_id, gesture_count, avg_latency_ms, current_slide,
		 total_slides, is_fullscreen, started_at, last_activity, ended_at
		 FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&sess.ID, &sess.SessionID, &sess.GestureCount, &sess.AvgLatencyMs,
		&sess.CurrentSlide, &sess.TotalSlides, &fullscreen,
		&sess.StartedAt, &sess.LastActivity, &sess.EndedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess.IsFullscreen = fullscreen != 0
	return sess, nil
}

// UpdateSlideState records the current slide position and fullscreen flag.
func (r *SessionRepository) UpdateSlideState(sessionID string, current, total int, fullscreen bool) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET current_slide = ?, total_slides = ?, is_fullscreen = ?,
		 last_activity = ? WHERE session_id = ?`,
		current, total, boolToInt(fullscreen), time.Now(), sessionID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// UpdateLatency records the rolling average detection latency.
func (r *SessionRepository) UpdateLatency(sessionID string, avgLatencyMs float64) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET avg_latency_ms = ?, last_activity = ? WHERE session_id = ?`,
		avgLatencyMs, time.Now(), sessionID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// End marks a session as finished.
func (r *SessionRepository) End(sessionID string) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ? WHERE session_id = ? AND ended_at IS NULL`,
		time.Now(), sessionID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
