package store

import (
	"database/sql"
	"time"
)

// EventLog represents one fired gesture persisted for analytics.
type EventLog struct {
	ID              string
	SessionID       string
	Gesture         string
	Confidence      float64
	FrameCount      int
	HandX           sql.NullFloat64
	HandY           sql.NullFloat64
	HandZ           sql.NullFloat64
	DetectionTimeMs float64
	FPS             float64
	CreatedAt       time.Time
}

// SessionStats is the aggregate view of one session's gesture logs.
type SessionStats struct {
	TotalGestures int            `json:"total_gestures"`
	GestureTypes  map[string]int `json:"gesture_types"`
	AvgConfidence float64        `json:"avg_confidence"`
	AvgLatencyMs  float64        `json:"avg_latency"`
}

// EventRepository provides operations on gesture logs.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event log repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a gesture log and bumps the owning session's gesture
// count and last-activity timestamp in one transaction.
func (r *EventRepository) Create(e *EventLog) error {
	e.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO gesture_logs (id, session_id, gesture, confidence, frame_count,
		 hand_x, hand_y, hand_z, detection_time_ms, fps, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Gesture, e.Confidence, e.FrameCount,
		e.HandX, e.HandY, e.HandZ, e.DetectionTimeMs, e.FPS, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	// Missing session rows are tolerated: logs from unregistered sessions
	// still land in gesture_logs.
	_, err = tx.Exec(
		`UPDATE sessions SET gesture_count = gesture_count + 1, last_activity = ?
		 WHERE session_id = ?`,
		e.CreatedAt, e.SessionID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListBySession retrieves the logs of one session, newest first.
func (r *EventRepository) ListBySession(sessionID string, limit int) ([]*EventLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, gesture, confidence, frame_count,
		 hand_x, hand_y, hand_z, detection_time_ms, fps, created_at
		 FROM gesture_logs WHERE session_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*EventLog
	for rows.Next() {
		e := &EventLog{}
		err := rows.Scan(&e.ID, &e.SessionID, &e.Gesture, &e.Confidence, &e.FrameCount,
			&e.HandX, &e.HandY, &e.HandZ, &e.DetectionTimeMs, &e.FPS, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// Stats computes the per-session aggregate used by the dashboard.
func (r *EventRepository) Stats(sessionID string) (*SessionStats, error) {
	stats := &SessionStats{
		GestureTypes: make(map[string]int),
	}

	err := r.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(confidence), 0), COALESCE(AVG(detection_time_ms), 0)
		 FROM gesture_logs WHERE session_id = ?`,
		sessionID,
	).Scan(&stats.TotalGestures, &stats.AvgConfidence, &stats.AvgLatencyMs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT gesture, COUNT(*) FROM gesture_logs
		 WHERE session_id = ? GROUP BY gesture`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var gesture string
		var count int
		if err := rows.Scan(&gesture, &count); err != nil {
			return nil, err
		}
		stats.GestureTypes[gesture] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
