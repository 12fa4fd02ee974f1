package delivery

import (
	"database/sql"

	"github.com/coder-dipesh/zentrol/internal/store"
)

// StoreSink persists records to the local SQLite analytics store.
type StoreSink struct {
	events *store.EventRepository
}

// NewStoreSink creates a sink over the given store.
func NewStoreSink(s *store.Store) *StoreSink {
	return &StoreSink{events: s.Events()}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Deliver(rec Record) error {
	return s.events.Create(&store.EventLog{
		ID:              rec.ID,
		SessionID:       rec.SessionID,
		Gesture:         string(rec.Gesture),
		Confidence:      rec.Confidence,
		FrameCount:      rec.FrameCount,
		HandX:           sql.NullFloat64{Float64: rec.HandX, Valid: true},
		HandY:           sql.NullFloat64{Float64: rec.HandY, Valid: true},
		HandZ:           sql.NullFloat64{Float64: rec.HandZ, Valid: true},
		DetectionTimeMs: rec.DetectionTimeMs,
		FPS:             rec.FPS,
	})
}

// Close is a no-op; the store is owned by the caller.
func (s *StoreSink) Close() error { return nil }
