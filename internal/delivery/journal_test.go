package delivery

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder-dipesh/zentrol/internal/pose"
)

func TestJournalSink_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.journal")

	sink, err := NewJournalSink(path)
	if err != nil {
		t.Fatalf("NewJournalSink() error = %v", err)
	}

	want := []Record{
		{ID: "a", SessionID: "s", Gesture: pose.Victory, Confidence: 0.91, Timestamp: time.Now().UTC()},
		{ID: "b", SessionID: "s", Gesture: pose.PointUp, Confidence: 1.0, FrameCount: 15},
		{ID: "c", SessionID: "s", Gesture: pose.Fist},
	}
	for _, rec := range want {
		if err := sink.Deliver(rec); err != nil {
			t.Fatalf("Deliver(%s) error = %v", rec.ID, err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer f.Close()

	got, err := ReadJournal(f)
	if err != nil {
		t.Fatalf("ReadJournal() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len(records) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Gesture != want[i].Gesture {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestJournalSink_AppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.journal")

	for _, id := range []string{"first", "second"} {
		sink, err := NewJournalSink(path)
		if err != nil {
			t.Fatalf("NewJournalSink() error = %v", err)
		}
		if err := sink.Deliver(Record{ID: id, Gesture: pose.OK}); err != nil {
			t.Fatalf("Deliver() error = %v", err)
		}
		sink.Close()
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer f.Close()

	got, err := ReadJournal(f)
	if err != nil {
		t.Fatalf("ReadJournal() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "first" || got[1].ID != "second" {
		t.Errorf("records = %+v, want first then second", got)
	}
}

func TestReadJournal_TruncatedTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.journal")

	sink, err := NewJournalSink(path)
	if err != nil {
		t.Fatalf("NewJournalSink() error = %v", err)
	}
	if err := sink.Deliver(Record{ID: "whole", Gesture: pose.OpenPalm}); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	sink.Close()

	// Simulate a crash mid-write: a length prefix promising more bytes
	// than the file holds.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	raw = append(raw, 0x00, 0x00, 0x01, 0x00, 0xde, 0xad)

	got, err := ReadJournal(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadJournal() on truncated tail error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "whole" {
		t.Errorf("records = %+v, want only the whole record", got)
	}
}
