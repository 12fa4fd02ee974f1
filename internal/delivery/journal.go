package delivery

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// JournalSink appends records to a local binary journal, one
// length-prefixed CBOR document per record (4-byte big-endian length, then
// the document). The journal is an offline artifact: sessions can be
// replayed or inspected without the analytics server.
type JournalSink struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
}

// NewJournalSink opens (or creates) the journal file for appending.
func NewJournalSink(path string) (*JournalSink, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &JournalSink{
		file: file,
		w:    bufio.NewWriter(file),
	}, nil
}

func (s *JournalSink) Name() string { return "journal" }

func (s *JournalSink) Deliver(rec Record) error {
	payload, err := cbor.Marshal(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(payload)))

	if _, err := s.w.Write(length[:]); err != nil {
		return err
	}
	if _, err := s.w.Write(payload); err != nil {
		return err
	}

	// Flush per record so a crash loses at most the record being written.
	return s.w.Flush()
}

func (s *JournalSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// ReadJournal decodes every record from a journal stream. Used by tooling
// and tests; a truncated trailing record terminates the read without error.
func ReadJournal(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)

	var records []Record
	for {
		var length [4]byte
		if _, err := io.ReadFull(br, length[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return records, nil
			}
			return records, err
		}

		payload := make([]byte, binary.BigEndian.Uint32(length[:]))
		if _, err := io.ReadFull(br, payload); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return records, nil
			}
			return records, err
		}

		var rec Record
		if err := cbor.Unmarshal(payload, &rec); err != nil {
			return records, fmt.Errorf("decode record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}
