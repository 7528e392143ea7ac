// Package transcript archives the append-only answer stream of interview
// sessions. The session object itself stays with the host; only the
// question/answer records pass through here.
package transcript

import (
	"context"
	"sync"
	"time"
)

// Record is one archived question/answer pair.
type Record struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// Store persists transcript records keyed by session identity. Sessions of
// distinct users share no state, so implementations only need to be safe for
// concurrent use across different session keys.
type Store interface {
	// Append adds one record to the session's transcript.
	Append(ctx context.Context, sessionID string, record Record) error
	// History returns the session's records in append order. A missing
	// session yields an empty slice, not an error.
	History(ctx context.Context, sessionID string) ([]Record, error)
	// Clear removes the session's transcript. Clearing a missing session
	// succeeds silently.
	Clear(ctx context.Context, sessionID string) error
}

// InMemoryStore keeps transcripts in a process-local map. Not persistent;
// suitable for a single-process host and for tests.
type InMemoryStore struct {
	mu          sync.RWMutex
	transcripts map[string][]Record
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		transcripts: make(map[string][]Record),
	}
}

func (s *InMemoryStore) Append(_ context.Context, sessionID string, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transcripts[sessionID] = append(s.transcripts[sessionID], record)
	return nil
}

func (s *InMemoryStore) History(_ context.Context, sessionID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.transcripts[sessionID]
	if !ok {
		return []Record{}, nil
	}

	// Copy so callers cannot mutate the stored slice.
	cpy := make([]Record, len(history))
	copy(cpy, history)
	return cpy, nil
}

func (s *InMemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.transcripts, sessionID)
	return nil
}
