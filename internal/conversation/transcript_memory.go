package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryTranscriptStore is an in-process TranscriptStore for development and
// tests. No TTL; sessions live until the process exits.
type MemoryTranscriptStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
}

func NewMemoryTranscriptStore() *MemoryTranscriptStore {
	return &MemoryTranscriptStore{sessions: make(map[string][]Message)}
}

func (s *MemoryTranscriptStore) Append(_ context.Context, sessionID string, msg Message) error {
	if sessionID == "" {
		return errors.New("conversation: transcript sessionID required")
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.sessions[sessionID], msg)
	if len(history) > transcriptMaxMessages {
		history = history[len(history)-transcriptMaxMessages:]
	}
	s.sessions[sessionID] = history
	return nil
}

func (s *MemoryTranscriptStore) List(_ context.Context, sessionID string, limit int64) ([]Message, error) {
	if sessionID == "" {
		return nil, errors.New("conversation: transcript sessionID required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.sessions[sessionID]
	if limit > 0 && int64(len(history)) > limit {
		history = history[int64(len(history))-limit:]
	}
	out := make([]Message, len(history))
	copy(out, history)
	return out, nil
}
