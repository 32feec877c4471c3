package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"faq-agent/internal/domain"
)

// Store keeps session transcripts between requests. Implementations hold only
// the messages after the greeting and scope them to a single session.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]domain.Message, error)
	// AppendTurn persists user then bot at positions offset and offset+1.
	AppendTurn(ctx context.Context, sessionID string, offset int, user, bot domain.Message) error
}

// ErrOffsetConflict is returned when a turn is appended at a position that
// does not follow the stored history.
var ErrOffsetConflict = errors.New("transcript: append offset does not match stored history")

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]domain.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]domain.Message)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]domain.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("transcript: session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.sessions[sessionID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) AppendTurn(_ context.Context, sessionID string, offset int, user, bot domain.Message) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("transcript: session id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.sessions[sessionID]
	if offset != len(msgs) {
		return fmt.Errorf("%w: offset %d, stored %d", ErrOffsetConflict, offset, len(msgs))
	}
	s.sessions[sessionID] = append(msgs, user, bot)
	return nil
}
