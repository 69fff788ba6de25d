package leadchat

import (
	"context"
	"errors"
	"sync"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
var ErrSessionNotFound = errors.New("leadchat: session not found")

// SessionStore persists chat sessions for the duration of a conversation.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
}

// MemorySessionStore keeps sessions in process memory. Used in tests and as a
// fallback when redis is not configured.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (s *MemorySessionStore) Save(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	copied.Turns = append([]Turn(nil), session.Turns...)
	s.sessions[session.ID] = &copied
	return nil
}

func (s *MemorySessionStore) Load(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	copied.Turns = append([]Turn(nil), session.Turns...)
	return &copied, nil
}
