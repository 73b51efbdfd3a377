package session

import (
	"context"
	"sync"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
)

// MemoryStore is a process-local SessionStore for single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ChatSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]domain.ChatSession)}
}

var _ portsrepo.SessionStore = (*MemoryStore)(nil)

func (s *MemoryStore) Load(_ context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key(userID, sessionID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	session.Messages = append([]domain.ChatMessage(nil), session.Messages...)
	return &session, nil
}

func (s *MemoryStore) Save(_ context.Context, session domain.ChatSession) error {
	session.Messages = append([]domain.ChatMessage(nil), session.Messages...)
	s.mu.Lock()
	s.sessions[key(session.UserID, session.SessionID)] = session
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, key(userID, sessionID))
	s.mu.Unlock()
	return nil
}
