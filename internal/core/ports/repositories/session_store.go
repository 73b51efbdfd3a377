package repositories

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// SessionStore keeps advisor chat sessions. Load returns ErrNotFound for an unknown session.
type SessionStore interface {
	Load(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error)
	Save(ctx context.Context, session domain.ChatSession) error
	Clear(ctx context.Context, userID, sessionID string) error
}
