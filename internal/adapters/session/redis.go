// Package session stores advisor chat sessions.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bizos:advisor:session:"

func key(userID, sessionID string) string {
	return keyPrefix + userID + ":" + sessionID
}

// Sealer is the subset of crypto.Sealer used to keep the settings API key out of Redis in clear.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// RedisStore keeps each session as one JSON value with a sliding TTL.
type RedisStore struct {
	client redis.UniversalClient
	sealer Sealer
	ttl    time.Duration
}

// storedSession is the Redis value: the session without its API key, plus the sealed key.
type storedSession struct {
	domain.ChatSession
	SealedAPIKey []byte `json:"sealedApiKey,omitempty"`
}

// NewRedisStore uses client; a zero ttl keeps sessions forever.
func NewRedisStore(client redis.UniversalClient, sealer Sealer, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, sealer: sealer, ttl: ttl}
}

var _ portsrepo.SessionStore = (*RedisStore)(nil)

func (s *RedisStore) Load(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error) {
	raw, err := s.client.Get(ctx, key(userID, sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to load advisor session", err)
	}
	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode advisor session: %w", err)
	}
	session := stored.ChatSession
	session.Settings.APIKey = ""
	if len(stored.SealedAPIKey) > 0 {
		apiKey, err := s.sealer.Open(stored.SealedAPIKey)
		if err != nil {
			return nil, fmt.Errorf("open advisor api key: %w", err)
		}
		session.Settings.APIKey = string(apiKey)
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session domain.ChatSession) error {
	stored := storedSession{ChatSession: session}
	if apiKey := session.Settings.APIKey; apiKey != "" {
		sealed, err := s.sealer.Seal([]byte(apiKey))
		if err != nil {
			return fmt.Errorf("seal advisor api key: %w", err)
		}
		stored.SealedAPIKey = sealed
		stored.Settings.APIKey = ""
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode advisor session: %w", err)
	}
	if err := s.client.Set(ctx, key(session.UserID, session.SessionID), raw, s.ttl).Err(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save advisor session", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, userID, sessionID string) error {
	if err := s.client.Del(ctx, key(userID, sessionID)).Err(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to clear advisor session", err)
	}
	return nil
}
