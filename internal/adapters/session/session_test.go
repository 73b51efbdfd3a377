package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/bizos_backend/internal/adapters/session"
	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/bizos_backend/internal/utils/crypto"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func settingsWithKey(apiKey string) domain.AdvisorSettings {
	settings := domain.DefaultAdvisorSettings()
	settings.APIKey = apiKey
	return settings
}

func newSealer(t *testing.T) *crypto.Sealer {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sealer, err := crypto.NewSealer(key)
	require.NoError(t, err)
	return sealer
}

type SessionStoreTestSuite struct {
	suite.Suite
	store portsrepo.SessionStore
	newFn func(t *testing.T) portsrepo.SessionStore
}

func (s *SessionStoreTestSuite) SetupTest() {
	s.store = s.newFn(s.T())
}

func (s *SessionStoreTestSuite) TestLoadMissing() {
	_, err := s.store.Load(context.Background(), "u1", "default")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *SessionStoreTestSuite) TestSaveLoadClear() {
	ctx := context.Background()
	ts := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)
	in := domain.ChatSession{
		SessionID: "default",
		UserID:    "u1",
		Settings:  settingsWithKey("sk-session-secret"),
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "Como estão as vendas?", Timestamp: ts},
			{Role: domain.RoleAssistant, Content: "Bem.", Timestamp: ts},
		},
		UpdatedAt: ts,
	}
	s.Require().NoError(s.store.Save(ctx, in))

	out, err := s.store.Load(ctx, "u1", "default")
	s.Require().NoError(err)
	s.Equal(in.Settings, out.Settings)
	s.Require().Len(out.Messages, 2)
	s.Equal("Como estão as vendas?", out.Messages[0].Content)
	s.True(ts.Equal(out.UpdatedAt))

	_, err = s.store.Load(ctx, "u2", "default")
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.Require().NoError(s.store.Clear(ctx, "u1", "default"))
	_, err = s.store.Load(ctx, "u1", "default")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &SessionStoreTestSuite{newFn: func(*testing.T) portsrepo.SessionStore {
		return session.NewMemoryStore()
	}})
}

func TestRedisStore(t *testing.T) {
	suite.Run(t, &SessionStoreTestSuite{newFn: func(t *testing.T) portsrepo.SessionStore {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return session.NewRedisStore(client, newSealer(t), time.Hour)
	}})
}

func TestRedisStore_AppliesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := session.NewRedisStore(client, newSealer(t), 30*time.Minute)

	require.NoError(t, store.Save(context.Background(), domain.ChatSession{SessionID: "s", UserID: "u"}))
	assert.Equal(t, 30*time.Minute, mr.TTL("bizos:advisor:session:u:s"))

	mr.FastForward(31 * time.Minute)
	_, err := store.Load(context.Background(), "u", "s")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRedisStore_SealsAPIKey(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	sealer := newSealer(t)
	store := session.NewRedisStore(client, sealer, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.ChatSession{SessionID: "s", UserID: "u", Settings: settingsWithKey("sk-live-123")}))

	raw, err := mr.Get("bizos:advisor:session:u:s")
	require.NoError(t, err)
	assert.NotContains(t, raw, "sk-live-123")
	assert.Contains(t, raw, "sealedApiKey")

	out, err := store.Load(ctx, "u", "s")
	require.NoError(t, err)
	assert.Equal(t, "sk-live-123", out.Settings.APIKey)

	other := session.NewRedisStore(client, newSealer(t), time.Hour)
	_, err = other.Load(ctx, "u", "s")
	assert.ErrorIs(t, err, crypto.ErrOpen)
}

func TestRedisStore_NoKeyStoresNothingSealed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := session.NewRedisStore(client, newSealer(t), time.Hour)

	require.NoError(t, store.Save(context.Background(), domain.ChatSession{SessionID: "s", UserID: "u", Settings: domain.DefaultAdvisorSettings()}))

	raw, err := mr.Get("bizos:advisor:session:u:s")
	require.NoError(t, err)
	assert.NotContains(t, raw, "sealedApiKey")
}
