package llm_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/bizos_backend/internal/adapters/llm"
	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompleter_SendsHistoryAndReturnsAnswer(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Aumente o ticket médio. "}}]}`))
	}))
	defer srv.Close()

	answer, err := llm.NewOpenAICompleter(srv.URL).Complete(t.Context(), "sk-test", ports.ChatRequest{
		Model:        "gpt-4o-mini",
		SystemPrompt: "system",
		Messages: []domain.ChatMessage{
			{Role: domain.RoleUser, Content: "oi"},
			{Role: domain.RoleAssistant, Content: "olá"},
			{Role: domain.RoleUser, Content: "como vender mais?"},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})

	require.NoError(t, err)
	assert.Equal(t, "Aumente o ticket médio.", answer)
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.EqualValues(t, 500, body["max_tokens"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])
}

func TestOpenAICompleter_MapsAPIErrorsToUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	_, err := llm.NewOpenAICompleter(srv.URL).Complete(t.Context(), "sk-bad", ports.ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []domain.ChatMessage{{Role: domain.RoleUser, Content: "oi"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Contains(t, err.Error(), "401")
}
