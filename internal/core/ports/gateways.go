package ports

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// ChatRequest is a single request/response chat completion.
type ChatRequest struct {
	Model        string
	SystemPrompt string
	Messages     []domain.ChatMessage // oldest first, ends with the user question
	Temperature  float64
	MaxTokens    int
}

// ChatCompleter talks to one LLM provider.
type ChatCompleter interface {
	Complete(ctx context.Context, apiKey string, req ChatRequest) (string, error)
}

// EventPublisher emits domain events to a broker.
type EventPublisher interface {
	PublishTransactionChanged(ctx context.Context, event domain.TransactionChangedEvent) error
}

// ConnectionProber runs the connectivity test of one integration kind.
// Validation failures and upstream errors are reported in the result, never as a Go error.
type ConnectionProber interface {
	Kind() domain.IntegrationKind
	Probe(ctx context.Context, cfg domain.IntegrationConfig) domain.ConnectionTestResult
}
