// Package llm adapts chat-completion providers to ports.ChatCompleter.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompleter calls the Chat Completions API. The key is supplied per call
// because each user brings their own.
type OpenAICompleter struct {
	baseURL string
}

// NewOpenAICompleter targets baseURL, or the public API when empty.
func NewOpenAICompleter(baseURL string) *OpenAICompleter {
	return &OpenAICompleter{baseURL: baseURL}
}

var _ ports.ChatCompleter = (*OpenAICompleter)(nil)

// Client builds an API client for key.
func (c *OpenAICompleter) Client(apiKey string) openai.Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	return openai.NewClient(opts...)
}

func (c *OpenAICompleter) Complete(ctx context.Context, apiKey string, req ports.ChatRequest) (string, error) {
	client := c.Client(apiKey)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		case domain.RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: openai returned status %d", apperrors.ErrUpstream, apiErr.StatusCode)
		}
		return "", fmt.Errorf("%w: openai request: %v", apperrors.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", apperrors.ErrUpstream)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
