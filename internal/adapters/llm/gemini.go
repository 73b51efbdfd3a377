package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	"google.golang.org/genai"
)

// GeminiCompleter calls the Gemini API through the genai SDK.
type GeminiCompleter struct {
	baseURL string
}

// NewGeminiCompleter targets baseURL, or the public endpoint when empty.
func NewGeminiCompleter(baseURL string) *GeminiCompleter {
	return &GeminiCompleter{baseURL: baseURL}
}

var _ ports.ChatCompleter = (*GeminiCompleter)(nil)

// Client builds an API client for key.
func (c *GeminiCompleter) Client(ctx context.Context, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	return genai.NewClient(ctx, cfg)
}

func (c *GeminiCompleter) Complete(ctx context.Context, apiKey string, req ports.ChatRequest) (string, error) {
	client, err := c.Client(ctx, apiKey)
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.RoleUser
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: gemini returned status %d", apperrors.ErrUpstream, apiErr.Code)
		}
		return "", fmt.Errorf("%w: gemini request: %v", apperrors.ErrUpstream, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned an empty answer", apperrors.ErrUpstream)
	}
	return text, nil
}
