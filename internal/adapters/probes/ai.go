package probes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/bizos_backend/internal/adapters/llm"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// OpenAIProber lists models with the key to prove it works.
type OpenAIProber struct {
	llm     *llm.OpenAICompleter
	timeout time.Duration
}

func NewOpenAIProber(completer *llm.OpenAICompleter, timeout time.Duration) *OpenAIProber {
	return &OpenAIProber{llm: completer, timeout: timeout}
}

var _ ports.ConnectionProber = (*OpenAIProber)(nil)

func (p *OpenAIProber) Kind() domain.IntegrationKind { return domain.KindOpenAI }

func (p *OpenAIProber) Probe(ctx context.Context, cfg domain.IntegrationConfig) domain.ConnectionTestResult {
	c, ok := cfg.(domain.OpenAIConfig)
	if !ok {
		return failure("Configuração da OpenAI inválida")
	}
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	client := p.llm.Client(c.APIKey)
	if _, err := client.Models.List(ctx); err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return failure(statusMessage("OpenAI", apiErr.StatusCode))
		}
		return failure("Não foi possível conectar à OpenAI: " + err.Error())
	}
	return success("Conectado à OpenAI")
}

// GeminiProber lists models with the key to prove it works.
type GeminiProber struct {
	llm     *llm.GeminiCompleter
	timeout time.Duration
}

func NewGeminiProber(completer *llm.GeminiCompleter, timeout time.Duration) *GeminiProber {
	return &GeminiProber{llm: completer, timeout: timeout}
}

var _ ports.ConnectionProber = (*GeminiProber)(nil)

func (p *GeminiProber) Kind() domain.IntegrationKind { return domain.KindGemini }

func (p *GeminiProber) Probe(ctx context.Context, cfg domain.IntegrationConfig) domain.ConnectionTestResult {
	c, ok := cfg.(domain.GeminiConfig)
	if !ok {
		return failure("Configuração do Gemini inválida")
	}
	ctx, cancel := withTimeout(ctx, p.timeout)
	defer cancel()

	client, err := p.llm.Client(ctx, c.APIKey)
	if err != nil {
		return failure("Não foi possível criar o cliente do Gemini: " + err.Error())
	}
	if _, err := client.Models.List(ctx, nil); err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return failure(statusMessage("Gemini", apiErr.Code))
		}
		return failure("Não foi possível conectar ao Gemini: " + err.Error())
	}
	return success("Conectado ao Gemini")
}

// statusMessage explains an AI provider error status to the user.
func statusMessage(provider string, status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Chave de API inválida"
	case http.StatusTooManyRequests:
		return "Limite de requisições excedido. Tente novamente em instantes"
	case http.StatusBadRequest:
		return "Modelo ou parâmetros inválidos"
	default:
		return fmt.Sprintf("Erro ao conectar com %s (status %d)", provider, status)
	}
}
