package domain

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
)

// IntegrationKind identifies the external service an integration enables.
type IntegrationKind string

const (
	KindWhatsApp IntegrationKind = "whatsapp"
	KindEmail    IntegrationKind = "email"
	KindOpenAI   IntegrationKind = "openai"
	KindGemini   IntegrationKind = "gemini"
)

// IsAI reports whether the kind provides chat completions.
func (k IntegrationKind) IsAI() bool {
	return k == KindOpenAI || k == KindGemini
}

// IntegrationConfig is the per-kind settings variant. Each implementation
// carries its own validation tags.
type IntegrationConfig interface {
	Kind() IntegrationKind
}

// WhatsAppConfig holds WhatsApp Business (Graph API) credentials.
type WhatsAppConfig struct {
	PhoneNumberID     string `json:"phoneNumberId" validate:"required,numeric"`
	AccessToken       string `json:"accessToken" validate:"required"`
	BusinessAccountID string `json:"businessAccountId,omitempty"`
}

func (WhatsAppConfig) Kind() IntegrationKind { return KindWhatsApp }

// EmailConfig holds SMTP settings. Only the shape is ever validated.
type EmailConfig struct {
	Provider string `json:"provider,omitempty"`
	SMTPHost string `json:"smtpHost" validate:"required,hostname"`
	SMTPPort int    `json:"smtpPort" validate:"required,min=1,max=65535"`
	Username string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FromName string `json:"fromName,omitempty"`
}

func (EmailConfig) Kind() IntegrationKind { return KindEmail }

// OpenAIConfig holds an OpenAI-compatible API key.
type OpenAIConfig struct {
	APIKey string `json:"apiKey" validate:"required,startswith=sk-"`
	Model  string `json:"model,omitempty"`
}

func (OpenAIConfig) Kind() IntegrationKind { return KindOpenAI }

// GeminiConfig holds a Google Gemini API key.
type GeminiConfig struct {
	APIKey string `json:"apiKey" validate:"required"`
	Model  string `json:"model,omitempty"`
}

func (GeminiConfig) Kind() IntegrationKind { return KindGemini }

// Integration is a stored credential bundle for one external service.
type Integration struct {
	IntegrationID string            `json:"integrationID"`
	UserID        string            `json:"userID"`
	Kind          IntegrationKind   `json:"kind"`
	IsActive      bool              `json:"isActive"`
	Config        IntegrationConfig `json:"config"`
	AuditFields
}

// DecodeIntegrationConfig parses raw JSON into the variant selected by kind.
func DecodeIntegrationConfig(kind IntegrationKind, raw []byte) (IntegrationConfig, error) {
	var cfg IntegrationConfig
	switch kind {
	case KindWhatsApp:
		var c WhatsAppConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: invalid whatsapp config: %v", apperrors.ErrValidation, err)
		}
		cfg = c
	case KindEmail:
		var c EmailConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: invalid email config: %v", apperrors.ErrValidation, err)
		}
		cfg = c
	case KindOpenAI:
		var c OpenAIConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: invalid openai config: %v", apperrors.ErrValidation, err)
		}
		cfg = c
	case KindGemini:
		var c GeminiConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: invalid gemini config: %v", apperrors.ErrValidation, err)
		}
		cfg = c
	default:
		return nil, fmt.Errorf("%w: unknown integration kind '%s'", apperrors.ErrValidation, kind)
	}
	return cfg, nil
}

// ConnectionTestResult is the uniform outcome of an integration connectivity test.
type ConnectionTestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
