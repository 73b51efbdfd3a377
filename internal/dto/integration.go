package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// SaveIntegrationRequest stores the config of one integration kind.
type SaveIntegrationRequest struct {
	IsActive *bool           `json:"isActive"`
	Config   json.RawMessage `json:"config" binding:"required"`
}

// TestIntegrationRequest tests a config without storing it. When Config is
// empty the stored config of the kind is tested.
type TestIntegrationRequest struct {
	Config json.RawMessage `json:"config"`
}

// IntegrationResponse never carries secrets.
type IntegrationResponse struct {
	IntegrationID string                 `json:"integrationID"`
	Kind          domain.IntegrationKind `json:"kind"`
	IsActive      bool                   `json:"isActive"`
	Summary       map[string]string      `json:"summary"`
	LastUpdatedAt time.Time              `json:"lastUpdatedAt"`
}

func ToIntegrationResponse(in *domain.Integration) IntegrationResponse {
	summary := map[string]string{}
	switch c := in.Config.(type) {
	case domain.WhatsAppConfig:
		summary["phoneNumberId"] = c.PhoneNumberID
		summary["businessAccountId"] = c.BusinessAccountID
	case domain.EmailConfig:
		summary["smtpHost"] = c.SMTPHost
		summary["username"] = c.Username
		summary["fromName"] = c.FromName
	case domain.OpenAIConfig:
		summary["model"] = c.Model
		summary["apiKey"] = maskSecret(c.APIKey)
	case domain.GeminiConfig:
		summary["model"] = c.Model
		summary["apiKey"] = maskSecret(c.APIKey)
	}
	return IntegrationResponse{
		IntegrationID: in.IntegrationID,
		Kind:          in.Kind,
		IsActive:      in.IsActive,
		Summary:       summary,
		LastUpdatedAt: in.LastUpdatedAt,
	}
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
