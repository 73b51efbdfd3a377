package dto

import "github.com/SscSPs/bizos_backend/internal/core/domain"

// AskAdvisorRequest is one user question to the business advisor.
type AskAdvisorRequest struct {
	Question string `json:"question" binding:"required,max=4000"`
}

// UpdateAdvisorSettingsRequest changes advisor preferences. Omitted fields are kept.
type UpdateAdvisorSettingsRequest struct {
	Provider      *domain.IntegrationKind `json:"provider" binding:"omitempty,oneof=openai gemini"`
	Model         *string                 `json:"model" binding:"omitempty,max=100"`
	APIKey        *string                 `json:"apiKey"`
	SystemPrompt  *string                 `json:"systemPrompt" binding:"omitempty,max=8000"`
	Temperature   *float64                `json:"temperature" binding:"omitempty,min=0,max=2"`
	MaxTokens     *int                    `json:"maxTokens" binding:"omitempty,min=1,max=4000"`
	AnalysisDepth *domain.AnalysisDepth   `json:"analysisDepth" binding:"omitempty,oneof=basic detailed advanced"`
}

// AdvisorSessionResponse is the session with the API key masked.
type AdvisorSessionResponse struct {
	SessionID string                 `json:"sessionID"`
	Settings  domain.AdvisorSettings `json:"settings"`
	HasAPIKey bool                   `json:"hasAPIKey"`
	Messages  []domain.ChatMessage   `json:"messages"`
}

func ToAdvisorSessionResponse(s *domain.ChatSession) AdvisorSessionResponse {
	settings := s.Settings
	hasKey := settings.APIKey != ""
	settings.APIKey = ""
	msgs := s.Messages
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return AdvisorSessionResponse{
		SessionID: s.SessionID,
		Settings:  settings,
		HasAPIKey: hasKey,
		Messages:  msgs,
	}
}
