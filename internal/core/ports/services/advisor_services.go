package services

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/dto"
)

// AdvisorSvc is the business-advisor chat.
type AdvisorSvc interface {
	GetSession(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error)
	UpdateSettings(ctx context.Context, userID, sessionID string, req dto.UpdateAdvisorSettingsRequest) (*domain.ChatSession, error)
	ClearChat(ctx context.Context, userID, sessionID string) (*domain.ChatSession, error)
	Ask(ctx context.Context, userID, sessionID, question string) (*domain.ChatReply, error)
	Snapshot(ctx context.Context, userID string) (*domain.BusinessData, error)
}

// IntegrationSvc stores integration configs and tests connectivity.
type IntegrationSvc interface {
	ListIntegrations(ctx context.Context, userID string) ([]domain.Integration, error)
	SaveIntegration(ctx context.Context, userID string, kind domain.IntegrationKind, req dto.SaveIntegrationRequest) (*domain.Integration, error)
	DeleteIntegration(ctx context.Context, userID string, kind domain.IntegrationKind) error
	TestConnection(ctx context.Context, userID string, kind domain.IntegrationKind, req dto.TestIntegrationRequest) (domain.ConnectionTestResult, error)
}
