package repositories

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// IntegrationRepositoryFacade persists integration configs, at most one per user and kind.
type IntegrationRepositoryFacade interface {
	// UpsertIntegration inserts or replaces the user's integration of the same kind.
	UpsertIntegration(ctx context.Context, integration domain.Integration) error
	FindIntegrationByKind(ctx context.Context, userID string, kind domain.IntegrationKind) (*domain.Integration, error)
	ListIntegrations(ctx context.Context, userID string) ([]domain.Integration, error)
	DeleteIntegration(ctx context.Context, userID string, kind domain.IntegrationKind) error
}
