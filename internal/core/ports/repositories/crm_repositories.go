package repositories

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
)

// LeadRepositoryFacade persists the CRM pipeline.
type LeadRepositoryFacade interface {
	SaveLead(ctx context.Context, lead domain.Lead) error
	UpdateLead(ctx context.Context, lead domain.Lead) error
	DeleteLead(ctx context.Context, userID, leadID string) error
	FindLeadByID(ctx context.Context, userID, leadID string) (*domain.Lead, error)
	ListLeads(ctx context.Context, userID string) ([]domain.Lead, error)
}

// TaskRepositoryFacade persists the task board.
type TaskRepositoryFacade interface {
	SaveTask(ctx context.Context, task domain.Task) error
	UpdateTask(ctx context.Context, task domain.Task) error
	DeleteTask(ctx context.Context, userID, taskID string) error
	FindTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
}

// InsightRepositoryFacade persists advisor insights.
type InsightRepositoryFacade interface {
	SaveInsight(ctx context.Context, insight domain.Insight) error
	ListInsights(ctx context.Context, userID string, limit int) ([]domain.Insight, error)
	MarkInsightRead(ctx context.Context, userID, insightID string) error
	DeleteInsight(ctx context.Context, userID, insightID string) error
}
