package services

import (
	"context"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/dto"
)

type LeadSvcFacade interface {
	CreateLead(ctx context.Context, userID string, req dto.CreateLeadRequest) (*domain.Lead, error)
	ListLeads(ctx context.Context, userID string) ([]domain.Lead, error)
	GetLeadByID(ctx context.Context, userID, leadID string) (*domain.Lead, error)
	UpdateLead(ctx context.Context, userID, leadID string, req dto.UpdateLeadRequest) (*domain.Lead, error)
	MoveLead(ctx context.Context, userID, leadID string, stage domain.LeadStage) (*domain.Lead, error)
	DeleteLead(ctx context.Context, userID, leadID string) error
}

type TaskSvcFacade interface {
	CreateTask(ctx context.Context, userID string, req dto.CreateTaskRequest) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

type InsightSvcFacade interface {
	ListInsights(ctx context.Context, userID string, limit int) ([]domain.Insight, error)
	MarkInsightRead(ctx context.Context, userID, insightID string) error
	DeleteInsight(ctx context.Context, userID, insightID string) error
}
