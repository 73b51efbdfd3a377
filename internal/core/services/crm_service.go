package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/dto"
	"github.com/google/uuid"
)

// LeadService manages the sales pipeline.
type LeadService struct {
	BaseService
	leadRepo portsrepo.LeadRepositoryFacade
}

func NewLeadService(repo portsrepo.LeadRepositoryFacade) *LeadService {
	return &LeadService{leadRepo: repo}
}

var _ portssvc.LeadSvcFacade = (*LeadService)(nil)

func applyLeadRequest(l *domain.Lead, req dto.CreateLeadRequest) error {
	if req.Value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", apperrors.ErrValidation)
	}
	stage := req.Stage
	if stage == "" {
		stage = domain.StageNew
	}
	if !stage.Valid() {
		return fmt.Errorf("%w: unknown stage %q", apperrors.ErrValidation, stage)
	}
	l.Name = strings.TrimSpace(req.Name)
	l.Email = req.Email
	l.Phone = req.Phone
	l.Company = req.Company
	l.Value = req.Value
	l.Stage = stage
	l.Source = req.Source
	l.Notes = req.Notes
	return nil
}

func (s *LeadService) CreateLead(ctx context.Context, userID string, req dto.CreateLeadRequest) (*domain.Lead, error) {
	now := s.Now()
	lead := domain.Lead{
		LeadID:      uuid.NewString(),
		UserID:      userID,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}
	if err := applyLeadRequest(&lead, req); err != nil {
		return nil, err
	}
	if err := s.leadRepo.SaveLead(ctx, lead); err != nil {
		s.LogError(ctx, err, "Failed to save lead")
		return nil, err
	}
	s.LogInfo(ctx, "Lead created", slog.String("lead_id", lead.LeadID), slog.String("stage", string(lead.Stage)))
	return &lead, nil
}

func (s *LeadService) ListLeads(ctx context.Context, userID string) ([]domain.Lead, error) {
	return s.leadRepo.ListLeads(ctx, userID)
}

func (s *LeadService) GetLeadByID(ctx context.Context, userID, leadID string) (*domain.Lead, error) {
	return s.leadRepo.FindLeadByID(ctx, userID, leadID)
}

func (s *LeadService) UpdateLead(ctx context.Context, userID, leadID string, req dto.UpdateLeadRequest) (*domain.Lead, error) {
	lead, err := s.leadRepo.FindLeadByID(ctx, userID, leadID)
	if err != nil {
		return nil, err
	}
	if err := applyLeadRequest(lead, req); err != nil {
		return nil, err
	}
	lead.LastUpdatedAt = s.Now()
	lead.LastUpdatedBy = userID
	if err := s.leadRepo.UpdateLead(ctx, *lead); err != nil {
		s.LogError(ctx, err, "Failed to update lead", slog.String("lead_id", leadID))
		return nil, err
	}
	return lead, nil
}

// MoveLead changes only the pipeline stage (kanban drag and drop).
func (s *LeadService) MoveLead(ctx context.Context, userID, leadID string, stage domain.LeadStage) (*domain.Lead, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", apperrors.ErrValidation, stage)
	}
	lead, err := s.leadRepo.FindLeadByID(ctx, userID, leadID)
	if err != nil {
		return nil, err
	}
	from := lead.Stage
	lead.Stage = stage
	lead.LastUpdatedAt = s.Now()
	lead.LastUpdatedBy = userID
	if err := s.leadRepo.UpdateLead(ctx, *lead); err != nil {
		s.LogError(ctx, err, "Failed to move lead", slog.String("lead_id", leadID))
		return nil, err
	}
	s.LogInfo(ctx, "Lead moved", slog.String("lead_id", leadID), slog.String("from", string(from)), slog.String("to", string(stage)))
	return lead, nil
}

func (s *LeadService) DeleteLead(ctx context.Context, userID, leadID string) error {
	return s.leadRepo.DeleteLead(ctx, userID, leadID)
}

// TaskService manages the team task board.
type TaskService struct {
	BaseService
	taskRepo portsrepo.TaskRepositoryFacade
}

func NewTaskService(repo portsrepo.TaskRepositoryFacade) *TaskService {
	return &TaskService{taskRepo: repo}
}

var _ portssvc.TaskSvcFacade = (*TaskService)(nil)

func applyTaskRequest(t *domain.Task, req dto.CreateTaskRequest) error {
	status := req.Status
	if status == "" {
		status = domain.TaskTodo
	}
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	var due *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		d, err := time.Parse(dto.DateLayout, *req.DueDate)
		if err != nil {
			return fmt.Errorf("%w: dueDate must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		due = &d
	}
	t.Title = strings.TrimSpace(req.Title)
	t.Description = req.Description
	t.Status = status
	t.Priority = priority
	t.DueDate = due
	t.Assignee = req.Assignee
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, userID string, req dto.CreateTaskRequest) (*domain.Task, error) {
	now := s.Now()
	task := domain.Task{
		TaskID:      uuid.NewString(),
		UserID:      userID,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}
	if err := applyTaskRequest(&task, req); err != nil {
		return nil, err
	}
	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task")
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.taskRepo.ListTasks(ctx, userID)
}

func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := applyTaskRequest(task, req); err != nil {
		return nil, err
	}
	task.LastUpdatedAt = s.Now()
	task.LastUpdatedBy = userID
	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		s.LogError(ctx, err, "Failed to update task", slog.String("task_id", taskID))
		return nil, err
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	return s.taskRepo.DeleteTask(ctx, userID, taskID)
}

// InsightService exposes persisted advisor insights.
type InsightService struct {
	BaseService
	insightRepo portsrepo.InsightRepositoryFacade
}

func NewInsightService(repo portsrepo.InsightRepositoryFacade) *InsightService {
	return &InsightService{insightRepo: repo}
}

var _ portssvc.InsightSvcFacade = (*InsightService)(nil)

func (s *InsightService) ListInsights(ctx context.Context, userID string, limit int) ([]domain.Insight, error) {
	return s.insightRepo.ListInsights(ctx, userID, limit)
}

func (s *InsightService) MarkInsightRead(ctx context.Context, userID, insightID string) error {
	return s.insightRepo.MarkInsightRead(ctx, userID, insightID)
}

func (s *InsightService) DeleteInsight(ctx context.Context, userID, insightID string) error {
	return s.insightRepo.DeleteInsight(ctx, userID, insightID)
}
