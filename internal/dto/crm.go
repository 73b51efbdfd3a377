package dto

import (
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLeadRequest defines the data needed to add a prospect to the pipeline.
type CreateLeadRequest struct {
	Name    string           `json:"name" binding:"required,max=120"`
	Email   string           `json:"email" binding:"omitempty,email"`
	Phone   string           `json:"phone" binding:"omitempty,max=30"`
	Company string           `json:"company" binding:"omitempty,max=120"`
	Value   decimal.Decimal  `json:"value"`
	Stage   domain.LeadStage `json:"stage" binding:"omitempty,oneof=new contacted qualified proposal negotiation closed_won closed_lost"`
	Source  string           `json:"source" binding:"omitempty,max=60"`
	Notes   string           `json:"notes"`
}

// UpdateLeadRequest replaces the editable lead fields.
type UpdateLeadRequest = CreateLeadRequest

// MoveLeadRequest moves a lead to another pipeline column.
type MoveLeadRequest struct {
	Stage domain.LeadStage `json:"stage" binding:"required,oneof=new contacted qualified proposal negotiation closed_won closed_lost"`
}

// CreateTaskRequest defines the data needed to add a task to the board.
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required,max=200"`
	Description string              `json:"description"`
	Status      domain.TaskStatus   `json:"status" binding:"omitempty,oneof=todo in_progress done"`
	Priority    domain.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string             `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Assignee    string              `json:"assignee" binding:"omitempty,max=120"`
}

// UpdateTaskRequest replaces the editable task fields.
type UpdateTaskRequest = CreateTaskRequest
