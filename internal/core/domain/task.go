package domain

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task is a unit of work on the team board.
type Task struct {
	TaskID      string       `json:"taskID"`
	UserID      string       `json:"userID"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Assignee    string       `json:"assignee"`
	AuditFields
}

// IsOverdue reports whether an unfinished task is past its due date.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskDone && t.DueDate != nil && t.DueDate.Before(now)
}
