package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCRMRepository stores leads, tasks and insights. These tables map one to
// one onto domain types, so rows are scanned straight into them.
type PgxCRMRepository struct {
	BaseRepository
}

func newPgxCRMRepository(pool *pgxpool.Pool) *PgxCRMRepository {
	return &PgxCRMRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.LeadRepositoryFacade    = (*PgxCRMRepository)(nil)
	_ portsrepo.TaskRepositoryFacade    = (*PgxCRMRepository)(nil)
	_ portsrepo.InsightRepositoryFacade = (*PgxCRMRepository)(nil)
)

func (r *PgxCRMRepository) execOne(ctx context.Context, what, id, query string, args ...any) error {
	tag, err := r.q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to write "+what+" "+id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, what, id)
	}
	return nil
}

// --- Leads ---

const leadColumns = `lead_id, user_id, name, email, phone, company, value, stage, source, notes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(&l.LeadID, &l.UserID, &l.Name, &l.Email, &l.Phone, &l.Company, &l.Value, &l.Stage, &l.Source, &l.Notes,
		&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy)
	return l, err
}

func (r *PgxCRMRepository) SaveLead(ctx context.Context, l domain.Lead) error {
	query := `INSERT INTO leads (` + leadColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`
	_, err := r.q(ctx).Exec(ctx, query, l.LeadID, l.UserID, l.Name, l.Email, l.Phone, l.Company, l.Value, l.Stage, l.Source, l.Notes,
		l.CreatedAt, l.CreatedBy, l.LastUpdatedAt, l.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save lead "+l.LeadID, err)
	}
	return nil
}

func (r *PgxCRMRepository) UpdateLead(ctx context.Context, l domain.Lead) error {
	query := `UPDATE leads SET name = $3, email = $4, phone = $5, company = $6, value = $7, stage = $8, source = $9, notes = $10,
		last_updated_at = $11, last_updated_by = $12 WHERE lead_id = $1 AND user_id = $2;`
	return r.execOne(ctx, "lead", l.LeadID, query, l.LeadID, l.UserID, l.Name, l.Email, l.Phone, l.Company, l.Value, l.Stage, l.Source, l.Notes,
		l.LastUpdatedAt, l.LastUpdatedBy)
}

func (r *PgxCRMRepository) DeleteLead(ctx context.Context, userID, leadID string) error {
	return r.execOne(ctx, "lead", leadID, `DELETE FROM leads WHERE lead_id = $1 AND user_id = $2;`, leadID, userID)
}

func (r *PgxCRMRepository) FindLeadByID(ctx context.Context, userID, leadID string) (*domain.Lead, error) {
	l, err := scanLead(r.q(ctx).QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE lead_id = $1 AND user_id = $2;`, leadID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: lead %s", apperrors.ErrNotFound, leadID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find lead "+leadID, err)
	}
	return &l, nil
}

func (r *PgxCRMRepository) ListLeads(ctx context.Context, userID string) ([]domain.Lead, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+leadColumns+` FROM leads WHERE user_id = $1 ORDER BY created_at DESC;`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query leads", err)
	}
	defer rows.Close()
	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan lead row", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating lead rows", err)
	}
	return out, nil
}

// --- Tasks ---

const taskColumns = `task_id, user_id, title, description, status, priority, due_date, assignee,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTask(row pgx.Row) (domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.TaskID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.Assignee,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy)
	return t, err
}

func (r *PgxCRMRepository) SaveTask(ctx context.Context, t domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.q(ctx).Exec(ctx, query, t.TaskID, t.UserID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.Assignee,
		t.CreatedAt, t.CreatedBy, t.LastUpdatedAt, t.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save task "+t.TaskID, err)
	}
	return nil
}

func (r *PgxCRMRepository) UpdateTask(ctx context.Context, t domain.Task) error {
	query := `UPDATE tasks SET title = $3, description = $4, status = $5, priority = $6, due_date = $7, assignee = $8,
		last_updated_at = $9, last_updated_by = $10 WHERE task_id = $1 AND user_id = $2;`
	return r.execOne(ctx, "task", t.TaskID, query, t.TaskID, t.UserID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.Assignee,
		t.LastUpdatedAt, t.LastUpdatedBy)
}

func (r *PgxCRMRepository) DeleteTask(ctx context.Context, userID, taskID string) error {
	return r.execOne(ctx, "task", taskID, `DELETE FROM tasks WHERE task_id = $1 AND user_id = $2;`, taskID, userID)
}

func (r *PgxCRMRepository) FindTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	t, err := scanTask(r.q(ctx).QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = $1 AND user_id = $2;`, taskID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: task %s", apperrors.ErrNotFound, taskID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find task "+taskID, err)
	}
	return &t, nil
}

func (r *PgxCRMRepository) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC;`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query tasks", err)
	}
	defer rows.Close()
	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan task row", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating task rows", err)
	}
	return out, nil
}

// --- Insights ---

const insightColumns = `insight_id, user_id, insight_type, title, content, priority, is_read, created_at`

func (r *PgxCRMRepository) SaveInsight(ctx context.Context, in domain.Insight) error {
	query := `INSERT INTO insights (` + insightColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.q(ctx).Exec(ctx, query, in.InsightID, in.UserID, in.Type, in.Title, in.Content, in.Priority, in.IsRead, in.CreatedAt)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save insight "+in.InsightID, err)
	}
	return nil
}

func (r *PgxCRMRepository) ListInsights(ctx context.Context, userID string, limit int) ([]domain.Insight, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q(ctx).Query(ctx, `SELECT `+insightColumns+` FROM insights WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2;`, userID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query insights", err)
	}
	defer rows.Close()
	var out []domain.Insight
	for rows.Next() {
		var in domain.Insight
		if err := rows.Scan(&in.InsightID, &in.UserID, &in.Type, &in.Title, &in.Content, &in.Priority, &in.IsRead, &in.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan insight row", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating insight rows", err)
	}
	return out, nil
}

func (r *PgxCRMRepository) MarkInsightRead(ctx context.Context, userID, insightID string) error {
	return r.execOne(ctx, "insight", insightID, `UPDATE insights SET is_read = TRUE WHERE insight_id = $1 AND user_id = $2;`, insightID, userID)
}

func (r *PgxCRMRepository) DeleteInsight(ctx context.Context, userID, insightID string) error {
	return r.execOne(ctx, "insight", insightID, `DELETE FROM insights WHERE insight_id = $1 AND user_id = $2;`, insightID, userID)
}
