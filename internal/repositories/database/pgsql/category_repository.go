package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/bizos_backend/internal/models"
	"github.com/SscSPs/bizos_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `category_id, user_id, name, category_type, color, created_at, created_by, last_updated_at, last_updated_by`

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (models.Category, error) {
	var m models.Category
	err := row.Scan(&m.CategoryID, &m.UserID, &m.Name, &m.CategoryType, &m.Color,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

// SaveCategories inserts all categories in one batch.
func (r *PgxCategoryRepository) SaveCategories(ctx context.Context, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	for _, c := range categories {
		m := mapping.ToModelCategory(c)
		batch.Queue(query, m.CategoryID, m.UserID, m.Name, m.CategoryType, m.Color,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	}
	if err := r.q(ctx).SendBatch(ctx, batch).Close(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save categories", err)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND user_id = $2;`
	m, err := scanCategory(r.q(ctx).QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find category "+categoryID, err)
	}
	d := mapping.ToDomainCategory(m)
	return &d, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 ORDER BY category_type, name;`
	rows, err := r.q(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query categories", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan category row", err)
		}
		out = append(out, mapping.ToDomainCategory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating category rows", err)
	}
	return out, nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `UPDATE categories SET name = $3, color = $4, last_updated_at = $5, last_updated_by = $6
		WHERE category_id = $1 AND user_id = $2;`
	tag, err := r.q(ctx).Exec(ctx, query, m.CategoryID, m.UserID, m.Name, m.Color, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category named %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update category "+m.CategoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, m.CategoryID)
	}
	return nil
}

// DeleteCategory removes a category; transactions referencing it become uncategorized (ON DELETE SET NULL).
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM categories WHERE category_id = $1 AND user_id = $2;`, categoryID, userID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete category "+categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return nil
}
