package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/bizos_backend/internal/middleware"
	"github.com/SscSPs/bizos_backend/internal/models"
	"github.com/SscSPs/bizos_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const integrationColumns = `integration_id, user_id, kind, is_active, sealed_config,
	created_at, created_by, last_updated_at, last_updated_by`

// PgxIntegrationRepository stores integration configs sealed at rest.
type PgxIntegrationRepository struct {
	BaseRepository
	sealer mapping.Sealer
}

func newPgxIntegrationRepository(pool *pgxpool.Pool, sealer mapping.Sealer) *PgxIntegrationRepository {
	return &PgxIntegrationRepository{BaseRepository: BaseRepository{Pool: pool}, sealer: sealer}
}

var _ portsrepo.IntegrationRepositoryFacade = (*PgxIntegrationRepository)(nil)

func scanIntegration(row pgx.Row) (models.Integration, error) {
	var m models.Integration
	err := row.Scan(&m.IntegrationID, &m.UserID, &m.Kind, &m.IsActive, &m.SealedConfig,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	return m, err
}

// UpsertIntegration inserts or replaces the user's integration of the same kind.
func (r *PgxIntegrationRepository) UpsertIntegration(ctx context.Context, integration domain.Integration) error {
	m, err := mapping.ToModelIntegration(integration, r.sealer)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO integrations (` + integrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, kind) DO UPDATE
		SET is_active = EXCLUDED.is_active, sealed_config = EXCLUDED.sealed_config,
		    last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;`
	_, err = r.q(ctx).Exec(ctx, query, m.IntegrationID, m.UserID, m.Kind, m.IsActive, m.SealedConfig,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save "+m.Kind+" integration", err)
	}
	return nil
}

func (r *PgxIntegrationRepository) FindIntegrationByKind(ctx context.Context, userID string, kind domain.IntegrationKind) (*domain.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE user_id = $1 AND kind = $2;`
	m, err := scanIntegration(r.q(ctx).QueryRow(ctx, query, userID, string(kind)))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %s integration", apperrors.ErrNotFound, kind)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find "+string(kind)+" integration", err)
	}
	d, err := mapping.ToDomainIntegration(m, r.sealer)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to decode "+string(kind)+" integration", err)
	}
	return &d, nil
}

// ListIntegrations skips rows that can no longer be opened (e.g. after a key rotation) and logs them.
func (r *PgxIntegrationRepository) ListIntegrations(ctx context.Context, userID string) ([]domain.Integration, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+integrationColumns+` FROM integrations WHERE user_id = $1 ORDER BY kind;`, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query integrations", err)
	}
	defer rows.Close()

	var out []domain.Integration
	for rows.Next() {
		m, err := scanIntegration(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan integration row", err)
		}
		d, err := mapping.ToDomainIntegration(m, r.sealer)
		if err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Skipping unreadable integration",
				slog.String("integration_id", m.IntegrationID), slog.String("error", err.Error()))
			continue
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating integration rows", err)
	}
	return out, nil
}

func (r *PgxIntegrationRepository) DeleteIntegration(ctx context.Context, userID string, kind domain.IntegrationKind) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM integrations WHERE user_id = $1 AND kind = $2;`, userID, string(kind))
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete "+string(kind)+" integration", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s integration", apperrors.ErrNotFound, kind)
	}
	return nil
}
