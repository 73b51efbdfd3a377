package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/bizos_backend/internal/models"
	"github.com/SscSPs/bizos_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, user_id, name, account_type, balance, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.UserID,
		&m.Name,
		&m.AccountType,
		&m.Balance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.q(ctx).Exec(ctx, query,
		m.AccountID, m.UserID, m.Name, m.AccountType, m.Balance, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account named %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account owned by userID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND user_id = $2;`
	m, err := scanAccount(r.q(ctx).QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find account "+accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// ListAccounts retrieves every account of the user ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY name ASC;`
	rows, err := r.q(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query accounts", err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan account row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "error iterating account rows", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccount updates name, type and active flag. Balance is never written here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts SET name = $3, account_type = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1 AND user_id = $2;`
	tag, err := r.q(ctx).Exec(ctx, query, m.AccountID, m.UserID, m.Name, m.AccountType, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account named %q already exists", apperrors.ErrDuplicate, m.Name)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update account "+m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
	}
	return nil
}

// DeleteAccount removes an account that has no transactions.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, userID, accountID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM accounts WHERE account_id = $1 AND user_id = $2;`, accountID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: account %s still has transactions", apperrors.ErrValidation, accountID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// LockAccount takes a row lock on the account for the rest of the transaction in ctx.
// NO KEY UPDATE leaves the key-share locks taken by transaction inserts compatible.
func (r *PgxAccountRepository) LockAccount(ctx context.Context, userID, accountID string) error {
	var one int
	err := r.q(ctx).QueryRow(ctx, `SELECT 1 FROM accounts WHERE account_id = $1 AND user_id = $2 FOR NO KEY UPDATE;`, accountID, userID).Scan(&one)
	if err != nil {
		if isNoRows(err) {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to lock account "+accountID, err)
	}
	return nil
}

// SetAccountBalance overwrites the stored balance.
func (r *PgxAccountRepository) SetAccountBalance(ctx context.Context, userID, accountID string, balance decimal.Decimal, updatedBy string, now time.Time) error {
	query := `UPDATE accounts SET balance = $3, last_updated_at = $4, last_updated_by = $5 WHERE account_id = $1 AND user_id = $2;`
	tag, err := r.q(ctx).Exec(ctx, query, accountID, userID, balance, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to set balance of account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// AdjustAccountBalances adds each delta to the stored balance in one batch.
func (r *PgxAccountRepository) AdjustAccountBalances(ctx context.Context, userID string, deltas map[string]decimal.Decimal, updatedBy string, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `UPDATE accounts SET balance = balance + $3, last_updated_at = $4, last_updated_by = $5 WHERE account_id = $1 AND user_id = $2;`
	for accountID, delta := range deltas {
		batch.Queue(query, accountID, userID, delta, now, updatedBy)
	}
	if err := r.q(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to adjust account balances", err)
	}
	return nil
}
