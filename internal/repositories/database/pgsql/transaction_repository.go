package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/bizos_backend/internal/models"
	"github.com/SscSPs/bizos_backend/internal/utils/mapping"
	"github.com/SscSPs/bizos_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, user_id, transaction_type, amount, description, transaction_date,
	account_id, category_id, is_recurring, recurring_interval,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.TransactionType,
		&m.Amount,
		&m.Description,
		&m.TransactionDate,
		&m.AccountID,
		&m.CategoryID,
		&m.IsRecurring,
		&m.RecurringInterval,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var out []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SaveTransaction inserts a new transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	_, err := r.q(ctx).Exec(ctx, query,
		m.TransactionID, m.UserID, m.TransactionType, m.Amount, m.Description, m.TransactionDate,
		m.AccountID, m.CategoryID, m.IsRecurring, m.RecurringInterval,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction with ID %s already exists", apperrors.ErrDuplicate, m.TransactionID)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: account or category does not exist", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save transaction "+m.TransactionID, err)
	}
	return nil
}

// UpdateTransaction rewrites the mutable columns of an existing transaction.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET transaction_type = $3, amount = $4, description = $5, transaction_date = $6,
		    account_id = $7, category_id = $8, is_recurring = $9, recurring_interval = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE transaction_id = $1 AND user_id = $2;`

	tag, err := r.q(ctx).Exec(ctx, query,
		m.TransactionID, m.UserID, m.TransactionType, m.Amount, m.Description, m.TransactionDate,
		m.AccountID, m.CategoryID, m.IsRecurring, m.RecurringInterval,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: account or category does not exist", apperrors.ErrValidation)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to update transaction "+m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, m.TransactionID)
	}
	return nil
}

// DeleteTransaction removes one of the user's transactions.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2;`, transactionID, userID)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// FindTransactionByID retrieves a transaction owned by userID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND user_id = $2;`
	m, err := scanTransaction(r.q(ctx).QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to find transaction "+transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactions returns one page in (transaction_date, created_at, transaction_id) descending order.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter portsrepo.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells whether there is a next page.
	fetchLimit := limit + 1

	conds := []string{"user_id = $1"}
	args := []any{userID}
	addCond := func(expr string, val any) {
		args = append(args, val)
		conds = append(conds, strings.ReplaceAll(expr, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.AccountID != "" {
		addCond("account_id = ?", filter.AccountID)
	}
	if filter.CategoryID != "" {
		addCond("category_id = ?", filter.CategoryID)
	}
	if filter.Type != "" {
		addCond("transaction_type = ?", string(filter.Type))
	}
	if filter.From != nil {
		addCond("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		addCond("transaction_date < ?", *filter.To)
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
		n := len(args)
		conds = append(conds, fmt.Sprintf("(transaction_date, created_at, transaction_id) < ($%d, $%d, $%d)", n-2, n-1, n))
	}
	args = append(args, fetchLimit)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions for user "+userID, err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transactions for user "+userID, err)
	}

	var nextToken *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.TransactionDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
		ms = ms[:limit]
	}
	return mapping.ToDomainTransactionSlice(ms), nextToken, nil
}

// ListTransactionsInRange returns every transaction dated in [from, to), oldest first.
func (r *PgxTransactionRepository) ListTransactionsInRange(ctx context.Context, userID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
		ORDER BY transaction_date ASC, created_at ASC;`
	rows, err := r.q(ctx).Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions in range", err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transactions in range", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// ListTransactionsByAccount returns every transaction of one account.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, userID, accountID string) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND account_id = $2;`
	rows, err := r.q(ctx).Query(ctx, query, userID, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query transactions for account "+accountID, err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to scan transactions for account "+accountID, err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
