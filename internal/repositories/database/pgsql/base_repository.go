package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/bizos_backend/internal/apperrors"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txCtxKey struct{}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)

// q returns the transaction bound to ctx by RunInTx, or the pool.
func (r *BaseRepository) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.Pool
}

// RunInTx runs fn inside a database transaction. Nested calls join the outer transaction.
func (r *BaseRepository) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	// No-op once committed.
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a Postgres foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// isNoRows reports whether a single-row query matched nothing.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
