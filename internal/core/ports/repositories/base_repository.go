package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside a single database transaction.
// Repositories called with the ctx handed to fn join that transaction.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
