package pgsql

import (
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/bizos_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories. The session store is
// not Postgres-backed and is set by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, sealer mapping.Sealer) portsrepo.RepositoryProvider {
	crmRepo := newPgxCRMRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:       &BaseRepository{Pool: dbPool},
		TransactionRepo: newPgxTransactionRepository(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		LeadRepo:        crmRepo,
		TaskRepo:        crmRepo,
		InsightRepo:     crmRepo,
		IntegrationRepo: newPgxIntegrationRepository(dbPool, sealer),
	}
}
