package services

import (
	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/core/ports"
	portsrepo "github.com/SscSPs/bizos_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizos_backend/internal/core/ports/services"
	"github.com/SscSPs/bizos_backend/internal/platform/config"
)

// Gateways are the outbound adapters services talk to.
type Gateways struct {
	Publisher  ports.EventPublisher
	Completers map[domain.IntegrationKind]ports.ChatCompleter
	Probers    []ports.ConnectionProber
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gw Gateways) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Balance settlement is shared by the transaction service and the reconcile endpoint
	balances := NewBalanceService(repos.AccountRepo, repos.TransactionRepo, cfg.BalanceMode)
	container.Balance = balances

	var txnOpts []TransactionServiceOption
	if gw.Publisher != nil {
		txnOpts = append(txnOpts, WithEventPublisher(gw.Publisher))
	}
	container.Transaction = NewTransactionService(
		repos.TxManager,
		repos.TransactionRepo,
		repos.AccountRepo,
		repos.CategoryRepo,
		balances,
		txnOpts...,
	)

	container.Finance = NewFinanceSummaryService(repos.TransactionRepo, repos.AccountRepo)
	container.Account = NewAccountService(repos.AccountRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Lead = NewLeadService(repos.LeadRepo)
	container.Task = NewTaskService(repos.TaskRepo)
	container.Insight = NewInsightService(repos.InsightRepo)
	container.Reporting = NewReportingService(repos.TransactionRepo, repos.AccountRepo, repos.CategoryRepo)

	advisorOpts := []AdvisorServiceOption{WithLLMTimeout(cfg.LLMTimeout)}
	for kind, c := range gw.Completers {
		advisorOpts = append(advisorOpts, WithChatCompleter(kind, c))
	}
	container.Advisor = NewAdvisorService(
		repos.SessionStore,
		repos.LeadRepo,
		repos.TaskRepo,
		repos.TransactionRepo,
		repos.AccountRepo,
		repos.InsightRepo,
		repos.IntegrationRepo,
		advisorOpts...,
	)

	container.Integration = NewIntegrationService(repos.IntegrationRepo, gw.Probers...)

	return container
}
