package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager       TransactionManager
	TransactionRepo TransactionRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	CategoryRepo    CategoryRepositoryFacade
	LeadRepo        LeadRepositoryFacade
	TaskRepo        TaskRepositoryFacade
	InsightRepo     InsightRepositoryFacade
	IntegrationRepo IntegrationRepositoryFacade
	SessionStore    SessionStore
}
