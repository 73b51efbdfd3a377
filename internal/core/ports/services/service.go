package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Transaction TransactionSvcFacade
	Balance     BalanceSvc
	Finance     FinanceSummarySvc
	Account     AccountSvcFacade
	Category    CategorySvcFacade
	Lead        LeadSvcFacade
	Task        TaskSvcFacade
	Insight     InsightSvcFacade
	Reporting   ReportingService
	Advisor     AdvisorSvc
	Integration IntegrationSvc
}
