package services

// ServiceContainer holds instances of all the application services.
// Handlers and the CLI reach the ledger through it.
type ServiceContainer struct {
	Chart     ChartSvcFacade
	Posting   PostingSvcFacade
	Reporting ReportingService
	Balance   BalanceSvc
}
