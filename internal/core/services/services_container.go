package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Chart:     NewChartService(repos),
		Posting:   NewPostingService(repos, WithDefaultCurrency(cfg.DefaultCurrency)),
		Reporting: NewReportingService(repos.TxManager),
		Balance:   NewBalanceService(repos.TxManager),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ChartSvcFacade   = (*chartService)(nil)
	_ portssvc.PostingSvcFacade = (*postingService)(nil)
)
