package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// AccountReaderSvc defines read operations on the chart of accounts.
type AccountReaderSvc interface {
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations on the chart of accounts.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, code string, userID string) error

	// DeleteAccount fails with domain.ErrReferentialIntegrity while entry lines reference the account.
	DeleteAccount(ctx context.Context, code string, userID string) error
}

// JournalSvc defines operations on journals.
type JournalSvc interface {
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, userID string) (*domain.Journal, error)
	GetJournalByName(ctx context.Context, name string) (*domain.Journal, error)
	ListJournals(ctx context.Context) ([]domain.Journal, error)

	// DeleteJournal fails with domain.ErrReferentialIntegrity while transactions reference the journal.
	DeleteJournal(ctx context.Context, name string, userID string) error
}

// ChartSeederSvc loads a chart of accounts idempotently.
type ChartSeederSvc interface {
	SeedChart(ctx context.Context, seed domain.ChartSeed, userID string) (*dto.SeedChartResult, error)
}

// ChartSvcFacade combines all chart-of-accounts service interfaces.
type ChartSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	JournalSvc
	ChartSeederSvc
}
