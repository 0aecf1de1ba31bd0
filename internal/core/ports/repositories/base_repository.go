package repositories

import (
	"context"
)

// TxRepositories are repositories bound to a single unit of work.
type TxRepositories struct {
	Accounts     AccountRepositoryFacade
	Journals     JournalRepositoryFacade
	Transactions TransactionRepositoryFacade
	Reporting    ReportingRepository
	Balances     BalanceRepository
}

// TransactionManager runs a function inside one store transaction. If fn
// returns an error every write made through repos is discarded.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error

	// WithinReadOnlyTx gives fn a consistent snapshot. Writes through repos fail.
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
