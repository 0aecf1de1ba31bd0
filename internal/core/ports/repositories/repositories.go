package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// The plain repositories run each call on its own; TxManager groups calls atomically.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	JournalRepo     JournalRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	ReportingRepo   ReportingRepository
	BalanceRepo     BalanceRepository
	TxManager       TransactionManager
}
