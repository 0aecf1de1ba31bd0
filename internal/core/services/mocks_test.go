package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) AccountIsReferenced(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) FindJournalByName(ctx context.Context, name string) (*domain.Journal, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Journal), args.Error(1)
}

func (m *MockJournalRepository) JournalIsReferenced(ctx context.Context, journalID string) (bool, error) {
	args := m.Called(ctx, journalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	args := m.Called(ctx, journal)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) ReplaceDraft(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkPosted(ctx context.Context, transactionID string, postedAt time.Time) error {
	args := m.Called(ctx, transactionID, postedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteDraft(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) SumPostedLines(ctx context.Context, window domain.ReportWindow) ([]domain.AccountTotal, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotal), args.Error(1)
}

// --- Mock BalanceRepository ---
type MockBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.BalanceRepository = (*MockBalanceRepository)(nil)

func (m *MockBalanceRepository) RecomputeBalances(ctx context.Context, keys []domain.BalanceKey) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockBalanceRepository) RebuildAllBalances(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockBalanceRepository) ListBalances(ctx context.Context, period time.Time) ([]domain.Balance, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) AggregateBalances(ctx context.Context) ([]domain.Balance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Balance), args.Error(1)
}

// --- Mock TransactionManager ---

// MockTxManager runs fn directly against the mock repositories and counts
// how often each kind of unit of work was opened.
type MockTxManager struct {
	repos       portsrepo.TxRepositories
	writeTxs    int
	readOnlyTxs int
}

var _ portsrepo.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	m.writeTxs++
	return fn(ctx, m.repos)
}

func (m *MockTxManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	m.readOnlyTxs++
	return fn(ctx, m.repos)
}

// mockRepos bundles a full set of repository mocks.
type mockRepos struct {
	accounts     *MockAccountRepository
	journals     *MockJournalRepository
	transactions *MockTransactionRepository
	reporting    *MockReportingRepository
	balances     *MockBalanceRepository
	txManager    *MockTxManager
}

func newMockRepos() *mockRepos {
	m := &mockRepos{
		accounts:     new(MockAccountRepository),
		journals:     new(MockJournalRepository),
		transactions: new(MockTransactionRepository),
		reporting:    new(MockReportingRepository),
		balances:     new(MockBalanceRepository),
	}
	m.txManager = &MockTxManager{repos: portsrepo.TxRepositories{
		Accounts:     m.accounts,
		Journals:     m.journals,
		Transactions: m.transactions,
		Reporting:    m.reporting,
		Balances:     m.balances,
	}}
	return m
}

func (m *mockRepos) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     m.accounts,
		JournalRepo:     m.journals,
		TransactionRepo: m.transactions,
		ReportingRepo:   m.reporting,
		BalanceRepo:     m.balances,
		TxManager:       m.txManager,
	}
}

func (m *mockRepos) assertExpectations(t mock.TestingT) {
	m.accounts.AssertExpectations(t)
	m.journals.AssertExpectations(t)
	m.transactions.AssertExpectations(t)
	m.reporting.AssertExpectations(t)
	m.balances.AssertExpectations(t)
}
