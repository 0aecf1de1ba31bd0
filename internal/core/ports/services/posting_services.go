package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// PostingSvc defines the operations that change ledger state.
// Each call is one atomic unit of work; a rejection leaves no trace.
type PostingSvc interface {
	// CreateAndPost creates a transaction with its lines and posts it in one step.
	CreateAndPost(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// CreateDraft saves an unposted transaction after validating it eagerly.
	CreateDraft(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// UpdateDraft replaces a draft's header and lines. Lines flagged Remove are dropped.
	UpdateDraft(ctx context.Context, transactionID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error)

	// Post revalidates a draft and flips its posted latch.
	Post(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// Delete removes a draft. Posted transactions are immutable.
	Delete(ctx context.Context, transactionID string, userID string) error

	// Reverse posts a new transaction whose lines swap debit and credit of the source.
	Reverse(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest, userID string) (*domain.Transaction, error)

	// Unpost always fails; use Reverse instead.
	Unpost(ctx context.Context, transactionID string, userID string) error
}

// TransactionQuerySvc defines read operations on transactions.
type TransactionQuerySvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// PostingSvcFacade combines all transaction service interfaces.
type PostingSvcFacade interface {
	PostingSvc
	TransactionQuerySvc
}
