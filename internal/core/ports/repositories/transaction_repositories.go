package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// TransactionFilter narrows ListTransactions. Results are ordered by
// posting date, then creation time, then id, newest first.
type TransactionFilter struct {
	JournalID string
	AccountID string
	Posted    *bool
	Limit     int

	// After continues a listing strictly past this position.
	After *TransactionCursor
}

// TransactionCursor is the sort key of the last row of a previous page.
type TransactionCursor struct {
	TxDate        time.Time
	CreatedAt     time.Time
	TransactionID string
}

// TransactionReader defines read operations for transactions.
type TransactionReader interface {
	// FindTransactionByID loads the transaction with its lines in line order.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns headers only; Lines is left empty.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// TransactionLocker serializes concurrent posting of the same transaction.
type TransactionLocker interface {
	// FindTransactionForUpdate loads the transaction and its lines and holds a
	// write lock on it until the surrounding unit of work ends.
	FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

// TransactionWriter defines write operations for transactions.
// Every write recomputes each line's base amount.
type TransactionWriter interface {
	// SaveTransaction inserts the header and all of its lines.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// ReplaceDraft overwrites header fields and lines of an unposted transaction.
	// It returns domain.ErrPostedTransactionImmutable if the row is posted.
	ReplaceDraft(ctx context.Context, txn domain.Transaction) error

	// MarkPosted flips the posted latch. It returns domain.ErrAlreadyPosted if
	// the latch was already set.
	MarkPosted(ctx context.Context, transactionID string, postedAt time.Time) error

	// DeleteDraft removes an unposted transaction and its lines. It returns
	// domain.ErrPostedTransactionImmutable if the row is posted.
	DeleteDraft(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionLocker
	TransactionWriter
}
