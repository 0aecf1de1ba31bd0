package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// BalanceRepository maintains the per-month balance cache.
type BalanceRepository interface {
	// RecomputeBalances rebuilds the given (account, month) rows from posted lines.
	RecomputeBalances(ctx context.Context, keys []domain.BalanceKey) error

	// RebuildAllBalances discards the cache and recomputes it. It returns the row count.
	RebuildAllBalances(ctx context.Context) (int, error)

	// ListBalances returns cached rows for one month, or every month when period is zero.
	ListBalances(ctx context.Context, period time.Time) ([]domain.Balance, error)

	// AggregateBalances computes what the cache should hold, straight from entry lines.
	AggregateBalances(ctx context.Context) ([]domain.Balance, error)
}
