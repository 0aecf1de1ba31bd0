package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// BalanceSvc manages the per-month balance cache.
type BalanceSvc interface {
	RebuildBalances(ctx context.Context) (int, error)
	ListBalances(ctx context.Context, period time.Time) ([]domain.Balance, error)
	VerifyBalances(ctx context.Context) ([]domain.BalanceMismatch, error)
}
