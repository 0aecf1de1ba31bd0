package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
)

// balanceService maintains the per-month balance cache. The cache is a
// convenience for dashboards; reports never read it.
type balanceService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewBalanceService creates a new balance cache service.
func NewBalanceService(txManager portsrepo.TransactionManager) portssvc.BalanceSvc {
	return &balanceService{BaseService: newBaseService(), txManager: txManager}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// RebuildBalances recomputes every cache row from posted lines.
func (s *balanceService) RebuildBalances(ctx context.Context) (int, error) {
	var rows int
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		rows, err = repos.Balances.RebuildAllBalances(ctx)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Balance rebuild failed")
		return 0, fmt.Errorf("failed to rebuild balances: %w", err)
	}
	s.LogInfo(ctx, "Balances rebuilt", slog.Int("rows", rows))
	return rows, nil
}

// ListBalances returns the cached rows for the month containing period, or
// every month when period is zero.
func (s *balanceService) ListBalances(ctx context.Context, period time.Time) ([]domain.Balance, error) {
	if !period.IsZero() {
		period = domain.PeriodOf(period)
	}
	var rows []domain.Balance
	err := s.txManager.WithinReadOnlyTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		rows, err = repos.Balances.ListBalances(ctx, period)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list balances")
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	return rows, nil
}

// VerifyBalances compares the cache with a fresh aggregation of posted lines.
func (s *balanceService) VerifyBalances(ctx context.Context) ([]domain.BalanceMismatch, error) {
	var cached, expected []domain.Balance
	err := s.txManager.WithinReadOnlyTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		if cached, err = repos.Balances.ListBalances(ctx, time.Time{}); err != nil {
			return err
		}
		expected, err = repos.Balances.AggregateBalances(ctx)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Balance verification failed")
		return nil, fmt.Errorf("failed to verify balances: %w", err)
	}

	mismatches := domain.CompareBalances(cached, expected)
	if len(mismatches) > 0 {
		s.GetLogger(ctx).Warn("Balance cache drift detected", slog.Int("mismatches", len(mismatches)))
	}
	return mismatches, nil
}
