package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingService defines operations for generating financial reports.
// Reports only ever see posted transactions.
type ReportingService interface {
	// IncomeStatement covers start..end inclusive.
	IncomeStatement(ctx context.Context, start, end time.Time) (*domain.IncomeStatement, error)

	// BalanceSheet is cumulative up to and including asOf.
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)

	// TrialBalance accepts either an as-of date or a start/end period.
	TrialBalance(ctx context.Context, query domain.TrialBalanceQuery) (*domain.TrialBalance, error)
}
