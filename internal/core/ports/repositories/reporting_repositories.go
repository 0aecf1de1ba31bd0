package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportingRepository defines the read model for financial reports.
type ReportingRepository interface {
	// SumPostedLines returns per-account raw debit and credit totals over
	// posted transactions dated inside window. Accounts with no lines are omitted.
	SumPostedLines(ctx context.Context, window domain.ReportWindow) ([]domain.AccountTotal, error)
}
