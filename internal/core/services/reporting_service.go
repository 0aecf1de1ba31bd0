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

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewReportingService creates a new reporting service
func NewReportingService(txManager portsrepo.TransactionManager) portssvc.ReportingService {
	return &reportingService{
		BaseService: newBaseService(),
		txManager:   txManager,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// IncomeStatement reports income and expenses posted between start and end inclusive.
func (s *reportingService) IncomeStatement(ctx context.Context, start, end time.Time) (*domain.IncomeStatement, error) {
	window, err := domain.PeriodWindow(start, end)
	if err != nil {
		return nil, err
	}

	totals, err := s.sumPosted(ctx, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve income statement data",
			slog.String("start", start.Format(domain.DateLayout)),
			slog.String("end", end.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to retrieve income statement data: %w", err)
	}

	stmt := domain.BuildIncomeStatement(window, totals)
	s.LogInfo(ctx, "Income statement generated successfully",
		slog.String("start", start.Format(domain.DateLayout)),
		slog.String("end", end.Format(domain.DateLayout)),
		slog.Int("income_accounts", len(stmt.Income)),
		slog.Int("expense_accounts", len(stmt.Expenses)))
	return &stmt, nil
}

// BalanceSheet reports every posted line up to and including asOf.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	asOf = domain.NormalizeDate(asOf)
	totals, err := s.sumPosted(ctx, domain.ReportWindow{End: asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve balance sheet data", slog.String("as_of", asOf.Format(domain.DateLayout)))
		return nil, fmt.Errorf("failed to retrieve balance sheet data: %w", err)
	}

	sheet := domain.BuildBalanceSheet(asOf, totals)
	if !sheet.Totals.Balanced {
		// only reachable if the store holds an unbalanced posted transaction
		s.GetLogger(ctx).Warn("Balance sheet does not balance",
			slog.String("as_of", asOf.Format(domain.DateLayout)),
			slog.String("assets", sheet.Totals.Assets.String()),
			slog.String("liabilities_plus_equity", sheet.Totals.LiabilitiesPlusEquity.String()))
	}
	s.LogInfo(ctx, "Balance sheet generated successfully", slog.String("as_of", asOf.Format(domain.DateLayout)))
	return &sheet, nil
}

// TrialBalance lists per-account debit and credit totals for an as-of date or a period.
func (s *reportingService) TrialBalance(ctx context.Context, query domain.TrialBalanceQuery) (*domain.TrialBalance, error) {
	window, err := query.Window()
	if err != nil {
		return nil, err
	}

	totals, err := s.sumPosted(ctx, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve trial balance data")
		return nil, fmt.Errorf("failed to retrieve trial balance data: %w", err)
	}

	tb := domain.BuildTrialBalance(query, totals)
	s.LogInfo(ctx, "Trial balance report generated successfully", slog.Int("row_count", len(tb.Rows)))
	return &tb, nil
}

func (s *reportingService) sumPosted(ctx context.Context, window domain.ReportWindow) ([]domain.AccountTotal, error) {
	var totals []domain.AccountTotal
	err := s.txManager.WithinReadOnlyTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		totals, err = repos.Reporting.SumPostedLines(ctx, window)
		return err
	})
	return totals, err
}
