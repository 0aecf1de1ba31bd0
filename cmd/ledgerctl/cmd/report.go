package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// optionalDate parses s unless it is empty.
func optionalDate(flag, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &t, nil
}

func newReportCmd(app *cli) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print a financial report as JSON",
	}
	reportCmd.AddCommand(
		newIncomeStatementCmd(app),
		newBalanceSheetCmd(app),
		newTrialBalanceCmd(app),
	)
	return reportCmd
}

func newIncomeStatementCmd(app *cli) *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "income-statement",
		Short: "Income and expenses over --start..--end inclusive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			endDate, err := domain.ParseDate(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			startDate := domain.PeriodOf(endDate)
			if start != "" {
				if startDate, err = domain.ParseDate(start); err != nil {
					return fmt.Errorf("--start: %w", err)
				}
			}
			return app.withServices(cmd.Context(), false, func(svc *portssvc.ServiceContainer) error {
				stmt, err := svc.Reporting.IncomeStatement(cmd.Context(), startDate, endDate)
				if err != nil {
					return err
				}
				return app.printJSON(dto.ToIncomeStatementResponse(stmt))
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (default: first day of the end month)")
	cmd.Flags().StringVar(&end, "end", today(), "last day")
	return cmd
}

func newBalanceSheetCmd(app *cli) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Assets, liabilities and equity as of --as-of",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			asOfDate, err := domain.ParseDate(asOf)
			if err != nil {
				return fmt.Errorf("--as-of: %w", err)
			}
			return app.withServices(cmd.Context(), false, func(svc *portssvc.ServiceContainer) error {
				sheet, err := svc.Reporting.BalanceSheet(cmd.Context(), asOfDate)
				if err != nil {
					return err
				}
				return app.printJSON(dto.ToBalanceSheetResponse(sheet))
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", today(), "report date")
	return cmd
}

func newTrialBalanceCmd(app *cli) *cobra.Command {
	var asOf, start, end string
	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Debit and credit totals per account",
		Long: `Print the trial balance either as of a date (--as-of) or over a period
(--start and --end). Exactly one of the two forms is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				query domain.TrialBalanceQuery
				err   error
			)
			if query.AsOf, err = optionalDate("as-of", asOf); err != nil {
				return err
			}
			if query.Start, err = optionalDate("start", start); err != nil {
				return err
			}
			if query.End, err = optionalDate("end", end); err != nil {
				return err
			}
			return app.withServices(cmd.Context(), false, func(svc *portssvc.ServiceContainer) error {
				tb, err := svc.Reporting.TrialBalance(cmd.Context(), query)
				if err != nil {
					return err
				}
				return app.printJSON(dto.ToTrialBalanceResponse(tb))
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "snapshot date")
	cmd.Flags().StringVar(&start, "start", "", "period start")
	cmd.Flags().StringVar(&end, "end", "", "period end")
	return cmd
}
