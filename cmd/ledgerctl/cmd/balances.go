package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func newBalancesCmd(app *cli) *cobra.Command {
	balancesCmd := &cobra.Command{
		Use:   "balances",
		Short: "Maintain the per-month balance cache",
	}

	rebuildCmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute every cached balance from posted entry lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd.Context(), true, func(svc *portssvc.ServiceContainer) error {
				n, err := svc.Balance.RebuildBalances(cmd.Context())
				if err != nil {
					return err
				}
				slog.Info("Balance cache rebuilt", slog.Int("rows", n))
				fmt.Fprintf(app.out, "rebuilt %d balance rows\n", n)
				return nil
			})
		},
	}

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare the cache with entry lines; exits non-zero on mismatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd.Context(), false, func(svc *portssvc.ServiceContainer) error {
				mismatches, err := svc.Balance.VerifyBalances(cmd.Context())
				if err != nil {
					return err
				}
				if err := app.printJSON(dto.ToVerifyBalancesResponse(mismatches)); err != nil {
					return err
				}
				if len(mismatches) > 0 {
					return fmt.Errorf("%d stale balance rows; run balances rebuild", len(mismatches))
				}
				return nil
			})
		},
	}

	balancesCmd.AddCommand(rebuildCmd, verifyCmd)
	return balancesCmd
}
