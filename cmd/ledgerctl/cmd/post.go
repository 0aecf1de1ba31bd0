package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/samples"
)

func today() string {
	return time.Now().Format(domain.DateLayout)
}

func newPostSampleCmd(app *cli) *cobra.Command {
	var txDate string
	cmd := &cobra.Command{
		Use:   "post-sample",
		Short: "Post a Cash 100.00 / Sales 100.00 transaction",
		Long: `Post a one-off cash sale in the GENERAL journal. Handy as a smoke test
after seed-chart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd.Context(), true, func(svc *portssvc.ServiceContainer) error {
				txn, err := svc.Posting.CreateAndPost(cmd.Context(), samples.PostSample(txDate), app.userID)
				if err != nil {
					return err
				}
				slog.Info("Sample posted", slog.String("transaction_id", txn.TransactionID))
				return app.printJSON(dto.ToTransactionResponse(txn))
			})
		},
	}
	cmd.Flags().StringVar(&txDate, "date", today(), "posting date (YYYY-MM-DD)")
	return cmd
}

func newLoadExampleCmd(app *cli) *cobra.Command {
	var (
		txDate  string
		journal string
	)
	cmd := &cobra.Command{
		Use:   "load-example",
		Short: "Seed the default chart and post the Kleppmann worked example",
		Long: `Seed the default chart of accounts, then post the ten transactions from
Martin Kleppmann's "Accounting for Computer Scientists". Afterwards the
income statement shows net income 1870.00 and the balance sheet balances
at 26870.00.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withServices(cmd.Context(), true, func(svc *portssvc.ServiceContainer) error {
				if _, err := svc.Chart.SeedChart(cmd.Context(), domain.DefaultChart(), app.userID); err != nil {
					return err
				}
				posted := make([]dto.TransactionResponse, 0, 10)
				for _, req := range samples.Kleppmann(journal, txDate) {
					txn, err := svc.Posting.CreateAndPost(cmd.Context(), req, app.userID)
					if err != nil {
						return err
					}
					posted = append(posted, dto.ToTransactionResponse(txn))
				}
				slog.Info("Example loaded", slog.Int("transactions", len(posted)))
				return app.printJSON(posted)
			})
		},
	}
	cmd.Flags().StringVar(&txDate, "date", today(), "posting date for every transaction (YYYY-MM-DD)")
	cmd.Flags().StringVar(&journal, "journal", domain.GeneralJournal, "journal to post into")
	return cmd
}
