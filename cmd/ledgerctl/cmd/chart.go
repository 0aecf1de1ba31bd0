package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_engine/internal/adapters/chartfile"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

func newMigrateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply pending SQL migrations to the postgres store.
The bolt store creates its buckets on open, so migrate only opens it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.StoreDriver == config.StorePostgres {
				changed, err := database.RunMigrations(app.cfg.DatabaseURL, app.cfg.MigrationsPath)
				if err != nil {
					return err
				}
				slog.Info("Migrations checked", slog.Bool("applied", changed))
				fmt.Fprintf(app.out, "migrations applied: %t\n", changed)
				return nil
			}
			return app.withServices(cmd.Context(), false, func(*portssvc.ServiceContainer) error {
				fmt.Fprintf(app.out, "bolt store ready at %s\n", app.cfg.BoltPath)
				return nil
			})
		},
	}
}

func newSeedChartCmd(app *cli) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-chart",
		Short: "Create the chart of accounts and journals if missing",
		Long: `Load accounts and journals from a YAML chart file, or the built-in
default chart when --file and CHART_FILE are both empty. Existing
accounts and journals are left untouched, so the command is safe to rerun.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = app.cfg.ChartFile
			}
			seed, err := chartfile.Load(file)
			if err != nil {
				return err
			}
			return app.withServices(cmd.Context(), true, func(svc *portssvc.ServiceContainer) error {
				res, err := svc.Chart.SeedChart(cmd.Context(), seed, app.userID)
				if err != nil {
					return err
				}
				slog.Info("Chart seeded",
					slog.Int("accounts_created", len(res.AccountsCreated)),
					slog.Int("journals_created", len(res.JournalsCreated)))
				return app.printJSON(res)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML chart of accounts")
	return cmd
}
