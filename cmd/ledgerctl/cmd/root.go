// Package cmd provides the ledgerctl commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/storage"
)

// cli carries what every subcommand needs. A fresh one is built per root command.
type cli struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string
	debug   bool
	userID  string
	out     io.Writer
}

// Execute runs ledgerctl against os.Args.
func Execute() error {
	return NewRootCmd(os.Stdout).Execute()
}

// NewRootCmd builds the command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	app := &cli{v: viper.New(), out: out}
	config.SetDefaults(app.v)

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operate the double-entry ledger from the command line",
		Long: `ledgerctl seeds the chart of accounts, posts transactions and prints
financial reports against the same store the HTTP server uses.

Example:
  ledgerctl --store bolt --bolt-path ledger.db seed-chart
  ledgerctl --store bolt --bolt-path ledger.db load-example
  ledgerctl --store bolt --bolt-path ledger.db report income-statement --start 2024-01-01 --end 2024-12-31`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel := slog.LevelInfo
			if app.debug {
				logLevel = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			}))
			slog.SetDefault(logger)

			if app.cfgFile != "" {
				if err := godotenv.Load(app.cfgFile); err != nil {
					return fmt.Errorf("failed to load config file %s: %w", app.cfgFile, err)
				}
			} else {
				_ = godotenv.Load()
			}
			app.v.AutomaticEnv()

			cfg, err := config.FromViper(app.v)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			app.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "env file to load (default is .env)")
	flags.BoolVar(&app.debug, "debug", false, "enable debug logging")
	flags.StringVar(&app.userID, "user", "ledgerctl", "user id recorded on created rows")
	flags.String("store", "", "store driver: postgres or bolt")
	flags.String("bolt-path", "", "bolt database file")
	flags.String("database-url", "", "postgres connection string")
	_ = app.v.BindPFlag("STORE_DRIVER", flags.Lookup("store"))
	_ = app.v.BindPFlag("BOLT_PATH", flags.Lookup("bolt-path"))
	_ = app.v.BindPFlag("PGSQL_URL", flags.Lookup("database-url"))

	rootCmd.AddCommand(
		newMigrateCmd(app),
		newSeedChartCmd(app),
		newPostSampleCmd(app),
		newLoadExampleCmd(app),
		newReportCmd(app),
		newBalancesCmd(app),
		newTokenCmd(app),
	)
	return rootCmd
}

// withServices opens the configured store, runs fn and closes the store again.
func (app *cli) withServices(ctx context.Context, migrate bool, fn func(*portssvc.ServiceContainer) error) error {
	repos, closeStore, err := storage.Open(ctx, app.cfg, storage.Options{Migrate: migrate})
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", app.cfg.StoreDriver, err)
	}
	defer closeStore()
	return fn(services.NewServiceContainer(app.cfg, repos))
}

// printJSON writes v to the command output.
func (app *cli) printJSON(v any) error {
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
