// Package storage opens the store selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/boltdb"
	"github.com/SscSPs/ledger_engine/internal/adapters/database/pgsql"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/pkg/database"
)

// Options tweak Open.
type Options struct {
	// Migrate applies pending SQL migrations before returning a postgres store.
	Migrate bool
}

// Open returns repositories for the configured driver and a function that
// releases the underlying handle.
func Open(ctx context.Context, cfg *config.Config, opts Options) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if opts.Migrate {
			changed, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
			if err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
			slog.Info("Database migrations checked", slog.Bool("applied", changed))
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil

	case config.StoreBolt:
		store, err := boltdb.Open(cfg.BoltPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		slog.Info("Opened embedded store", slog.String("path", cfg.BoltPath))
		return boltdb.NewRepositoryProvider(store), func() {
			if err := store.Close(); err != nil {
				slog.Error("Error closing embedded store", slog.String("error", err.Error()))
			}
		}, nil
	}
	return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
