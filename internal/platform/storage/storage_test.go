package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

func TestOpenBolt(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.StoreBolt, BoltPath: filepath.Join(t.TempDir(), "ledger.db")}

	repos, closeStore, err := Open(context.Background(), cfg, Options{Migrate: true})

	require.NoError(t, err)
	defer closeStore()
	assert.NotNil(t, repos.TxManager)
	assert.NotNil(t, repos.AccountRepo)
	accounts, err := repos.AccountRepo.ListAccounts(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{StoreDriver: "mongo"}, Options{})
	assert.Error(t, err)
}
