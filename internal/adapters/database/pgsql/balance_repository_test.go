package pgsql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func TestBalanceLockKeys(t *testing.T) {
	jan := time.Date(2024, time.January, 17, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 3, 0, 0, 0, 0, time.UTC)

	keys := []domain.BalanceKey{
		{AccountID: "b", Period: jan},
		{AccountID: "a", Period: feb},
		{AccountID: "a", Period: jan},
		{AccountID: "b", Period: jan.AddDate(0, 0, 5)},
	}

	got := balanceLockKeys(keys)

	assert.Equal(t, []string{
		"balances:a:2024-01",
		"balances:a:2024-02",
		"balances:b:2024-01",
	}, got)
}

func TestBalanceLockKeys_OrderIndependent(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	forward := []domain.BalanceKey{{AccountID: "cash", Period: jan}, {AccountID: "sales", Period: jan}}
	backward := []domain.BalanceKey{{AccountID: "sales", Period: jan}, {AccountID: "cash", Period: jan}}

	assert.Equal(t, balanceLockKeys(forward), balanceLockKeys(backward))
	assert.Empty(t, balanceLockKeys(nil))
}
