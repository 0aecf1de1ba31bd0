package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/services"
)

func balance(accountID string, period time.Time, debit, credit string) domain.Balance {
	return domain.Balance{
		AccountID:   accountID,
		Period:      period,
		DebitTotal:  decimal.RequireFromString(debit),
		CreditTotal: decimal.RequireFromString(credit),
	}
}

func TestBalanceService_Rebuild(t *testing.T) {
	repos := newMockRepos()
	svc := services.NewBalanceService(repos.txManager)
	repos.balances.On("RebuildAllBalances", mock.Anything).Return(4, nil).Once()

	rows, err := svc.RebuildBalances(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, rows)
	assert.Equal(t, 1, repos.txManager.writeTxs)
	repos.assertExpectations(t)
}

func TestBalanceService_ListNormalizesPeriod(t *testing.T) {
	repos := newMockRepos()
	svc := services.NewBalanceService(repos.txManager)
	aug := day(2025, 8, 1)
	repos.balances.On("ListBalances", mock.Anything, aug).Return([]domain.Balance{balance("a", aug, "1.00", "0")}, nil).Once()

	rows, err := svc.ListBalances(context.Background(), day(2025, 8, 17))

	require.NoError(t, err)
	assert.Len(t, rows, 1)
	repos.assertExpectations(t)
}

func TestBalanceService_VerifyReportsDrift(t *testing.T) {
	repos := newMockRepos()
	svc := services.NewBalanceService(repos.txManager)
	aug, sep := day(2025, 8, 1), day(2025, 9, 1)

	repos.balances.On("ListBalances", mock.Anything, time.Time{}).Return([]domain.Balance{
		balance("cash", aug, "125.00", "0"),
		balance("sales", aug, "0", "100.00"),
		balance("stale", sep, "5.00", "0"),
	}, nil).Once()
	repos.balances.On("AggregateBalances", mock.Anything).Return([]domain.Balance{
		balance("cash", aug, "125.00", "0"),
		balance("sales", aug, "0", "125.00"),
	}, nil).Once()

	mismatches, err := svc.VerifyBalances(context.Background())

	require.NoError(t, err)
	require.Len(t, mismatches, 2)
	assert.Equal(t, "sales", mismatches[0].AccountID)
	assert.Equal(t, "-100", mismatches[0].Cached.String())
	assert.Equal(t, "-125", mismatches[0].Expected.String())
	assert.Equal(t, "stale", mismatches[1].AccountID)
	assert.True(t, mismatches[1].Expected.IsZero())
	assert.Equal(t, 1, repos.txManager.readOnlyTxs)
}
