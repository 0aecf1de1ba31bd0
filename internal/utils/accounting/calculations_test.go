package accounting

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(accountID, debit, credit string) domain.EntryLine {
	return domain.EntryLine{
		AccountID: accountID,
		Debit:     decimal.RequireFromString(debit),
		Credit:    decimal.RequireFromString(credit),
	}
}

func TestRollupBalances(t *testing.T) {
	aug := time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)
	sep := time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC)
	txns := []domain.Transaction{
		{TxDate: aug, Posted: true, Lines: []domain.EntryLine{line("cash", "100.00", "0"), line("sales", "0", "100.00")}},
		{TxDate: aug, Posted: true, Lines: []domain.EntryLine{line("cash", "25.00", "0"), line("sales", "0", "25.00")}},
		{TxDate: sep, Posted: true, Lines: []domain.EntryLine{line("sales", "25.00", "0"), line("cash", "0", "25.00")}},
		{TxDate: sep, Posted: false, Lines: []domain.EntryLine{line("cash", "999.00", "0"), line("sales", "0", "999.00")}},
	}

	rows := RollupBalances(txns)

	require.Len(t, rows, 4)
	assert.Equal(t, "cash", rows[0].AccountID)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), rows[0].Period)
	assert.Equal(t, "125", rows[0].DebitTotal.String())
	assert.Equal(t, "cash", rows[1].AccountID)
	assert.Equal(t, "25", rows[1].CreditTotal.String(), "drafts are ignored")
	assert.Equal(t, "sales", rows[2].AccountID)
	assert.Equal(t, "125", rows[2].CreditTotal.String())
}

func TestSumLines(t *testing.T) {
	d, c := SumLines([]domain.EntryLine{line("a", "10.00", "0"), line("b", "0", "9.99")})
	assert.Equal(t, "10", d.String())
	assert.Equal(t, "9.99", c.String())
}
