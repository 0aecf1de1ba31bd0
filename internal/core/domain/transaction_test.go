package domain_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEntryLine(t *testing.T) {
	tests := []struct {
		name     string
		line     domain.EntryLine
		wantErr  *domain.Rejection
		wantBase string
	}{
		{
			name:     "debit line",
			line:     domain.EntryLine{Debit: dec("125.00"), Credit: decimal.Zero},
			wantBase: "125",
		},
		{
			name:     "credit line",
			line:     domain.EntryLine{Debit: decimal.Zero, Credit: dec("9.99")},
			wantBase: "-9.99",
		},
		{
			name:    "both zero",
			line:    domain.EntryLine{Debit: decimal.Zero, Credit: decimal.Zero},
			wantErr: domain.ErrDebitCreditBothZero,
		},
		{
			name:    "both positive",
			line:    domain.EntryLine{Debit: dec("1.00"), Credit: dec("1.00")},
			wantErr: domain.ErrDebitCreditBothPositive,
		},
		{
			name:    "negative debit",
			line:    domain.EntryLine{Debit: dec("-5.00"), Credit: decimal.Zero},
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "negative credit with positive debit",
			line:    domain.EntryLine{Debit: dec("5.00"), Credit: dec("-5.00")},
			wantErr: domain.ErrNegativeAmount,
		},
		{
			name:    "three fractional digits",
			line:    domain.EntryLine{Debit: dec("1.005"), Credit: decimal.Zero},
			wantErr: domain.ErrInvalidAmountScale,
		},
		{
			name:     "trailing zeros beyond scale are fine",
			line:     domain.EntryLine{Debit: dec("1.500"), Credit: decimal.Zero},
			wantBase: "1.5",
		},
		{
			name: "zero line marked for removal is ignored",
			line: domain.EntryLine{Debit: decimal.Zero, Credit: decimal.Zero, MarkedForRemoval: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := tt.line
			err := domain.ValidateEntryLine(&line)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			if tt.wantBase != "" {
				assert.True(t, dec(tt.wantBase).Equal(line.BaseAmount), "base amount %s", line.BaseAmount)
			}
		})
	}
}

func TestCheckTransactionInvariants(t *testing.T) {
	t.Run("balanced pair", func(t *testing.T) {
		err := domain.CheckTransactionInvariants([]domain.EntryLine{debit("1000", "125.00"), credit("4000", "125.00")})
		assert.NoError(t, err)
	})

	t.Run("single line", func(t *testing.T) {
		err := domain.CheckTransactionInvariants([]domain.EntryLine{debit("1000", "125.00")})
		assert.ErrorIs(t, err, domain.ErrInsufficientLines)
	})

	t.Run("removed lines do not count", func(t *testing.T) {
		removed := credit("4000", "125.00")
		removed.MarkedForRemoval = true
		err := domain.CheckTransactionInvariants([]domain.EntryLine{debit("1000", "125.00"), removed})
		assert.ErrorIs(t, err, domain.ErrInsufficientLines)
	})

	t.Run("unbalanced carries both totals", func(t *testing.T) {
		err := domain.CheckTransactionInvariants([]domain.EntryLine{debit("1000", "10.00"), credit("4000", "9.99")})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnbalancedTransaction)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		var rej *domain.Rejection
		require.True(t, errors.As(err, &rej))
		assert.Equal(t, domain.KindInvariant, rej.Kind())
		assert.True(t, dec("10.00").Equal(rej.Debits))
		assert.True(t, dec("9.99").Equal(rej.Credits))
		assert.Contains(t, err.Error(), "10.00")
		assert.Contains(t, err.Error(), "9.99")
	})

	t.Run("removed line excluded from sums", func(t *testing.T) {
		stray := debit("5000", "3.00")
		stray.MarkedForRemoval = true
		err := domain.CheckTransactionInvariants([]domain.EntryLine{debit("1000", "50.00"), credit("4000", "20.00"), credit("4000", "30.00"), stray})
		assert.NoError(t, err)
	})
}

func TestValidateLines_StopsAtFirstBadLine(t *testing.T) {
	lines := []domain.EntryLine{
		debit("1000", "10.00"),
		{LineNo: 2, AccountCode: "4000", Debit: decimal.Zero, Credit: decimal.Zero},
	}
	err := domain.ValidateLines(lines)
	assert.ErrorIs(t, err, domain.ErrDebitCreditBothZero)
}

func TestReversalLines_SwapsDebitAndCredit(t *testing.T) {
	source := domain.Transaction{
		TransactionID: "t-1",
		Memo:          "cash sale",
		Lines: []domain.EntryLine{
			withDescription(debit("1000", "125.00"), "till"),
			credit("4000", "125.00"),
		},
	}

	lines := domain.ReversalLines(source)
	require.Len(t, lines, 2)

	assert.True(t, lines[0].Debit.IsZero())
	assert.True(t, dec("125.00").Equal(lines[0].Credit))
	assert.True(t, dec("-125.00").Equal(lines[0].BaseAmount))
	assert.Equal(t, "Reversal of t-1: till", lines[0].Description)

	assert.True(t, dec("125.00").Equal(lines[1].Debit))
	assert.True(t, lines[1].Credit.IsZero())
	assert.Equal(t, "Reversal of t-1", lines[1].Description)

	assert.Equal(t, "Reversal of transaction t-1: cash sale", domain.ReversalMemo(source))
	assert.NoError(t, domain.ValidateLines(lines))

	// the source is untouched
	assert.True(t, dec("125.00").Equal(source.Lines[0].Debit))
}

func TestSurvivingLines_Renumbers(t *testing.T) {
	removed := debit("5000", "1.00")
	removed.MarkedForRemoval = true
	out := domain.SurvivingLines([]domain.EntryLine{removed, debit("1000", "2.00"), credit("4000", "2.00")})
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].LineNo)
	assert.Equal(t, "1000", out[0].AccountCode)
	assert.Equal(t, 2, out[1].LineNo)
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, domain.ValidCurrency("EUR"))
	assert.False(t, domain.ValidCurrency("eur"))
	assert.False(t, domain.ValidCurrency("EU"))
	assert.False(t, domain.ValidCurrency("EU1"))
}

// Helper functions
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func debit(code, amount string) domain.EntryLine {
	return domain.EntryLine{AccountID: "acc-" + code, AccountCode: code, Debit: dec(amount), Credit: decimal.Zero, Currency: "EUR"}
}

func credit(code, amount string) domain.EntryLine {
	return domain.EntryLine{AccountID: "acc-" + code, AccountCode: code, Debit: decimal.Zero, Credit: dec(amount), Currency: "EUR"}
}

func withDescription(l domain.EntryLine, desc string) domain.EntryLine {
	l.Description = desc
	return l
}
