package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func account(code, name string, typ domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:   "acc-" + code,
		Code:        code,
		Name:        name,
		AccountType: typ,
		NormalDebit: domain.DefaultNormalDebit(typ),
		IsActive:    true,
	}
}

func total(acc domain.Account, debit, credit string) domain.AccountTotal {
	return domain.AccountTotal{Account: acc, DebitTotal: dec(debit), CreditTotal: dec(credit)}
}

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDisplaySignRule(t *testing.T) {
	cash := total(account("1000", "Cash", domain.Asset), "125.00", "0")
	sales := total(account("4000", "Sales", domain.Income), "0", "125.00")

	assert.True(t, dec("125.00").Equal(cash.DisplayAmount()))
	assert.True(t, dec("125.00").Equal(sales.DisplayAmount()))
	assert.True(t, dec("-125.00").Equal(sales.AmountBase()))
}

func TestDefaultNormalDebit(t *testing.T) {
	tests := map[domain.AccountType]bool{
		domain.Asset:           true,
		domain.Expense:         true,
		domain.ContraLiability: true,
		domain.Liability:       false,
		domain.Equity:          false,
		domain.Income:          false,
		domain.ContraAsset:     false,
	}
	for typ, want := range tests {
		assert.Equal(t, want, domain.DefaultNormalDebit(typ), string(typ))
	}
	assert.False(t, domain.AccountType("BOGUS").Valid())
	assert.True(t, domain.ContraAsset.Valid())
}

func TestBuildIncomeStatement(t *testing.T) {
	window, err := domain.PeriodWindow(date("2025-08-01"), date("2025-08-31"))
	require.NoError(t, err)

	totals := []domain.AccountTotal{
		total(account("1000", "Cash", domain.Asset), "125.00", "0"),
		total(account("5200", "Food", domain.Expense), "5.00", "0"),
		total(account("4000", "Sales", domain.Income), "0", "125.00"),
		total(account("5100", "Payroll", domain.Expense), "20.00", "0"),
	}

	stmt := domain.BuildIncomeStatement(window, totals)

	assert.Equal(t, date("2025-08-01"), stmt.Start)
	assert.Equal(t, date("2025-08-31"), stmt.End)
	require.Len(t, stmt.Income, 1)
	require.Len(t, stmt.Expenses, 2)
	assert.Equal(t, "5100", stmt.Expenses[0].Code, "expenses sorted by code")
	assert.Equal(t, "5200", stmt.Expenses[1].Code)
	assert.True(t, dec("125.00").Equal(stmt.Totals.Income))
	assert.True(t, dec("25.00").Equal(stmt.Totals.Expense))
	assert.True(t, dec("100.00").Equal(stmt.Totals.NetIncome))
}

func TestCheckNormalSide(t *testing.T) {
	debit, credit := true, false

	assert.NoError(t, domain.CheckNormalSide(domain.Income, nil))
	assert.NoError(t, domain.CheckNormalSide(domain.Income, &credit))
	assert.NoError(t, domain.CheckNormalSide(domain.ContraAsset, &credit))
	assert.NoError(t, domain.CheckNormalSide(domain.Expense, &debit))

	for typ, side := range map[domain.AccountType]*bool{
		domain.Income:    &debit,
		domain.Equity:    &debit,
		domain.Liability: &debit,
		domain.Asset:     &credit,
		domain.Expense:   &credit,
	} {
		err := domain.CheckNormalSide(typ, side)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, string(typ))
	}
}

func TestBuildIncomeStatement_TotalsAreSumOfRows(t *testing.T) {
	window, err := domain.PeriodWindow(date("2025-08-01"), date("2025-08-31"))
	require.NoError(t, err)

	// A stored account whose side disagrees with its type still reports
	// totals that match the rows shown.
	odd := account("4100", "Odd income", domain.Income)
	odd.NormalDebit = true
	totals := []domain.AccountTotal{
		total(account("4000", "Sales", domain.Income), "0", "100.00"),
		total(odd, "0", "40.00"),
		total(account("5100", "Payroll", domain.Expense), "30.00", "0"),
	}

	stmt := domain.BuildIncomeStatement(window, totals)

	sum := decimal.Zero
	for _, line := range stmt.Income {
		sum = sum.Add(line.Amount)
	}
	assert.True(t, sum.Equal(stmt.Totals.Income), "income total %s, rows sum %s", stmt.Totals.Income, sum)
	assert.True(t, dec("60.00").Equal(stmt.Totals.Income))
	assert.True(t, dec("30.00").Equal(stmt.Totals.NetIncome))
}

func TestBuildIncomeStatement_Empty(t *testing.T) {
	window, err := domain.PeriodWindow(date("2025-01-01"), date("2025-01-31"))
	require.NoError(t, err)

	stmt := domain.BuildIncomeStatement(window, nil)
	assert.NotNil(t, stmt.Income)
	assert.NotNil(t, stmt.Expenses)
	assert.True(t, stmt.Totals.NetIncome.IsZero())
}

func TestBuildBalanceSheet_RetainedEarningsAndBalanced(t *testing.T) {
	totals := []domain.AccountTotal{
		total(account("1100", "Bank", domain.Asset), "32500.00", "8505.00"),
		total(account("1200", "Debtors", domain.Asset), "5000.00", "2500.00"),
		total(account("1500", "Furniture", domain.Asset), "500.00", "125.00"),
		total(account("2100", "Credit Card", domain.Liability), "5.00", "5.00"),
		total(account("3000", "Capital", domain.Equity), "0", "25000.00"),
		total(account("4000", "Sales", domain.Income), "0", "10000.00"),
		total(account("5100", "Payroll", domain.Expense), "8000.00", "0"),
		total(account("5200", "Food", domain.Expense), "5.00", "0"),
		total(account("5300", "Depreciation", domain.Expense), "125.00", "0"),
	}

	sheet := domain.BuildBalanceSheet(date("2025-12-31"), totals)

	require.Len(t, sheet.Equity, 2)
	retained := sheet.Equity[1]
	assert.Equal(t, domain.RetainedEarningsCode, retained.Code)
	assert.Equal(t, domain.RetainedEarningsName, retained.Name)
	assert.True(t, dec("1870.00").Equal(retained.Amount), "retained %s", retained.Amount)

	assert.True(t, dec("26870.00").Equal(sheet.Totals.Assets), "assets %s", sheet.Totals.Assets)
	assert.True(t, dec("26870.00").Equal(sheet.Totals.LiabilitiesPlusEquity))
	assert.True(t, sheet.Totals.Balanced)
}

func TestBuildBalanceSheet_ContraAssetNetsAgainstAssets(t *testing.T) {
	totals := []domain.AccountTotal{
		total(account("1500", "Furniture", domain.Asset), "500.00", "0"),
		total(account("1590", "Accumulated Depreciation", domain.ContraAsset), "0", "125.00"),
		total(account("3000", "Capital", domain.Equity), "0", "500.00"),
		total(account("5300", "Depreciation", domain.Expense), "125.00", "0"),
	}

	sheet := domain.BuildBalanceSheet(date("2025-12-31"), totals)

	require.Len(t, sheet.Assets, 2)
	assert.True(t, dec("125.00").Equal(sheet.Assets[1].Amount), "contra line shown on its own normal side")
	assert.True(t, dec("375.00").Equal(sheet.Totals.Assets))
	assert.True(t, sheet.Totals.Balanced)
}

func TestBuildBalanceSheet_EmptyLedgerIsBalanced(t *testing.T) {
	sheet := domain.BuildBalanceSheet(date("2025-01-01"), nil)
	assert.True(t, sheet.Totals.Balanced)
	assert.Empty(t, sheet.Assets)
	require.Len(t, sheet.Equity, 1)
	assert.True(t, sheet.Equity[0].Amount.IsZero())
}

func TestBuildTrialBalance(t *testing.T) {
	asOf := date("2025-08-31")
	totals := []domain.AccountTotal{
		total(account("4000", "Sales", domain.Income), "0", "125.00"),
		total(account("1000", "Cash", domain.Asset), "125.00", "0"),
	}

	tb := domain.BuildTrialBalance(domain.TrialBalanceQuery{AsOf: &asOf}, totals)

	require.Len(t, tb.Rows, 2)
	assert.Equal(t, "1000", tb.Rows[0].Code)
	assert.True(t, dec("125.00").Equal(tb.Totals.Debit))
	assert.True(t, dec("125.00").Equal(tb.Totals.Credit))
	assert.True(t, tb.Totals.Balanced)
	assert.Equal(t, &asOf, tb.AsOf)
}

func TestTrialBalanceQuery_Window(t *testing.T) {
	asOf := date("2025-08-31")
	start := date("2025-08-01")
	end := date("2025-08-31")
	later := date("2025-09-30")

	tests := []struct {
		name      string
		query     domain.TrialBalanceQuery
		wantErr   bool
		wantStart bool
	}{
		{name: "as of", query: domain.TrialBalanceQuery{AsOf: &asOf}},
		{name: "period", query: domain.TrialBalanceQuery{Start: &start, End: &end}, wantStart: true},
		{name: "both", query: domain.TrialBalanceQuery{AsOf: &asOf, Start: &start, End: &end}, wantErr: true},
		{name: "neither", query: domain.TrialBalanceQuery{}, wantErr: true},
		{name: "start only", query: domain.TrialBalanceQuery{Start: &start}, wantErr: true},
		{name: "inverted", query: domain.TrialBalanceQuery{Start: &later, End: &end}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.query.Window()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidReportWindow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, w.Start != nil)
		})
	}
}

func TestReportWindow_Contains(t *testing.T) {
	start := date("2025-08-01")
	w := domain.ReportWindow{Start: &start, End: date("2025-08-31")}

	assert.True(t, w.Contains(date("2025-08-01")))
	assert.True(t, w.Contains(date("2025-08-31")))
	assert.False(t, w.Contains(date("2025-07-31")))
	assert.False(t, w.Contains(date("2025-09-01")))

	cumulative := domain.ReportWindow{End: date("2025-08-31")}
	assert.True(t, cumulative.Contains(date("1999-01-01")))
}

func TestAccumulateLines(t *testing.T) {
	cash := account("1000", "Cash", domain.Asset)
	sales := account("4000", "Sales", domain.Income)
	accounts := map[string]domain.Account{cash.AccountID: cash, sales.AccountID: sales}

	lines := []domain.EntryLine{
		debit("1000", "100.00"), credit("4000", "100.00"),
		debit("1000", "25.00"), credit("4000", "25.00"),
		debit("9999", "1.00"),
	}

	totals := domain.AccumulateLines(lines, accounts)
	require.Len(t, totals, 2)
	assert.Equal(t, "1000", totals[0].Account.Code)
	assert.True(t, dec("125.00").Equal(totals[0].DebitTotal))
	assert.True(t, decimal.Zero.Equal(totals[0].CreditTotal))
	assert.True(t, dec("125.00").Equal(totals[1].DisplayAmount()))
}
