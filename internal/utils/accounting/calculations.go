package accounting

import (
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RollupBalances folds the lines of posted transactions into per-account,
// per-month debit and credit totals. Drafts are ignored. Rows come back
// sorted by account id, then period.
func RollupBalances(txns []domain.Transaction) []domain.Balance {
	type key struct {
		accountID string
		period    time.Time
	}
	rows := make(map[key]*domain.Balance)
	for _, txn := range txns {
		if !txn.Posted {
			continue
		}
		period := domain.PeriodOf(txn.TxDate)
		for _, l := range txn.Lines {
			k := key{l.AccountID, period}
			row, ok := rows[k]
			if !ok {
				row = &domain.Balance{
					AccountID:   l.AccountID,
					AccountCode: l.AccountCode,
					Period:      period,
					DebitTotal:  decimal.Zero,
					CreditTotal: decimal.Zero,
				}
				rows[k] = row
			}
			row.DebitTotal = row.DebitTotal.Add(l.Debit)
			row.CreditTotal = row.CreditTotal.Add(l.Credit)
		}
	}

	out := make([]domain.Balance, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AccountID != out[j].AccountID {
			return out[i].AccountID < out[j].AccountID
		}
		return out[i].Period.Before(out[j].Period)
	})
	return out
}

// SumLines returns the debit and credit totals of lines.
func SumLines(lines []domain.EntryLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}
