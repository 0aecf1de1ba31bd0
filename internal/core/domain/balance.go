package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Balance is a cached per-month rollup of posted lines for one account.
// It is never authoritative and can be rebuilt from entry lines at any time.
type Balance struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Period      time.Time       `json:"period"` // first day of the month
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
}

// BalanceKey identifies a cache row.
type BalanceKey struct {
	AccountID string
	Period    time.Time
}

// BalanceMismatch reports a cache row that disagrees with the entry lines.
type BalanceMismatch struct {
	AccountID string          `json:"accountID"`
	Period    time.Time       `json:"period"`
	Cached    decimal.Decimal `json:"cached"`   // cached debit - credit
	Expected  decimal.Decimal `json:"expected"` // recomputed debit - credit
}

// BalanceKeysFor returns the distinct (account, month) pairs touched by lines dated txDate.
func BalanceKeysFor(txDate time.Time, lines []EntryLine) []BalanceKey {
	period := PeriodOf(txDate)
	seen := make(map[string]bool, len(lines))
	keys := make([]BalanceKey, 0, len(lines))
	for _, l := range lines {
		if seen[l.AccountID] {
			continue
		}
		seen[l.AccountID] = true
		keys = append(keys, BalanceKey{AccountID: l.AccountID, Period: period})
	}
	return keys
}

// Net is the signed debit-minus-credit balance of the row.
func (b Balance) Net() decimal.Decimal {
	return b.DebitTotal.Sub(b.CreditTotal)
}

// CompareBalances reports every key whose cached net differs from the
// expected net. A key missing on either side counts as zero there.
func CompareBalances(cached, expected []Balance) []BalanceMismatch {
	type key struct {
		account string
		period  int64
	}
	cachedNet := make(map[key]Balance, len(cached))
	for _, b := range cached {
		cachedNet[key{b.AccountID, b.Period.Unix()}] = b
	}

	mismatches := make([]BalanceMismatch, 0)
	for _, e := range expected {
		k := key{e.AccountID, e.Period.Unix()}
		c, ok := cachedNet[k]
		delete(cachedNet, k)
		got := decimal.Zero
		if ok {
			got = c.Net()
		}
		if !got.Equal(e.Net()) {
			mismatches = append(mismatches, BalanceMismatch{AccountID: e.AccountID, Period: e.Period, Cached: got, Expected: e.Net()})
		}
	}
	for _, c := range cachedNet {
		if !c.Net().IsZero() {
			mismatches = append(mismatches, BalanceMismatch{AccountID: c.AccountID, Period: c.Period, Cached: c.Net(), Expected: decimal.Zero})
		}
	}
	sort.Slice(mismatches, func(i, j int) bool {
		if mismatches[i].AccountID != mismatches[j].AccountID {
			return mismatches[i].AccountID < mismatches[j].AccountID
		}
		return mismatches[i].Period.Before(mismatches[j].Period)
	})
	return mismatches
}
