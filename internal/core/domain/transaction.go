package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one balanced financial event within a journal.
// Posted is a one-way latch: once true it is never cleared.
type Transaction struct {
	TransactionID string      `json:"transactionID"`
	JournalID     string      `json:"journalID"`
	JournalName   string      `json:"journalName"`
	TxDate        time.Time   `json:"txDate"`
	Memo          string      `json:"memo"`
	Posted        bool        `json:"posted"`
	PostedAt      *time.Time  `json:"postedAt,omitempty"`
	ReversalOf    *string     `json:"reversalOf,omitempty"` // source transaction when this is a reversal
	Lines         []EntryLine `json:"lines"`
	AuditFields
}

// EntryLine is a single debit or credit against one account.
type EntryLine struct {
	EntryLineID   string          `json:"entryLineID"`
	TransactionID string          `json:"transactionID"`
	LineNo        int             `json:"lineNo"`
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	BaseAmount    decimal.Decimal `json:"baseAmount"` // always Debit - Credit
	Description   string          `json:"description"`
	Currency      string          `json:"currency"`

	// MarkedForRemoval flags a draft line the caller asked to drop. Such lines
	// are skipped by validation and never persisted.
	MarkedForRemoval bool `json:"-"`
}

// RecomputeBaseAmount derives BaseAmount from the debit and credit fields.
// Stores call it on every write.
func (l *EntryLine) RecomputeBaseAmount() {
	l.BaseAmount = l.Debit.Sub(l.Credit)
}

// SurvivingLines returns the lines not marked for removal, renumbered from 1.
func SurvivingLines(lines []EntryLine) []EntryLine {
	out := make([]EntryLine, 0, len(lines))
	for _, l := range lines {
		if l.MarkedForRemoval {
			continue
		}
		l.LineNo = len(out) + 1
		out = append(out, l)
	}
	return out
}

// ReversalMemo is the memo stamped on a reversal of source.
func ReversalMemo(source Transaction) string {
	if source.Memo == "" {
		return fmt.Sprintf("Reversal of transaction %s", source.TransactionID)
	}
	return fmt.Sprintf("Reversal of transaction %s: %s", source.TransactionID, source.Memo)
}

// ReversalLines returns the debit/credit swap of source's lines, annotated
// with the source id. Ids are left empty for the caller to assign.
func ReversalLines(source Transaction) []EntryLine {
	out := make([]EntryLine, 0, len(source.Lines))
	for i, l := range source.Lines {
		desc := fmt.Sprintf("Reversal of %s", source.TransactionID)
		if l.Description != "" {
			desc = fmt.Sprintf("Reversal of %s: %s", source.TransactionID, l.Description)
		}
		rev := EntryLine{
			LineNo:      i + 1,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: desc,
			Currency:    l.Currency,
		}
		rev.RecomputeBaseAmount()
		out = append(out, rev)
	}
	return out
}
