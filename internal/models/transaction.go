package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table. Lines live in entry_lines.
type Transaction struct {
	TransactionID string     `db:"transaction_id" json:"transactionID"`
	JournalID     string     `db:"journal_id" json:"journalID"`
	TxDate        time.Time  `db:"tx_date" json:"txDate"`
	Memo          string     `db:"memo" json:"memo"`
	Posted        bool       `db:"posted" json:"posted"`
	PostedAt      *time.Time `db:"posted_at" json:"postedAt,omitempty"`
	ReversalOf    *string    `db:"reversal_of" json:"reversalOf,omitempty"`
	AuditFields
}

// EntryLine is a row of the entry_lines table.
type EntryLine struct {
	EntryLineID   string          `db:"entry_line_id" json:"entryLineID"`
	TransactionID string          `db:"transaction_id" json:"transactionID"`
	LineNo        int             `db:"line_no" json:"lineNo"`
	AccountID     string          `db:"account_id" json:"accountID"`
	Debit         decimal.Decimal `db:"debit" json:"debit"`
	Credit        decimal.Decimal `db:"credit" json:"credit"`
	BaseAmount    decimal.Decimal `db:"base_amount" json:"baseAmount"`
	Description   string          `db:"description" json:"description"`
	Currency      string          `db:"currency" json:"currency"`
}

// Balance is a row of the balances cache table.
type Balance struct {
	AccountID   string          `db:"account_id" json:"accountID"`
	Period      time.Time       `db:"period" json:"period"`
	DebitTotal  decimal.Decimal `db:"debit_total" json:"debitTotal"`
	CreditTotal decimal.Decimal `db:"credit_total" json:"creditTotal"`
}
