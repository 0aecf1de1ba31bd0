package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one proposed debit or credit line.
// Amounts are decoded from JSON strings or numbers without going through float64.
type EntryLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description" binding:"max=255"`
	Currency    string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	Remove      bool            `json:"remove"` // drop this line from a draft edit
}

// CreateTransactionRequest is used both to post directly and to save or edit a draft.
type CreateTransactionRequest struct {
	Journal string             `json:"journal" binding:"required"`
	TxDate  string             `json:"txDate" binding:"required,datetime=2006-01-02"`
	Memo    string             `json:"memo" binding:"max=1024"`
	Lines   []EntryLineRequest `json:"lines" binding:"required,dive"`
}

// ReverseTransactionRequest names the posting date of the reversal.
type ReverseTransactionRequest struct {
	ReversalDate string `json:"reversalDate" binding:"required,datetime=2006-01-02"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Journal     string `form:"journal"`
	AccountCode string `form:"accountCode"`
	Posted      *bool  `form:"posted"`
	Limit       int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken   string `form:"nextToken"`
}

// EntryLineResponse is a persisted line. Amounts are fixed two-digit strings.
type EntryLineResponse struct {
	EntryLineID string `json:"entryLineID"`
	LineNo      int    `json:"lineNo"`
	AccountCode string `json:"accountCode"`
	Debit       string `json:"debit"`
	Credit      string `json:"credit"`
	BaseAmount  string `json:"baseAmount"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

// TransactionResponse is a transaction with its lines.
type TransactionResponse struct {
	TransactionID string              `json:"transactionID"`
	Journal       string              `json:"journal"`
	TxDate        string              `json:"txDate"`
	Memo          string              `json:"memo"`
	Posted        bool                `json:"posted"`
	PostedAt      *time.Time          `json:"postedAt,omitempty"`
	ReversalOf    *string             `json:"reversalOf,omitempty"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	Lines         []EntryLineResponse `json:"lines"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// Money renders an amount at the ledger's fixed two-digit scale.
func Money(d decimal.Decimal) string {
	return d.StringFixed(domain.AmountScale)
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	lines := make([]EntryLineResponse, len(txn.Lines))
	for i, l := range txn.Lines {
		lines[i] = EntryLineResponse{
			EntryLineID: l.EntryLineID,
			LineNo:      l.LineNo,
			AccountCode: l.AccountCode,
			Debit:       Money(l.Debit),
			Credit:      Money(l.Credit),
			BaseAmount:  Money(l.BaseAmount),
			Description: l.Description,
			Currency:    l.Currency,
		}
	}
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		Journal:       txn.JournalName,
		TxDate:        txn.TxDate.Format(domain.DateLayout),
		Memo:          txn.Memo,
		Posted:        txn.Posted,
		PostedAt:      txn.PostedAt,
		ReversalOf:    txn.ReversalOf,
		CreatedAt:     txn.CreatedAt,
		CreatedBy:     txn.CreatedBy,
		Lines:         lines,
	}
}

// ToTransactionResponses converts a slice of transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
