// Package samples holds ready-made transaction requests used by ledgerctl
// and by store tests: a one-line cash sale and the worked example from
// Martin Kleppmann's "Accounting for Computer Scientists".
package samples

import (
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// Account codes from the default chart.
const (
	CashCode         = "1000"
	BankCode         = "1100"
	DebtorsCode      = "1200"
	FurnitureCode    = "1500"
	CreditCardCode   = "2100"
	CapitalCode      = "3000"
	SalesCode        = "4000"
	PayrollCode      = "5100"
	FoodCode         = "5200"
	DepreciationCode = "5300"
)

// Debit builds a debit line.
func Debit(code, amount, description string) dto.EntryLineRequest {
	return dto.EntryLineRequest{AccountCode: code, Debit: decimal.RequireFromString(amount), Description: description}
}

// Credit builds a credit line.
func Credit(code, amount, description string) dto.EntryLineRequest {
	return dto.EntryLineRequest{AccountCode: code, Credit: decimal.RequireFromString(amount), Description: description}
}

// Sale returns a cash sale of amount in the general journal.
func Sale(txDate, amount string) dto.CreateTransactionRequest {
	return dto.CreateTransactionRequest{
		Journal: domain.GeneralJournal,
		TxDate:  txDate,
		Memo:    "Sample sale",
		Lines: []dto.EntryLineRequest{
			Debit(CashCode, amount, "cash received"),
			Credit(SalesCode, amount, "sales income"),
		},
	}
}

// PostSample is the smoke-test transaction: Cash 100.00 against Sales.
func PostSample(txDate string) dto.CreateTransactionRequest {
	return Sale(txDate, "100.00")
}

// Kleppmann returns the ten transactions of the worked example, all dated txDate.
// Posted together they give net income 1870.00 and total assets 26870.00.
func Kleppmann(journal, txDate string) []dto.CreateTransactionRequest {
	tx := func(memo string, lines ...dto.EntryLineRequest) dto.CreateTransactionRequest {
		return dto.CreateTransactionRequest{Journal: journal, TxDate: txDate, Memo: memo, Lines: lines}
	}
	return []dto.CreateTransactionRequest{
		tx("Bagel on company credit card",
			Debit(FoodCode, "5.00", "bagel"), Credit(CreditCardCode, "5.00", "bagel")),
		tx("Chair paid from bank",
			Debit(FurnitureCode, "500.00", "chair"), Credit(BankCode, "500.00", "chair")),
		tx("Pay credit card bill",
			Debit(CreditCardCode, "5.00", "card bill"), Credit(BankCode, "5.00", "card bill")),
		tx("Founder capital",
			Debit(BankCode, "5000.00", "founder capital"), Credit(CapitalCode, "5000.00", "founder capital")),
		tx("Customer 1 sale, paid immediately",
			Debit(BankCode, "5000.00", "sale C1"), Credit(SalesCode, "5000.00", "sale C1")),
		tx("Customer 2 sale on credit",
			Debit(DebtorsCode, "5000.00", "sale C2"), Credit(SalesCode, "5000.00", "sale C2")),
		tx("Customer 2 partial payment",
			Debit(BankCode, "2500.00", "C2 upfront"), Credit(DebtorsCode, "2500.00", "C2 upfront")),
		tx("Seed investment",
			Debit(BankCode, "20000.00", "investment"), Credit(CapitalCode, "20000.00", "investment")),
		tx("Payroll",
			Debit(PayrollCode, "8000.00", "salary"), Credit(BankCode, "8000.00", "salary")),
		tx("Depreciation of chair (1 year)",
			Debit(DepreciationCode, "125.00", "depr chair"), Credit(FurnitureCode, "125.00", "depr chair")),
	}
}
