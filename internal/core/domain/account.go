package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset           AccountType = "ASSET"
	Liability       AccountType = "LIABILITY"
	Equity          AccountType = "EQUITY"
	Income          AccountType = "INCOME"
	Expense         AccountType = "EXPENSE"
	ContraAsset     AccountType = "CONTRA_ASSET"
	ContraLiability AccountType = "CONTRA_LIABILITY"
)

// AccountTypes lists every supported type in chart order.
var AccountTypes = []AccountType{Asset, ContraAsset, Liability, ContraLiability, Equity, Income, Expense}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// DefaultNormalDebit returns the conventional normal-balance side for t.
// Assets, expenses and contra-liabilities increase with debits.
func DefaultNormalDebit(t AccountType) bool {
	switch t {
	case Asset, Expense, ContraLiability:
		return true
	default:
		return false
	}
}

// CheckNormalSide rejects a normal-balance override that contradicts t.
// A nil override always passes and takes DefaultNormalDebit(t).
func CheckNormalSide(t AccountType, normalDebit *bool) error {
	if normalDebit == nil || *normalDebit == DefaultNormalDebit(t) {
		return nil
	}
	side := "credit"
	if *normalDebit {
		side = "debit"
	}
	return Reject(CodeInvalidInput, "a %s account cannot be %s-normal", t, side)
}

// Account represents a financial account in the chart of accounts.
type Account struct {
	AccountID   string      `json:"accountID"`
	Code        string      `json:"code"` // unique; frozen once referenced by an entry line
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	NormalDebit bool        `json:"normalDebit"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// Display applies the normal-balance sign convention to a signed debit-minus-credit amount.
func (a Account) Display(amountBase decimal.Decimal) decimal.Decimal {
	if a.NormalDebit {
		return amountBase
	}
	return amountBase.Neg()
}
