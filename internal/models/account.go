package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is a row of the accounts table.
type Account struct {
	AccountID   string      `db:"account_id" json:"accountID"`
	Code        string      `db:"code" json:"code"`
	Name        string      `db:"name" json:"name"`
	AccountType AccountType `db:"account_type" json:"accountType"`
	NormalDebit bool        `db:"normal_debit" json:"normalDebit"`
	IsActive    bool        `db:"is_active" json:"isActive"`
	AuditFields
}
