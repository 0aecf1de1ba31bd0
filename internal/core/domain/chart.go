package domain

// AccountSeed describes one account in a chart-of-accounts seed file.
type AccountSeed struct {
	Code        string      `yaml:"code" json:"code"`
	Name        string      `yaml:"name" json:"name"`
	Type        AccountType `yaml:"type" json:"type"`
	NormalDebit *bool       `yaml:"normal_debit,omitempty" json:"normalDebit,omitempty"`
}

// JournalSeed describes one journal in a seed file.
type JournalSeed struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// ChartSeed is a full chart of accounts plus journals.
type ChartSeed struct {
	Accounts []AccountSeed `yaml:"accounts" json:"accounts"`
	Journals []JournalSeed `yaml:"journals" json:"journals"`
}

// GeneralJournal is the journal used when callers do not name one.
const GeneralJournal = "GENERAL"

// DefaultChart is the starter chart used when no seed file is given.
func DefaultChart() ChartSeed {
	return ChartSeed{
		Accounts: []AccountSeed{
			{Code: "1000", Name: "Cash", Type: Asset},
			{Code: "1100", Name: "Bank", Type: Asset},
			{Code: "1200", Name: "Debtors", Type: Asset},
			{Code: "1500", Name: "Furniture", Type: Asset},
			{Code: "2000", Name: "Accounts Payable", Type: Liability},
			{Code: "2100", Name: "Credit Card", Type: Liability},
			{Code: "3000", Name: "Capital", Type: Equity},
			{Code: "4000", Name: "Sales", Type: Income},
			{Code: "5000", Name: "Office Supplies", Type: Expense},
			{Code: "5100", Name: "Payroll", Type: Expense},
			{Code: "5200", Name: "Food", Type: Expense},
			{Code: "5300", Name: "Depreciation", Type: Expense},
		},
		Journals: []JournalSeed{
			{Name: GeneralJournal, Description: "General journal"},
		},
	}
}
