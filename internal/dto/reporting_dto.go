package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// ReportLineResponse is one account row of a report.
type ReportLineResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// PeriodResponse is an inclusive date range.
type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IncomeStatementResponse represents the income statement report response
type IncomeStatementResponse struct {
	Period   PeriodResponse       `json:"period"`
	Income   []ReportLineResponse `json:"income"`
	Expenses []ReportLineResponse `json:"expenses"`
	Totals   struct {
		Income    string `json:"income"`
		Expense   string `json:"expense"`
		NetIncome string `json:"net_income"`
	} `json:"totals"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string               `json:"as_of"`
	Assets      []ReportLineResponse `json:"assets"`
	Liabilities []ReportLineResponse `json:"liabilities"`
	Equity      []ReportLineResponse `json:"equity"`
	Totals      struct {
		Assets                string `json:"assets"`
		LiabilitiesPlusEquity string `json:"liabilities_plus_equity"`
		Balanced              bool   `json:"balanced"`
	} `json:"totals"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	AccountType string `json:"accountType"`
	DebitTotal  string `json:"debit_total"`
	CreditTotal string `json:"credit_total"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"as_of,omitempty"`
	Period *PeriodResponse           `json:"period,omitempty"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit    string `json:"debit"`
		Credit   string `json:"credit"`
		Balanced bool   `json:"balanced"`
	} `json:"totals"`
}

// BalanceResponse is one cached (account, month) row.
type BalanceResponse struct {
	AccountCode string `json:"accountCode"`
	Period      string `json:"period"` // YYYY-MM
	DebitTotal  string `json:"debitTotal"`
	CreditTotal string `json:"creditTotal"`
}

// BalanceMismatchResponse reports a stale cache row.
type BalanceMismatchResponse struct {
	AccountID string `json:"accountID"`
	Period    string `json:"period"`
	Cached    string `json:"cached"`
	Expected  string `json:"expected"`
}

// VerifyBalancesResponse is the result of comparing the cache with entry lines.
type VerifyBalancesResponse struct {
	Consistent bool                      `json:"consistent"`
	Mismatches []BalanceMismatchResponse `json:"mismatches"`
}

func toReportLines(lines []domain.ReportLine) []ReportLineResponse {
	res := make([]ReportLineResponse, len(lines))
	for i, l := range lines {
		res[i] = ReportLineResponse{Code: l.Code, Name: l.Name, Amount: Money(l.Amount)}
	}
	return res
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// ToIncomeStatementResponse converts the domain report into its response DTO.
func ToIncomeStatementResponse(stmt *domain.IncomeStatement) IncomeStatementResponse {
	var res IncomeStatementResponse
	res.Period = PeriodResponse{Start: formatDate(stmt.Start), End: formatDate(stmt.End)}
	res.Income = toReportLines(stmt.Income)
	res.Expenses = toReportLines(stmt.Expenses)
	res.Totals.Income = Money(stmt.Totals.Income)
	res.Totals.Expense = Money(stmt.Totals.Expense)
	res.Totals.NetIncome = Money(stmt.Totals.NetIncome)
	return res
}

// ToBalanceSheetResponse converts the domain report into its response DTO.
func ToBalanceSheetResponse(sheet *domain.BalanceSheet) BalanceSheetResponse {
	var res BalanceSheetResponse
	res.AsOf = formatDate(sheet.AsOf)
	res.Assets = toReportLines(sheet.Assets)
	res.Liabilities = toReportLines(sheet.Liabilities)
	res.Equity = toReportLines(sheet.Equity)
	res.Totals.Assets = Money(sheet.Totals.Assets)
	res.Totals.LiabilitiesPlusEquity = Money(sheet.Totals.LiabilitiesPlusEquity)
	res.Totals.Balanced = sheet.Totals.Balanced
	return res
}

// ToTrialBalanceResponse converts the domain report into its response DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	var res TrialBalanceResponse
	if tb.AsOf != nil {
		res.AsOf = formatDate(*tb.AsOf)
	}
	if tb.Start != nil && tb.End != nil {
		res.Period = &PeriodResponse{Start: formatDate(*tb.Start), End: formatDate(*tb.End)}
	}
	res.Rows = make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		res.Rows[i] = TrialBalanceRowResponse{
			Code:        r.Code,
			Name:        r.Name,
			AccountType: string(r.AccountType),
			DebitTotal:  Money(r.DebitTotal),
			CreditTotal: Money(r.CreditTotal),
		}
	}
	res.Totals.Debit = Money(tb.Totals.Debit)
	res.Totals.Credit = Money(tb.Totals.Credit)
	res.Totals.Balanced = tb.Totals.Balanced
	return res
}

// ToBalanceResponses converts cached balance rows.
func ToBalanceResponses(rows []domain.Balance) []BalanceResponse {
	res := make([]BalanceResponse, len(rows))
	for i, b := range rows {
		res[i] = BalanceResponse{
			AccountCode: b.AccountCode,
			Period:      b.Period.Format("2006-01"),
			DebitTotal:  Money(b.DebitTotal),
			CreditTotal: Money(b.CreditTotal),
		}
	}
	return res
}

// ToVerifyBalancesResponse converts a verification result.
func ToVerifyBalancesResponse(mismatches []domain.BalanceMismatch) VerifyBalancesResponse {
	res := VerifyBalancesResponse{Consistent: len(mismatches) == 0, Mismatches: make([]BalanceMismatchResponse, len(mismatches))}
	for i, m := range mismatches {
		res.Mismatches[i] = BalanceMismatchResponse{
			AccountID: m.AccountID,
			Period:    m.Period.Format("2006-01"),
			Cached:    Money(m.Cached),
			Expected:  Money(m.Expected),
		}
	}
	return res
}
