package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// RetainedEarningsCode and RetainedEarningsName label the synthetic equity line.
const (
	RetainedEarningsCode = "RETAINED"
	RetainedEarningsName = "Retained Earnings"
)

// AccountTotal is the accumulation primitive every report is built on:
// raw debit and credit sums of posted lines for one account over a window.
type AccountTotal struct {
	Account     Account
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

// AmountBase is the signed debit-minus-credit balance.
func (t AccountTotal) AmountBase() decimal.Decimal {
	return t.DebitTotal.Sub(t.CreditTotal)
}

// DisplayAmount is AmountBase with the account's normal-balance sign applied.
func (t AccountTotal) DisplayAmount() decimal.Decimal {
	return t.Account.Display(t.AmountBase())
}

// ReportWindow selects posted lines by posting date. A nil Start means
// cumulative from the beginning of the ledger. Both ends are inclusive.
type ReportWindow struct {
	Start *time.Time
	End   time.Time
}

// Contains reports whether date falls inside the window.
func (w ReportWindow) Contains(date time.Time) bool {
	d := NormalizeDate(date)
	if d.After(NormalizeDate(w.End)) {
		return false
	}
	return w.Start == nil || !d.Before(NormalizeDate(*w.Start))
}

// ReportLine is one account row of an income statement or balance sheet.
type ReportLine struct {
	AccountID   string          `json:"accountID,omitempty"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatementTotals summarizes an income statement.
type IncomeStatementTotals struct {
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	NetIncome decimal.Decimal `json:"netIncome"`
}

// IncomeStatement covers posted activity between Start and End inclusive.
type IncomeStatement struct {
	Start    time.Time             `json:"start"`
	End      time.Time             `json:"end"`
	Income   []ReportLine          `json:"income"`
	Expenses []ReportLine          `json:"expenses"`
	Totals   IncomeStatementTotals `json:"totals"`
}

// BalanceSheetTotals summarizes a balance sheet. Balanced is the accounting equation check.
type BalanceSheetTotals struct {
	Assets                decimal.Decimal `json:"assets"`
	LiabilitiesPlusEquity decimal.Decimal `json:"liabilitiesPlusEquity"`
	Balanced              bool            `json:"balanced"`
}

// BalanceSheet is a cumulative snapshot as of AsOf.
type BalanceSheet struct {
	AsOf        time.Time          `json:"asOf"`
	Assets      []ReportLine       `json:"assets"`
	Liabilities []ReportLine       `json:"liabilities"`
	Equity      []ReportLine       `json:"equity"`
	Totals      BalanceSheetTotals `json:"totals"`
}

// TrialBalanceRow lists raw debit and credit totals for one account.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
}

// TrialBalanceTotals sums both columns; Balanced is true when they agree.
type TrialBalanceTotals struct {
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balanced bool            `json:"balanced"`
}

// TrialBalance is either a snapshot (AsOf) or a period (Start..End).
type TrialBalance struct {
	AsOf   *time.Time         `json:"asOf,omitempty"`
	Start  *time.Time         `json:"start,omitempty"`
	End    *time.Time         `json:"end,omitempty"`
	Rows   []TrialBalanceRow  `json:"rows"`
	Totals TrialBalanceTotals `json:"totals"`
}

// TrialBalanceQuery accepts exactly one of AsOf or the Start/End pair.
type TrialBalanceQuery struct {
	AsOf  *time.Time
	Start *time.Time
	End   *time.Time
}

// Window validates the query and converts it to a ReportWindow.
func (q TrialBalanceQuery) Window() (ReportWindow, error) {
	hasPeriod := q.Start != nil || q.End != nil
	switch {
	case q.AsOf != nil && hasPeriod:
		return ReportWindow{}, Reject(CodeInvalidReportWindow, "supply either as_of or start/end, not both")
	case q.AsOf == nil && !hasPeriod:
		return ReportWindow{}, Reject(CodeInvalidReportWindow, "supply either as_of or start/end")
	case q.AsOf != nil:
		return ReportWindow{End: NormalizeDate(*q.AsOf)}, nil
	case q.Start == nil || q.End == nil:
		return ReportWindow{}, Reject(CodeInvalidReportWindow, "a period needs both start and end")
	}
	start, end := NormalizeDate(*q.Start), NormalizeDate(*q.End)
	if start.After(end) {
		return ReportWindow{}, Reject(CodeInvalidReportWindow, "start %s is after end %s", start.Format(DateLayout), end.Format(DateLayout))
	}
	return ReportWindow{Start: &start, End: end}, nil
}

// PeriodWindow validates an inclusive start..end range.
func PeriodWindow(start, end time.Time) (ReportWindow, error) {
	return TrialBalanceQuery{Start: &start, End: &end}.Window()
}

// section collects rows whose contribution is measured from one normal side.
type section struct {
	debitNormal  bool
	lines        []ReportLine
	total        decimal.Decimal
	displayTotal decimal.Decimal // sum of the rows as shown
}

// add appends t's display line. total uses the amount relative to the
// section's normal side, so contra accounts net against their section.
// Income statement figures come from displayTotal.
func (s *section) add(t AccountTotal) {
	s.lines = append(s.lines, ReportLine{
		AccountID:   t.Account.AccountID,
		Code:        t.Account.Code,
		Name:        t.Account.Name,
		AccountType: t.Account.AccountType,
		Amount:      t.DisplayAmount(),
	})
	s.displayTotal = s.displayTotal.Add(t.DisplayAmount())
	contribution := t.AmountBase()
	if !s.debitNormal {
		contribution = contribution.Neg()
	}
	s.total = s.total.Add(contribution)
}

func (s *section) sorted() []ReportLine {
	sort.SliceStable(s.lines, func(i, j int) bool { return s.lines[i].Code < s.lines[j].Code })
	if s.lines == nil {
		return []ReportLine{}
	}
	return s.lines
}

// BuildIncomeStatement partitions totals into income and expense sections.
func BuildIncomeStatement(window ReportWindow, totals []AccountTotal) IncomeStatement {
	income := &section{debitNormal: false}
	expense := &section{debitNormal: true}
	for _, t := range totals {
		switch t.Account.AccountType {
		case Income:
			income.add(t)
		case Expense:
			expense.add(t)
		}
	}
	stmt := IncomeStatement{
		End:      window.End,
		Income:   income.sorted(),
		Expenses: expense.sorted(),
		Totals: IncomeStatementTotals{
			Income:    income.displayTotal,
			Expense:   expense.displayTotal,
			NetIncome: income.displayTotal.Sub(expense.displayTotal),
		},
	}
	if window.Start != nil {
		stmt.Start = *window.Start
	}
	return stmt
}

// BuildBalanceSheet partitions cumulative totals into assets, liabilities and
// equity, and appends retained earnings as a synthetic equity line.
func BuildBalanceSheet(asOf time.Time, totals []AccountTotal) BalanceSheet {
	assets := &section{debitNormal: true}
	liabilities := &section{debitNormal: false}
	equity := &section{debitNormal: false}
	income := &section{debitNormal: false}
	expense := &section{debitNormal: true}

	for _, t := range totals {
		switch t.Account.AccountType {
		case Asset, ContraAsset:
			assets.add(t)
		case Liability, ContraLiability:
			liabilities.add(t)
		case Equity:
			equity.add(t)
		case Income:
			income.add(t)
		case Expense:
			expense.add(t)
		}
	}

	retained := income.displayTotal.Sub(expense.displayTotal)
	equityLines := append(equity.sorted(), ReportLine{
		Code:   RetainedEarningsCode,
		Name:   RetainedEarningsName,
		Amount: retained,
	})
	lpe := liabilities.total.Add(equity.total).Add(retained)

	return BalanceSheet{
		AsOf:        NormalizeDate(asOf),
		Assets:      assets.sorted(),
		Liabilities: liabilities.sorted(),
		Equity:      equityLines,
		Totals: BalanceSheetTotals{
			Assets:                assets.total,
			LiabilitiesPlusEquity: lpe,
			Balanced:              assets.total.Equal(lpe),
		},
	}
}

// BuildTrialBalance lists raw debit/credit totals for every account with activity.
func BuildTrialBalance(q TrialBalanceQuery, totals []AccountTotal) TrialBalance {
	rows := make([]TrialBalanceRow, 0, len(totals))
	debit, credit := decimal.Zero, decimal.Zero
	for _, t := range totals {
		rows = append(rows, TrialBalanceRow{
			AccountID:   t.Account.AccountID,
			Code:        t.Account.Code,
			Name:        t.Account.Name,
			AccountType: t.Account.AccountType,
			DebitTotal:  t.DebitTotal,
			CreditTotal: t.CreditTotal,
		})
		debit = debit.Add(t.DebitTotal)
		credit = credit.Add(t.CreditTotal)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return TrialBalance{
		AsOf:  q.AsOf,
		Start: q.Start,
		End:   q.End,
		Rows:  rows,
		Totals: TrialBalanceTotals{
			Debit:    debit,
			Credit:   credit,
			Balanced: debit.Equal(credit),
		},
	}
}

// AccumulateLines folds posted lines into per-account totals. accounts maps
// account id to the chart entry; lines for unknown accounts are skipped.
func AccumulateLines(lines []EntryLine, accounts map[string]Account) []AccountTotal {
	byID := make(map[string]*AccountTotal)
	order := make([]string, 0)
	for _, l := range lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			continue
		}
		cur, ok := byID[l.AccountID]
		if !ok {
			cur = &AccountTotal{Account: acc, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
			byID[l.AccountID] = cur
			order = append(order, l.AccountID)
		}
		cur.DebitTotal = cur.DebitTotal.Add(l.Debit)
		cur.CreditTotal = cur.CreditTotal.Add(l.Credit)
	}
	out := make([]AccountTotal, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
