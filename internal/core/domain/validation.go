package domain

import (
	"github.com/shopspring/decimal"
)

// AmountScale is the number of fractional digits every stored amount carries.
const AmountScale = 2

// ValidateEntryLine checks a single line and, on success, sets its BaseAmount.
// Lines marked for removal are accepted untouched.
func ValidateEntryLine(line *EntryLine) error {
	if line.MarkedForRemoval {
		return nil
	}
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return Reject(CodeNegativeAmount, "line %d: debit and credit must not be negative", line.LineNo)
	}
	if !hasScale(line.Debit) || !hasScale(line.Credit) {
		return Reject(CodeInvalidAmountScale, "line %d: amounts allow at most %d fractional digits", line.LineNo, AmountScale)
	}
	if line.Debit.IsZero() && line.Credit.IsZero() {
		return Reject(CodeDebitCreditBothZero, "line %d: either debit or credit must be non-zero", line.LineNo)
	}
	if line.Debit.IsPositive() && line.Credit.IsPositive() {
		return Reject(CodeDebitCreditBothPositive, "line %d: a line cannot have both debit and credit", line.LineNo)
	}
	line.RecomputeBaseAmount()
	return nil
}

// CheckTransactionInvariants validates the candidate line set of a transaction.
// Lines marked for removal do not count toward the line minimum or the sums.
func CheckTransactionInvariants(lines []EntryLine) error {
	debits, credits := decimal.Zero, decimal.Zero
	count := 0
	for _, l := range lines {
		if l.MarkedForRemoval {
			continue
		}
		count++
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	if count < 2 {
		return Reject(CodeInsufficientLines, "a transaction needs at least 2 lines, got %d", count)
	}
	if !debits.Equal(credits) {
		return RejectUnbalanced(debits, credits)
	}
	return nil
}

// ValidateLines runs ValidateEntryLine on every line and then the invariant
// checker over the whole set. It is the single path used by every entry point.
func ValidateLines(lines []EntryLine) error {
	for i := range lines {
		if err := ValidateEntryLine(&lines[i]); err != nil {
			return err
		}
	}
	return CheckTransactionInvariants(lines)
}

// ValidCurrency reports whether code looks like an ISO 4217 alpha code.
func ValidCurrency(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func hasScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}
