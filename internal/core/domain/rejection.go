package domain

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RejectionCode names why the ledger refused an operation.
type RejectionCode string

const (
	// shape: the input is structurally invalid
	CodeDebitCreditBothZero     RejectionCode = "DebitCreditBothZero"
	CodeDebitCreditBothPositive RejectionCode = "DebitCreditBothPositive"
	CodeNegativeAmount          RejectionCode = "NegativeAmount"
	CodeInsufficientLines       RejectionCode = "InsufficientLines"
	CodeInvalidAmountScale      RejectionCode = "InvalidAmountScale"
	CodeInvalidInput            RejectionCode = "InvalidInput"
	CodeInvalidReportWindow     RejectionCode = "InvalidReportWindow"

	// invariant: well formed, but the ledger state forbids it
	CodeUnbalancedTransaction      RejectionCode = "UnbalancedTransaction"
	CodeAlreadyPosted              RejectionCode = "AlreadyPosted"
	CodeNotPosted                  RejectionCode = "NotPosted"
	CodePostedTransactionImmutable RejectionCode = "PostedTransactionImmutable"
	CodeReferentialIntegrity       RejectionCode = "ReferentialIntegrity"
	CodeUnpostNotSupported         RejectionCode = "UnpostNotSupported"
	CodeAccountInactive            RejectionCode = "AccountInactive"
	CodeDuplicateCode              RejectionCode = "DuplicateCode"

	CodeAccountNotFound     RejectionCode = "AccountNotFound"
	CodeJournalNotFound     RejectionCode = "JournalNotFound"
	CodeTransactionNotFound RejectionCode = "TransactionNotFound"
)

// RejectionKind groups codes so callers can pick the right message.
type RejectionKind string

const (
	KindShape     RejectionKind = "shape"
	KindInvariant RejectionKind = "invariant"
	KindNotFound  RejectionKind = "not_found"
)

var kinds = map[RejectionCode]RejectionKind{
	CodeDebitCreditBothZero:     KindShape,
	CodeDebitCreditBothPositive: KindShape,
	CodeNegativeAmount:          KindShape,
	CodeInsufficientLines:       KindShape,
	CodeInvalidAmountScale:      KindShape,
	CodeInvalidInput:            KindShape,
	CodeInvalidReportWindow:     KindShape,

	CodeUnbalancedTransaction:      KindInvariant,
	CodeAlreadyPosted:              KindInvariant,
	CodeNotPosted:                  KindInvariant,
	CodePostedTransactionImmutable: KindInvariant,
	CodeReferentialIntegrity:       KindInvariant,
	CodeUnpostNotSupported:         KindInvariant,
	CodeAccountInactive:            KindInvariant,
	CodeDuplicateCode:              KindInvariant,

	CodeAccountNotFound:     KindNotFound,
	CodeJournalNotFound:     KindNotFound,
	CodeTransactionNotFound: KindNotFound,
}

// Rejection is the typed error returned for every refused ledger operation.
// errors.Is matches on Code, so the package-level sentinels below can be used
// as targets even when the returned value carries extra detail.
type Rejection struct {
	Code    RejectionCode
	Message string

	// Debits and Credits are set for CodeUnbalancedTransaction.
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (r *Rejection) Error() string {
	if r.Message == "" {
		return string(r.Code)
	}
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

// Is matches any *Rejection with the same code.
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Code == r.Code
}

// Unwrap exposes the generic category so handlers can map with apperrors.
func (r *Rejection) Unwrap() error {
	switch r.Kind() {
	case KindNotFound:
		return apperrors.ErrNotFound
	case KindShape:
		return apperrors.ErrValidation
	default:
		return apperrors.ErrConflict
	}
}

// Kind reports whether the rejection is about input shape, ledger state or a missing reference.
func (r *Rejection) Kind() RejectionKind {
	if k, ok := kinds[r.Code]; ok {
		return k
	}
	return KindInvariant
}

// Reject builds a Rejection with a formatted message.
func Reject(code RejectionCode, format string, args ...any) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, args...)}
}

// RejectUnbalanced builds the UnbalancedTransaction rejection carrying both totals.
func RejectUnbalanced(debits, credits decimal.Decimal) *Rejection {
	return &Rejection{
		Code:    CodeUnbalancedTransaction,
		Message: fmt.Sprintf("debits sum is %s and credits sum is %s", debits.StringFixed(2), credits.StringFixed(2)),
		Debits:  debits,
		Credits: credits,
	}
}

// Sentinels for errors.Is.
var (
	ErrDebitCreditBothZero        = &Rejection{Code: CodeDebitCreditBothZero}
	ErrDebitCreditBothPositive    = &Rejection{Code: CodeDebitCreditBothPositive}
	ErrNegativeAmount             = &Rejection{Code: CodeNegativeAmount}
	ErrInsufficientLines          = &Rejection{Code: CodeInsufficientLines}
	ErrInvalidAmountScale         = &Rejection{Code: CodeInvalidAmountScale}
	ErrInvalidInput               = &Rejection{Code: CodeInvalidInput}
	ErrInvalidReportWindow        = &Rejection{Code: CodeInvalidReportWindow}
	ErrUnbalancedTransaction      = &Rejection{Code: CodeUnbalancedTransaction}
	ErrAlreadyPosted              = &Rejection{Code: CodeAlreadyPosted}
	ErrNotPosted                  = &Rejection{Code: CodeNotPosted}
	ErrPostedTransactionImmutable = &Rejection{Code: CodePostedTransactionImmutable}
	ErrReferentialIntegrity       = &Rejection{Code: CodeReferentialIntegrity}
	ErrUnpostNotSupported         = &Rejection{Code: CodeUnpostNotSupported}
	ErrAccountInactive            = &Rejection{Code: CodeAccountInactive}
	ErrDuplicateCode              = &Rejection{Code: CodeDuplicateCode}
	ErrAccountNotFound            = &Rejection{Code: CodeAccountNotFound}
	ErrJournalNotFound            = &Rejection{Code: CodeJournalNotFound}
	ErrTransactionNotFound        = &Rejection{Code: CodeTransactionNotFound}
)
