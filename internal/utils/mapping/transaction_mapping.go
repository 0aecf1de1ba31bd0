package mapping

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/models"
)

// ToModelTransaction converts the header of a domain Transaction. Lines are
// mapped separately with ToModelEntryLine.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		JournalID:     d.JournalID,
		TxDate:        domain.NormalizeDate(d.TxDate),
		Memo:          d.Memo,
		Posted:        d.Posted,
		PostedAt:      d.PostedAt,
		ReversalOf:    d.ReversalOf,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction assembles a domain Transaction from its header, journal
// name and lines.
func ToDomainTransaction(m models.Transaction, journalName string, lines []domain.EntryLine) domain.Transaction {
	if lines == nil {
		lines = []domain.EntryLine{}
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		JournalID:     m.JournalID,
		JournalName:   journalName,
		TxDate:        domain.NormalizeDate(m.TxDate),
		Memo:          m.Memo,
		Posted:        m.Posted,
		PostedAt:      m.PostedAt,
		ReversalOf:    m.ReversalOf,
		Lines:         lines,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntryLine converts a domain EntryLine. BaseAmount is always
// recomputed from debit and credit so a stored row can never disagree.
func ToModelEntryLine(d domain.EntryLine) models.EntryLine {
	d.RecomputeBaseAmount()
	return models.EntryLine{
		EntryLineID:   d.EntryLineID,
		TransactionID: d.TransactionID,
		LineNo:        d.LineNo,
		AccountID:     d.AccountID,
		Debit:         d.Debit,
		Credit:        d.Credit,
		BaseAmount:    d.BaseAmount,
		Description:   d.Description,
		Currency:      d.Currency,
	}
}

// ToDomainEntryLine converts a model EntryLine; accountCode comes from the accounts table.
func ToDomainEntryLine(m models.EntryLine, accountCode string) domain.EntryLine {
	return domain.EntryLine{
		EntryLineID:   m.EntryLineID,
		TransactionID: m.TransactionID,
		LineNo:        m.LineNo,
		AccountID:     m.AccountID,
		AccountCode:   accountCode,
		Debit:         m.Debit,
		Credit:        m.Credit,
		BaseAmount:    m.BaseAmount,
		Description:   m.Description,
		Currency:      m.Currency,
	}
}

// ToModelBalance converts a domain Balance.
func ToModelBalance(d domain.Balance) models.Balance {
	return models.Balance{
		AccountID:   d.AccountID,
		Period:      domain.PeriodOf(d.Period),
		DebitTotal:  d.DebitTotal,
		CreditTotal: d.CreditTotal,
	}
}

// ToDomainBalance converts a model Balance; accountCode comes from the accounts table.
func ToDomainBalance(m models.Balance, accountCode string) domain.Balance {
	return domain.Balance{
		AccountID:   m.AccountID,
		AccountCode: accountCode,
		Period:      domain.PeriodOf(m.Period),
		DebitTotal:  m.DebitTotal,
		CreditTotal: m.CreditTotal,
	}
}
