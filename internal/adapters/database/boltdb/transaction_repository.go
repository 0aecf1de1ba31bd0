package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// transactionRepository stores headers in one bucket and lines in another,
// keyed "<transaction id>/<line no>" so a prefix scan yields them in order.
type transactionRepository struct {
	run runner
}

var _ portsrepo.TransactionRepositoryFacade = (*transactionRepository)(nil)

func linePrefix(transactionID string) []byte {
	return []byte(transactionID + "/")
}

func lineKey(transactionID string, lineNo int) string {
	return fmt.Sprintf("%s/%06d", transactionID, lineNo)
}

func getTransactionHeader(tx *bolt.Tx, transactionID string) (*models.Transaction, error) {
	var m models.Transaction
	ok, err := getJSON(tx.Bucket([]byte(bucketTransactions)), transactionID, &m)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction " + transactionID)
	}
	return &m, nil
}

func loadLines(tx *bolt.Tx, transactionID string) ([]domain.EntryLine, error) {
	lines := []domain.EntryLine{}
	prefix := linePrefix(transactionID)
	c := tx.Bucket([]byte(bucketEntryLines)).Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		var m models.EntryLine
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry line %s: %w", k, err)
		}
		acc, err := getAccount(tx, m.AccountID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, mapping.ToDomainEntryLine(m, acc.Code))
	}
	return lines, nil
}

func toDomain(tx *bolt.Tx, m *models.Transaction, withLines bool) (domain.Transaction, error) {
	journal, err := getJournal(tx, m.JournalID)
	if err != nil {
		return domain.Transaction{}, err
	}
	var lines []domain.EntryLine
	if withLines {
		if lines, err = loadLines(tx, m.TransactionID); err != nil {
			return domain.Transaction{}, err
		}
	}
	return mapping.ToDomainTransaction(*m, journal.Name, lines), nil
}

func loadTransaction(tx *bolt.Tx, transactionID string) (*domain.Transaction, error) {
	m, err := getTransactionHeader(tx, transactionID)
	if err != nil {
		return nil, err
	}
	txn, err := toDomain(tx, m, true)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// loadPosted returns every posted transaction with its lines.
func loadPosted(tx *bolt.Tx) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := tx.Bucket([]byte(bucketTransactions)).ForEach(func(_, v []byte) error {
		var m models.Transaction
		if err := json.Unmarshal(v, &m); err != nil {
			return fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		if !m.Posted {
			return nil
		}
		txn, err := toDomain(tx, &m, true)
		if err != nil {
			return err
		}
		out = append(out, txn)
		return nil
	})
	return out, err
}

func putLines(tx *bolt.Tx, transactionID string, lines []domain.EntryLine) error {
	b := tx.Bucket([]byte(bucketEntryLines))
	for _, l := range lines {
		if _, err := getAccount(tx, l.AccountID); err != nil {
			return domain.Reject(domain.CodeReferentialIntegrity, "a line of transaction %s references a missing account", transactionID)
		}
		l.TransactionID = transactionID
		if err := putJSON(b, lineKey(transactionID, l.LineNo), mapping.ToModelEntryLine(l)); err != nil {
			return fmt.Errorf("failed to insert lines of transaction %s: %w", transactionID, err)
		}
	}
	return nil
}

func deleteLines(tx *bolt.Tx, transactionID string) error {
	prefix := linePrefix(transactionID)
	b := tx.Bucket([]byte(bucketEntryLines))
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("failed to delete line %s: %w", k, err)
		}
	}
	return nil
}

func (r *transactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		headers := tx.Bucket([]byte(bucketTransactions))
		if headers.Get([]byte(txn.TransactionID)) != nil {
			return fmt.Errorf("transaction %s: %w", txn.TransactionID, apperrors.ErrDuplicate)
		}
		if _, err := getJournal(tx, txn.JournalID); err != nil {
			return domain.Reject(domain.CodeReferentialIntegrity, "transaction %s references a missing journal", txn.TransactionID)
		}
		if txn.ReversalOf != nil && headers.Get([]byte(*txn.ReversalOf)) == nil {
			return domain.Reject(domain.CodeReferentialIntegrity, "transaction %s reverses a missing transaction", txn.TransactionID)
		}
		if err := putJSON(headers, txn.TransactionID, mapping.ToModelTransaction(txn)); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
		}
		return putLines(tx, txn.TransactionID, txn.Lines)
	})
}

func (r *transactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		var err error
		out, err = loadTransaction(tx, transactionID)
		return err
	})
	return out, err
}

// FindTransactionForUpdate needs no explicit lock: a writable bolt
// transaction already excludes every other writer.
func (r *transactionRepository) FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	var out *domain.Transaction
	err := r.run.update(ctx, func(tx *bolt.Tx) error {
		var err error
		out, err = loadTransaction(tx, transactionID)
		return err
	})
	return out, err
}

func (r *transactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		var headers []models.Transaction
		err := tx.Bucket([]byte(bucketTransactions)).ForEach(func(_, v []byte) error {
			var m models.Transaction
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to unmarshal transaction: %w", err)
			}
			if filter.JournalID != "" && m.JournalID != filter.JournalID {
				return nil
			}
			if filter.Posted != nil && m.Posted != *filter.Posted {
				return nil
			}
			if filter.After != nil && !olderThan(m, *filter.After) {
				return nil
			}
			if filter.AccountID != "" {
				touches, err := touchesAccount(tx, m.TransactionID, filter.AccountID)
				if err != nil || !touches {
					return err
				}
			}
			headers = append(headers, m)
			return nil
		})
		if err != nil {
			return err
		}

		sort.Slice(headers, func(i, j int) bool {
			return olderThan(headers[j], cursorOf(headers[i]))
		})
		if filter.Limit > 0 && len(headers) > filter.Limit {
			headers = headers[:filter.Limit]
		}
		for i := range headers {
			txn, err := toDomain(tx, &headers[i], false)
			if err != nil {
				return err
			}
			txns = append(txns, txn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func cursorOf(m models.Transaction) portsrepo.TransactionCursor {
	return portsrepo.TransactionCursor{TxDate: m.TxDate, CreatedAt: m.CreatedAt, TransactionID: m.TransactionID}
}

// olderThan reports whether m sorts strictly after c in newest-first order.
func olderThan(m models.Transaction, c portsrepo.TransactionCursor) bool {
	md, cd := domain.NormalizeDate(m.TxDate), domain.NormalizeDate(c.TxDate)
	if !md.Equal(cd) {
		return md.Before(cd)
	}
	if !m.CreatedAt.Equal(c.CreatedAt) {
		return m.CreatedAt.Before(c.CreatedAt)
	}
	return m.TransactionID < c.TransactionID
}

func touchesAccount(tx *bolt.Tx, transactionID, accountID string) (bool, error) {
	prefix := linePrefix(transactionID)
	c := tx.Bucket([]byte(bucketEntryLines)).Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		var m models.EntryLine
		if err := json.Unmarshal(v, &m); err != nil {
			return false, fmt.Errorf("failed to unmarshal entry line %s: %w", k, err)
		}
		if m.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *transactionRepository) ReplaceDraft(ctx context.Context, txn domain.Transaction) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		existing, err := getTransactionHeader(tx, txn.TransactionID)
		if err != nil {
			return err
		}
		if existing.Posted {
			return domain.ErrPostedTransactionImmutable
		}
		m := mapping.ToModelTransaction(txn)
		m.Posted, m.PostedAt, m.ReversalOf = false, nil, existing.ReversalOf
		m.CreatedAt, m.CreatedBy = existing.CreatedAt, existing.CreatedBy
		if err := putJSON(tx.Bucket([]byte(bucketTransactions)), txn.TransactionID, m); err != nil {
			return fmt.Errorf("failed to update draft %s: %w", txn.TransactionID, err)
		}
		if err := deleteLines(tx, txn.TransactionID); err != nil {
			return err
		}
		return putLines(tx, txn.TransactionID, txn.Lines)
	})
}

// MarkPosted flips the latch. The stored lines are summed once more so a
// bypassed validation can never latch an unbalanced transaction.
func (r *transactionRepository) MarkPosted(ctx context.Context, transactionID string, postedAt time.Time) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		m, err := getTransactionHeader(tx, transactionID)
		if err != nil {
			return err
		}
		if m.Posted {
			return domain.ErrAlreadyPosted
		}
		lines, err := loadLines(tx, transactionID)
		if err != nil {
			return err
		}
		if debits, credits := accounting.SumLines(lines); !debits.Equal(credits) {
			return domain.RejectUnbalanced(debits, credits)
		}
		m.Posted = true
		m.PostedAt = &postedAt
		m.LastUpdatedAt = postedAt
		return putJSON(tx.Bucket([]byte(bucketTransactions)), transactionID, m)
	})
}

func (r *transactionRepository) DeleteDraft(ctx context.Context, transactionID string) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		m, err := getTransactionHeader(tx, transactionID)
		if err != nil {
			return err
		}
		if m.Posted {
			return domain.ErrPostedTransactionImmutable
		}
		if err := deleteLines(tx, transactionID); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketTransactions)).Delete([]byte(transactionID))
	})
}
