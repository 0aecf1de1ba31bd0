package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const transactionSelect = `
	SELECT t.transaction_id, t.journal_id, j.name, t.tx_date, t.memo, t.posted, t.posted_at, t.reversal_of,
	       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
	FROM transactions t
	JOIN journals j ON j.journal_id = t.journal_id`

const insertEntryLine = `
	INSERT INTO entry_lines (entry_line_id, transaction_id, line_no, account_id, debit, credit, base_amount, description, currency)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db dbtx) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, string, error) {
	var m models.Transaction
	var journalName string
	err := row.Scan(
		&m.TransactionID,
		&m.JournalID,
		&journalName,
		&m.TxDate,
		&m.Memo,
		&m.Posted,
		&m.PostedAt,
		&m.ReversalOf,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, journalName, err
}

// SaveTransaction inserts the header and, in one batch, all of its lines.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (transaction_id, journal_id, tx_date, memo, posted, posted_at, reversal_of,
		                          created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.DB.Exec(ctx, query,
		m.TransactionID, m.JournalID, m.TxDate, m.Memo, m.Posted, m.PostedAt, m.ReversalOf,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.Reject(domain.CodeReferentialIntegrity, "transaction %s references a missing journal or source", txn.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return r.insertLines(ctx, txn.TransactionID, txn.Lines)
}

func (r *PgxTransactionRepository) insertLines(ctx context.Context, transactionID string, lines []domain.EntryLine) error {
	batch := &pgx.Batch{}
	for _, l := range lines {
		l.TransactionID = transactionID
		ml := mapping.ToModelEntryLine(l)
		batch.Queue(insertEntryLine,
			ml.EntryLineID, ml.TransactionID, ml.LineNo, ml.AccountID,
			ml.Debit, ml.Credit, ml.BaseAmount, ml.Description, ml.Currency,
		)
	}
	// Close surfaces the first failing insert of the batch
	if err := r.DB.SendBatch(ctx, batch).Close(); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.Reject(domain.CodeReferentialIntegrity, "a line of transaction %s references a missing account", transactionID)
		}
		return fmt.Errorf("failed to insert lines of transaction %s: %w", transactionID, err)
	}
	return nil
}

// FindTransactionByID loads a transaction with its lines.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, transactionSelect+` WHERE t.transaction_id = $1;`, transactionID)
}

// FindTransactionForUpdate loads a transaction and locks its row until the
// surrounding transaction ends. A concurrent poster blocks here and then
// sees the latch already set.
func (r *PgxTransactionRepository) FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.findOne(ctx, transactionSelect+` WHERE t.transaction_id = $1 FOR UPDATE OF t;`, transactionID)
}

func (r *PgxTransactionRepository) findOne(ctx context.Context, query, transactionID string) (*domain.Transaction, error) {
	m, journalName, err := scanTransaction(r.DB.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	lines, err := r.findLines(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn := mapping.ToDomainTransaction(m, journalName, lines)
	return &txn, nil
}

func (r *PgxTransactionRepository) findLines(ctx context.Context, transactionID string) ([]domain.EntryLine, error) {
	query := `
		SELECT el.entry_line_id, el.transaction_id, el.line_no, el.account_id, a.code,
		       el.debit, el.credit, el.base_amount, el.description, el.currency
		FROM entry_lines el
		JOIN accounts a ON a.account_id = el.account_id
		WHERE el.transaction_id = $1
		ORDER BY el.line_no;
	`
	rows, err := r.DB.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	lines := []domain.EntryLine{}
	for rows.Next() {
		var ml models.EntryLine
		var code string
		if err := rows.Scan(
			&ml.EntryLineID, &ml.TransactionID, &ml.LineNo, &ml.AccountID, &code,
			&ml.Debit, &ml.Credit, &ml.BaseAmount, &ml.Description, &ml.Currency,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entry line: %w", err)
		}
		lines = append(lines, mapping.ToDomainEntryLine(ml, code))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry lines: %w", err)
	}
	return lines, nil
}

// ListTransactions returns transaction headers newest first, seeking past filter.After.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.JournalID != "" {
		conds = append(conds, "t.journal_id = "+arg(filter.JournalID))
	}
	if filter.AccountID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM entry_lines el WHERE el.transaction_id = t.transaction_id AND el.account_id = "+arg(filter.AccountID)+")")
	}
	if filter.Posted != nil {
		conds = append(conds, "t.posted = "+arg(*filter.Posted))
	}
	if filter.After != nil {
		conds = append(conds, fmt.Sprintf("(t.tx_date, t.created_at, t.transaction_id) < (%s, %s, %s)",
			arg(filter.After.TxDate), arg(filter.After.CreatedAt), arg(filter.After.TransactionID)))
	}

	var sb strings.Builder
	sb.WriteString(transactionSelect)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY t.tx_date DESC, t.created_at DESC, t.transaction_id DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(filter.Limit))
	}

	rows, err := r.DB.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, journalName, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m, journalName, nil))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

// ReplaceDraft overwrites the header and lines of an unposted transaction.
func (r *PgxTransactionRepository) ReplaceDraft(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET journal_id = $2, tx_date = $3, memo = $4, last_updated_at = $5, last_updated_by = $6
		WHERE transaction_id = $1 AND NOT posted;
	`
	tag, err := r.DB.Exec(ctx, query, m.TransactionID, m.JournalID, m.TxDate, m.Memo, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update draft %s: %w", txn.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainNoDraft(ctx, txn.TransactionID, domain.ErrPostedTransactionImmutable)
	}
	if _, err := r.DB.Exec(ctx, `DELETE FROM entry_lines WHERE transaction_id = $1;`, txn.TransactionID); err != nil {
		return fmt.Errorf("failed to clear lines of draft %s: %w", txn.TransactionID, err)
	}
	return r.insertLines(ctx, txn.TransactionID, txn.Lines)
}

// MarkPosted flips the latch with a conditional update, so only one of two
// racing posters can ever see a row affected.
func (r *PgxTransactionRepository) MarkPosted(ctx context.Context, transactionID string, postedAt time.Time) error {
	query := `
		UPDATE transactions
		SET posted = TRUE, posted_at = $2, last_updated_at = $2
		WHERE transaction_id = $1 AND NOT posted;
	`
	tag, err := r.DB.Exec(ctx, query, transactionID, postedAt)
	if err != nil {
		return fmt.Errorf("failed to post transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainNoDraft(ctx, transactionID, domain.ErrAlreadyPosted)
	}
	return nil
}

// DeleteDraft removes an unposted transaction; its lines go with it.
func (r *PgxTransactionRepository) DeleteDraft(ctx context.Context, transactionID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1 AND NOT posted;`, transactionID)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.Reject(domain.CodeReferentialIntegrity, "transaction %s is referenced by a reversal", transactionID)
		}
		return fmt.Errorf("failed to delete draft %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainNoDraft(ctx, transactionID, domain.ErrPostedTransactionImmutable)
	}
	return nil
}

// explainNoDraft distinguishes a missing row from a posted one after a
// conditional statement matched nothing.
func (r *PgxTransactionRepository) explainNoDraft(ctx context.Context, transactionID string, postedErr error) error {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE transaction_id = $1);`, transactionID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check transaction %s: %w", transactionID, err)
	}
	if !exists {
		return apperrors.NewNotFoundError("transaction " + transactionID)
	}
	return postedErr
}
