package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx, so a repository runs
// unchanged inside or outside a unit of work.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB dbtx
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// txManager opens pgx transactions and hands out repositories bound to them.
type txManager struct {
	pool *pgxpool.Pool
}

func newTxManager(pool *pgxpool.Pool) portsrepo.TransactionManager {
	return &txManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*txManager)(nil)

// WithinTx runs fn in a read-committed transaction. Posting relies on row
// locks taken with SELECT ... FOR UPDATE, not on the isolation level.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// WithinReadOnlyTx runs fn against a repeatable-read snapshot.
func (m *txManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	return m.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (m *txManager) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := m.Begin(ctx, opts)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer m.Rollback(ctx, tx)

	if err := fn(ctx, newTxRepositories(tx)); err != nil {
		return err
	}
	return m.Commit(ctx, tx)
}

// Begin starts a new database transaction
func (m *txManager) Begin(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (m *txManager) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (m *txManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", fmt.Errorf("rollback: %w", err))
	}
	return nil
}

func newTxRepositories(db dbtx) portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Accounts:     newPgxAccountRepository(db),
		Journals:     newPgxJournalRepository(db),
		Transactions: newPgxTransactionRepository(db),
		Reporting:    newReportingRepository(db),
		Balances:     newPgxBalanceRepository(db),
	}
}
