package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// Bucket names.
const (
	bucketAccounts     = "accounts"
	bucketAccountCodes = "account_codes"
	bucketJournals     = "journals"
	bucketJournalNames = "journal_names"
	bucketTransactions = "transactions"
	bucketEntryLines   = "entry_lines"
	bucketBalances     = "balances"
)

var allBuckets = []string{
	bucketAccounts, bucketAccountCodes, bucketJournals, bucketJournalNames,
	bucketTransactions, bucketEntryLines, bucketBalances,
}

var errReadOnly = errors.New("write attempted inside a read-only unit of work")

// Store is an embedded single-file ledger store. bbolt allows one writer at
// a time, which is what serializes concurrent posting here.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database file and its buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// runner executes bucket work either in a fresh bolt transaction or in one
// already opened by the unit of work.
type runner interface {
	view(ctx context.Context, fn func(tx *bolt.Tx) error) error
	update(ctx context.Context, fn func(tx *bolt.Tx) error) error
}

type dbRunner struct {
	db *bolt.DB
}

func (r dbRunner) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.View(fn)
}

func (r dbRunner) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.Update(fn)
}

type boundRunner struct {
	tx *bolt.Tx
}

func (r boundRunner) view(_ context.Context, fn func(tx *bolt.Tx) error) error {
	return fn(r.tx)
}

func (r boundRunner) update(_ context.Context, fn func(tx *bolt.Tx) error) error {
	if !r.tx.Writable() {
		return errReadOnly
	}
	return fn(r.tx)
}

// txManager maps units of work onto bolt Update and View transactions.
type txManager struct {
	db *bolt.DB
}

var _ portsrepo.TransactionManager = (*txManager)(nil)

func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return fn(ctx, newTxRepositories(boundRunner{tx: tx}))
	})
}

func (m *txManager) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.db.View(func(tx *bolt.Tx) error {
		return fn(ctx, newTxRepositories(boundRunner{tx: tx}))
	})
}

func newTxRepositories(r runner) portsrepo.TxRepositories {
	return portsrepo.TxRepositories{
		Accounts:     &accountRepository{run: r},
		Journals:     &journalRepository{run: r},
		Transactions: &transactionRepository{run: r},
		Reporting:    &reportingRepository{run: r},
		Balances:     &balanceRepository{run: r},
	}
}

// NewRepositoryProvider wires every repository to the store.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	r := dbRunner{db: s.db}
	return portsrepo.RepositoryProvider{
		AccountRepo:     &accountRepository{run: r},
		JournalRepo:     &journalRepository{run: r},
		TransactionRepo: &transactionRepository{run: r},
		ReportingRepo:   &reportingRepository{run: r},
		BalanceRepo:     &balanceRepository{run: r},
		TxManager:       &txManager{db: s.db},
	}
}

func putJSON(b *bolt.Bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return b.Put([]byte(key), data)
}

// getJSON decodes the value at key. It reports false when the key is absent.
func getJSON(b *bolt.Bucket, key string, value any) (bool, error) {
	data := b.Get([]byte(key))
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}
