package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// balanceRepository keys cache rows "<account id>|<YYYY-MM-DD>".
type balanceRepository struct {
	run runner
}

var _ portsrepo.BalanceRepository = (*balanceRepository)(nil)

func balanceKey(accountID string, period time.Time) string {
	return accountID + "|" + domain.PeriodOf(period).Format(domain.DateLayout)
}

// rollup is what the cache should hold, computed from posted lines.
func rollup(tx *bolt.Tx) ([]domain.Balance, error) {
	txns, err := loadPosted(tx)
	if err != nil {
		return nil, err
	}
	return accounting.RollupBalances(txns), nil
}

func (r *balanceRepository) RecomputeBalances(ctx context.Context, keys []domain.BalanceKey) error {
	if len(keys) == 0 {
		return nil
	}
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		expected, err := rollup(tx)
		if err != nil {
			return err
		}
		byKey := make(map[string]domain.Balance, len(expected))
		for _, b := range expected {
			byKey[balanceKey(b.AccountID, b.Period)] = b
		}
		bucket := tx.Bucket([]byte(bucketBalances))
		for _, k := range keys {
			key := balanceKey(k.AccountID, k.Period)
			row, ok := byKey[key]
			if !ok {
				row = domain.Balance{AccountID: k.AccountID, Period: k.Period, DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
			}
			if err := putJSON(bucket, key, mapping.ToModelBalance(row)); err != nil {
				return fmt.Errorf("failed to recompute balance %s: %w", key, err)
			}
		}
		return nil
	})
}

func (r *balanceRepository) RebuildAllBalances(ctx context.Context) (int, error) {
	var n int
	err := r.run.update(ctx, func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketBalances)); err != nil {
			return fmt.Errorf("failed to clear balances: %w", err)
		}
		bucket, err := tx.CreateBucket([]byte(bucketBalances))
		if err != nil {
			return fmt.Errorf("failed to clear balances: %w", err)
		}
		expected, err := rollup(tx)
		if err != nil {
			return err
		}
		for _, b := range expected {
			if err := putJSON(bucket, balanceKey(b.AccountID, b.Period), mapping.ToModelBalance(b)); err != nil {
				return fmt.Errorf("failed to rebuild balances: %w", err)
			}
		}
		n = len(expected)
		return nil
	})
	return n, err
}

func (r *balanceRepository) ListBalances(ctx context.Context, period time.Time) ([]domain.Balance, error) {
	out := []domain.Balance{}
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketBalances)).ForEach(func(k, v []byte) error {
			var m models.Balance
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to unmarshal balance %s: %w", k, err)
			}
			if !period.IsZero() && !domain.PeriodOf(m.Period).Equal(domain.PeriodOf(period)) {
				return nil
			}
			acc, err := getAccount(tx, m.AccountID)
			if err != nil {
				return err
			}
			out = append(out, mapping.ToDomainBalance(m, acc.Code))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortByCode(out)
	return out, nil
}

func (r *balanceRepository) AggregateBalances(ctx context.Context) ([]domain.Balance, error) {
	var out []domain.Balance
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		var err error
		out, err = rollup(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	sortByCode(out)
	return out, nil
}

func sortByCode(rows []domain.Balance) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AccountCode != rows[j].AccountCode {
			return rows[i].AccountCode < rows[j].AccountCode
		}
		return rows[i].Period.Before(rows[j].Period)
	})
}
