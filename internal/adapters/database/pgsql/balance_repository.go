package pgsql

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// aggregateBalances is the source of truth the cache is built from.
const aggregateBalances = `
	SELECT el.account_id, date_trunc('month', t.tx_date)::date AS period,
	       SUM(el.debit) AS debit_total, SUM(el.credit) AS credit_total
	FROM entry_lines el
	JOIN transactions t ON t.transaction_id = el.transaction_id
	WHERE t.posted
	GROUP BY el.account_id, date_trunc('month', t.tx_date)::date`

type PgxBalanceRepository struct {
	BaseRepository
}

func newPgxBalanceRepository(db dbtx) portsrepo.BalanceRepository {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.BalanceRepository = (*PgxBalanceRepository)(nil)

// balanceLockKeys returns the distinct advisory lock keys for keys in a
// stable order, so two transactions touching the same rows lock them in the
// same sequence.
func balanceLockKeys(keys []domain.BalanceKey) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		lk := "balances:" + k.AccountID + ":" + domain.PeriodOf(k.Period).Format("2006-01")
		if seen[lk] {
			continue
		}
		seen[lk] = true
		out = append(out, lk)
	}
	sort.Strings(out)
	return out
}

// RecomputeBalances upserts each (account, month) row from posted lines.
// It first takes a transaction-scoped advisory lock per row. The lock is held
// until commit, so a concurrent post touching the same row recomputes only
// after this transaction's lines are visible to it.
func (r *PgxBalanceRepository) RecomputeBalances(ctx context.Context, keys []domain.BalanceKey) error {
	if len(keys) == 0 {
		return nil
	}
	lock := `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0));`
	query := `
		INSERT INTO balances (account_id, period, debit_total, credit_total)
		SELECT $1, $2::date, COALESCE(SUM(el.debit), 0), COALESCE(SUM(el.credit), 0)
		FROM entry_lines el
		JOIN transactions t ON t.transaction_id = el.transaction_id
		WHERE t.posted
			AND el.account_id = $1
			AND t.tx_date >= $2::date
			AND t.tx_date < ($2::date + INTERVAL '1 month')
		ON CONFLICT (account_id, period)
		DO UPDATE SET debit_total = EXCLUDED.debit_total, credit_total = EXCLUDED.credit_total;
	`
	batch := &pgx.Batch{}
	for _, lk := range balanceLockKeys(keys) {
		batch.Queue(lock, lk)
	}
	for _, k := range keys {
		batch.Queue(query, k.AccountID, domain.PeriodOf(k.Period))
	}
	if err := r.DB.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to recompute balances: %w", err)
	}
	return nil
}

// RebuildAllBalances discards the cache and recomputes every row.
func (r *PgxBalanceRepository) RebuildAllBalances(ctx context.Context) (int, error) {
	if _, err := r.DB.Exec(ctx, `DELETE FROM balances;`); err != nil {
		return 0, fmt.Errorf("failed to clear balances: %w", err)
	}
	tag, err := r.DB.Exec(ctx, `INSERT INTO balances (account_id, period, debit_total, credit_total) `+aggregateBalances+`;`)
	if err != nil {
		return 0, fmt.Errorf("failed to rebuild balances: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListBalances returns cached rows for one month, or all months when period is zero.
func (r *PgxBalanceRepository) ListBalances(ctx context.Context, period time.Time) ([]domain.Balance, error) {
	var p any
	if !period.IsZero() {
		p = domain.PeriodOf(period)
	}
	query := `
		SELECT b.account_id, a.code, b.period, b.debit_total, b.credit_total
		FROM balances b
		JOIN accounts a ON a.account_id = b.account_id
		WHERE $1::date IS NULL OR b.period = $1::date
		ORDER BY a.code, b.period;
	`
	return r.queryBalances(ctx, query, p)
}

// AggregateBalances computes the expected cache contents straight from entry lines.
func (r *PgxBalanceRepository) AggregateBalances(ctx context.Context) ([]domain.Balance, error) {
	query := `
		SELECT agg.account_id, a.code, agg.period, agg.debit_total, agg.credit_total
		FROM (` + aggregateBalances + `) agg
		JOIN accounts a ON a.account_id = agg.account_id
		ORDER BY a.code, agg.period;
	`
	return r.queryBalances(ctx, query)
}

func (r *PgxBalanceRepository) queryBalances(ctx context.Context, query string, args ...any) ([]domain.Balance, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer rows.Close()

	out := []domain.Balance{}
	for rows.Next() {
		var m models.Balance
		var code string
		if err := rows.Scan(&m.AccountID, &code, &m.Period, &m.DebitTotal, &m.CreditTotal); err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		out = append(out, mapping.ToDomainBalance(m, code))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance rows: %w", err)
	}
	return out, nil
}
