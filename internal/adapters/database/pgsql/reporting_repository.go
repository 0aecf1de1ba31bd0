package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db dbtx) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// SumPostedLines aggregates raw debit and credit totals per account over the window.
func (r *reportingRepository) SumPostedLines(ctx context.Context, window domain.ReportWindow) ([]domain.AccountTotal, error) {
	query := `
		SELECT
			a.account_id, a.code, a.name, a.account_type, a.normal_debit, a.is_active,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
			SUM(el.debit) AS total_debit,
			SUM(el.credit) AS total_credit
		FROM entry_lines el
		JOIN transactions t ON t.transaction_id = el.transaction_id
		JOIN accounts a ON a.account_id = el.account_id
		WHERE t.posted
			AND t.tx_date <= $1
			AND ($2::date IS NULL OR t.tx_date >= $2::date)
		GROUP BY a.account_id
		ORDER BY a.code
	`
	end := domain.NormalizeDate(window.End)
	var start any
	if window.Start != nil {
		start = domain.NormalizeDate(*window.Start)
	}

	rows, err := r.DB.Query(ctx, query, end, start)
	if err != nil {
		return nil, fmt.Errorf("error querying posted line totals: %w", err)
	}
	defer rows.Close()

	result := []domain.AccountTotal{}
	for rows.Next() {
		var acc models.Account
		var total domain.AccountTotal
		if err := rows.Scan(
			&acc.AccountID, &acc.Code, &acc.Name, &acc.AccountType, &acc.NormalDebit, &acc.IsActive,
			&acc.CreatedAt, &acc.CreatedBy, &acc.LastUpdatedAt, &acc.LastUpdatedBy,
			&total.DebitTotal, &total.CreditTotal,
		); err != nil {
			return nil, fmt.Errorf("error scanning posted line totals: %w", err)
		}
		total.Account = mapping.ToDomainAccount(acc)
		result = append(result, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posted line totals: %w", err)
	}
	return result, nil
}
