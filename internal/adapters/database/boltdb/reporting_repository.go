package boltdb

import (
	"context"
	"sort"

	bolt "go.etcd.io/bbolt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

type reportingRepository struct {
	run runner
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) SumPostedLines(ctx context.Context, window domain.ReportWindow) ([]domain.AccountTotal, error) {
	result := []domain.AccountTotal{}
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		txns, err := loadPosted(tx)
		if err != nil {
			return err
		}
		totals := make(map[string]*domain.AccountTotal)
		for _, txn := range txns {
			if !window.Contains(txn.TxDate) {
				continue
			}
			for _, l := range txn.Lines {
				t, ok := totals[l.AccountID]
				if !ok {
					m, err := getAccount(tx, l.AccountID)
					if err != nil {
						return err
					}
					t = &domain.AccountTotal{Account: mapping.ToDomainAccount(*m)}
					totals[l.AccountID] = t
				}
				t.DebitTotal = t.DebitTotal.Add(l.Debit)
				t.CreditTotal = t.CreditTotal.Add(l.Credit)
			}
		}
		for _, t := range totals {
			result = append(result, *t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Account.Code < result[j].Account.Code })
	return result, nil
}
