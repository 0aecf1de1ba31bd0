package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

// accountRepository keeps accounts by id plus a code index.
type accountRepository struct {
	run runner
}

var _ portsrepo.AccountRepositoryFacade = (*accountRepository)(nil)

func getAccount(tx *bolt.Tx, accountID string) (*models.Account, error) {
	var m models.Account
	ok, err := getJSON(tx.Bucket([]byte(bucketAccounts)), accountID, &m)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &m, nil
}

func accountIDForCode(tx *bolt.Tx, code string) string {
	return string(tx.Bucket([]byte(bucketAccountCodes)).Get([]byte(code)))
}

func (r *accountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		if accountIDForCode(tx, account.Code) != "" {
			return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
		}
		if err := putJSON(tx.Bucket([]byte(bucketAccounts)), account.AccountID, mapping.ToModelAccount(account)); err != nil {
			return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
		}
		return tx.Bucket([]byte(bucketAccountCodes)).Put([]byte(account.Code), []byte(account.AccountID))
	})
}

func (r *accountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		m, err := getAccount(tx, accountID)
		if err != nil {
			return err
		}
		acc := mapping.ToDomainAccount(*m)
		out = &acc
		return nil
	})
	return out, err
}

func (r *accountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	var out *domain.Account
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		id := accountIDForCode(tx, code)
		if id == "" {
			return apperrors.NewNotFoundError("account " + code)
		}
		m, err := getAccount(tx, id)
		if err != nil {
			return err
		}
		acc := mapping.ToDomainAccount(*m)
		out = &acc
		return nil
	})
	return out, err
}

func (r *accountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(codes))
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		for _, code := range codes {
			id := accountIDForCode(tx, code)
			if id == "" {
				continue
			}
			m, err := getAccount(tx, id)
			if err != nil {
				return err
			}
			out[code] = mapping.ToDomainAccount(*m)
		}
		return nil
	})
	return out, err
}

// ListAccounts walks the code index, so rows come back sorted by code.
func (r *accountRepository) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	accounts := []domain.Account{}
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketAccountCodes)).ForEach(func(_, id []byte) error {
			m, err := getAccount(tx, string(id))
			if err != nil {
				return err
			}
			if m.IsActive || includeInactive {
				accounts = append(accounts, mapping.ToDomainAccount(*m))
			}
			return nil
		})
	})
	return accounts, err
}

func (r *accountRepository) AccountIsReferenced(ctx context.Context, accountID string) (bool, error) {
	var referenced bool
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		var err error
		referenced, err = accountReferenced(tx, accountID)
		return err
	})
	return referenced, err
}

func accountReferenced(tx *bolt.Tx, accountID string) (bool, error) {
	c := tx.Bucket([]byte(bucketEntryLines)).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var line models.EntryLine
		if err := json.Unmarshal(v, &line); err != nil {
			return false, fmt.Errorf("failed to unmarshal entry line: %w", err)
		}
		if line.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *accountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		existing, err := getAccount(tx, account.AccountID)
		if err != nil {
			return err
		}
		codes := tx.Bucket([]byte(bucketAccountCodes))
		if existing.Code != account.Code {
			if owner := accountIDForCode(tx, account.Code); owner != "" && owner != account.AccountID {
				return fmt.Errorf("account code %s: %w", account.Code, apperrors.ErrDuplicate)
			}
			if err := codes.Delete([]byte(existing.Code)); err != nil {
				return err
			}
			if err := codes.Put([]byte(account.Code), []byte(account.AccountID)); err != nil {
				return err
			}
		}
		m := mapping.ToModelAccount(account)
		m.AccountType = existing.AccountType
		m.CreatedAt, m.CreatedBy = existing.CreatedAt, existing.CreatedBy
		return putJSON(tx.Bucket([]byte(bucketAccounts)), account.AccountID, m)
	})
}

func (r *accountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		existing, err := getAccount(tx, accountID)
		if err != nil {
			return err
		}
		referenced, err := accountReferenced(tx, accountID)
		if err != nil {
			return err
		}
		if referenced {
			return domain.Reject(domain.CodeReferentialIntegrity, "account %s is referenced by entry lines", existing.Code)
		}
		if err := tx.Bucket([]byte(bucketAccountCodes)).Delete([]byte(existing.Code)); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketAccounts)).Delete([]byte(accountID))
	})
}
