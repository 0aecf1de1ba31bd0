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

type journalRepository struct {
	run runner
}

var _ portsrepo.JournalRepositoryFacade = (*journalRepository)(nil)

func getJournal(tx *bolt.Tx, journalID string) (*models.Journal, error) {
	var m models.Journal
	ok, err := getJSON(tx.Bucket([]byte(bucketJournals)), journalID, &m)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewNotFoundError("journal " + journalID)
	}
	return &m, nil
}

func (r *journalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		names := tx.Bucket([]byte(bucketJournalNames))
		if names.Get([]byte(journal.Name)) != nil {
			return fmt.Errorf("journal %s: %w", journal.Name, apperrors.ErrDuplicate)
		}
		if err := putJSON(tx.Bucket([]byte(bucketJournals)), journal.JournalID, mapping.ToModelJournal(journal)); err != nil {
			return fmt.Errorf("failed to save journal %s: %w", journal.JournalID, err)
		}
		return names.Put([]byte(journal.Name), []byte(journal.JournalID))
	})
}

func (r *journalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	var out *domain.Journal
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		m, err := getJournal(tx, journalID)
		if err != nil {
			return err
		}
		j := mapping.ToDomainJournal(*m)
		out = &j
		return nil
	})
	return out, err
}

func (r *journalRepository) FindJournalByName(ctx context.Context, name string) (*domain.Journal, error) {
	var out *domain.Journal
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket([]byte(bucketJournalNames)).Get([]byte(name))
		if id == nil {
			return apperrors.NewNotFoundError("journal " + name)
		}
		m, err := getJournal(tx, string(id))
		if err != nil {
			return err
		}
		j := mapping.ToDomainJournal(*m)
		out = &j
		return nil
	})
	return out, err
}

// ListJournals returns journals sorted by name.
func (r *journalRepository) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	journals := []domain.Journal{}
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketJournalNames)).ForEach(func(_, id []byte) error {
			m, err := getJournal(tx, string(id))
			if err != nil {
				return err
			}
			journals = append(journals, mapping.ToDomainJournal(*m))
			return nil
		})
	})
	return journals, err
}

func (r *journalRepository) JournalIsReferenced(ctx context.Context, journalID string) (bool, error) {
	var referenced bool
	err := r.run.view(ctx, func(tx *bolt.Tx) error {
		var err error
		referenced, err = journalReferenced(tx, journalID)
		return err
	})
	return referenced, err
}

func journalReferenced(tx *bolt.Tx, journalID string) (bool, error) {
	c := tx.Bucket([]byte(bucketTransactions)).Cursor()
	for k, v := c.First(); k != nil; k, v = c.Next() {
		var t models.Transaction
		if err := json.Unmarshal(v, &t); err != nil {
			return false, fmt.Errorf("failed to unmarshal transaction: %w", err)
		}
		if t.JournalID == journalID {
			return true, nil
		}
	}
	return false, nil
}

func (r *journalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	return r.run.update(ctx, func(tx *bolt.Tx) error {
		existing, err := getJournal(tx, journalID)
		if err != nil {
			return err
		}
		referenced, err := journalReferenced(tx, journalID)
		if err != nil {
			return err
		}
		if referenced {
			return domain.Reject(domain.CodeReferentialIntegrity, "journal %s still has transactions", existing.Name)
		}
		if err := tx.Bucket([]byte(bucketJournalNames)).Delete([]byte(existing.Name)); err != nil {
			return err
		}
		return tx.Bucket([]byte(bucketJournals)).Delete([]byte(journalID))
	})
}
