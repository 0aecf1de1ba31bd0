package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
)

const journalColumns = `journal_id, name, description, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(db dbtx) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (models.Journal, error) {
	var j models.Journal
	err := row.Scan(&j.JournalID, &j.Name, &j.Description, &j.CreatedAt, &j.CreatedBy, &j.LastUpdatedAt, &j.LastUpdatedBy)
	return j, err
}

// SaveJournal inserts a new journal.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `INSERT INTO journals (` + journalColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := r.DB.Exec(ctx, query, m.JournalID, m.Name, m.Description, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("journal %s: %w", journal.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert journal %s: %w", journal.JournalID, err)
	}
	return nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	return r.findOne(ctx, `SELECT `+journalColumns+` FROM journals WHERE journal_id = $1;`, journalID)
}

// FindJournalByName retrieves a journal by its unique name.
func (r *PgxJournalRepository) FindJournalByName(ctx context.Context, name string) (*domain.Journal, error) {
	return r.findOne(ctx, `SELECT `+journalColumns+` FROM journals WHERE name = $1;`, name)
}

func (r *PgxJournalRepository) findOne(ctx context.Context, query, arg string) (*domain.Journal, error) {
	m, err := scanJournal(r.DB.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal " + arg)
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", arg, err)
	}
	j := mapping.ToDomainJournal(m)
	return &j, nil
}

// ListJournals returns every journal sorted by name.
func (r *PgxJournalRepository) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+journalColumns+` FROM journals ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	defer rows.Close()

	var ms []models.Journal
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal rows: %w", err)
	}
	return mapping.ToDomainJournalSlice(ms), nil
}

// JournalIsReferenced reports whether any transaction belongs to the journal.
func (r *PgxJournalRepository) JournalIsReferenced(ctx context.Context, journalID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transactions WHERE journal_id = $1);`, journalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check references of journal %s: %w", journalID, err)
	}
	return exists, nil
}

// DeleteJournal removes a journal with no transactions.
func (r *PgxJournalRepository) DeleteJournal(ctx context.Context, journalID string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM journals WHERE journal_id = $1;`, journalID)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.Reject(domain.CodeReferentialIntegrity, "journal %s is still referenced", journalID)
		}
		return fmt.Errorf("failed to delete journal %s: %w", journalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID)
	}
	return nil
}
