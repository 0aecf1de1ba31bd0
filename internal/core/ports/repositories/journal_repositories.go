package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journals.
type JournalReader interface {
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
	FindJournalByName(ctx context.Context, name string) (*domain.Journal, error)
	ListJournals(ctx context.Context) ([]domain.Journal, error)

	// JournalIsReferenced reports whether any transaction belongs to the journal.
	JournalIsReferenced(ctx context.Context, journalID string) (bool, error)
}

// JournalWriter defines write operations for journals.
type JournalWriter interface {
	SaveJournal(ctx context.Context, journal domain.Journal) error
	DeleteJournal(ctx context.Context, journalID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
