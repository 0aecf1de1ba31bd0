package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByID returns apperrors.ErrNotFound when absent.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode returns apperrors.ErrNotFound when absent.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByCodes returns the accounts that exist, keyed by code. Missing codes are simply absent.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error)

	// ListAccounts returns accounts sorted by code.
	ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error)

	// AccountIsReferenced reports whether any entry line points at the account.
	AccountIsReferenced(ctx context.Context, accountID string) (bool, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// SaveAccount inserts a new account. A clashing code yields apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount overwrites code, name and active flag.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an unreferenced account.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
