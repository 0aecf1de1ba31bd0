package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// chartService manages accounts and journals.
type chartService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	journalRepo portsrepo.JournalReader
	txManager   portsrepo.TransactionManager
}

// NewChartService creates a new chart-of-accounts service.
func NewChartService(repos portsrepo.RepositoryProvider) portssvc.ChartSvcFacade {
	return &chartService{
		BaseService: newBaseService(),
		accountRepo: repos.AccountRepo,
		journalRepo: repos.JournalRepo,
		txManager:   repos.TxManager,
	}
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

// CreateAccount adds an account to the chart.
func (s *chartService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := domain.CheckNormalSide(req.AccountType, req.NormalDebit); err != nil {
		s.LogError(ctx, err, "Account normal side contradicts its type", slog.String("code", req.Code))
		return nil, err
	}

	now := s.clock()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		NormalDebit: domain.DefaultNormalDebit(req.AccountType),
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.NormalDebit != nil {
		account.NormalDebit = *req.NormalDebit
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Accounts.SaveAccount(ctx, account)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, domain.Reject(domain.CodeDuplicateCode, "account code %s already exists", req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByCode looks an account up by its code.
func (s *chartService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		return nil, accountLookupError(code, err)
	}
	return account, nil
}

// ListAccounts returns the chart sorted by code.
func (s *chartService) ListAccounts(ctx context.Context, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount renames, recodes or (de)activates an account. A referenced
// account keeps its code forever.
func (s *chartService) UpdateAccount(ctx context.Context, code string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	var updated domain.Account
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		account, err := repos.Accounts.FindAccountByCode(ctx, code)
		if err != nil {
			return accountLookupError(code, err)
		}

		if req.Code != nil && *req.Code != account.Code {
			referenced, err := repos.Accounts.AccountIsReferenced(ctx, account.AccountID)
			if err != nil {
				return fmt.Errorf("failed to check account references: %w", err)
			}
			if referenced {
				return domain.Reject(domain.CodeReferentialIntegrity, "account %s is referenced by entry lines; its code cannot change", code)
			}
			account.Code = *req.Code
		}
		if req.Name != nil {
			account.Name = *req.Name
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		account.LastUpdatedAt = s.clock()
		account.LastUpdatedBy = userID

		if err := repos.Accounts.UpdateAccount(ctx, *account); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				return domain.Reject(domain.CodeDuplicateCode, "account code %s already exists", account.Code)
			}
			return fmt.Errorf("failed to update account: %w", err)
		}
		updated = *account
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Account update rejected", slog.String("code", code))
		return nil, err
	}
	return &updated, nil
}

// DeactivateAccount hides an account from new postings without touching history.
func (s *chartService) DeactivateAccount(ctx context.Context, code string, userID string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, code, dto.UpdateAccountRequest{IsActive: &inactive}, userID)
	return err
}

// DeleteAccount removes an account that no entry line references.
func (s *chartService) DeleteAccount(ctx context.Context, code string, userID string) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		account, err := repos.Accounts.FindAccountByCode(ctx, code)
		if err != nil {
			return accountLookupError(code, err)
		}
		referenced, err := repos.Accounts.AccountIsReferenced(ctx, account.AccountID)
		if err != nil {
			return fmt.Errorf("failed to check account references: %w", err)
		}
		if referenced {
			return domain.Reject(domain.CodeReferentialIntegrity, "account %s is referenced by entry lines; deactivate it instead", code)
		}
		return repos.Accounts.DeleteAccount(ctx, account.AccountID)
	})
	if err != nil {
		s.LogError(ctx, err, "Account delete rejected", slog.String("code", code))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("code", code), slog.String("user_id", userID))
	return nil
}

// CreateJournal adds a journal.
func (s *chartService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, userID string) (*domain.Journal, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	now := s.clock()
	journal := domain.Journal{
		JournalID:   uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		return repos.Journals.SaveJournal(ctx, journal)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, domain.Reject(domain.CodeDuplicateCode, "journal %s already exists", req.Name)
		}
		s.LogError(ctx, err, "Failed to save journal", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}
	s.LogInfo(ctx, "Journal created", slog.String("journal_id", journal.JournalID), slog.String("name", journal.Name))
	return &journal, nil
}

// GetJournalByName looks a journal up by name.
func (s *chartService) GetJournalByName(ctx context.Context, name string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByName(ctx, name)
	if err != nil {
		return nil, journalLookupError(name, err)
	}
	return journal, nil
}

// ListJournals returns all journals sorted by name.
func (s *chartService) ListJournals(ctx context.Context) ([]domain.Journal, error) {
	journals, err := s.journalRepo.ListJournals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals")
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	return journals, nil
}

// DeleteJournal removes a journal that no transaction belongs to.
func (s *chartService) DeleteJournal(ctx context.Context, name string, userID string) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		journal, err := repos.Journals.FindJournalByName(ctx, name)
		if err != nil {
			return journalLookupError(name, err)
		}
		referenced, err := repos.Journals.JournalIsReferenced(ctx, journal.JournalID)
		if err != nil {
			return fmt.Errorf("failed to check journal references: %w", err)
		}
		if referenced {
			return domain.Reject(domain.CodeReferentialIntegrity, "journal %s still has transactions", name)
		}
		return repos.Journals.DeleteJournal(ctx, journal.JournalID)
	})
	if err != nil {
		s.LogError(ctx, err, "Journal delete rejected", slog.String("name", name))
		return err
	}
	s.LogInfo(ctx, "Journal deleted", slog.String("name", name), slog.String("user_id", userID))
	return nil
}

// SeedChart creates any accounts and journals from seed that do not exist yet.
// Existing entries are left as they are, so seeding twice is harmless.
func (s *chartService) SeedChart(ctx context.Context, seed domain.ChartSeed, userID string) (*dto.SeedChartResult, error) {
	for _, a := range seed.Accounts {
		if a.Code == "" || a.Name == "" || !a.Type.Valid() {
			return nil, domain.Reject(domain.CodeInvalidInput, "seed account %q has a missing code, name or unknown type %q", a.Code, a.Type)
		}
		if err := domain.CheckNormalSide(a.Type, a.NormalDebit); err != nil {
			return nil, fmt.Errorf("seed account %s: %w", a.Code, err)
		}
	}

	result := &dto.SeedChartResult{
		AccountsCreated: []string{},
		AccountsExisted: []string{},
		JournalsCreated: []string{},
		JournalsExisted: []string{},
	}
	now := s.clock()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		for _, a := range seed.Accounts {
			_, err := repos.Accounts.FindAccountByCode(ctx, a.Code)
			if err == nil {
				result.AccountsExisted = append(result.AccountsExisted, a.Code)
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to look up account %s: %w", a.Code, err)
			}
			normalDebit := domain.DefaultNormalDebit(a.Type)
			if a.NormalDebit != nil {
				normalDebit = *a.NormalDebit
			}
			account := domain.Account{
				AccountID:   uuid.NewString(),
				Code:        a.Code,
				Name:        a.Name,
				AccountType: a.Type,
				NormalDebit: normalDebit,
				IsActive:    true,
				AuditFields: audit,
			}
			if err := repos.Accounts.SaveAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to seed account %s: %w", a.Code, err)
			}
			result.AccountsCreated = append(result.AccountsCreated, a.Code)
		}

		for _, j := range seed.Journals {
			_, err := repos.Journals.FindJournalByName(ctx, j.Name)
			if err == nil {
				result.JournalsExisted = append(result.JournalsExisted, j.Name)
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("failed to look up journal %s: %w", j.Name, err)
			}
			journal := domain.Journal{JournalID: uuid.NewString(), Name: j.Name, Description: j.Description, AuditFields: audit}
			if err := repos.Journals.SaveJournal(ctx, journal); err != nil {
				return fmt.Errorf("failed to seed journal %s: %w", j.Name, err)
			}
			result.JournalsCreated = append(result.JournalsCreated, j.Name)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Chart seeding failed")
		return nil, err
	}

	s.LogInfo(ctx, "Chart seeded",
		slog.Int("accounts_created", len(result.AccountsCreated)),
		slog.Int("journals_created", len(result.JournalsCreated)))
	return result, nil
}

func accountLookupError(code string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Reject(domain.CodeAccountNotFound, "account %s not found", code)
	}
	return fmt.Errorf("failed to find account %s: %w", code, err)
}

func journalLookupError(name string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Reject(domain.CodeJournalNotFound, "journal %s not found", name)
	}
	return fmt.Errorf("failed to find journal %s: %w", name, err)
}
