package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// PostingServiceOption is a functional option for configuring the posting service
type PostingServiceOption func(*postingService)

// WithDefaultCurrency sets the currency stamped on lines that do not name one.
func WithDefaultCurrency(currency string) PostingServiceOption {
	return func(s *postingService) {
		if currency != "" {
			s.defaultCurrency = currency
		}
	}
}

// WithClock replaces the wall clock used for audit and posting timestamps.
func WithClock(now func() time.Time) PostingServiceOption {
	return func(s *postingService) {
		s.now = now
	}
}

// postingService owns every state change of a transaction. All of its
// entry points funnel through ValidateLines and postInTx.
type postingService struct {
	BaseService
	txnRepo         portsrepo.TransactionReader
	accountRepo     portsrepo.AccountReader
	journalRepo     portsrepo.JournalReader
	txManager       portsrepo.TransactionManager
	defaultCurrency string
}

// NewPostingService creates a new posting service.
func NewPostingService(repos portsrepo.RepositoryProvider, options ...PostingServiceOption) portssvc.PostingSvcFacade {
	svc := &postingService{
		BaseService:     newBaseService(),
		txnRepo:         repos.TransactionRepo,
		accountRepo:     repos.AccountRepo,
		journalRepo:     repos.JournalRepo,
		txManager:       repos.TxManager,
		defaultCurrency: "EUR",
	}
	for _, opt := range options {
		opt(svc)
	}
	return svc
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// CreateAndPost validates, stores and posts a transaction in one unit of work.
func (s *postingService) CreateAndPost(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	var posted *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		txn, err := s.buildTransaction(ctx, repos, req, userID)
		if err != nil {
			return err
		}
		if err := repos.Transactions.SaveTransaction(ctx, *txn); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		posted, err = s.postInTx(ctx, repos, txn.TransactionID, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Create and post rejected", slog.String("journal", req.Journal), slog.String("tx_date", req.TxDate))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted", slog.String("transaction_id", posted.TransactionID), slog.Int("lines", len(posted.Lines)))
	return posted, nil
}

// CreateDraft validates and stores an unposted transaction.
func (s *postingService) CreateDraft(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	var draft *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		txn, err := s.buildTransaction(ctx, repos, req, userID)
		if err != nil {
			return err
		}
		if err := repos.Transactions.SaveTransaction(ctx, *txn); err != nil {
			return fmt.Errorf("failed to save draft: %w", err)
		}
		draft = txn
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Draft rejected", slog.String("journal", req.Journal))
		return nil, err
	}

	s.LogInfo(ctx, "Draft created", slog.String("transaction_id", draft.TransactionID))
	return draft, nil
}

// UpdateDraft replaces the header and lines of a draft.
func (s *postingService) UpdateDraft(ctx context.Context, transactionID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	var draft *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		existing, err := repos.Transactions.FindTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return transactionLookupError(transactionID, err)
		}
		if existing.Posted {
			return domain.Reject(domain.CodePostedTransactionImmutable, "transaction %s is posted and cannot be edited", transactionID)
		}

		txn, err := s.buildTransaction(ctx, repos, req, userID)
		if err != nil {
			return err
		}
		txn.TransactionID = existing.TransactionID
		txn.AuditFields.CreatedAt = existing.CreatedAt
		txn.AuditFields.CreatedBy = existing.CreatedBy
		for i := range txn.Lines {
			txn.Lines[i].TransactionID = existing.TransactionID
		}

		if err := repos.Transactions.ReplaceDraft(ctx, *txn); err != nil {
			if errors.Is(err, domain.ErrPostedTransactionImmutable) {
				return domain.Reject(domain.CodePostedTransactionImmutable, "transaction %s is posted and cannot be edited", transactionID)
			}
			return fmt.Errorf("failed to update draft: %w", err)
		}
		draft = txn
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Draft update rejected", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Draft updated", slog.String("transaction_id", transactionID), slog.Int("lines", len(draft.Lines)))
	return draft, nil
}

// Post revalidates a draft and sets its posted latch.
func (s *postingService) Post(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	var posted *domain.Transaction
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		var err error
		posted, err = s.postInTx(ctx, repos, transactionID, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Post rejected", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted", slog.String("transaction_id", transactionID), slog.String("user_id", userID))
	return posted, nil
}

// Delete removes a draft and its lines.
func (s *postingService) Delete(ctx context.Context, transactionID string, userID string) error {
	err := s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		txn, err := repos.Transactions.FindTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return transactionLookupError(transactionID, err)
		}
		if txn.Posted {
			return domain.Reject(domain.CodePostedTransactionImmutable, "transaction %s is posted; reverse it instead", transactionID)
		}
		if err := repos.Transactions.DeleteDraft(ctx, transactionID); err != nil {
			if errors.Is(err, domain.ErrPostedTransactionImmutable) {
				return domain.Reject(domain.CodePostedTransactionImmutable, "transaction %s is posted; reverse it instead", transactionID)
			}
			return fmt.Errorf("failed to delete draft: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Delete rejected", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Draft deleted", slog.String("transaction_id", transactionID), slog.String("user_id", userID))
	return nil
}

// Reverse posts the debit/credit swap of a posted transaction on reversalDate.
// Reversals skip the active-account check so retired accounts can be unwound.
func (s *postingService) Reverse(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	reversalDate, err := domain.ParseDate(req.ReversalDate)
	if err != nil {
		return nil, domain.Reject(domain.CodeInvalidInput, "reversal date: %v", err)
	}

	var reversal *domain.Transaction
	err = s.txManager.WithinTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		source, err := repos.Transactions.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return transactionLookupError(transactionID, err)
		}
		if !source.Posted {
			return domain.Reject(domain.CodeNotPosted, "transaction %s is not posted; delete the draft instead", transactionID)
		}

		now := s.clock()
		sourceID := source.TransactionID
		txn := domain.Transaction{
			TransactionID: uuid.NewString(),
			JournalID:     source.JournalID,
			JournalName:   source.JournalName,
			TxDate:        reversalDate,
			Memo:          domain.ReversalMemo(*source),
			ReversalOf:    &sourceID,
			Lines:         domain.ReversalLines(*source),
			AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
		}
		assignLineIDs(&txn)
		if err := domain.ValidateLines(txn.Lines); err != nil {
			return err
		}
		if err := repos.Transactions.SaveTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to save reversal: %w", err)
		}
		reversal, err = s.postInTx(ctx, repos, txn.TransactionID, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Reversal rejected", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction reversed",
		slog.String("transaction_id", transactionID),
		slog.String("reversal_id", reversal.TransactionID))
	return reversal, nil
}

// Unpost is refused for every transaction. The posted latch only moves forward.
func (s *postingService) Unpost(ctx context.Context, transactionID string, userID string) error {
	err := domain.Reject(domain.CodeUnpostNotSupported, "transaction %s cannot be unposted; reverse it instead", transactionID)
	s.LogInfo(ctx, "Unpost refused", slog.String("transaction_id", transactionID), slog.String("user_id", userID))
	return err
}

// GetTransaction loads a transaction with its lines.
func (s *postingService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, transactionLookupError(transactionID, err)
	}
	return txn, nil
}

// ListTransactions returns one page of transaction headers, newest first.
func (s *postingService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if params.Limit == 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit < 0 || params.Limit > maxListLimit {
		return nil, domain.Reject(domain.CodeInvalidInput, "limit must be between 1 and %d", maxListLimit)
	}

	filter := portsrepo.TransactionFilter{Posted: params.Posted, Limit: params.Limit + 1}
	if params.Journal != "" {
		journal, err := s.journalRepo.FindJournalByName(ctx, params.Journal)
		if err != nil {
			return nil, journalLookupError(params.Journal, err)
		}
		filter.JournalID = journal.JournalID
	}
	if params.AccountCode != "" {
		account, err := s.accountRepo.FindAccountByCode(ctx, params.AccountCode)
		if err != nil {
			return nil, accountLookupError(params.AccountCode, err)
		}
		filter.AccountID = account.AccountID
	}
	if params.NextToken != "" {
		cursor, err := pagination.DecodeCursor(params.NextToken)
		if err != nil {
			return nil, domain.Reject(domain.CodeInvalidInput, "%v", err)
		}
		filter.After = &portsrepo.TransactionCursor{
			TxDate:        cursor.TxDate,
			CreatedAt:     cursor.CreatedAt,
			TransactionID: cursor.ID,
		}
	}

	txns, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{}
	if len(txns) > params.Limit {
		txns = txns[:params.Limit]
		last := txns[len(txns)-1]
		token := pagination.EncodeCursor(pagination.Cursor{TxDate: last.TxDate, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		resp.NextToken = &token
	}
	resp.Transactions = dto.ToTransactionResponses(txns)
	return resp, nil
}

// postInTx is the one place a posted latch is set. It reloads the
// transaction under lock, revalidates it, flips the latch and refreshes the
// balance cache rows the lines touch.
func (s *postingService) postInTx(ctx context.Context, repos portsrepo.TxRepositories, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := repos.Transactions.FindTransactionForUpdate(ctx, transactionID)
	if err != nil {
		return nil, transactionLookupError(transactionID, err)
	}
	if txn.Posted {
		return nil, domain.Reject(domain.CodeAlreadyPosted, "transaction %s is already posted", transactionID)
	}
	if err := domain.ValidateLines(txn.Lines); err != nil {
		return nil, err
	}

	postedAt := s.clock()
	if err := repos.Transactions.MarkPosted(ctx, transactionID, postedAt); err != nil {
		if errors.Is(err, domain.ErrAlreadyPosted) {
			return nil, domain.Reject(domain.CodeAlreadyPosted, "transaction %s is already posted", transactionID)
		}
		return nil, fmt.Errorf("failed to mark transaction posted: %w", err)
	}
	if err := repos.Balances.RecomputeBalances(ctx, domain.BalanceKeysFor(txn.TxDate, txn.Lines)); err != nil {
		return nil, fmt.Errorf("failed to refresh balances: %w", err)
	}

	txn.Posted = true
	txn.PostedAt = &postedAt
	txn.LastUpdatedAt = postedAt
	txn.LastUpdatedBy = userID
	return txn, nil
}

// buildTransaction resolves the journal and accounts named by req and runs
// the line validator and invariant checker over the candidate lines.
func (s *postingService) buildTransaction(ctx context.Context, repos portsrepo.TxRepositories, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	txDate, err := domain.ParseDate(req.TxDate)
	if err != nil {
		return nil, domain.Reject(domain.CodeInvalidInput, "tx date: %v", err)
	}

	journal, err := repos.Journals.FindJournalByName(ctx, req.Journal)
	if err != nil {
		return nil, journalLookupError(req.Journal, err)
	}

	codes := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		if !l.Remove {
			codes = append(codes, l.AccountCode)
		}
	}
	accounts, err := repos.Accounts.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	lines := make([]domain.EntryLine, 0, len(req.Lines))
	for i, l := range req.Lines {
		line := domain.EntryLine{
			LineNo:           i + 1,
			AccountCode:      l.AccountCode,
			Debit:            l.Debit,
			Credit:           l.Credit,
			Description:      l.Description,
			Currency:         l.Currency,
			MarkedForRemoval: l.Remove,
		}
		if !l.Remove {
			account, ok := accounts[l.AccountCode]
			if !ok {
				return nil, domain.Reject(domain.CodeAccountNotFound, "line %d: account %s not found", i+1, l.AccountCode)
			}
			if !account.IsActive {
				return nil, domain.Reject(domain.CodeAccountInactive, "line %d: account %s is inactive", i+1, l.AccountCode)
			}
			line.AccountID = account.AccountID
			if line.Currency == "" {
				line.Currency = s.defaultCurrency
			}
			if !domain.ValidCurrency(line.Currency) {
				return nil, domain.Reject(domain.CodeInvalidInput, "line %d: invalid currency %q", i+1, line.Currency)
			}
		}
		lines = append(lines, line)
	}

	if err := domain.ValidateLines(lines); err != nil {
		return nil, err
	}

	now := s.clock()
	txn := &domain.Transaction{
		TransactionID: uuid.NewString(),
		JournalID:     journal.JournalID,
		JournalName:   journal.Name,
		TxDate:        txDate,
		Memo:          req.Memo,
		Lines:         domain.SurvivingLines(lines),
		AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
	}
	assignLineIDs(txn)
	return txn, nil
}

func assignLineIDs(txn *domain.Transaction) {
	for i := range txn.Lines {
		txn.Lines[i].EntryLineID = uuid.NewString()
		txn.Lines[i].TransactionID = txn.TransactionID
	}
}

func transactionLookupError(transactionID string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return domain.Reject(domain.CodeTransactionNotFound, "transaction %s not found", transactionID)
	}
	return fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
}
