package boltdb_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/boltdb"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/samples"
)

const userID = "tester"

type StoreScenarioSuite struct {
	suite.Suite
	ctx       context.Context
	store     *boltdb.Store
	repos     portsrepo.RepositoryProvider
	chart     portssvc.ChartSvcFacade
	posting   portssvc.PostingSvcFacade
	reporting portssvc.ReportingService
	balances  portssvc.BalanceSvc
}

func TestStoreScenarioSuite(t *testing.T) {
	suite.Run(t, new(StoreScenarioSuite))
}

func (s *StoreScenarioSuite) SetupTest() {
	s.ctx = context.Background()
	store, err := boltdb.Open(filepath.Join(s.T().TempDir(), "ledger.db"))
	s.Require().NoError(err)
	s.store = store
	s.repos = boltdb.NewRepositoryProvider(store)
	s.chart = services.NewChartService(s.repos)
	s.posting = services.NewPostingService(s.repos)
	s.reporting = services.NewReportingService(s.repos.TxManager)
	s.balances = services.NewBalanceService(s.repos.TxManager)

	_, err = s.chart.SeedChart(s.ctx, domain.DefaultChart(), userID)
	s.Require().NoError(err)
}

func (s *StoreScenarioSuite) TearDownTest() {
	s.NoError(s.store.Close())
}

func date(v string) time.Time {
	d, err := domain.ParseDate(v)
	if err != nil {
		panic(err)
	}
	return d
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *StoreScenarioSuite) transactionCount() int {
	page, err := s.posting.ListTransactions(s.ctx, dto.ListTransactionsParams{Limit: 100})
	s.Require().NoError(err)
	return len(page.Transactions)
}

func (s *StoreScenarioSuite) TestSeedChartIsIdempotent() {
	result, err := s.chart.SeedChart(s.ctx, domain.DefaultChart(), userID)

	s.Require().NoError(err)
	s.Empty(result.AccountsCreated)
	s.Len(result.AccountsExisted, len(domain.DefaultChart().Accounts))
	s.Equal([]string{domain.GeneralJournal}, result.JournalsExisted)
}

func (s *StoreScenarioSuite) TestCashSaleIncomeStatement() {
	_, err := s.posting.CreateAndPost(s.ctx, samples.Sale("2025-03-10", "125.00"), userID)
	s.Require().NoError(err)

	stmt, err := s.reporting.IncomeStatement(s.ctx, date("2025-03-01"), date("2025-03-31"))

	s.Require().NoError(err)
	s.True(stmt.Totals.Income.Equal(dec("125.00")))
	s.True(stmt.Totals.Expense.IsZero())
	s.True(stmt.Totals.NetIncome.Equal(dec("125.00")))
	s.Require().Len(stmt.Income, 1)
	s.Equal(samples.SalesCode, stmt.Income[0].Code)
}

func (s *StoreScenarioSuite) TestUnbalancedLeavesNoTrace() {
	req := dto.CreateTransactionRequest{
		Journal: domain.GeneralJournal,
		TxDate:  "2025-03-10",
		Lines: []dto.EntryLineRequest{
			samples.Debit(samples.CashCode, "10.00", ""),
			samples.Credit(samples.SalesCode, "9.99", ""),
		},
	}

	_, err := s.posting.CreateAndPost(s.ctx, req, userID)

	var rej *domain.Rejection
	s.Require().True(errors.As(err, &rej))
	s.Equal(domain.CodeUnbalancedTransaction, rej.Code)
	s.True(rej.Debits.Equal(dec("10.00")))
	s.True(rej.Credits.Equal(dec("9.99")))
	s.Zero(s.transactionCount())

	rows, err := s.balances.ListBalances(s.ctx, time.Time{})
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *StoreScenarioSuite) TestPostThenReverseNetsToZero() {
	original, err := s.posting.CreateAndPost(s.ctx, samples.Sale("2025-03-10", "250.00"), userID)
	s.Require().NoError(err)

	reversal, err := s.posting.Reverse(s.ctx, original.TransactionID, dto.ReverseTransactionRequest{ReversalDate: "2025-03-11"}, userID)
	s.Require().NoError(err)
	s.True(reversal.Posted)
	s.Require().NotNil(reversal.ReversalOf)
	s.Equal(original.TransactionID, *reversal.ReversalOf)

	source, err := s.posting.GetTransaction(s.ctx, original.TransactionID)
	s.Require().NoError(err)
	s.Equal(original.Lines[0].Debit.String(), source.Lines[0].Debit.String())

	sheet, err := s.reporting.BalanceSheet(s.ctx, date("2025-03-31"))
	s.Require().NoError(err)
	s.True(sheet.Totals.Balanced)
	for _, line := range append(append(sheet.Assets, sheet.Liabilities...), sheet.Equity...) {
		s.True(line.Amount.IsZero(), "account %s should net to zero, got %s", line.Code, line.Amount)
	}
}

func (s *StoreScenarioSuite) TestConcurrentPostOfSameDraft() {
	draft, err := s.posting.CreateDraft(s.ctx, samples.Sale("2025-03-10", "40.00"), userID)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.posting.Post(s.ctx, draft.TransactionID, userID)
		}(i)
	}
	wg.Wait()

	var succeeded, alreadyPosted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrAlreadyPosted):
			alreadyPosted++
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, alreadyPosted)
}

func (s *StoreScenarioSuite) TestPostedTransactionIsImmutable() {
	posted, err := s.posting.CreateAndPost(s.ctx, samples.PostSample("2025-03-10"), userID)
	s.Require().NoError(err)

	s.ErrorIs(s.posting.Delete(s.ctx, posted.TransactionID, userID), domain.ErrPostedTransactionImmutable)
	_, err = s.posting.UpdateDraft(s.ctx, posted.TransactionID, samples.Sale("2025-03-10", "1.00"), userID)
	s.ErrorIs(err, domain.ErrPostedTransactionImmutable)
	s.ErrorIs(s.posting.Unpost(s.ctx, posted.TransactionID, userID), domain.ErrUnpostNotSupported)
	_, err = s.posting.Post(s.ctx, posted.TransactionID, userID)
	s.ErrorIs(err, domain.ErrAlreadyPosted)
}

func (s *StoreScenarioSuite) TestDraftLifecycle() {
	draft, err := s.posting.CreateDraft(s.ctx, samples.Sale("2025-03-10", "40.00"), userID)
	s.Require().NoError(err)
	s.False(draft.Posted)

	edit := samples.Sale("2025-03-12", "60.00")
	edit.Lines = append(edit.Lines, dto.EntryLineRequest{AccountCode: samples.BankCode, Debit: dec("1.00"), Remove: true})
	updated, err := s.posting.UpdateDraft(s.ctx, draft.TransactionID, edit, userID)
	s.Require().NoError(err)
	s.Len(updated.Lines, 2)

	stored, err := s.posting.GetTransaction(s.ctx, draft.TransactionID)
	s.Require().NoError(err)
	s.Len(stored.Lines, 2)
	s.True(stored.Lines[0].Debit.Equal(dec("60.00")))
	s.Equal(date("2025-03-12"), stored.TxDate)

	s.Require().NoError(s.posting.Delete(s.ctx, draft.TransactionID, userID))
	_, err = s.posting.GetTransaction(s.ctx, draft.TransactionID)
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}

func (s *StoreScenarioSuite) TestDraftsAreInvisibleToReports() {
	_, err := s.posting.CreateAndPost(s.ctx, samples.Sale("2025-03-10", "125.00"), userID)
	s.Require().NoError(err)
	_, err = s.posting.CreateDraft(s.ctx, samples.Sale("2025-03-12", "77.00"), userID)
	s.Require().NoError(err)

	stmt, err := s.reporting.IncomeStatement(s.ctx, date("2025-03-01"), date("2025-03-31"))
	s.Require().NoError(err)
	s.True(stmt.Totals.Income.Equal(dec("125.00")), stmt.Totals.Income.String())

	sheet, err := s.reporting.BalanceSheet(s.ctx, date("2025-03-31"))
	s.Require().NoError(err)
	s.True(sheet.Totals.Assets.Equal(dec("125.00")), sheet.Totals.Assets.String())
	s.True(sheet.Totals.Balanced)

	asOf := date("2025-03-31")
	tb, err := s.reporting.TrialBalance(s.ctx, domain.TrialBalanceQuery{AsOf: &asOf})
	s.Require().NoError(err)
	s.True(tb.Totals.Debit.Equal(dec("125.00")), tb.Totals.Debit.String())
	s.True(tb.Totals.Credit.Equal(dec("125.00")), tb.Totals.Credit.String())

	start, end := date("2025-03-11"), date("2025-03-31")
	period, err := s.reporting.TrialBalance(s.ctx, domain.TrialBalanceQuery{Start: &start, End: &end})
	s.Require().NoError(err)
	s.True(period.Totals.Debit.IsZero(), period.Totals.Debit.String())

	rows, err := s.balances.ListBalances(s.ctx, date("2025-03-01"))
	s.Require().NoError(err)
	for _, row := range rows {
		s.True(row.Net().Abs().Equal(dec("125.00")), "%s: %s", row.AccountCode, row.Net())
	}
}

func (s *StoreScenarioSuite) TestReferencedAccountAndJournalCannotBeDeleted() {
	_, err := s.posting.CreateAndPost(s.ctx, samples.PostSample("2025-03-10"), userID)
	s.Require().NoError(err)

	s.ErrorIs(s.chart.DeleteAccount(s.ctx, samples.CashCode, userID), domain.ErrReferentialIntegrity)
	s.ErrorIs(s.chart.DeleteJournal(s.ctx, domain.GeneralJournal, userID), domain.ErrReferentialIntegrity)
	s.NoError(s.chart.DeleteAccount(s.ctx, samples.PayrollCode, userID))

	s.Require().NoError(s.chart.DeactivateAccount(s.ctx, samples.CashCode, userID))
	_, err = s.posting.CreateAndPost(s.ctx, samples.PostSample("2025-03-11"), userID)
	s.ErrorIs(err, domain.ErrAccountInactive)
}

func (s *StoreScenarioSuite) TestListTransactionsPaginates() {
	for _, d := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		_, err := s.posting.CreateAndPost(s.ctx, samples.PostSample(d), userID)
		s.Require().NoError(err)
	}

	first, err := s.posting.ListTransactions(s.ctx, dto.ListTransactionsParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(first.Transactions, 2)
	s.Equal("2025-03-03", first.Transactions[0].TxDate)
	s.Require().NotNil(first.NextToken)

	second, err := s.posting.ListTransactions(s.ctx, dto.ListTransactionsParams{Limit: 2, NextToken: *first.NextToken})
	s.Require().NoError(err)
	s.Require().Len(second.Transactions, 1)
	s.Equal("2025-03-01", second.Transactions[0].TxDate)
	s.Nil(second.NextToken)
}

func (s *StoreScenarioSuite) TestBalanceCacheFollowsPostingAndRebuilds() {
	_, err := s.posting.CreateAndPost(s.ctx, samples.Sale("2025-03-10", "125.00"), userID)
	s.Require().NoError(err)
	_, err = s.posting.CreateAndPost(s.ctx, samples.Sale("2025-04-02", "10.00"), userID)
	s.Require().NoError(err)

	march, err := s.balances.ListBalances(s.ctx, date("2025-03-17"))
	s.Require().NoError(err)
	s.Require().Len(march, 2)
	s.Equal(samples.CashCode, march[0].AccountCode)
	s.True(march[0].DebitTotal.Equal(dec("125.00")))

	mismatches, err := s.balances.VerifyBalances(s.ctx)
	s.Require().NoError(err)
	s.Empty(mismatches)

	n, err := s.balances.RebuildBalances(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, n)
}

func (s *StoreScenarioSuite) TestKleppmannExample() {
	for _, req := range samples.Kleppmann(domain.GeneralJournal, "2025-06-30") {
		_, err := s.posting.CreateAndPost(s.ctx, req, userID)
		s.Require().NoError(err, req.Memo)
	}

	stmt, err := s.reporting.IncomeStatement(s.ctx, date("2025-01-01"), date("2025-12-31"))
	s.Require().NoError(err)
	s.True(stmt.Totals.Income.Equal(dec("10000.00")))
	s.True(stmt.Totals.Expense.Equal(dec("8130.00")))
	s.True(stmt.Totals.NetIncome.Equal(dec("1870.00")))

	sheet, err := s.reporting.BalanceSheet(s.ctx, date("2025-12-31"))
	s.Require().NoError(err)
	s.True(sheet.Totals.Assets.Equal(dec("26870.00")), sheet.Totals.Assets.String())
	s.True(sheet.Totals.LiabilitiesPlusEquity.Equal(dec("26870.00")))
	s.True(sheet.Totals.Balanced)

	end := date("2025-12-31")
	tb, err := s.reporting.TrialBalance(s.ctx, domain.TrialBalanceQuery{AsOf: &end})
	s.Require().NoError(err)
	s.True(tb.Totals.Balanced)
	s.True(tb.Totals.Debit.Equal(dec("46135.00")), tb.Totals.Debit.String())
}
