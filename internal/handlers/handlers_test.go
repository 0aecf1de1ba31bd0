package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) txn(args mock.Arguments) (*domain.Transaction, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockPostingService) CreateAndPost(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, req, userID))
}
func (m *MockPostingService) CreateDraft(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, req, userID))
}
func (m *MockPostingService) UpdateDraft(ctx context.Context, transactionID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID, req, userID))
}
func (m *MockPostingService) Post(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID, userID))
}
func (m *MockPostingService) Delete(ctx context.Context, transactionID string, userID string) error {
	return m.Called(ctx, transactionID, userID).Error(0)
}
func (m *MockPostingService) Reverse(ctx context.Context, transactionID string, req dto.ReverseTransactionRequest, userID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID, req, userID))
}
func (m *MockPostingService) Unpost(ctx context.Context, transactionID string, userID string) error {
	return m.Called(ctx, transactionID, userID).Error(0)
}
func (m *MockPostingService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return m.txn(m.Called(ctx, transactionID))
}
func (m *MockPostingService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) IncomeStatement(ctx context.Context, start, end time.Time) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}
func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}
func (m *MockReportingService) TrialBalance(ctx context.Context, query domain.TrialBalanceQuery) (*domain.TrialBalance, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

// --- Test Suite ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockPosting   *MockPostingService
	mockReporting *MockReportingService
	jwtSecret     string
	userID        string
}

func (suite *LedgerHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockPosting = new(MockPostingService)
	suite.mockReporting = new(MockReportingService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterTransactionRoutes(v1, suite.mockPosting)
	handlers.RegisterReportingRoutes(v1, suite.mockReporting)
}

func (suite *LedgerHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func cashSaleRequest(debit, credit string) map[string]any {
	return map[string]any{
		"journal": "GENERAL",
		"txDate":  "2024-03-01",
		"memo":    "cash sale",
		"lines": []map[string]any{
			{"accountCode": "1000", "debit": debit},
			{"accountCode": "4000", "credit": credit},
		},
	}
}

func postedSale(id string) *domain.Transaction {
	now := time.Now()
	return &domain.Transaction{
		TransactionID: id,
		JournalName:   "GENERAL",
		TxDate:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Posted:        true,
		PostedAt:      &now,
		Lines: []domain.EntryLine{
			{LineNo: 1, AccountCode: "1000", Debit: decimal.RequireFromString("125"), BaseAmount: decimal.RequireFromString("125"), Currency: "EUR"},
			{LineNo: 2, AccountCode: "4000", Credit: decimal.RequireFromString("125"), BaseAmount: decimal.RequireFromString("-125"), Currency: "EUR"},
		},
	}
}

// --- Test Cases ---

func (suite *LedgerHandlerTestSuite) TestCreateAndPost_Success() {
	txnID := uuid.NewString()
	suite.mockPosting.On("CreateAndPost",
		mock.Anything,
		mock.MatchedBy(func(r dto.CreateTransactionRequest) bool {
			return r.Journal == "GENERAL" && len(r.Lines) == 2 && r.Lines[0].Debit.Equal(decimal.RequireFromString("125.00"))
		}),
		suite.userID,
	).Return(postedSale(txnID), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", cashSaleRequest("125.00", "125.00"))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(txnID, resp.TransactionID)
	suite.True(resp.Posted)
	suite.Equal("2024-03-01", resp.TxDate)
	suite.Equal("125.00", resp.Lines[0].Debit)
	suite.Equal("0.00", resp.Lines[0].Credit)
	suite.mockPosting.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestCreateAndPost_Unbalanced() {
	rej := domain.RejectUnbalanced(decimal.RequireFromString("10.00"), decimal.RequireFromString("9.99"))
	suite.mockPosting.On("CreateAndPost", mock.Anything, mock.Anything, suite.userID).Return(nil, rej).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions", cashSaleRequest("10.00", "9.99"))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	var body handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(domain.CodeUnbalancedTransaction), body.Code)
	suite.Equal("10.00", body.Debits)
	suite.Equal("9.99", body.Credits)
}

func (suite *LedgerHandlerTestSuite) TestCreateAndPost_RejectionStatuses() {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"shape", domain.Reject(domain.CodeDebitCreditBothZero, "line 1"), http.StatusBadRequest},
		{"not found", domain.Reject(domain.CodeAccountNotFound, "9999"), http.StatusNotFound},
		{"invariant", domain.Reject(domain.CodeAccountInactive, "1000"), http.StatusConflict},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			suite.mockPosting.On("CreateAndPost", mock.Anything, mock.Anything, suite.userID).Return(nil, tc.err).Once()
			w := suite.do(http.MethodPost, "/api/v1/transactions", cashSaleRequest("1.00", "1.00"))
			suite.Equal(tc.status, w.Code)
		})
	}
}

func (suite *LedgerHandlerTestSuite) TestCreateAndPost_BadBody() {
	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]any{"journal": "GENERAL", "txDate": "03/01/2024"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPosting.AssertNotCalled(suite.T(), "CreateAndPost", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestReverse_PassesDate() {
	srcID := uuid.NewString()
	reversal := postedSale(uuid.NewString())
	reversal.ReversalOf = &srcID
	suite.mockPosting.On("Reverse", mock.Anything, srcID, dto.ReverseTransactionRequest{ReversalDate: "2024-03-31"}, suite.userID).
		Return(reversal, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/"+srcID+"/reverse", map[string]string{"reversalDate": "2024-03-31"})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.ReversalOf)
	suite.Equal(srcID, *resp.ReversalOf)
}

func (suite *LedgerHandlerTestSuite) TestUnpost_AlwaysConflict() {
	id := uuid.NewString()
	suite.mockPosting.On("Unpost", mock.Anything, id, suite.userID).
		Return(domain.Reject(domain.CodeUnpostNotSupported, "use reverse")).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/"+id+"/unpost", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), string(domain.CodeUnpostNotSupported))
}

func (suite *LedgerHandlerTestSuite) TestDelete_Posted() {
	id := uuid.NewString()
	suite.mockPosting.On("Delete", mock.Anything, id, suite.userID).
		Return(domain.Reject(domain.CodePostedTransactionImmutable, "%s", id)).Once()

	w := suite.do(http.MethodDelete, "/api/v1/transactions/"+id, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_Params() {
	next := "tok"
	suite.mockPosting.On("ListTransactions", mock.Anything, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.Limit == 5 && p.AccountCode == "1000" && p.Posted != nil && *p.Posted
	})).Return(&dto.ListTransactionsResponse{Transactions: []dto.TransactionResponse{}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions?limit=5&accountCode=1000&posted=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
}

func (suite *LedgerHandlerTestSuite) TestListTransactions_LimitOutOfRange() {
	w := suite.do(http.MethodGet, "/api/v1/transactions?limit=1000", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestIncomeStatement() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	stmt := &domain.IncomeStatement{
		Start:  start,
		End:    end,
		Income: []domain.ReportLine{{Code: "4000", Name: "Sales", Amount: decimal.RequireFromString("125")}},
	}
	stmt.Totals.Income = decimal.RequireFromString("125")
	stmt.Totals.NetIncome = decimal.RequireFromString("125")
	suite.mockReporting.On("IncomeStatement", mock.Anything, start, end).Return(stmt, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/income-statement?start=2024-03-01&end=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IncomeStatementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("125.00", resp.Totals.NetIncome)
	suite.Equal("0.00", resp.Totals.Expense)
	suite.Equal("2024-03-01", resp.Period.Start)
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=yesterday", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReporting.AssertNotCalled(suite.T(), "TrialBalance", mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance_BothWindowsRejected() {
	suite.mockReporting.On("TrialBalance", mock.Anything, mock.MatchedBy(func(q domain.TrialBalanceQuery) bool {
		return q.AsOf != nil && q.Start != nil && q.End != nil
	})).Return(nil, domain.Reject(domain.CodeInvalidReportWindow, "supply either as_of or start/end, not both")).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2024-03-31&start=2024-03-01&end=2024-03-31", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestTrialBalance_NoWindowRejected() {
	suite.mockReporting.On("TrialBalance", mock.Anything, mock.MatchedBy(func(q domain.TrialBalanceQuery) bool {
		return q.AsOf == nil && q.Start == nil && q.End == nil
	})).Return(nil, domain.Reject(domain.CodeInvalidReportWindow, "supply either as_of or start/end")).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	var body handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(string(domain.CodeInvalidReportWindow), body.Code)
	suite.mockReporting.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLedgerHandlers(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
