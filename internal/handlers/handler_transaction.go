package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests that create, post, reverse and read transactions.
type transactionHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(postingService portssvc.PostingSvcFacade) *transactionHandler {
	return &transactionHandler{
		postingService: postingService,
	}
}

func (h *transactionHandler) bindTransaction(c *gin.Context, logger *slog.Logger, op string) (dto.CreateTransactionRequest, bool) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return req, false
	}
	return req, true
}

// createAndPost godoc
// @Summary Create and post a transaction
// @Description Validates the lines, checks that debits equal credits and posts atomically. A rejection leaves no trace.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction with lines"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Malformed lines"
// @Failure 404 {object} ErrorResponse "Unknown account or journal"
// @Failure 409 {object} ErrorResponse "Inactive account"
// @Failure 422 {object} ErrorResponse "Debits do not equal credits"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /transactions [post]
// @Security BearerAuth
func (h *transactionHandler) createAndPost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req, ok := h.bindTransaction(c, logger, "CreateAndPost")
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.postingService.CreateAndPost(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, "CreateAndPost", err)
		return
	}

	logger.Info("Transaction posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// createDraft godoc
// @Summary Save a draft transaction
// @Description Stores an unposted transaction after validating it.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction with lines"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Malformed lines"
// @Failure 422 {object} ErrorResponse "Debits do not equal credits"
// @Router /transactions/drafts [post]
// @Security BearerAuth
func (h *transactionHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req, ok := h.bindTransaction(c, logger, "CreateDraft")
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.postingService.CreateDraft(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, "CreateDraft", err)
		return
	}

	logger.Info("Draft saved", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// updateDraft godoc
// @Summary Edit a draft transaction
// @Description Replaces the header and lines of a draft. Lines with remove=true are dropped.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   transaction body dto.CreateTransactionRequest true "Replacement transaction"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Posted transactions are immutable"
// @Router /transactions/{transactionID} [put]
// @Security BearerAuth
func (h *transactionHandler) updateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	req, ok := h.bindTransaction(c, logger, "UpdateDraft")
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.postingService.UpdateDraft(c.Request.Context(), transactionID, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("transaction_id", transactionID)), "UpdateDraft", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// postTransaction godoc
// @Summary Post a draft
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Already posted"
// @Failure 422 {object} ErrorResponse "Debits do not equal credits"
// @Router /transactions/{transactionID}/post [post]
// @Security BearerAuth
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.postingService.Post(c.Request.Context(), transactionID, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("transaction_id", transactionID)), "Post", err)
		return
	}

	logger.Info("Draft posted", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// reverseTransaction godoc
// @Summary Reverse a posted transaction
// @Description Posts a new transaction with debit and credit swapped on every line.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   reversal body dto.ReverseTransactionRequest true "Reversal date"
// @Success 201 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Source is not posted"
// @Router /transactions/{transactionID}/reverse [post]
// @Security BearerAuth
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.ReverseTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reverse", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.postingService.Reverse(c.Request.Context(), transactionID, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("transaction_id", transactionID)), "Reverse", err)
		return
	}

	logger.Info("Transaction reversed", slog.String("transaction_id", transactionID), slog.String("reversal_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// unpostTransaction godoc
// @Summary Unpost a transaction
// @Description Always rejected with UnpostNotSupported. Use reverse instead.
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Failure 409 {object} ErrorResponse "Unpost is not supported"
// @Router /transactions/{transactionID}/unpost [post]
// @Security BearerAuth
func (h *transactionHandler) unpostTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.postingService.Unpost(c.Request.Context(), transactionID, userID); err != nil {
		respondWithError(c, logger.With(slog.String("transaction_id", transactionID)), "Unpost", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// deleteTransaction godoc
// @Summary Delete a draft
// @Tags transactions
// @Param   transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Posted transactions are immutable"
// @Router /transactions/{transactionID} [delete]
// @Security BearerAuth
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.postingService.Delete(c.Request.Context(), transactionID, userID); err != nil {
		respondWithError(c, logger.With(slog.String("transaction_id", transactionID)), "Delete", err)
		return
	}

	logger.Info("Draft deleted", slog.String("transaction_id", transactionID))
	c.Status(http.StatusNoContent)
}

// getTransaction godoc
// @Summary Get a transaction with its lines
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Router /transactions/{transactionID} [get]
// @Security BearerAuth
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.postingService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("transaction_id", transactionID)), "GetTransaction", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce  json
// @Param   journal query string false "Journal name"
// @Param   accountCode query string false "Only transactions touching this account"
// @Param   posted query bool false "Filter on posted state"
// @Param   limit query int false "Page size" default(20) minimum(1) maximum(100)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Router /transactions [get]
// @Security BearerAuth
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.postingService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, logger, "ListTransactions", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RegisterTransactionRoutes registers transaction routes on group.
func RegisterTransactionRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newTransactionHandler(postingService)

	txns := group.Group("/transactions")
	{
		txns.POST("", h.createAndPost)
		txns.GET("", h.listTransactions)
		txns.POST("/drafts", h.createDraft)
		txns.GET("/:transactionID", h.getTransaction)
		txns.PUT("/:transactionID", h.updateDraft)
		txns.DELETE("/:transactionID", h.deleteTransaction)
		txns.POST("/:transactionID/post", h.postTransaction)
		txns.POST("/:transactionID/reverse", h.reverseTransaction)
		txns.POST("/:transactionID/unpost", h.unpostTransaction)
	}
}
