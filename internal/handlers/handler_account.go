package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(chartService portssvc.ChartSvcFacade) *accountHandler {
	return &accountHandler{
		chartService: chartService,
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds an account to the chart of accounts. normalDebit defaults from accountType.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Duplicate code"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts [post]
// @Security BearerAuth
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	acc, err := h.chartService.CreateAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, "CreateAccount", err)
		return
	}

	logger.Info("Account created", slog.String("account_code", acc.Code))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(acc))
}

// getAccount godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts/{code} [get]
// @Security BearerAuth
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	acc, err := h.chartService.GetAccountByCode(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), "GetAccount", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts sorted by code.
// @Tags accounts
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated accounts"
// @Success 200 {array} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts [get]
// @Security BearerAuth
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), params.IncludeInactive)
	if err != nil {
		respondWithError(c, logger, "ListAccounts", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Renames, recodes or (de)activates an account. Recoding a referenced account is rejected.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   code path string true "Account code"
// @Param   account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Referential integrity"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts/{code} [patch]
// @Security BearerAuth
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	acc, err := h.chartService.UpdateAccount(c.Request.Context(), code, req, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), "UpdateAccount", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(acc))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description New lines can no longer reference the account. Existing lines are untouched.
// @Tags accounts
// @Param   code path string true "Account code"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts/{code}/deactivate [post]
// @Security BearerAuth
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.chartService.DeactivateAccount(c.Request.Context(), code, userID); err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), "DeactivateAccount", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Fails with ReferentialIntegrity while any entry line references the account.
// @Tags accounts
// @Param   code path string true "Account code"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 409 {object} ErrorResponse "Account is referenced"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts/{code} [delete]
// @Security BearerAuth
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.chartService.DeleteAccount(c.Request.Context(), code, userID); err != nil {
		respondWithError(c, logger.With(slog.String("account_code", code)), "DeleteAccount", err)
		return
	}

	logger.Info("Account deleted", slog.String("account_code", code))
	c.Status(http.StatusNoContent)
}

// RegisterAccountRoutes registers chart-of-accounts routes on group.
func RegisterAccountRoutes(group *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newAccountHandler(chartService)

	accounts := group.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:code", h.getAccount)
		accounts.PATCH("/:code", h.updateAccount)
		accounts.DELETE("/:code", h.deleteAccount)
		accounts.POST("/:code/deactivate", h.deactivateAccount)
	}
}
