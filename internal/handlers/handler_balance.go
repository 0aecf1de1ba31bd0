package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler exposes the per-month balance cache.
type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

func newBalanceHandler(balanceService portssvc.BalanceSvc) *balanceHandler {
	return &balanceHandler{balanceService: balanceService}
}

// listBalances godoc
// @Summary List cached balances
// @Description Cached debit and credit totals per account and month
// @Tags balances
// @Produce json
// @Param period query string false "Month (YYYY-MM); all months when omitted"
// @Success 200 {array} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse "Invalid period"
// @Security BearerAuth
// @Router /balances [get]
func (h *balanceHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var period time.Time
	if raw := c.Query("period"); raw != "" {
		p, err := time.Parse("2006-01", raw)
		if err != nil {
			logger.Warn("Invalid period", slog.String("period", raw))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid period format. Use YYYY-MM"})
			return
		}
		period = p
	}

	rows, err := h.balanceService.ListBalances(c.Request.Context(), period)
	if err != nil {
		respondWithError(c, logger, "ListBalances", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceResponses(rows))
}

// rebuildBalances godoc
// @Summary Rebuild the balance cache
// @Description Truncates the cache and recomputes every row from posted entry lines
// @Tags balances
// @Produce json
// @Success 200 {object} map[string]int "Number of rows written"
// @Security BearerAuth
// @Router /balances/rebuild [post]
func (h *balanceHandler) rebuildBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	n, err := h.balanceService.RebuildBalances(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, "RebuildBalances", err)
		return
	}

	logger.Info("Balance cache rebuilt", slog.Int("rows", n))
	c.JSON(http.StatusOK, gin.H{"rows": n})
}

// verifyBalances godoc
// @Summary Verify the balance cache
// @Description Recomputes totals from entry lines and reports cached rows that disagree
// @Tags balances
// @Produce json
// @Success 200 {object} dto.VerifyBalancesResponse
// @Security BearerAuth
// @Router /balances/verify [get]
func (h *balanceHandler) verifyBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	mismatches, err := h.balanceService.VerifyBalances(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, "VerifyBalances", err)
		return
	}

	if len(mismatches) > 0 {
		logger.Warn("Balance cache is stale", slog.Int("mismatches", len(mismatches)))
	}
	c.JSON(http.StatusOK, dto.ToVerifyBalancesResponse(mismatches))
}

// RegisterBalanceRoutes registers balance cache routes on group.
func RegisterBalanceRoutes(group *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := newBalanceHandler(balanceService)

	balances := group.Group("/balances")
	{
		balances.GET("", h.listBalances)
		balances.POST("/rebuild", h.rebuildBalances)
		balances.GET("/verify", h.verifyBalances)
	}
}
