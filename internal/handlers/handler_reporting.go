package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	now              func() time.Time
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		now:              time.Now,
	}
}

// RegisterReportingRoutes registers routes related to financial reports
func RegisterReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/income-statement", h.getIncomeStatement)
		reportingGroup.GET("/balance-sheet", h.getBalanceSheet)
		reportingGroup.GET("/trial-balance", h.getTrialBalance)
	}
}

// dateQuery reads an optional YYYY-MM-DD query parameter. ok is false after a 400 was written.
func dateQuery(c *gin.Context, logger *slog.Logger, key string) (t *time.Time, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	parsed, err := domain.ParseDate(raw)
	if err != nil {
		logger.Warn("Invalid date query parameter", slog.String(key, raw), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + key + " date format. Use YYYY-MM-DD", Code: string(domain.CodeInvalidReportWindow)})
		return nil, false
	}
	return &parsed, true
}

// getIncomeStatement godoc
// @Summary Generate income statement
// @Description Income and expense accounts over an inclusive period, posted transactions only
// @Tags reports
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param end query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} ErrorResponse "Invalid report window"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start, ok := dateQuery(c, logger, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, logger, "end")
	if !ok {
		return
	}
	today := domain.NormalizeDate(h.now())
	if end == nil {
		end = &today
	}
	if start == nil {
		first := domain.PeriodOf(*end)
		start = &first
	}

	stmt, err := h.reportingService.IncomeStatement(c.Request.Context(), *start, *end)
	if err != nil {
		respondWithError(c, logger, "IncomeStatement", err)
		return
	}

	logger.Info("Income statement generated", slog.String("net_income", dto.Money(stmt.Totals.NetIncome)))
	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(stmt))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet
// @Description Cumulative asset, liability and equity balances up to and including asOf
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} ErrorResponse "Invalid date"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := dateQuery(c, logger, "asOf")
	if !ok {
		return
	}
	if asOf == nil {
		today := domain.NormalizeDate(h.now())
		asOf = &today
	}

	sheet, err := h.reportingService.BalanceSheet(c.Request.Context(), *asOf)
	if err != nil {
		respondWithError(c, logger, "BalanceSheet", err)
		return
	}

	if !sheet.Totals.Balanced {
		logger.Error("Balance sheet does not balance",
			slog.String("assets", dto.Money(sheet.Totals.Assets)),
			slog.String("liabilities_plus_equity", dto.Money(sheet.Totals.LiabilitiesPlusEquity)))
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(sheet))
}

// getTrialBalance godoc
// @Summary Generate trial balance
// @Description Per-account debit and credit totals. Exactly one of asOf or a start/end period is required
// @Tags reports
// @Produce json
// @Param asOf query string false "Snapshot date (YYYY-MM-DD)"
// @Param start query string false "Period start (YYYY-MM-DD)"
// @Param end query string false "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse "Missing, mixed or invalid report window"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query domain.TrialBalanceQuery
	var ok bool
	if query.AsOf, ok = dateQuery(c, logger, "asOf"); !ok {
		return
	}
	if query.Start, ok = dateQuery(c, logger, "start"); !ok {
		return
	}
	if query.End, ok = dateQuery(c, logger, "end"); !ok {
		return
	}

	tb, err := h.reportingService.TrialBalance(c.Request.Context(), query)
	if err != nil {
		respondWithError(c, logger, "TrialBalance", err)
		return
	}

	logger.Info("Trial balance generated", slog.Int("row_count", len(tb.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(tb))
}
