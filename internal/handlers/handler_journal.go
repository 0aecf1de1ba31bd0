package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals and chart seeding.
type journalHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(chartService portssvc.ChartSvcFacade) *journalHandler {
	return &journalHandler{
		chartService: chartService,
	}
}

// createJournal godoc
// @Summary Create a journal
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   journal body dto.CreateJournalRequest true "Journal details"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 409 {object} ErrorResponse "Duplicate name"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /journals [post]
// @Security BearerAuth
func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	journal, err := h.chartService.CreateJournal(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, "CreateJournal", err)
		return
	}

	logger.Info("Journal created", slog.String("journal", journal.Name))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal by name
// @Tags journals
// @Produce  json
// @Param   name path string true "Journal name"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Router /journals/{name} [get]
// @Security BearerAuth
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	journal, err := h.chartService.GetJournalByName(c.Request.Context(), name)
	if err != nil {
		respondWithError(c, logger.With(slog.String("journal", name)), "GetJournal", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Tags journals
// @Produce  json
// @Success 200 {array} dto.JournalResponse
// @Router /journals [get]
// @Security BearerAuth
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	journals, err := h.chartService.ListJournals(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, "ListJournals", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponses(journals))
}

// deleteJournal godoc
// @Summary Delete a journal
// @Description Fails with ReferentialIntegrity while any transaction belongs to the journal.
// @Tags journals
// @Param   name path string true "Journal name"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Journal not found"
// @Failure 409 {object} ErrorResponse "Journal is referenced"
// @Router /journals/{name} [delete]
// @Security BearerAuth
func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	name := c.Param("name")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.chartService.DeleteJournal(c.Request.Context(), name, userID); err != nil {
		respondWithError(c, logger.With(slog.String("journal", name)), "DeleteJournal", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// seedChart godoc
// @Summary Seed the default chart of accounts
// @Description Creates the default accounts and the GENERAL journal. Safe to call repeatedly.
// @Tags journals
// @Produce  json
// @Success 200 {object} dto.SeedChartResult
// @Router /chart/seed [post]
// @Security BearerAuth
func (h *journalHandler) seedChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	res, err := h.chartService.SeedChart(c.Request.Context(), domain.DefaultChart(), userID)
	if err != nil {
		respondWithError(c, logger, "SeedChart", err)
		return
	}

	logger.Info("Chart seeded", slog.Int("accounts_created", len(res.AccountsCreated)))
	c.JSON(http.StatusOK, res)
}

// RegisterJournalRoutes registers journal routes on group.
func RegisterJournalRoutes(group *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newJournalHandler(chartService)

	journals := group.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:name", h.getJournal)
		journals.DELETE("/:name", h.deleteJournal)
	}
	group.POST("/chart/seed", h.seedChart)
}
