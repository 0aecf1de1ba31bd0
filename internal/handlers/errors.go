package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Debits  string `json:"debits,omitempty"`
	Credits string `json:"credits,omitempty"`
}

// respondWithError maps a service error onto an HTTP status.
// Ledger rejections carry their code; anything unrecognised is logged and hidden behind a 500.
func respondWithError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var rej *domain.Rejection
	if errors.As(err, &rej) {
		body := ErrorResponse{Error: rej.Error(), Code: string(rej.Code)}
		status := http.StatusConflict
		switch {
		case rej.Code == domain.CodeUnbalancedTransaction:
			status = http.StatusUnprocessableEntity
			body.Debits = dto.Money(rej.Debits)
			body.Credits = dto.Money(rej.Credits)
		case rej.Kind() == domain.KindShape:
			status = http.StatusBadRequest
		case rej.Kind() == domain.KindNotFound:
			status = http.StatusNotFound
		}
		logger.Warn(op+" rejected", slog.String("code", string(rej.Code)), slog.String("error", err.Error()))
		c.JSON(status, body)
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(op+" validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(op+" not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn(op+" conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error(op+" failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// requireUserID reads the authenticated subject or writes a 401.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}
