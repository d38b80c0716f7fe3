package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sahelexpress/colis_backend/internal/apperrors"
)

// respondError maps a service error to an HTTP response. Business errors
// carry their own status code and a caller-facing French message; anything
// else becomes a 500 with the fallback message.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code < 500 {
		logger.Warn("Business error", slog.Int("code", appErr.Code), slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	logger.Error("Unexpected service error", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
