package handlers

import (
	"log/slog"
	"net/http"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError writes err with the status its chain maps to. Server-side
// failures are logged and replaced with msg.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON binds the request body and writes a 400 on failure.
func bindJSON(c *gin.Context, logger *slog.Logger, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}
