package handlers

import (
	"net/http"

	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

type healthHandler struct {
	sessionService portssvc.SessionSvcFacade
}

// getHealth godoc
// @Summary Show the status of server.
// @Description Reports that the server is up and whether a session is active.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *healthHandler) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"session_active": h.sessionService.IsActive(c.Request.Context()),
	})
}
