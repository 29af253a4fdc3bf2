package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// matterHandler handles HTTP requests for the matter list and kanban board
type matterHandler struct {
	workflowService portssvc.WorkflowSvcFacade
	metrics         *metrics.Metrics
}

func newMatterHandler(ws portssvc.WorkflowSvcFacade, m *metrics.Metrics) *matterHandler {
	return &matterHandler{workflowService: ws, metrics: m}
}

// RegisterMatterRoutes registers the matter and board routes. m may be nil.
func RegisterMatterRoutes(rg *gin.RouterGroup, ws portssvc.WorkflowSvcFacade, m *metrics.Metrics) {
	h := newMatterHandler(ws, m)

	rg.GET("/board", h.getBoard)

	matters := rg.Group("/matters")
	{
		matters.GET("", h.listMatters)
		matters.POST("", h.createMatter)
		matters.POST("/bulk/stage", h.bulkStage)
		matters.POST("/bulk/lawyer", h.bulkLawyer)
		matters.GET("/:matterID", h.getMatter)
		matters.PATCH("/:matterID", h.updateMatter)
		matters.POST("/:matterID/move", h.moveMatter)
	}
}

// listMatters godoc
// @Summary List matters
// @Description Lists matters with search, billing-type filter, sorting and token pagination
// @Tags matters
// @Produce json
// @Param search query string false "Case-insensitive match on title, client name or matter id"
// @Param billing_type query string false "Fixed, Hourly or Trust"
// @Param sort_by query string false "title or deadline"
// @Param sort_order query string false "asc or desc" default(asc)
// @Param limit query int false "Page size" default(50)
// @Param next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListMattersResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list matters"
// @Security BearerAuth
// @Router /api/v1/matters [get]
func (h *matterHandler) listMatters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListMattersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid matter list query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.workflowService.ListMatters(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list matters")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getBoard godoc
// @Summary Kanban board
// @Description Groups the filtered matters into the four stage columns
// @Tags matters
// @Produce json
// @Param search query string false "Case-insensitive match on title, client name or matter id"
// @Param billing_type query string false "Fixed, Hourly or Trust"
// @Success 200 {object} dto.BoardResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to build board"
// @Security BearerAuth
// @Router /api/v1/board [get]
func (h *matterHandler) getBoard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListMattersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	board, err := h.workflowService.Board(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to build board")
		return
	}
	c.JSON(http.StatusOK, board)
}

// createMatter godoc
// @Summary Create a matter
// @Description Adds a matter from the manual form. It starts in To Do.
// @Tags matters
// @Accept json
// @Produce json
// @Param matter body dto.CreateMatterRequest true "Matter details"
// @Success 201 {object} domain.Matter
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create matter"
// @Security BearerAuth
// @Router /api/v1/matters [post]
func (h *matterHandler) createMatter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateMatterRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	matter, err := h.workflowService.CreateMatter(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to create matter")
		return
	}
	c.JSON(http.StatusCreated, matter)
}

// getMatter godoc
// @Summary Get a matter
// @Tags matters
// @Produce json
// @Param matterID path string true "Matter ID"
// @Success 200 {object} domain.Matter
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Security BearerAuth
// @Router /api/v1/matters/{matterID} [get]
func (h *matterHandler) getMatter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	matter, err := h.workflowService.GetMatter(c.Request.Context(), c.Param("matterID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get matter")
		return
	}
	c.JSON(http.StatusOK, matter)
}

// updateMatter godoc
// @Summary Edit a matter
// @Description Applies the detail-edit form. Omitted fields are left unchanged; a new fee re-derives GST and total.
// @Tags matters
// @Accept json
// @Produce json
// @Param matterID path string true "Matter ID"
// @Param matter body dto.UpdateMatterRequest true "Fields to change"
// @Success 200 {object} domain.Matter
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Failure 500 {object} map[string]string "Failed to update matter"
// @Security BearerAuth
// @Router /api/v1/matters/{matterID} [patch]
func (h *matterHandler) updateMatter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateMatterRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	matter, err := h.workflowService.UpdateMatter(c.Request.Context(), c.Param("matterID"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update matter")
		return
	}
	c.JSON(http.StatusOK, matter)
}

// moveMatter godoc
// @Summary Move a matter to another stage
// @Description Moving into Done returns a hand-off offer to the billing view
// @Tags matters
// @Accept json
// @Produce json
// @Param matterID path string true "Matter ID"
// @Param move body dto.MoveMatterRequest true "Target stage"
// @Success 200 {object} dto.MoveOutcome
// @Failure 400 {object} map[string]string "Invalid stage"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Failure 500 {object} map[string]string "Failed to move matter"
// @Security BearerAuth
// @Router /api/v1/matters/{matterID}/move [post]
func (h *matterHandler) moveMatter(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.MoveMatterRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	outcome, err := h.workflowService.MoveMatter(c.Request.Context(), c.Param("matterID"), req.Stage)
	if err != nil {
		respondError(c, logger, err, "Failed to move matter")
		return
	}
	if outcome.Changed {
		h.metrics.MatterMoved(string(req.Stage))
	}
	c.JSON(http.StatusOK, outcome)
}

// bulkStage godoc
// @Summary Move several matters
// @Description Applies one stage to every listed matter. Unknown ids are reported and skipped; no hand-off offers are raised.
// @Tags matters
// @Accept json
// @Produce json
// @Param bulk body dto.BulkStageRequest true "Matter ids and target stage"
// @Success 200 {object} dto.BulkResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to apply bulk stage"
// @Security BearerAuth
// @Router /api/v1/matters/bulk/stage [post]
func (h *matterHandler) bulkStage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BulkStageRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	results, err := h.workflowService.ApplyBulkStage(c.Request.Context(), req.IDs, req.Stage)
	if err != nil {
		respondError(c, logger, err, "Failed to apply bulk stage")
		return
	}
	for _, r := range results {
		if r.Updated {
			h.metrics.MatterMoved(string(req.Stage))
		}
	}
	c.JSON(http.StatusOK, dto.BulkResponse{Results: results})
}

// bulkLawyer godoc
// @Summary Reassign several matters
// @Tags matters
// @Accept json
// @Produce json
// @Param bulk body dto.BulkLawyerRequest true "Matter ids and lawyer"
// @Success 200 {object} dto.BulkResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to apply bulk assignment"
// @Security BearerAuth
// @Router /api/v1/matters/bulk/lawyer [post]
func (h *matterHandler) bulkLawyer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BulkLawyerRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	results, err := h.workflowService.ApplyBulkLawyer(c.Request.Context(), req.IDs, req.Lawyer)
	if err != nil {
		respondError(c, logger, err, "Failed to apply bulk assignment")
		return
	}
	c.JSON(http.StatusOK, dto.BulkResponse{Results: results})
}
