package handlers

import (
	"net/http"

	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/gin-gonic/gin"
)

type viewHandler struct {
	router portssvc.ViewRouterSvc
}

func newViewHandler(vr portssvc.ViewRouterSvc) *viewHandler {
	return &viewHandler{router: vr}
}

// RegisterViewRoutes registers the view router and hand-off routes.
func RegisterViewRoutes(rg *gin.RouterGroup, vr portssvc.ViewRouterSvc) {
	h := newViewHandler(vr)

	views := rg.Group("/views")
	{
		views.GET("/current", h.current)
		views.POST("/navigate", h.navigate)
		views.POST("/context/consume", h.consumeContext)
		views.GET("/handoffs", h.pendingHandoffs)
		views.POST("/handoffs/:offerID", h.resolveHandoff)
	}
}

// current godoc
// @Summary Current view
// @Description Returns the active view and its transient context without consuming it
// @Tags views
// @Produce json
// @Success 200 {object} domain.ViewState
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/views/current [get]
func (h *viewHandler) current(c *gin.Context) {
	c.JSON(http.StatusOK, h.router.Current(c.Request.Context()))
}

// navigate godoc
// @Summary Switch view
// @Description Switches the active view. Any previous context is replaced.
// @Tags views
// @Accept json
// @Produce json
// @Param request body dto.NavigateRequest true "Target view and context"
// @Success 200 {object} domain.ViewState
// @Failure 400 {object} map[string]string "Unknown view"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/views/navigate [post]
func (h *viewHandler) navigate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.NavigateRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	state, err := h.router.Navigate(c.Request.Context(), req.View, req.Context)
	if err != nil {
		respondError(c, logger, err, "Failed to navigate")
		return
	}
	c.JSON(http.StatusOK, state)
}

// consumeContext godoc
// @Summary Consume view context
// @Description Returns the transient context once; later calls get an empty object
// @Tags views
// @Produce json
// @Success 200 {object} domain.ViewContext
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/views/context/consume [post]
func (h *viewHandler) consumeContext(c *gin.Context) {
	viewCtx := h.router.ConsumeContext(c.Request.Context())
	if viewCtx == nil {
		viewCtx = map[string]string{}
	}
	c.JSON(http.StatusOK, viewCtx)
}

// pendingHandoffs godoc
// @Summary Pending hand-off offers
// @Tags views
// @Produce json
// @Success 200 {array} domain.HandoffOffer
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/views/handoffs [get]
func (h *viewHandler) pendingHandoffs(c *gin.Context) {
	c.JSON(http.StatusOK, h.router.PendingHandoffs(c.Request.Context()))
}

// resolveHandoff godoc
// @Summary Accept or decline a hand-off
// @Description Accepting navigates to the offer's target with its context
// @Tags views
// @Accept json
// @Produce json
// @Param offerID path string true "Offer ID"
// @Param request body dto.ResolveHandoffRequest true "Decision"
// @Success 200 {object} dto.ResolveHandoffResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Offer not found"
// @Security BearerAuth
// @Router /api/v1/views/handoffs/{offerID} [post]
func (h *viewHandler) resolveHandoff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ResolveHandoffRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	state, err := h.router.ResolveHandoff(c.Request.Context(), c.Param("offerID"), req.Accept)
	if err != nil {
		respondError(c, logger, err, "Failed to resolve hand-off")
		return
	}
	c.JSON(http.StatusOK, dto.ResolveHandoffResponse{Accepted: req.Accept, State: state})
}
