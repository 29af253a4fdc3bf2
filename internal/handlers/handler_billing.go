package handlers

import (
	"log/slog"
	"net/http"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// billingHandler handles the finance terminal: WIP, drafts and the invoice register
type billingHandler struct {
	billingService portssvc.BillingSvcFacade
	metrics        *metrics.Metrics
}

func newBillingHandler(bs portssvc.BillingSvcFacade, m *metrics.Metrics) *billingHandler {
	return &billingHandler{billingService: bs, metrics: m}
}

// RegisterBillingRoutes registers WIP, draft and invoice routes. m may be nil.
func RegisterBillingRoutes(rg *gin.RouterGroup, bs portssvc.BillingSvcFacade, m *metrics.Metrics) {
	h := newBillingHandler(bs, m)

	billing := rg.Group("/billing")
	{
		billing.GET("/overview", h.getOverview)
		billing.GET("/wip", h.listWIP)
		billing.GET("/wip/:matterID", h.getWIP)
		billing.POST("/drafts", h.startDraft)
		billing.POST("/drafts/calculate", h.calculateDraft)
		billing.POST("/invoices", h.finalizeInvoice)
	}

	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.listInvoices)
		invoices.GET("/:invoiceID", h.getInvoice)
		invoices.PATCH("/:invoiceID/status", h.updateInvoiceStatus)
	}
}

// getOverview godoc
// @Summary Finance overview
// @Description Firm-wide WIP, fees and expense totals for the finance terminal header
// @Tags billing
// @Produce json
// @Success 200 {object} domain.FinanceOverview
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute overview"
// @Security BearerAuth
// @Router /api/v1/billing/overview [get]
func (h *billingHandler) getOverview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	overview, err := h.billingService.FinanceOverview(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// listWIP godoc
// @Summary List unbilled work
// @Description Work-in-progress for every matter that has not been invoiced
// @Tags billing
// @Produce json
// @Success 200 {object} dto.ListWIPResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to compute WIP"
// @Security BearerAuth
// @Router /api/v1/billing/wip [get]
func (h *billingHandler) listWIP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	wip, err := h.billingService.ListWIP(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute WIP")
		return
	}
	c.JSON(http.StatusOK, dto.ListWIPResponse{Matters: wip})
}

// getWIP godoc
// @Summary Matter WIP
// @Description Base fee, pending time at the lawyer's rate, pending expenses and GST for one matter
// @Tags billing
// @Produce json
// @Param matterID path string true "Matter ID"
// @Success 200 {object} domain.WIPSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Security BearerAuth
// @Router /api/v1/billing/wip/{matterID} [get]
func (h *billingHandler) getWIP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	wip, err := h.billingService.ComputeWIP(c.Request.Context(), c.Param("matterID"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute WIP")
		return
	}
	c.JSON(http.StatusOK, wip)
}

// startDraft godoc
// @Summary Start an invoice draft
// @Description Selects every pending time entry and expense at the matter's suggested fee
// @Tags billing
// @Accept json
// @Produce json
// @Param draft body dto.StartDraftRequest true "Matter to bill"
// @Success 200 {object} domain.InvoiceDraft
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Security BearerAuth
// @Router /api/v1/billing/drafts [post]
func (h *billingHandler) startDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StartDraftRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	draft, err := h.billingService.StartDraft(c.Request.Context(), req.MatterID)
	if err != nil {
		respondError(c, logger, err, "Failed to start draft")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// calculateDraft godoc
// @Summary Total a draft selection
// @Description Computes line items, subtotal, GST and total without issuing anything
// @Tags billing
// @Accept json
// @Produce json
// @Param draft body domain.InvoiceDraft true "Draft selection"
// @Success 200 {object} domain.DraftTotals
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Security BearerAuth
// @Router /api/v1/billing/drafts/calculate [post]
func (h *billingHandler) calculateDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var draft domain.InvoiceDraft
	if !bindJSON(c, logger, &draft) {
		return
	}

	totals, err := h.billingService.CalculateDraft(c.Request.Context(), draft)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate draft")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// finalizeInvoice godoc
// @Summary Finalize an invoice
// @Description Issues the invoice and marks the matter and every selected source as invoiced in one write
// @Tags billing
// @Accept json
// @Produce json
// @Param draft body domain.InvoiceDraft true "Draft selection"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Failure 409 {object} map[string]string "Matter or source already invoiced"
// @Failure 500 {object} map[string]string "Failed to finalize invoice"
// @Security BearerAuth
// @Router /api/v1/billing/invoices [post]
func (h *billingHandler) finalizeInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var draft domain.InvoiceDraft
	if !bindJSON(c, logger, &draft) {
		return
	}

	invoice, err := h.billingService.FinalizeInvoice(c.Request.Context(), draft)
	if err != nil {
		respondError(c, logger, err, "Failed to finalize invoice")
		return
	}
	total, _ := invoice.Total.Float64()
	h.metrics.InvoiceFinalized(total)
	logger.Info("Invoice finalized", slog.String("invoice_id", invoice.ID), slog.String("matter_id", invoice.MatterID))
	c.JSON(http.StatusCreated, invoice)
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param matter_id query string false "Only invoices for this matter"
// @Param status query string false "Draft, Sent, Paid or Void"
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list invoices"
// @Security BearerAuth
// @Router /api/v1/invoices [get]
func (h *billingHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListInvoicesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	invoices, err := h.billingService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ListInvoicesResponse{Invoices: invoices})
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Security BearerAuth
// @Router /api/v1/invoices/{invoiceID} [get]
func (h *billingHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoice, err := h.billingService.GetInvoice(c.Request.Context(), c.Param("invoiceID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// updateInvoiceStatus godoc
// @Summary Advance an invoice
// @Description Sent may become Paid or Void. Voiding releases the billed items back to WIP.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoiceID path string true "Invoice ID"
// @Param status body dto.UpdateInvoiceStatusRequest true "New status"
// @Success 200 {object} domain.Invoice
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /api/v1/invoices/{invoiceID}/status [patch]
func (h *billingHandler) updateInvoiceStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateInvoiceStatusRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	invoice, err := h.billingService.UpdateInvoiceStatus(c.Request.Context(), c.Param("invoiceID"), req.Status)
	if err != nil {
		respondError(c, logger, err, "Failed to update invoice status")
		return
	}
	c.JSON(http.StatusOK, invoice)
}
