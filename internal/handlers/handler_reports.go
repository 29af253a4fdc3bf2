package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportingHandler handles practice reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// RegisterReportingRoutes registers the report routes.
func RegisterReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingService) {
	h := newReportingHandler(rs)

	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.getSummary)
		reports.GET("/export", h.exportWorkbook)
	}
}

// getSummary godoc
// @Summary Practice summary
// @Description Billed totals by invoice status, expenses, fee pipeline, WIP, trust and matter counts by stage
// @Tags reports
// @Produce json
// @Success 200 {object} domain.PracticeSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /api/v1/reports/summary [get]
func (h *reportingHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reportingService.Summary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// exportWorkbook godoc
// @Summary Export registers
// @Description Downloads matters, invoices, expenses and time as an XLSX workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to export workbook"
// @Security BearerAuth
// @Router /api/v1/reports/export [get]
func (h *reportingHandler) exportWorkbook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Buffered so a failed export can still return a JSON error.
	var buf bytes.Buffer
	if err := h.reportingService.ExportWorkbook(c.Request.Context(), &buf); err != nil {
		respondError(c, logger, err, "Failed to export workbook")
		return
	}

	filename := fmt.Sprintf("legalos-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
