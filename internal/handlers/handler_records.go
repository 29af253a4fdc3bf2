package handlers

import (
	"net/http"

	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recordsHandler handles expenses, time entries, calendar events and clients
type recordsHandler struct {
	recordsService portssvc.RecordsSvcFacade
}

func newRecordsHandler(rs portssvc.RecordsSvcFacade) *recordsHandler {
	return &recordsHandler{recordsService: rs}
}

// RegisterRecordsRoutes registers the ledger and CRM record routes.
func RegisterRecordsRoutes(rg *gin.RouterGroup, rs portssvc.RecordsSvcFacade) {
	h := newRecordsHandler(rs)

	rg.GET("/expenses", h.listExpenses)
	rg.POST("/expenses", h.createExpense)
	rg.GET("/time-entries", h.listTimeEntries)
	rg.POST("/time-entries", h.logTime)
	rg.GET("/events", h.listEvents)
	rg.POST("/events", h.createEvent)
	rg.GET("/clients", h.listClients)
	rg.POST("/clients", h.createClient)
}

func bindRecordsQuery(c *gin.Context) (dto.ListRecordsParams, bool) {
	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return params, false
	}
	return params, true
}

// listExpenses godoc
// @Summary List expenses
// @Tags records
// @Produce json
// @Param matter_id query string false "Only expenses linked to this matter"
// @Success 200 {array} domain.Expense
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/expenses [get]
func (h *recordsHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := bindRecordsQuery(c)
	if !ok {
		return
	}

	expenses, err := h.recordsService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list expenses")
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// createExpense godoc
// @Summary Record an expense
// @Description Amount must be positive. Reimbursable defaults to true and the date to today.
// @Tags records
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} domain.Expense
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to record expense"
// @Security BearerAuth
// @Router /api/v1/expenses [post]
func (h *recordsHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	expense, err := h.recordsService.CreateExpense(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to record expense")
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// listTimeEntries godoc
// @Summary List time entries
// @Tags records
// @Produce json
// @Param matter_id query string false "Only entries for this matter"
// @Success 200 {array} domain.TimeEntry
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/time-entries [get]
func (h *recordsHandler) listTimeEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := bindRecordsQuery(c)
	if !ok {
		return
	}

	entries, err := h.recordsService.ListTimeEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list time entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// logTime godoc
// @Summary Log time
// @Description Hours must be positive. The lawyer defaults to the matter's assignee.
// @Tags records
// @Accept json
// @Produce json
// @Param entry body dto.CreateTimeEntryRequest true "Time entry"
// @Success 201 {object} domain.TimeEntry
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Matter not found"
// @Security BearerAuth
// @Router /api/v1/time-entries [post]
func (h *recordsHandler) logTime(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTimeEntryRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	entry, err := h.recordsService.LogTime(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to log time")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// listEvents godoc
// @Summary List calendar events
// @Description Events in chronological order
// @Tags records
// @Produce json
// @Param matter_id query string false "Only events for this matter"
// @Success 200 {array} domain.CalendarEvent
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/events [get]
func (h *recordsHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	params, ok := bindRecordsQuery(c)
	if !ok {
		return
	}

	events, err := h.recordsService.ListEvents(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list events")
		return
	}
	c.JSON(http.StatusOK, events)
}

// createEvent godoc
// @Summary Schedule an event
// @Description Stores the event and optionally mirrors it to Google Calendar. A mirroring failure is reported as a warning.
// @Tags records
// @Accept json
// @Produce json
// @Param event body dto.CreateEventRequest true "Event details"
// @Success 201 {object} dto.EventResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/events [post]
func (h *recordsHandler) createEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEventRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	resp, err := h.recordsService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to schedule event")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// listClients godoc
// @Summary List clients
// @Description Clients with the number of matters filed under each name
// @Tags records
// @Produce json
// @Success 200 {array} dto.ClientSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/clients [get]
func (h *recordsHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	clients, err := h.recordsService.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list clients")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// createClient godoc
// @Summary Add a client
// @Tags records
// @Accept json
// @Produce json
// @Param client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} domain.Client
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /api/v1/clients [post]
func (h *recordsHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateClientRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	client, err := h.recordsService.CreateClient(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to add client")
		return
	}
	c.JSON(http.StatusCreated, client)
}
