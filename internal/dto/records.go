package dto

import (
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest records a firm expense.
type CreateExpenseRequest struct {
	Date           string                 `json:"date" binding:"omitempty,datetime=2006-01-02"` // Defaults to today
	Category       domain.ExpenseCategory `json:"category" binding:"omitempty,expense_category"`
	Amount         decimal.Decimal        `json:"amount"`
	Description    string                 `json:"description" binding:"required"`
	MatterID       string                 `json:"matter_id"`
	IsReimbursable *bool                  `json:"is_reimbursable"` // Defaults to true
}

// CreateTimeEntryRequest logs hours against a matter.
type CreateTimeEntryRequest struct {
	MatterID    string          `json:"matter_id" binding:"required"`
	Date        string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description" binding:"required"`
	LawyerName  string          `json:"lawyer_name"`
}

// CreateEventRequest adds an entry to the firm calendar.
type CreateEventRequest struct {
	Title          string           `json:"title" binding:"required"`
	Type           domain.EventType `json:"type" binding:"omitempty,event_type"`
	Date           string           `json:"date" binding:"required,datetime=2006-01-02"`
	Time           string           `json:"time" binding:"omitempty,datetime=15:04"`
	MatterID       string           `json:"matter_id"`
	LawyerAssigned string           `json:"lawyer_assigned"`
	Description    string           `json:"description"`
	SyncToGoogle   bool             `json:"sync_to_google"`
}

// CreateClientRequest adds a CRM client.
type CreateClientRequest struct {
	Name    string            `json:"name" binding:"required"`
	Type    domain.ClientType `json:"type" binding:"omitempty,client_type"`
	Email   string            `json:"email" binding:"omitempty,email"`
	Phone   string            `json:"phone"`
	Address string            `json:"address"`
}

// ListRecordsParams narrows a record listing to one matter.
type ListRecordsParams struct {
	MatterID string `form:"matter_id"`
}

// ClientSummary is a CRM client with the number of matters filed under its name.
type ClientSummary struct {
	domain.Client
	MatterCount int `json:"matter_count"`
}

// EventResponse wraps a created event with its external calendar id, if mirrored.
type EventResponse struct {
	Event       domain.CalendarEvent `json:"event"`
	ExternalID  string               `json:"external_id,omitempty"`
	SyncWarning string               `json:"sync_warning,omitempty"`
}
