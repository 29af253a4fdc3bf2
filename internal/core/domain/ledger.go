package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory groups firm expenses.
type ExpenseCategory string

const (
	ExpenseOffice       ExpenseCategory = "Office Supply"
	ExpenseTravel       ExpenseCategory = "Travel & Transport"
	ExpenseCourtFees    ExpenseCategory = "Court & Filing Fees"
	ExpenseProfessional ExpenseCategory = "Professional Services"
	ExpenseMisc         ExpenseCategory = "Miscellaneous"
)

func (c ExpenseCategory) IsValid() bool {
	switch c {
	case ExpenseOffice, ExpenseTravel, ExpenseCourtFees, ExpenseProfessional, ExpenseMisc:
		return true
	}
	return false
}

// Expense is a disbursement, optionally recoverable from a matter's client.
type Expense struct {
	ID             string          `json:"id" validate:"required"`
	Date           string          `json:"date"`
	Category       ExpenseCategory `json:"category" validate:"expense_category"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	MatterID       string          `json:"matter_id,omitempty"`
	IsReimbursable bool            `json:"is_reimbursable"`
	IsInvoiced     bool            `json:"is_invoiced"`
}

// Billable reports whether the expense belongs in a matter's unbilled work.
func (e Expense) Billable(matterID string) bool {
	return e.MatterID == matterID && e.IsReimbursable && !e.IsInvoiced
}

// TimeEntry records hours worked on a matter.
type TimeEntry struct {
	ID          string          `json:"id" validate:"required"`
	MatterID    string          `json:"matter_id"`
	Date        string          `json:"date"`
	Hours       decimal.Decimal `json:"hours"`
	Description string          `json:"description"`
	LawyerName  string          `json:"lawyer_name"`
	IsInvoiced  bool            `json:"is_invoiced"`
}

// Billable reports whether the entry belongs in a matter's unbilled work.
func (t TimeEntry) Billable(matterID string) bool {
	return t.MatterID == matterID && !t.IsInvoiced
}

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "Draft"
	InvoiceSent        InvoiceStatus = "Sent"
	InvoicePaid        InvoiceStatus = "Paid"
	InvoiceVoid        InvoiceStatus = "Void"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceSent, InvoicePaid, InvoiceVoid:
		return true
	}
	return false
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft: {InvoiceSent, InvoiceVoid},
	InvoiceSent:        {InvoicePaid, InvoiceVoid},
}

// CanTransitionTo reports whether an invoice may move from s to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	for _, allowed := range invoiceTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// LineItemType separates fees from recovered disbursements.
type LineItemType string

const (
	LineProfessionalServices LineItemType = "Professional Services"
	LineDisbursement         LineItemType = "Disbursement"
)

// InvoiceItem is one immutable line on an invoice. SourceID names the
// time entry or expense the line was drawn from, if any.
type InvoiceItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        LineItemType    `json:"type"`
	SourceID    string          `json:"source_id,omitempty"`
}

// Invoice is a finalized bill for a matter.
type Invoice struct {
	ID         string          `json:"id" validate:"required"`
	MatterID   string          `json:"matter_id"`
	ClientName string          `json:"client_name"`
	Title      string          `json:"title"`
	Date       string          `json:"date"`
	DueDate    string          `json:"due_date"`
	Items      []InvoiceItem   `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	Status     InvoiceStatus   `json:"status" validate:"invoice_status"`
}

// SourceIDs returns the ids of the time entries and expenses billed on the invoice.
func (i Invoice) SourceIDs() []string {
	ids := make([]string, 0, len(i.Items))
	for _, item := range i.Items {
		if item.SourceID != "" {
			ids = append(ids, item.SourceID)
		}
	}
	return ids
}

// EventType classifies calendar events.
type EventType string

const (
	EventCourt    EventType = "Court Appearance"
	EventFiling   EventType = "Filing Deadline"
	EventMeeting  EventType = "Client Meeting"
	EventInternal EventType = "Internal"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventCourt, EventFiling, EventMeeting, EventInternal:
		return true
	}
	return false
}

// CalendarEvent is a dated entry on the firm calendar.
type CalendarEvent struct {
	ID             string    `json:"id" validate:"required"`
	Title          string    `json:"title"`
	Type           EventType `json:"type" validate:"event_type"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	MatterID       string    `json:"matter_id,omitempty"`
	LawyerAssigned string    `json:"lawyer_assigned"`
	Description    string    `json:"description"`
}

// ClientType classifies CRM clients.
type ClientType string

const (
	ClientCorporate  ClientType = "Corporate"
	ClientIndividual ClientType = "Individual"
	ClientGovernment ClientType = "Government"
)

func (c ClientType) IsValid() bool {
	switch c {
	case ClientCorporate, ClientIndividual, ClientGovernment:
		return true
	}
	return false
}

// Client is a CRM record.
type Client struct {
	ID        string     `json:"id" validate:"required"`
	Name      string     `json:"name"`
	Type      ClientType `json:"type" validate:"client_type"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	CreatedAt time.Time  `json:"created_at"`
}
