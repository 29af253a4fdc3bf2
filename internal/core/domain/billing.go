package domain

import (
	"github.com/shopspring/decimal"
)

// WIPSummary is the unbilled work on a single matter.
type WIPSummary struct {
	MatterID        string          `json:"matter_id"`
	Title           string          `json:"title"`
	ClientName      string          `json:"client_name"`
	BaseFee         decimal.Decimal `json:"base_fee"`
	PendingTime     []TimeEntry     `json:"pending_time"`
	PendingExpenses []Expense       `json:"pending_expenses"`
	TimeTotal       decimal.Decimal `json:"time_total"`
	ExpenseTotal    decimal.Decimal `json:"expense_total"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
}

// HasOpenWork reports whether the summary belongs in the finance terminal:
// m has never been invoiced, or time or disbursements were logged since.
func (w WIPSummary) HasOpenWork(m Matter) bool {
	return !m.Financials.IsInvoiced || len(w.PendingTime) > 0 || len(w.PendingExpenses) > 0
}

// InvoiceDraft is the editable selection the finance terminal builds before
// finalizing. Deselected items stay unbilled.
type InvoiceDraft struct {
	MatterID           string          `json:"matter_id" binding:"required"`
	AdjustedFee        decimal.Decimal `json:"adjusted_fee"`
	SelectedTimeIDs    []string        `json:"selected_time_ids"`
	SelectedExpenseIDs []string        `json:"selected_expense_ids"`
}

// DraftTotals is the computation over a draft selection.
type DraftTotals struct {
	MatterID     string          `json:"matter_id"`
	AdjustedFee  decimal.Decimal `json:"adjusted_fee"`
	Time         []TimeEntry     `json:"time"`
	Expenses     []Expense       `json:"expenses"`
	TimeTotal    decimal.Decimal `json:"time_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}
