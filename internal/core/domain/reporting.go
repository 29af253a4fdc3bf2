package domain

import (
	"github.com/shopspring/decimal"
)

// PracticeSummary aggregates firm-wide figures for the reports view.
type PracticeSummary struct {
	TotalBilled      decimal.Decimal       `json:"total_billed"`      // Sum of totals on non-void invoices
	TotalExpenses    decimal.Decimal       `json:"total_expenses"`    // Every recorded expense
	FeePipeline      decimal.Decimal       `json:"fee_pipeline"`      // Sum of suggested fees across matters
	WIPTotal         decimal.Decimal       `json:"wip_total"`         // Unbilled work inclusive of GST
	TrustTotal       decimal.Decimal       `json:"trust_total"`       // Funds held in trust
	MattersByStage   map[Stage]int         `json:"matters_by_stage"`
	InvoicesByStatus map[InvoiceStatus]int `json:"invoices_by_status"`
	MatterCount      int                   `json:"matter_count"`
}

// FinanceOverview is the header strip of the finance terminal.
type FinanceOverview struct {
	TrustTotal   decimal.Decimal `json:"trust_total"`
	InvoiceCount int             `json:"invoice_count"`
	PaidCount    int             `json:"paid_count"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	WIPTotal     decimal.Decimal `json:"wip_total"`
}
