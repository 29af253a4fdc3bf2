package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage is a matter's column on the workflow board.
type Stage string

const (
	StageTodo       Stage = "To Do"
	StageInProgress Stage = "In Progress"
	StageWaiting    Stage = "Waiting on Client"
	StageDone       Stage = "Done"
)

// Stages lists the board columns in display order.
var Stages = []Stage{StageTodo, StageInProgress, StageWaiting, StageDone}

func (s Stage) IsValid() bool {
	switch s {
	case StageTodo, StageInProgress, StageWaiting, StageDone:
		return true
	}
	return false
}

// Category classifies the kind of work a matter represents.
type Category string

const (
	CategoryLegal   Category = "Legal"
	CategoryAdmin   Category = "Admin"
	CategoryFinance Category = "Finance"
	CategoryHR      Category = "HR"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryLegal, CategoryAdmin, CategoryFinance, CategoryHR:
		return true
	}
	return false
}

// Priority of a matter.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// BillingType describes how a matter is charged.
type BillingType string

const (
	BillingFixed  BillingType = "Fixed"
	BillingHourly BillingType = "Hourly"
	BillingTrust  BillingType = "Trust"
)

func (b BillingType) IsValid() bool {
	switch b {
	case BillingFixed, BillingHourly, BillingTrust:
		return true
	}
	return false
}

// TaskMetadata identifies a matter.
type TaskMetadata struct {
	Title          string   `json:"title" validate:"required"`
	Category       Category `json:"category" validate:"matter_category"`
	Priority       Priority `json:"priority" validate:"matter_priority"`
	CaseNumber     string   `json:"case_number,omitempty"`
	ClientName     string   `json:"client_name,omitempty"`
	LawyerAssigned string   `json:"lawyer_assigned,omitempty"`
	Deadline       string   `json:"deadline,omitempty"`
}

// Workflow holds a matter's stage and effort estimates.
type Workflow struct {
	Stage          Stage           `json:"stage" validate:"matter_stage"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	BillableHours  decimal.Decimal `json:"billable_hours"`
	IsBillable     bool            `json:"is_billable"`
}

// Financials carries the fee, GST and trust position of a matter.
type Financials struct {
	SuggestedFee   decimal.Decimal `json:"suggested_fee"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalInclusive decimal.Decimal `json:"total_inclusive"`
	BillingType    BillingType     `json:"billing_type" validate:"billing_type"`
	TrustBalance   decimal.Decimal `json:"trust_balance"`
	IsInvoiced     bool            `json:"is_invoiced"`
}

// NewFinancials derives tax and the inclusive total from the fee.
func NewFinancials(fee decimal.Decimal, billingType BillingType, trust decimal.Decimal) Financials {
	f := Financials{
		SuggestedFee: fee,
		BillingType:  billingType,
		TrustBalance: trust,
	}
	f.Rederive()
	return f
}

// Rederive recomputes TaxAmount and TotalInclusive from SuggestedFee.
func (f *Financials) Rederive() {
	f.TaxAmount = TaxOn(f.SuggestedFee)
	f.TotalInclusive = f.SuggestedFee.Add(f.TaxAmount)
}

// Matter is a legal case or engagement tracked on the board.
type Matter struct {
	ID           string       `json:"id" validate:"required"`
	RawInput     string       `json:"raw_input"`
	TaskMetadata TaskMetadata `json:"task_metadata"`
	Workflow     Workflow     `json:"workflow"`
	Financials   Financials   `json:"financials"`
	CreatedAt    time.Time    `json:"created_at"`
}

// DeadlineTime parses the deadline; ok is false when it is unset or malformed.
func (m Matter) DeadlineTime() (time.Time, bool) {
	if m.TaskMetadata.Deadline == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, m.TaskMetadata.Deadline); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, m.TaskMetadata.Deadline); err == nil {
		return t, true
	}
	return time.Time{}, false
}
