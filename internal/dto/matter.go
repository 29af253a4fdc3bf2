package dto

import (
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMatterRequest is the manual "new matter" form.
type CreateMatterRequest struct {
	Title          string             `json:"title" binding:"required"`
	ClientName     string             `json:"client_name"`
	CaseNumber     string             `json:"case_number"`
	LawyerAssigned string             `json:"lawyer_assigned"`
	Deadline       string             `json:"deadline"`
	Category       domain.Category    `json:"category" binding:"omitempty,matter_category"`  // Defaults to Legal
	Priority       domain.Priority    `json:"priority" binding:"omitempty,matter_priority"`  // Defaults to Medium
	BillingType    domain.BillingType `json:"billing_type" binding:"omitempty,billing_type"` // Defaults to Fixed
	SuggestedFee   decimal.Decimal    `json:"suggested_fee"`                                 // Defaults to 0
	TrustBalance   decimal.Decimal    `json:"trust_balance"`
	EstimatedHours decimal.Decimal    `json:"estimated_hours"`
	RawInput       string             `json:"raw_input"`
}

// UpdateMatterRequest is the detail-edit form. Nil fields are left unchanged.
type UpdateMatterRequest struct {
	Title          *string             `json:"title"`
	ClientName     *string             `json:"client_name"`
	CaseNumber     *string             `json:"case_number"`
	LawyerAssigned *string             `json:"lawyer_assigned"`
	Deadline       *string             `json:"deadline"`
	Category       *domain.Category    `json:"category"`
	Priority       *domain.Priority    `json:"priority"`
	BillingType    *domain.BillingType `json:"billing_type"`
	SuggestedFee   *decimal.Decimal    `json:"suggested_fee"` // Re-derives tax and total
	TrustBalance   *decimal.Decimal    `json:"trust_balance"`
	EstimatedHours *decimal.Decimal    `json:"estimated_hours"`
	BillableHours  *decimal.Decimal    `json:"billable_hours"`
	IsBillable     *bool               `json:"is_billable"`
}

// MoveMatterRequest moves a single matter to another stage.
type MoveMatterRequest struct {
	Stage domain.Stage `json:"stage" binding:"required,matter_stage"`
}

// BulkStageRequest applies one stage to several matters.
type BulkStageRequest struct {
	IDs   []string     `json:"ids" binding:"required,min=1"`
	Stage domain.Stage `json:"stage" binding:"required,matter_stage"`
}

// BulkLawyerRequest assigns one lawyer to several matters.
type BulkLawyerRequest struct {
	IDs    []string `json:"ids" binding:"required,min=1"`
	Lawyer string   `json:"lawyer" binding:"required"`
}

// Sort fields accepted by ListMattersParams.SortBy.
const (
	SortByTitle    = "title"
	SortByDeadline = "deadline"
)

// ListMattersParams filters, sorts and pages the matter list.
type ListMattersParams struct {
	Search      string             `form:"search"`
	BillingType domain.BillingType `form:"billing_type"` // Empty means all
	SortBy      string             `form:"sort_by"`      // title or deadline; empty keeps store order
	SortOrder   string             `form:"sort_order"`   // asc (default) or desc
	Limit       int                `form:"limit,default=50"`
	NextToken   string             `form:"next_token"`
}

// ListMattersResponse is one page of matters.
type ListMattersResponse struct {
	Matters   []domain.Matter `json:"matters"`
	NextToken *string         `json:"next_token,omitempty"`
}

// BoardColumn is one stage column of the kanban board.
type BoardColumn struct {
	Stage   domain.Stage    `json:"stage"`
	Matters []domain.Matter `json:"matters"`
}

// BoardResponse is the full kanban board in stage order.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

// MoveOutcome reports the result of a single-matter move. Handoff is set
// only when the move completed the matter.
type MoveOutcome struct {
	Matter  domain.Matter        `json:"matter"`
	Changed bool                 `json:"changed"`
	Handoff *domain.HandoffOffer `json:"handoff,omitempty"`
}

// BulkResult is the per-id outcome of a bulk operation.
type BulkResult struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
	Error   string `json:"error,omitempty"`
}

// BulkResponse lists the per-id outcomes of a bulk operation.
type BulkResponse struct {
	Results []BulkResult `json:"results"`
}
