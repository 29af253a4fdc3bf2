package dto

import (
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// StartDraftRequest opens an invoice draft for a matter.
type StartDraftRequest struct {
	MatterID string `json:"matter_id" binding:"required"`
}

// UpdateInvoiceStatusRequest moves an invoice along its lifecycle.
type UpdateInvoiceStatusRequest struct {
	Status domain.InvoiceStatus `json:"status" binding:"required,invoice_status"`
}

// ListInvoicesParams filters the invoice register.
type ListInvoicesParams struct {
	MatterID string               `form:"matter_id"`
	Status   domain.InvoiceStatus `form:"status"`
}

// ListInvoicesResponse wraps the invoice register.
type ListInvoicesResponse struct {
	Invoices []domain.Invoice `json:"invoices"`
}

// ListWIPResponse wraps the finance terminal's unbilled list.
type ListWIPResponse struct {
	Matters []domain.WIPSummary `json:"matters"`
}
