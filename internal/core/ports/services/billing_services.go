package services

import (
	"context"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
)

// WIPReaderSvc reports unbilled work
type WIPReaderSvc interface {
	ComputeWIP(ctx context.Context, matterID string) (*domain.WIPSummary, error)
	ListWIP(ctx context.Context) ([]domain.WIPSummary, error)
	FinanceOverview(ctx context.Context) (*domain.FinanceOverview, error)
}

// InvoiceDrafterSvc builds and finalizes invoices
type InvoiceDrafterSvc interface {
	// StartDraft selects every pending item at the matter's suggested fee.
	StartDraft(ctx context.Context, matterID string) (*domain.InvoiceDraft, error)

	// CalculateDraft totals a draft selection without persisting anything.
	CalculateDraft(ctx context.Context, draft domain.InvoiceDraft) (*domain.DraftTotals, error)

	// FinalizeInvoice issues the invoice and marks its sources as invoiced.
	FinalizeInvoice(ctx context.Context, draft domain.InvoiceDraft) (*domain.Invoice, error)
}

// InvoiceRegisterSvc reads and advances issued invoices
type InvoiceRegisterSvc interface {
	ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error)
}

// BillingSvcFacade combines all billing service interfaces
type BillingSvcFacade interface {
	WIPReaderSvc
	InvoiceDrafterSvc
	InvoiceRegisterSvc
}
