package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type reportingService struct {
	BaseService
	store   *EntityStore
	billing *billingService
}

// NewReportingService creates a new reporting service
func NewReportingService(store *EntityStore, opts ...ServiceOption) portssvc.ReportingService {
	cfg := newServiceConfig(opts)
	return &reportingService{
		BaseService: BaseService{now: cfg.now},
		store:       store,
		billing:     &billingService{store: store, rates: cfg.rates},
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// Summary aggregates firm-wide figures. Voided invoices are not counted as billed.
func (s *reportingService) Summary(ctx context.Context) (*domain.PracticeSummary, error) {
	sum := &domain.PracticeSummary{
		TotalBilled:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		FeePipeline:      decimal.Zero,
		WIPTotal:         decimal.Zero,
		TrustTotal:       decimal.Zero,
		MattersByStage:   make(map[domain.Stage]int, len(domain.Stages)),
		InvoicesByStatus: map[domain.InvoiceStatus]int{},
	}
	for _, stage := range domain.Stages {
		sum.MattersByStage[stage] = 0
	}

	s.store.Read(func(snap *Snapshot) {
		sum.MatterCount = len(snap.Matters)
		for _, m := range snap.Matters {
			sum.MattersByStage[m.Workflow.Stage]++
			sum.FeePipeline = sum.FeePipeline.Add(m.Financials.SuggestedFee)
			sum.TrustTotal = sum.TrustTotal.Add(m.Financials.TrustBalance)
			sum.WIPTotal = sum.WIPTotal.Add(s.billing.wipFor(snap, m).Total)
		}
		for _, inv := range snap.Invoices {
			sum.InvoicesByStatus[inv.Status]++
			if inv.Status != domain.InvoiceVoid {
				sum.TotalBilled = sum.TotalBilled.Add(inv.Total)
			}
		}
		for _, e := range snap.Expenses {
			sum.TotalExpenses = sum.TotalExpenses.Add(e.Amount)
		}
	})
	return sum, nil
}

type sheetSpec struct {
	name    string
	headers []any
	widths  []float64
	rows    [][]any
}

func (s *reportingService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	snap := s.store.Snapshot()

	sheets := []sheetSpec{
		{
			name:    "Matters",
			headers: []any{"ID", "Title", "Client", "Category", "Priority", "Stage", "Lawyer", "Deadline", "Billing", "Fee", "GST", "Total", "Trust", "Invoiced"},
			widths:  []float64{18, 36, 24, 10, 10, 18, 20, 12, 10, 12, 12, 12, 12, 10},
		},
		{
			name:    "Invoices",
			headers: []any{"ID", "Matter", "Client", "Title", "Date", "Due", "Subtotal", "GST", "Total", "Status"},
			widths:  []float64{18, 18, 24, 36, 12, 12, 12, 12, 12, 10},
		},
		{
			name:    "Expenses",
			headers: []any{"ID", "Date", "Category", "Description", "Matter", "Amount", "Reimbursable", "Invoiced"},
			widths:  []float64{18, 12, 22, 36, 18, 12, 14, 10},
		},
		{
			name:    "Time",
			headers: []any{"ID", "Matter", "Date", "Lawyer", "Hours", "Description", "Invoiced"},
			widths:  []float64{18, 18, 12, 20, 8, 40, 10},
		},
	}
	for _, m := range snap.Matters {
		sheets[0].rows = append(sheets[0].rows, []any{
			m.ID, m.TaskMetadata.Title, m.TaskMetadata.ClientName, string(m.TaskMetadata.Category),
			string(m.TaskMetadata.Priority), string(m.Workflow.Stage), m.TaskMetadata.LawyerAssigned,
			m.TaskMetadata.Deadline, string(m.Financials.BillingType), money(m.Financials.SuggestedFee),
			money(m.Financials.TaxAmount), money(m.Financials.TotalInclusive), money(m.Financials.TrustBalance),
			m.Financials.IsInvoiced,
		})
	}
	for _, inv := range snap.Invoices {
		sheets[1].rows = append(sheets[1].rows, []any{
			inv.ID, inv.MatterID, inv.ClientName, inv.Title, inv.Date, inv.DueDate,
			money(inv.Subtotal), money(inv.Tax), money(inv.Total), string(inv.Status),
		})
	}
	for _, e := range snap.Expenses {
		sheets[2].rows = append(sheets[2].rows, []any{
			e.ID, e.Date, string(e.Category), e.Description, e.MatterID, money(e.Amount), e.IsReimbursable, e.IsInvoiced,
		})
	}
	for _, te := range snap.TimeEntries {
		hours, _ := te.Hours.Float64()
		sheets[3].rows = append(sheets[3].rows, []any{
			te.ID, te.MatterID, te.Date, te.LawyerName, hours, te.Description, te.IsInvoiced,
		})
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.LogError(ctx, err, "Failed to close workbook")
		}
	}()

	for i, sheet := range sheets {
		if err := writeSheet(f, i, sheet); err != nil {
			return fmt.Errorf("write %s sheet: %w", sheet.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.LogInfo(ctx, "Workbook exported", slog.Int("matters", len(snap.Matters)), slog.Int("invoices", len(snap.Invoices)))
	return nil
}

func writeSheet(f *excelize.File, index int, sheet sheetSpec) error {
	if index == 0 {
		if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
			return err
		}
	} else if _, err := f.NewSheet(sheet.name); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet.name, "A1", &sheet.headers); err != nil {
		return err
	}
	for i, row := range sheet.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
			return err
		}
	}
	for i, width := range sheet.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// money converts an amount to a spreadsheet number rounded to the minor unit.
func money(d decimal.Decimal) float64 {
	v, _ := domain.RoundMoney(d).Float64()
	return v
}
