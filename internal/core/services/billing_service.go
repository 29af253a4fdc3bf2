package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	invoicePaymentTermDays = 14
	defaultInvoiceClient   = "Valued Client"
)

type billingService struct {
	BaseService
	store *EntityStore
	ids   portsrepo.IDGenerator
	rates domain.RateCard
}

// NewBillingService creates the billing aggregator.
func NewBillingService(store *EntityStore, ids portsrepo.IDGenerator, opts ...ServiceOption) portssvc.BillingSvcFacade {
	cfg := newServiceConfig(opts)
	return &billingService{
		BaseService: BaseService{now: cfg.now},
		store:       store,
		ids:         ids,
		rates:       cfg.rates,
	}
}

var _ portssvc.BillingSvcFacade = (*billingService)(nil)

// wipFor totals the unbilled work on m. An invoiced matter's fee has
// already been billed, so only later time and disbursements count and the
// summary of a fully billed matter totals zero.
func (s *billingService) wipFor(snap *Snapshot, m domain.Matter) domain.WIPSummary {
	w := domain.WIPSummary{
		MatterID:        m.ID,
		Title:           m.TaskMetadata.Title,
		ClientName:      m.TaskMetadata.ClientName,
		BaseFee:         m.Financials.SuggestedFee,
		PendingTime:     []domain.TimeEntry{},
		PendingExpenses: []domain.Expense{},
		TimeTotal:       decimal.Zero,
		ExpenseTotal:    decimal.Zero,
	}
	if m.Financials.IsInvoiced {
		w.BaseFee = decimal.Zero
	}
	for _, te := range snap.TimeEntries {
		if te.Billable(m.ID) {
			w.PendingTime = append(w.PendingTime, te)
			w.TimeTotal = w.TimeTotal.Add(s.rates.ValueOf(te))
		}
	}
	for _, e := range snap.Expenses {
		if e.Billable(m.ID) {
			w.PendingExpenses = append(w.PendingExpenses, e)
			w.ExpenseTotal = w.ExpenseTotal.Add(e.Amount)
		}
	}
	w.Subtotal = w.BaseFee.Add(w.TimeTotal).Add(w.ExpenseTotal)
	w.Tax = domain.TaxOn(w.Subtotal)
	w.Total = w.Subtotal.Add(w.Tax)
	return w
}

func (s *billingService) ComputeWIP(ctx context.Context, matterID string) (*domain.WIPSummary, error) {
	var (
		wip   domain.WIPSummary
		found bool
	)
	s.store.Read(func(snap *Snapshot) {
		if i := snap.MatterIndex(matterID); i >= 0 {
			wip, found = s.wipFor(snap, snap.Matters[i]), true
		}
	})
	if !found {
		return nil, fmt.Errorf("%w: matter %s", apperrors.ErrNotFound, matterID)
	}
	return &wip, nil
}

func (s *billingService) ListWIP(ctx context.Context) ([]domain.WIPSummary, error) {
	out := []domain.WIPSummary{}
	s.store.Read(func(snap *Snapshot) {
		for _, m := range snap.Matters {
			if w := s.wipFor(snap, m); w.HasOpenWork(m) {
				out = append(out, w)
			}
		}
	})
	return out, nil
}

func (s *billingService) FinanceOverview(ctx context.Context) (*domain.FinanceOverview, error) {
	o := &domain.FinanceOverview{TrustTotal: decimal.Zero, ExpenseTotal: decimal.Zero, WIPTotal: decimal.Zero}
	s.store.Read(func(snap *Snapshot) {
		for _, m := range snap.Matters {
			o.TrustTotal = o.TrustTotal.Add(m.Financials.TrustBalance)
			o.WIPTotal = o.WIPTotal.Add(s.wipFor(snap, m).Total)
		}
		o.InvoiceCount = len(snap.Invoices)
		for _, inv := range snap.Invoices {
			if inv.Status == domain.InvoicePaid {
				o.PaidCount++
			}
		}
		for _, e := range snap.Expenses {
			o.ExpenseTotal = o.ExpenseTotal.Add(e.Amount)
		}
	})
	return o, nil
}

func (s *billingService) StartDraft(ctx context.Context, matterID string) (*domain.InvoiceDraft, error) {
	wip, err := s.ComputeWIP(ctx, matterID)
	if err != nil {
		return nil, err
	}
	draft := &domain.InvoiceDraft{
		MatterID:           matterID,
		AdjustedFee:        wip.BaseFee,
		SelectedTimeIDs:    make([]string, 0, len(wip.PendingTime)),
		SelectedExpenseIDs: make([]string, 0, len(wip.PendingExpenses)),
	}
	for _, te := range wip.PendingTime {
		draft.SelectedTimeIDs = append(draft.SelectedTimeIDs, te.ID)
	}
	for _, e := range wip.PendingExpenses {
		draft.SelectedExpenseIDs = append(draft.SelectedExpenseIDs, e.ID)
	}
	return draft, nil
}

func (s *billingService) CalculateDraft(ctx context.Context, draft domain.InvoiceDraft) (*domain.DraftTotals, error) {
	var (
		totals *domain.DraftTotals
		err    error
	)
	s.store.Read(func(snap *Snapshot) {
		totals, _, err = s.calculate(snap, draft)
	})
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// calculate resolves a draft selection against the collections. Every
// selected id must name an unbilled item belonging to the draft's matter.
func (s *billingService) calculate(snap *Snapshot, draft domain.InvoiceDraft) (*domain.DraftTotals, *domain.Matter, error) {
	i := snap.MatterIndex(draft.MatterID)
	if i < 0 {
		return nil, nil, fmt.Errorf("%w: matter %s", apperrors.ErrNotFound, draft.MatterID)
	}
	matter := snap.Matters[i]
	if draft.AdjustedFee.IsNegative() {
		return nil, nil, fmt.Errorf("%w: adjusted fee cannot be negative", apperrors.ErrValidation)
	}

	totals := &domain.DraftTotals{
		MatterID:     matter.ID,
		AdjustedFee:  draft.AdjustedFee,
		Time:         []domain.TimeEntry{},
		Expenses:     []domain.Expense{},
		TimeTotal:    decimal.Zero,
		ExpenseTotal: decimal.Zero,
	}

	for _, id := range dedupe(draft.SelectedTimeIDs) {
		j := slices.IndexFunc(snap.TimeEntries, func(te domain.TimeEntry) bool { return te.ID == id })
		if j < 0 || snap.TimeEntries[j].MatterID != matter.ID {
			return nil, nil, fmt.Errorf("%w: time entry %s is not pending on matter %s", apperrors.ErrValidation, id, matter.ID)
		}
		if snap.TimeEntries[j].IsInvoiced {
			return nil, nil, fmt.Errorf("%w: time entry %s is already invoiced", apperrors.ErrValidation, id)
		}
		totals.Time = append(totals.Time, snap.TimeEntries[j])
		totals.TimeTotal = totals.TimeTotal.Add(s.rates.ValueOf(snap.TimeEntries[j]))
	}

	for _, id := range dedupe(draft.SelectedExpenseIDs) {
		j := slices.IndexFunc(snap.Expenses, func(e domain.Expense) bool { return e.ID == id })
		if j < 0 || snap.Expenses[j].MatterID != matter.ID || !snap.Expenses[j].IsReimbursable {
			return nil, nil, fmt.Errorf("%w: expense %s is not a pending disbursement on matter %s", apperrors.ErrValidation, id, matter.ID)
		}
		if snap.Expenses[j].IsInvoiced {
			return nil, nil, fmt.Errorf("%w: expense %s is already invoiced", apperrors.ErrValidation, id)
		}
		totals.Expenses = append(totals.Expenses, snap.Expenses[j])
		totals.ExpenseTotal = totals.ExpenseTotal.Add(snap.Expenses[j].Amount)
	}

	totals.Subtotal = totals.AdjustedFee.Add(totals.TimeTotal).Add(totals.ExpenseTotal)
	totals.Tax = domain.TaxOn(totals.Subtotal)
	totals.Total = totals.Subtotal.Add(totals.Tax)
	return totals, &matter, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *billingService) FinalizeInvoice(ctx context.Context, draft domain.InvoiceDraft) (*domain.Invoice, error) {
	logger := s.GetLogger(ctx)
	var invoice domain.Invoice

	keys := []string{KeyInvoices, KeyTimeEntries, KeyExpenses, KeyMatters}
	err := s.store.Update(ctx, keys, func(snap *Snapshot) error {
		totals, matter, err := s.calculate(snap, draft)
		if err != nil {
			return err
		}
		if matter.Financials.IsInvoiced && len(totals.Time) == 0 && len(totals.Expenses) == 0 && totals.AdjustedFee.IsZero() {
			return fmt.Errorf("%w: matter %s has nothing left to invoice", apperrors.ErrValidation, matter.ID)
		}

		now := s.Now()
		invoice = domain.Invoice{
			ID:         s.ids.NewID("INV"),
			MatterID:   matter.ID,
			ClientName: cmp.Or(matter.TaskMetadata.ClientName, defaultInvoiceClient),
			Title:      matter.TaskMetadata.Title,
			Date:       now.Format(domain.DateLayout),
			DueDate:    now.AddDate(0, 0, invoicePaymentTermDays).Format(domain.DateLayout),
			Items:      buildLineItems(*matter, totals, s.rates),
			Subtotal:   totals.Subtotal,
			Tax:        totals.Tax,
			Total:      totals.Total,
			Status:     domain.InvoiceSent,
		}

		markInvoiced(snap, invoice.SourceIDs(), true)
		snap.Matters[snap.MatterIndex(matter.ID)].Financials.IsInvoiced = true
		snap.Invoices = slices.Insert(snap.Invoices, 0, invoice)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to finalize invoice", slog.String("matter_id", draft.MatterID))
		return nil, err
	}

	logger.Info("Invoice finalized",
		slog.String("invoice_id", invoice.ID),
		slog.String("matter_id", invoice.MatterID),
		slog.String("total", invoice.Total.StringFixed(domain.MoneyPrecision)))
	return &invoice, nil
}

// buildLineItems lays out the fee line, one line per time entry and one
// disbursement line per expense.
func buildLineItems(matter domain.Matter, totals *domain.DraftTotals, rates domain.RateCard) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, 0, 1+len(totals.Time)+len(totals.Expenses))
	items = append(items, domain.InvoiceItem{
		Description: "Professional Services - " + matter.TaskMetadata.Title,
		Amount:      totals.AdjustedFee,
		Type:        domain.LineProfessionalServices,
	})
	for _, te := range totals.Time {
		items = append(items, domain.InvoiceItem{
			Description: fmt.Sprintf("%sh: %s", te.Hours.String(), te.Description),
			Amount:      rates.ValueOf(te),
			Type:        domain.LineProfessionalServices,
			SourceID:    te.ID,
		})
	}
	for _, e := range totals.Expenses {
		items = append(items, domain.InvoiceItem{
			Description: e.Description,
			Amount:      e.Amount,
			Type:        domain.LineDisbursement,
			SourceID:    e.ID,
		})
	}
	return items
}

func markInvoiced(snap *Snapshot, sourceIDs []string, invoiced bool) {
	ids := make(map[string]struct{}, len(sourceIDs))
	for _, id := range sourceIDs {
		ids[id] = struct{}{}
	}
	for i := range snap.TimeEntries {
		if _, ok := ids[snap.TimeEntries[i].ID]; ok {
			snap.TimeEntries[i].IsInvoiced = invoiced
		}
	}
	for i := range snap.Expenses {
		if _, ok := ids[snap.Expenses[i].ID]; ok {
			snap.Expenses[i].IsInvoiced = invoiced
		}
	}
}

func (s *billingService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, params.Status)
	}
	out := []domain.Invoice{}
	s.store.Read(func(snap *Snapshot) {
		for _, inv := range snap.Invoices {
			if params.MatterID != "" && inv.MatterID != params.MatterID {
				continue
			}
			if params.Status != "" && inv.Status != params.Status {
				continue
			}
			out = append(out, inv)
		}
	})
	return out, nil
}

func (s *billingService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	var (
		inv   domain.Invoice
		found bool
	)
	s.store.Read(func(snap *Snapshot) {
		if i := snap.InvoiceIndex(invoiceID); i >= 0 {
			inv, found = snap.Invoices[i], true
		}
	})
	if !found {
		return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
	}
	return &inv, nil
}

func (s *billingService) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", apperrors.ErrValidation, status)
	}

	var updated domain.Invoice
	keys := []string{KeyInvoices, KeyTimeEntries, KeyExpenses, KeyMatters}
	err := s.store.Update(ctx, keys, func(snap *Snapshot) error {
		i := snap.InvoiceIndex(invoiceID)
		if i < 0 {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, invoiceID)
		}
		inv := snap.Invoices[i]
		if !inv.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: invoice %s cannot move from %s to %s", apperrors.ErrInvalidTransition, invoiceID, inv.Status, status)
		}
		inv.Status = status
		snap.Invoices[i] = inv
		if status == domain.InvoiceVoid {
			releaseSources(snap, inv)
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Invoice status updated", slog.String("invoice_id", invoiceID), slog.String("status", string(status)))
	return &updated, nil
}

// releaseSources returns a voided invoice's items to unbilled work. The
// matter is released only if no other live invoice covers it.
func releaseSources(snap *Snapshot, voided domain.Invoice) {
	markInvoiced(snap, voided.SourceIDs(), false)
	for _, other := range snap.Invoices {
		if other.ID != voided.ID && other.MatterID == voided.MatterID && other.Status != domain.InvoiceVoid {
			return
		}
	}
	if i := snap.MatterIndex(voided.MatterID); i >= 0 {
		snap.Matters[i].Financials.IsInvoiced = false
	}
}
