package domain_test

import (
	"testing"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewFinancials_DerivesTaxAndTotal(t *testing.T) {
	tests := []struct {
		name      string
		fee       string
		wantTax   string
		wantTotal string
	}{
		{name: "whole kina fee", fee: "5000", wantTax: "500", wantTotal: "5500"},
		{name: "zero fee", fee: "0", wantTax: "0", wantTotal: "0"},
		{name: "fee needing rounding up", fee: "10.05", wantTax: "1.01", wantTotal: "11.06"},
		{name: "fee needing rounding down", fee: "10.04", wantTax: "1", wantTotal: "11.04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := domain.NewFinancials(decimal.RequireFromString(tt.fee), domain.BillingFixed, decimal.Zero)
			assert.True(t, decimal.RequireFromString(tt.wantTax).Equal(f.TaxAmount), "tax %s", f.TaxAmount)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(f.TotalInclusive), "total %s", f.TotalInclusive)
			assert.Equal(t, domain.BillingFixed, f.BillingType)
		})
	}
}

func TestRateCard_RateFor(t *testing.T) {
	card := domain.NewRateCard(decimal.Zero, map[string]decimal.Decimal{
		" Jane Doe ": decimal.NewFromInt(500),
	})

	assert.True(t, domain.DefaultHourlyRate.Equal(card.RateFor("Someone Else")))
	assert.True(t, decimal.NewFromInt(500).Equal(card.RateFor("jane doe")))

	entry := domain.TimeEntry{Hours: decimal.RequireFromString("1.5"), LawyerName: "Jane Doe"}
	assert.True(t, decimal.NewFromInt(750).Equal(card.ValueOf(entry)))
}

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to domain.InvoiceStatus
		want     bool
	}{
		{domain.InvoiceStatusDraft, domain.InvoiceSent, true},
		{domain.InvoiceStatusDraft, domain.InvoiceVoid, true},
		{domain.InvoiceStatusDraft, domain.InvoicePaid, false},
		{domain.InvoiceSent, domain.InvoicePaid, true},
		{domain.InvoiceSent, domain.InvoiceVoid, true},
		{domain.InvoicePaid, domain.InvoiceVoid, false},
		{domain.InvoiceVoid, domain.InvoiceSent, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEnums_IsValid(t *testing.T) {
	assert.True(t, domain.StageWaiting.IsValid())
	assert.False(t, domain.Stage("Archived").IsValid())
	assert.True(t, domain.ExpenseCourtFees.IsValid())
	assert.False(t, domain.ExpenseCategory("Food").IsValid())
	assert.True(t, domain.ViewFinancials.IsValid())
	assert.False(t, domain.View("settings").IsValid())
	assert.False(t, domain.BillingType("").IsValid())
}

func TestMatter_DeadlineTime(t *testing.T) {
	m := domain.Matter{TaskMetadata: domain.TaskMetadata{Deadline: "2024-03-01"}}
	d, ok := m.DeadlineTime()
	assert.True(t, ok)
	assert.Equal(t, 2024, d.Year())

	m.TaskMetadata.Deadline = "next week"
	_, ok = m.DeadlineTime()
	assert.False(t, ok)
}

func TestInvoice_SourceIDs(t *testing.T) {
	inv := domain.Invoice{Items: []domain.InvoiceItem{
		{Description: "Professional Services - Lease", Type: domain.LineProfessionalServices},
		{Description: "2h: Drafting", Type: domain.LineProfessionalServices, SourceID: "TIME-1"},
		{Description: "Filing fee", Type: domain.LineDisbursement, SourceID: "EXP-1"},
	}}
	assert.Equal(t, []string{"TIME-1", "EXP-1"}, inv.SourceIDs())
}
