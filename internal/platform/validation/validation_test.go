package validation_test

import (
	"testing"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validMatter() domain.Matter {
	return domain.Matter{
		ID: "MTR-1",
		TaskMetadata: domain.TaskMetadata{
			Title:    "Land title dispute",
			Category: domain.CategoryLegal,
			Priority: domain.PriorityHigh,
		},
		Workflow:   domain.Workflow{Stage: domain.StageTodo},
		Financials: domain.NewFinancials(decimal.NewFromInt(1000), domain.BillingFixed, decimal.Zero),
	}
}

func TestNew_AcceptsValidMatter(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Struct(validMatter()))
}

func TestNew_RejectsUnknownEnums(t *testing.T) {
	v := validation.New()

	m := validMatter()
	m.Workflow.Stage = "Archived"
	assert.Error(t, v.Struct(m))

	m = validMatter()
	m.Financials.BillingType = "Pro bono"
	assert.Error(t, v.Struct(m))

	m = validMatter()
	m.TaskMetadata.Title = ""
	assert.Error(t, v.Struct(m))
}

func TestNew_ValidatesLedgerRecords(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Struct(domain.Expense{ID: "EXP-1", Category: domain.ExpenseTravel}))
	assert.Error(t, v.Struct(domain.Expense{ID: "EXP-1", Category: "Food"}))
	assert.Error(t, v.Struct(domain.Invoice{ID: "INV-1", Status: "Overdue"}))
	assert.NoError(t, v.Struct(domain.Client{ID: "CLT-1", Type: domain.ClientGovernment}))
}
