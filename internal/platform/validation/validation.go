// Package validation registers the enum checks shared by request binding and
// load-time validation of persisted collections.
package validation

import (
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type enum interface {
	~string
	IsValid() bool
}

func enumRule[T enum]() validator.Func {
	return func(fl validator.FieldLevel) bool {
		return T(fl.Field().String()).IsValid()
	}
}

var rules = map[string]validator.Func{
	"matter_stage":     enumRule[domain.Stage](),
	"matter_category":  enumRule[domain.Category](),
	"matter_priority":  enumRule[domain.Priority](),
	"billing_type":     enumRule[domain.BillingType](),
	"expense_category": enumRule[domain.ExpenseCategory](),
	"invoice_status":   enumRule[domain.InvoiceStatus](),
	"event_type":       enumRule[domain.EventType](),
	"client_type":      enumRule[domain.ClientType](),
	"app_view":         enumRule[domain.View](),
}

// Register adds the enum rules to v.
func Register(v *validator.Validate) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// New returns a validator reading `validate` struct tags with the enum rules registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = Register(v)
	return v
}

// RegisterWithGin adds the enum rules to gin's binding validator so request
// DTOs can use them in `binding` tags.
func RegisterWithGin() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return Register(v)
	}
	return nil
}
