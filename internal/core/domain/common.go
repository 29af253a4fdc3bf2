package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of minor-unit digits for Kina amounts.
const MoneyPrecision = 2

// DateLayout is the calendar-date format used by every persisted date field.
const DateLayout = "2006-01-02"

// ClockLayout is the time-of-day format for calendar events.
const ClockLayout = "15:04"

// IsDate reports whether s is a calendar date in DateLayout.
func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClock reports whether s is a time of day in ClockLayout.
func IsClock(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

var (
	// GSTRate is the flat PNG goods and services tax applied to billed amounts.
	GSTRate = decimal.RequireFromString("0.10")

	// DefaultHourlyRate is the firm-wide rate used when no per-lawyer rate is configured.
	DefaultHourlyRate = decimal.NewFromInt(350)
)

// RoundMoney rounds an amount to the currency's minor unit.
// Amounts handled here are non-negative, so decimal's half-away-from-zero
// rounding is the same as round-half-up.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPrecision)
}

// TaxOn returns the GST owed on a subtotal, rounded to the minor unit.
func TaxOn(subtotal decimal.Decimal) decimal.Decimal {
	return RoundMoney(subtotal.Mul(GSTRate))
}

// RateCard resolves the hourly rate for a lawyer.
type RateCard struct {
	Default   decimal.Decimal
	PerLawyer map[string]decimal.Decimal
}

// NewRateCard builds a rate card, falling back to DefaultHourlyRate when def is zero.
func NewRateCard(def decimal.Decimal, perLawyer map[string]decimal.Decimal) RateCard {
	if def.IsZero() {
		def = DefaultHourlyRate
	}
	normalized := make(map[string]decimal.Decimal, len(perLawyer))
	for name, rate := range perLawyer {
		normalized[strings.ToLower(strings.TrimSpace(name))] = rate
	}
	return RateCard{Default: def, PerLawyer: normalized}
}

// RateFor returns the configured rate for the lawyer, or the firm default.
func (r RateCard) RateFor(lawyer string) decimal.Decimal {
	if rate, ok := r.PerLawyer[strings.ToLower(strings.TrimSpace(lawyer))]; ok {
		return rate
	}
	if r.Default.IsZero() {
		return DefaultHourlyRate
	}
	return r.Default
}

// ValueOf prices a time entry with the card.
func (r RateCard) ValueOf(entry TimeEntry) decimal.Decimal {
	return RoundMoney(entry.Hours.Mul(r.RateFor(entry.LawyerName)))
}
