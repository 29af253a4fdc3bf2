package services

import (
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// ServiceOption configures the shared parts of a service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	now   func() time.Time
	rates domain.RateCard
}

func newServiceConfig(opts []ServiceOption) serviceConfig {
	cfg := serviceConfig{rates: domain.NewRateCard(domain.DefaultHourlyRate, nil)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(c *serviceConfig) {
		c.now = now
	}
}

// WithRateCard sets the hourly rates used to value time entries.
func WithRateCard(rates domain.RateCard) ServiceOption {
	return func(c *serviceConfig) {
		c.rates = rates
	}
}
