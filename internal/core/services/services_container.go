package services

import (
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The store must already be loaded.
func NewServiceContainer(cfg *config.Config, store *EntityStore, repos portsrepo.RepositoryProvider, opts ...ServiceOption) *portssvc.ServiceContainer {
	opts = append([]ServiceOption{WithRateCard(domain.NewRateCard(cfg.DefaultHourlyRate, cfg.LawyerRates))}, opts...)

	container := &portssvc.ServiceContainer{}

	// The router is shared so hand-offs raised by the workflow reach the same view state.
	container.Views = NewViewRouter(opts...)
	container.Workflow = NewWorkflowService(store, repos.IDs, container.Views, opts...)
	container.Billing = NewBillingService(store, repos.IDs, opts...)
	container.Records = NewRecordsService(store, repos.IDs, repos.Calendar, opts...)
	container.Reporting = NewReportingService(store, opts...)
	container.Session = NewSessionService(store, TokenConfig{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiryDuration,
		Issuer: cfg.JWTIssuer,
	}, opts...)
	container.Intake = NewIntakeService(repos.Classifier, container.Workflow, repos.IDs, IntakeConfig{
		Timeout:    cfg.IntakeTimeout,
		SessionTTL: cfg.IntakeSessionTTL,
	}, opts...)

	return container
}
