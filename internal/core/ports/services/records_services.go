package services

import (
	"context"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
)

type ExpenseSvc interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListRecordsParams) ([]domain.Expense, error)
}

type TimeEntrySvc interface {
	LogTime(ctx context.Context, req dto.CreateTimeEntryRequest) (*domain.TimeEntry, error)
	ListTimeEntries(ctx context.Context, params dto.ListRecordsParams) ([]domain.TimeEntry, error)
}

type CalendarSvc interface {
	// CreateEvent stores the event and, when requested, mirrors it to the
	// external calendar. A mirroring failure does not fail the call.
	CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*dto.EventResponse, error)
	ListEvents(ctx context.Context, params dto.ListRecordsParams) ([]domain.CalendarEvent, error)
}

type ClientSvc interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error)
	ListClients(ctx context.Context) ([]dto.ClientSummary, error)
}

// RecordsSvcFacade combines the ledger and CRM record services
type RecordsSvcFacade interface {
	ExpenseSvc
	TimeEntrySvc
	CalendarSvc
	ClientSvc
}
