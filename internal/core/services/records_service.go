package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
)

const defaultEventTime = "09:00"

type recordsService struct {
	BaseService
	store    *EntityStore
	ids      portsrepo.IDGenerator
	calendar portsrepo.CalendarSyncer
}

// NewRecordsService creates the service for expenses, time, calendar and CRM
// records. calendar may be nil, in which case events are kept locally only.
func NewRecordsService(store *EntityStore, ids portsrepo.IDGenerator, calendar portsrepo.CalendarSyncer, opts ...ServiceOption) portssvc.RecordsSvcFacade {
	cfg := newServiceConfig(opts)
	return &recordsService{
		BaseService: BaseService{now: cfg.now},
		store:       store,
		ids:         ids,
		calendar:    calendar,
	}
}

var _ portssvc.RecordsSvcFacade = (*recordsService)(nil)

func (s *recordsService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	category := cmp.Or(req.Category, domain.ExpenseMisc)
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown expense category %q", apperrors.ErrValidation, category)
	}
	if req.Date != "" && !domain.IsDate(req.Date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidation)
	}

	expense := domain.Expense{
		ID:             s.ids.NewID("EXP"),
		Date:           cmp.Or(req.Date, s.Today()),
		Category:       category,
		Amount:         req.Amount,
		Description:    strings.TrimSpace(req.Description),
		MatterID:       req.MatterID,
		IsReimbursable: req.IsReimbursable == nil || *req.IsReimbursable,
	}

	err := s.store.Update(ctx, []string{KeyExpenses}, func(snap *Snapshot) error {
		if expense.MatterID != "" && snap.MatterIndex(expense.MatterID) < 0 {
			return fmt.Errorf("%w: matter %s does not exist", apperrors.ErrValidation, expense.MatterID)
		}
		snap.Expenses = slices.Insert(snap.Expenses, 0, expense)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Expense recorded", slog.String("expense_id", expense.ID), slog.String("matter_id", expense.MatterID))
	return &expense, nil
}

func (s *recordsService) ListExpenses(ctx context.Context, params dto.ListRecordsParams) ([]domain.Expense, error) {
	out := []domain.Expense{}
	s.store.Read(func(snap *Snapshot) {
		for _, e := range snap.Expenses {
			if params.MatterID == "" || e.MatterID == params.MatterID {
				out = append(out, e)
			}
		}
	})
	return out, nil
}

func (s *recordsService) LogTime(ctx context.Context, req dto.CreateTimeEntryRequest) (*domain.TimeEntry, error) {
	if strings.TrimSpace(req.MatterID) == "" {
		return nil, fmt.Errorf("%w: matter_id is required", apperrors.ErrValidation)
	}
	if req.Date != "" && !domain.IsDate(req.Date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	if !req.Hours.IsPositive() {
		return nil, fmt.Errorf("%w: hours must be greater than zero", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}

	entry := domain.TimeEntry{
		ID:          s.ids.NewID("TIME"),
		MatterID:    req.MatterID,
		Date:        cmp.Or(req.Date, s.Today()),
		Hours:       req.Hours,
		Description: strings.TrimSpace(req.Description),
		LawyerName:  strings.TrimSpace(req.LawyerName),
	}

	err := s.store.Update(ctx, []string{KeyTimeEntries}, func(snap *Snapshot) error {
		i := snap.MatterIndex(entry.MatterID)
		if i < 0 {
			return fmt.Errorf("%w: matter %s", apperrors.ErrNotFound, entry.MatterID)
		}
		if entry.LawyerName == "" {
			entry.LawyerName = snap.Matters[i].TaskMetadata.LawyerAssigned
		}
		snap.TimeEntries = slices.Insert(snap.TimeEntries, 0, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Time logged", slog.String("time_id", entry.ID), slog.String("matter_id", entry.MatterID), slog.String("hours", entry.Hours.String()))
	return &entry, nil
}

func (s *recordsService) ListTimeEntries(ctx context.Context, params dto.ListRecordsParams) ([]domain.TimeEntry, error) {
	out := []domain.TimeEntry{}
	s.store.Read(func(snap *Snapshot) {
		for _, te := range snap.TimeEntries {
			if params.MatterID == "" || te.MatterID == params.MatterID {
				out = append(out, te)
			}
		}
	})
	return out, nil
}

func (s *recordsService) CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*dto.EventResponse, error) {
	if strings.TrimSpace(req.Title) == "" || req.Date == "" {
		return nil, fmt.Errorf("%w: title and date are required", apperrors.ErrValidation)
	}
	if !domain.IsDate(req.Date) {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	if req.Time != "" && !domain.IsClock(req.Time) {
		return nil, fmt.Errorf("%w: time must be HH:MM", apperrors.ErrValidation)
	}
	eventType := cmp.Or(req.Type, domain.EventCourt)
	if !eventType.IsValid() {
		return nil, fmt.Errorf("%w: unknown event type %q", apperrors.ErrValidation, eventType)
	}

	event := domain.CalendarEvent{
		ID:             s.ids.NewID("EVT"),
		Title:          strings.TrimSpace(req.Title),
		Type:           eventType,
		Date:           req.Date,
		Time:           cmp.Or(req.Time, defaultEventTime),
		MatterID:       req.MatterID,
		LawyerAssigned: req.LawyerAssigned,
		Description:    req.Description,
	}

	err := s.store.Update(ctx, []string{KeyEvents}, func(snap *Snapshot) error {
		if event.MatterID != "" && snap.MatterIndex(event.MatterID) < 0 {
			return fmt.Errorf("%w: matter %s does not exist", apperrors.ErrValidation, event.MatterID)
		}
		snap.Events = append(snap.Events, event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.EventResponse{Event: event}
	if req.SyncToGoogle {
		if s.calendar == nil {
			resp.SyncWarning = "external calendar is not configured"
		} else if externalID, err := s.calendar.PushEvent(ctx, event); err != nil {
			s.LogWarn(ctx, "Calendar sync failed", slog.String("event_id", event.ID), slog.String("error", err.Error()))
			resp.SyncWarning = err.Error()
		} else {
			resp.ExternalID = externalID
		}
	}
	s.LogInfo(ctx, "Event scheduled", slog.String("event_id", event.ID), slog.String("date", event.Date))
	return resp, nil
}

// ListEvents returns events in chronological order.
func (s *recordsService) ListEvents(ctx context.Context, params dto.ListRecordsParams) ([]domain.CalendarEvent, error) {
	out := []domain.CalendarEvent{}
	s.store.Read(func(snap *Snapshot) {
		for _, e := range snap.Events {
			if params.MatterID == "" || e.MatterID == params.MatterID {
				out = append(out, e)
			}
		}
	})
	slices.SortStableFunc(out, func(a, b domain.CalendarEvent) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
	})
	return out, nil
}

func (s *recordsService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	clientType := cmp.Or(req.Type, domain.ClientIndividual)
	if !clientType.IsValid() {
		return nil, fmt.Errorf("%w: unknown client type %q", apperrors.ErrValidation, clientType)
	}

	client := domain.Client{
		ID:        s.ids.NewID("CLT"),
		Name:      strings.TrimSpace(req.Name),
		Type:      clientType,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: s.Now(),
	}
	err := s.store.Update(ctx, []string{KeyClients}, func(snap *Snapshot) error {
		snap.Clients = slices.Insert(snap.Clients, 0, client)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Client added", slog.String("client_id", client.ID))
	return &client, nil
}

// ListClients returns clients with the number of matters filed under each
// client's exact name.
func (s *recordsService) ListClients(ctx context.Context) ([]dto.ClientSummary, error) {
	out := []dto.ClientSummary{}
	s.store.Read(func(snap *Snapshot) {
		counts := make(map[string]int, len(snap.Clients))
		for _, m := range snap.Matters {
			counts[m.TaskMetadata.ClientName]++
		}
		for _, c := range snap.Clients {
			out = append(out, dto.ClientSummary{Client: c, MatterCount: counts[c.Name]})
		}
	})
	return out, nil
}
