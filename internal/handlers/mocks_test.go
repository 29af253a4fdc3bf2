package handlers_test

import (
	"context"
	"io"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock WorkflowService ---
type MockWorkflowService struct {
	mock.Mock
}

func (m *MockWorkflowService) GetMatter(ctx context.Context, matterID string) (*domain.Matter, error) {
	args := m.Called(ctx, matterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Matter), args.Error(1)
}
func (m *MockWorkflowService) ListMatters(ctx context.Context, params dto.ListMattersParams) (*dto.ListMattersResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListMattersResponse), args.Error(1)
}
func (m *MockWorkflowService) Board(ctx context.Context, params dto.ListMattersParams) (*dto.BoardResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BoardResponse), args.Error(1)
}
func (m *MockWorkflowService) CreateMatter(ctx context.Context, req dto.CreateMatterRequest) (*domain.Matter, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Matter), args.Error(1)
}
func (m *MockWorkflowService) AddMatter(ctx context.Context, matter domain.Matter) (*domain.Matter, error) {
	args := m.Called(ctx, matter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Matter), args.Error(1)
}
func (m *MockWorkflowService) UpdateMatter(ctx context.Context, matterID string, req dto.UpdateMatterRequest) (*domain.Matter, error) {
	args := m.Called(ctx, matterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Matter), args.Error(1)
}
func (m *MockWorkflowService) MoveMatter(ctx context.Context, matterID string, stage domain.Stage) (*dto.MoveOutcome, error) {
	args := m.Called(ctx, matterID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MoveOutcome), args.Error(1)
}
func (m *MockWorkflowService) ApplyBulkStage(ctx context.Context, matterIDs []string, stage domain.Stage) ([]dto.BulkResult, error) {
	args := m.Called(ctx, matterIDs, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.BulkResult), args.Error(1)
}
func (m *MockWorkflowService) ApplyBulkLawyer(ctx context.Context, matterIDs []string, lawyer string) ([]dto.BulkResult, error) {
	args := m.Called(ctx, matterIDs, lawyer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.BulkResult), args.Error(1)
}

var _ portssvc.WorkflowSvcFacade = (*MockWorkflowService)(nil)

// --- Mock BillingService ---
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) ComputeWIP(ctx context.Context, matterID string) (*domain.WIPSummary, error) {
	args := m.Called(ctx, matterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WIPSummary), args.Error(1)
}
func (m *MockBillingService) ListWIP(ctx context.Context) ([]domain.WIPSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WIPSummary), args.Error(1)
}
func (m *MockBillingService) FinanceOverview(ctx context.Context) (*domain.FinanceOverview, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinanceOverview), args.Error(1)
}
func (m *MockBillingService) StartDraft(ctx context.Context, matterID string) (*domain.InvoiceDraft, error) {
	args := m.Called(ctx, matterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceDraft), args.Error(1)
}
func (m *MockBillingService) CalculateDraft(ctx context.Context, draft domain.InvoiceDraft) (*domain.DraftTotals, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DraftTotals), args.Error(1)
}
func (m *MockBillingService) FinalizeInvoice(ctx context.Context, draft domain.InvoiceDraft) (*domain.Invoice, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockBillingService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) ([]domain.Invoice, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}
func (m *MockBillingService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
func (m *MockBillingService) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

var _ portssvc.BillingSvcFacade = (*MockBillingService)(nil)

// --- Mock RecordsService ---
type MockRecordsService struct {
	mock.Mock
}

func (m *MockRecordsService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}
func (m *MockRecordsService) ListExpenses(ctx context.Context, params dto.ListRecordsParams) ([]domain.Expense, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}
func (m *MockRecordsService) LogTime(ctx context.Context, req dto.CreateTimeEntryRequest) (*domain.TimeEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}
func (m *MockRecordsService) ListTimeEntries(ctx context.Context, params dto.ListRecordsParams) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}
func (m *MockRecordsService) CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*dto.EventResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.EventResponse), args.Error(1)
}
func (m *MockRecordsService) ListEvents(ctx context.Context, params dto.ListRecordsParams) ([]domain.CalendarEvent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarEvent), args.Error(1)
}
func (m *MockRecordsService) CreateClient(ctx context.Context, req dto.CreateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockRecordsService) ListClients(ctx context.Context) ([]dto.ClientSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ClientSummary), args.Error(1)
}

var _ portssvc.RecordsSvcFacade = (*MockRecordsService)(nil)

// --- Mock IntakeService ---
type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) session(args mock.Arguments) (*domain.IntakeSession, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntakeSession), args.Error(1)
}
func (m *MockIntakeService) ProposeFromNarrative(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.IntakeSession, error) {
	return m.session(m.Called(ctx, narrative, image))
}
func (m *MockIntakeService) StartClassification(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.IntakeSession, error) {
	return m.session(m.Called(ctx, narrative, image))
}
func (m *MockIntakeService) ProposeFromJSON(ctx context.Context, payload string) (*domain.IntakeSession, error) {
	return m.session(m.Called(ctx, payload))
}
func (m *MockIntakeService) Session(ctx context.Context, sessionID string) (*domain.IntakeSession, error) {
	return m.session(m.Called(ctx, sessionID))
}
func (m *MockIntakeService) Commit(ctx context.Context, sessionID string) (*domain.Matter, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Matter), args.Error(1)
}
func (m *MockIntakeService) Cancel(ctx context.Context, sessionID string) (*domain.IntakeSession, error) {
	return m.session(m.Called(ctx, sessionID))
}

var _ portssvc.IntakeSvcFacade = (*MockIntakeService)(nil)

// --- Mock ViewRouter ---
type MockViewRouter struct {
	mock.Mock
}

func (m *MockViewRouter) Navigate(ctx context.Context, view domain.View, viewCtx domain.ViewContext) (*domain.ViewState, error) {
	args := m.Called(ctx, view, viewCtx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ViewState), args.Error(1)
}
func (m *MockViewRouter) Current(ctx context.Context) domain.ViewState {
	return m.Called(ctx).Get(0).(domain.ViewState)
}
func (m *MockViewRouter) ConsumeContext(ctx context.Context) domain.ViewContext {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(domain.ViewContext)
}
func (m *MockViewRouter) OfferHandoff(ctx context.Context, offer domain.HandoffOffer) domain.HandoffOffer {
	return m.Called(ctx, offer).Get(0).(domain.HandoffOffer)
}
func (m *MockViewRouter) PendingHandoffs(ctx context.Context) []domain.HandoffOffer {
	return m.Called(ctx).Get(0).([]domain.HandoffOffer)
}
func (m *MockViewRouter) ResolveHandoff(ctx context.Context, offerID string, accept bool) (*domain.ViewState, error) {
	args := m.Called(ctx, offerID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ViewState), args.Error(1)
}

var _ portssvc.ViewRouterSvc = (*MockViewRouter)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Summary(ctx context.Context) (*domain.PracticeSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PracticeSummary), args.Error(1)
}
func (m *MockReportingService) ExportWorkbook(ctx context.Context, w io.Writer) error {
	return m.Called(ctx, w).Error(0)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock SessionService ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}
func (m *MockSessionService) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockSessionService) Current(ctx context.Context) domain.Session {
	return m.Called(ctx).Get(0).(domain.Session)
}
func (m *MockSessionService) IsActive(ctx context.Context) bool {
	return m.Called(ctx).Bool(0)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)
