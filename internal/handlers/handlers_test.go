package handlers_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/cmd/docs"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/handlers"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/config"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/metrics"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/platform/validation"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "test-secret-key-that-is-long-enough"
	testEmail  = "ruth@sasingian.law"
)

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine

	workflow  *MockWorkflowService
	billing   *MockBillingService
	records   *MockRecordsService
	intake    *MockIntakeService
	views     *MockViewRouter
	reporting *MockReportingService
	sessions  *MockSessionService
}

func (s *HandlersTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(validation.RegisterWithGin())
}

func (s *HandlersTestSuite) SetupTest() {
	s.workflow = new(MockWorkflowService)
	s.billing = new(MockBillingService)
	s.records = new(MockRecordsService)
	s.intake = new(MockIntakeService)
	s.views = new(MockViewRouter)
	s.reporting = new(MockReportingService)
	s.sessions = new(MockSessionService)

	reg := prometheus.NewRegistry()
	cfg := &config.Config{JWTSecret: testSecret, IsProduction: true}
	container := &portssvc.ServiceContainer{
		Workflow:  s.workflow,
		Billing:   s.billing,
		Records:   s.records,
		Views:     s.views,
		Intake:    s.intake,
		Reporting: s.reporting,
		Session:   s.sessions,
	}

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, container, handlers.RouteDeps{
		Metrics: metrics.NewWithRegistry(reg, reg),
	})
}

// loggedIn makes the session service report an active session for testEmail.
func (s *HandlersTestSuite) loggedIn() {
	s.sessions.On("Current", mock.Anything).Return(domain.Session{
		IsLoggedIn: true,
		User:       &domain.SessionUser{Name: "Ruth Sasingian", Email: testEmail, Role: "Partner"},
	})
}

func (s *HandlersTestSuite) generateTestToken(subject string) string {
	token, err := utils.GenerateJWT(subject, testSecret, time.Hour, "legalos-test")
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

// do serves a request, authenticated unless anonymous is set.
func (s *HandlersTestSuite) do(method, path, body string, anonymous ...bool) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(anonymous) == 0 || !anonymous[0] {
		req.Header.Set("Authorization", "Bearer "+s.generateTestToken(testEmail))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func (s *HandlersTestSuite) TestHealth_IsPublic() {
	s.sessions.On("IsActive", mock.Anything).Return(false).Once()

	w := s.do(http.MethodGet, "/health", "", true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok","session_active":false}`, w.Body.String())
}

func (s *HandlersTestSuite) TestAPI_RequiresToken() {
	w := s.do(http.MethodGet, "/api/v1/matters", "", true)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.workflow.AssertNotCalled(s.T(), "ListMatters", mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestAPI_RejectsTokenAfterLogout() {
	s.sessions.On("Current", mock.Anything).Return(domain.Session{})

	w := s.do(http.MethodGet, "/api/v1/matters", "")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlersTestSuite) TestLogin_Success() {
	resp := &dto.LoginResponse{
		Token:     "signed",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      domain.SessionUser{Name: "Ruth Sasingian", Email: testEmail, Role: "Partner"},
	}
	s.sessions.On("Login", mock.Anything, dto.LoginRequest{Name: "Ruth Sasingian", Email: testEmail}).Return(resp, nil).Once()

	w := s.do(http.MethodPost, "/auth/login", `{"name":"Ruth Sasingian","email":"ruth@sasingian.law"}`, true)

	s.Equal(http.StatusOK, w.Code)
	var body dto.LoginResponse
	s.decode(w, &body)
	s.Equal("signed", body.Token)
	s.sessions.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestLogin_InvalidBody() {
	w := s.do(http.MethodPost, "/auth/login", `{"name":"Ruth","email":"not-an-email"}`, true)
	s.Equal(http.StatusBadRequest, w.Code)
	s.sessions.AssertNotCalled(s.T(), "Login", mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestLogout() {
	s.loggedIn()
	s.sessions.On("Logout", mock.Anything).Return(nil).Once()

	w := s.do(http.MethodPost, "/api/v1/auth/logout", "")
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlersTestSuite) TestMoveMatter_ToDoneReturnsHandoff() {
	s.loggedIn()
	outcome := &dto.MoveOutcome{
		Matter:  domain.Matter{ID: "MTR-1", Workflow: domain.Workflow{Stage: domain.StageDone}},
		Changed: true,
		Handoff: &domain.HandoffOffer{ID: "offer-1", MatterID: "MTR-1", Target: domain.ViewFinancials},
	}
	s.workflow.On("MoveMatter", mock.Anything, "MTR-1", domain.StageDone).Return(outcome, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/matters/MTR-1/move", `{"stage":"Done"}`)

	s.Equal(http.StatusOK, w.Code)
	var body dto.MoveOutcome
	s.decode(w, &body)
	s.True(body.Changed)
	s.Require().NotNil(body.Handoff)
	s.Equal(domain.ViewFinancials, body.Handoff.Target)

	scrape := s.do(http.MethodGet, "/metrics", "", true)
	s.Contains(scrape.Body.String(), `legalos_matters_moved_total{stage="Done"} 1`)
}

func (s *HandlersTestSuite) TestMoveMatter_UnknownStage() {
	s.loggedIn()

	w := s.do(http.MethodPost, "/api/v1/matters/MTR-1/move", `{"stage":"Archived"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.workflow.AssertNotCalled(s.T(), "MoveMatter", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestMoveMatter_NotFound() {
	s.loggedIn()
	s.workflow.On("MoveMatter", mock.Anything, "MTR-404", domain.StageWaiting).
		Return(nil, fmt.Errorf("%w: matter MTR-404", apperrors.ErrNotFound)).Once()

	w := s.do(http.MethodPost, "/api/v1/matters/MTR-404/move", `{"stage":"Waiting on Client"}`)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlersTestSuite) TestBulkStage() {
	s.loggedIn()
	results := []dto.BulkResult{{ID: "MTR-1", Updated: true}, {ID: "MTR-9", Error: "not found"}}
	s.workflow.On("ApplyBulkStage", mock.Anything, []string{"MTR-1", "MTR-9"}, domain.StageInProgress).Return(results, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/matters/bulk/stage", `{"ids":["MTR-1","MTR-9"],"stage":"In Progress"}`)

	s.Equal(http.StatusOK, w.Code)
	var body dto.BulkResponse
	s.decode(w, &body)
	s.Equal(results, body.Results)
}

func (s *HandlersTestSuite) TestListMatters_ServiceFailureIsHidden() {
	s.loggedIn()
	s.workflow.On("ListMatters", mock.Anything, mock.Anything).Return(nil, errors.New("disk on fire")).Once()

	w := s.do(http.MethodGet, "/api/v1/matters?search=kila", "")

	s.Equal(http.StatusInternalServerError, w.Code)
	s.NotContains(w.Body.String(), "disk on fire")
}

func (s *HandlersTestSuite) TestFinalizeInvoice() {
	s.loggedIn()
	invoice := &domain.Invoice{ID: "INV-1", MatterID: "MTR-1", Total: decimal.RequireFromString("1980"), Status: domain.InvoiceSent}
	s.billing.On("FinalizeInvoice", mock.Anything, mock.MatchedBy(func(d domain.InvoiceDraft) bool {
		return d.MatterID == "MTR-1" && d.AdjustedFee.Equal(decimal.RequireFromString("1000")) && len(d.SelectedTimeIDs) == 1
	})).Return(invoice, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/billing/invoices", `{"matter_id":"MTR-1","adjusted_fee":1000,"selected_time_ids":["TIME-2"]}`)

	s.Equal(http.StatusCreated, w.Code)
	var body domain.Invoice
	s.decode(w, &body)
	s.Equal("INV-1", body.ID)
	s.Equal(domain.InvoiceSent, body.Status)
}

func (s *HandlersTestSuite) TestUpdateInvoiceStatus_Conflict() {
	s.loggedIn()
	s.billing.On("UpdateInvoiceStatus", mock.Anything, "INV-1", domain.InvoiceVoid).
		Return(nil, fmt.Errorf("%w: Paid to Void", apperrors.ErrInvalidTransition)).Once()

	w := s.do(http.MethodPatch, "/api/v1/invoices/INV-1/status", `{"status":"Void"}`)
	s.Equal(http.StatusConflict, w.Code)
}

func (s *HandlersTestSuite) TestCreateExpense() {
	s.loggedIn()
	expense := &domain.Expense{ID: "EXP-1", Amount: decimal.RequireFromString("45.5"), Description: "Taxi"}
	s.records.On("CreateExpense", mock.Anything, mock.MatchedBy(func(r dto.CreateExpenseRequest) bool {
		return r.Description == "Taxi" && r.Category == domain.ExpenseTravel
	})).Return(expense, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/expenses", `{"amount":45.5,"description":"Taxi","category":"Travel & Transport"}`)

	s.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *HandlersTestSuite) TestCreateRecords_RejectMalformedDates() {
	s.loggedIn()
	tests := []struct {
		path string
		body string
	}{
		{"/api/v1/expenses", `{"amount":10,"description":"Taxi","date":"20/05/2024"}`},
		{"/api/v1/time-entries", `{"matter_id":"MTR-1","hours":1,"description":"Call","date":"yesterday"}`},
		{"/api/v1/time-entries", `{"hours":1,"description":"Call"}`},
		{"/api/v1/events", `{"title":"Mention","date":"2024-13-01"}`},
		{"/api/v1/events", `{"title":"Mention","date":"2024-06-01","time":"9am"}`},
	}
	for _, tt := range tests {
		w := s.do(http.MethodPost, tt.path, tt.body)
		s.Equal(http.StatusBadRequest, w.Code, tt.body)
	}
	s.records.AssertNotCalled(s.T(), "CreateExpense", mock.Anything, mock.Anything)
	s.records.AssertNotCalled(s.T(), "LogTime", mock.Anything, mock.Anything)
	s.records.AssertNotCalled(s.T(), "CreateEvent", mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestSwaggerPathsMatchRoutes() {
	var spec struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	s.Require().NoError(json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &spec))
	s.Require().NotEmpty(spec.Paths)

	registered := map[string]bool{}
	for _, route := range s.router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	params := strings.NewReplacer("{", ":", "}", "")
	for path, ops := range spec.Paths {
		full := strings.TrimSuffix(spec.BasePath, "/") + params.Replace(path)
		for method := range ops {
			key := strings.ToUpper(method) + " " + full
			s.True(registered[key], "documented route %s is not mounted", key)
		}
	}
}

func (s *HandlersTestSuite) TestClassify_Async() {
	s.loggedIn()
	session := &domain.IntakeSession{ID: "sess-1", Source: domain.SourceClassifier, State: domain.IntakePending}
	s.intake.On("StartClassification", mock.Anything, "Boundary dispute", (*domain.ImageInput)(nil)).Return(session, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/intake/classify", `{"narrative":"Boundary dispute","async":true}`)

	s.Equal(http.StatusAccepted, w.Code)
	var body domain.IntakeSession
	s.decode(w, &body)
	s.Equal(domain.IntakePending, body.State)
}

func (s *HandlersTestSuite) TestClassify_DecodesDataURL() {
	s.loggedIn()
	payload := base64.StdEncoding.EncodeToString([]byte("%PDF-1.7"))
	s.intake.On("ProposeFromNarrative", mock.Anything, "", mock.MatchedBy(func(img *domain.ImageInput) bool {
		return img != nil && img.MimeType == "application/pdf" && string(img.Data) == "%PDF-1.7"
	})).Return(&domain.IntakeSession{ID: "sess-2", State: domain.IntakeProposed}, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/intake/classify", `{"image_base64":"data:application/pdf;base64,`+payload+`"}`)

	s.Equal(http.StatusOK, w.Code)
	s.intake.AssertExpectations(s.T())
}

func (s *HandlersTestSuite) TestClassify_RejectsUnsupportedImage() {
	s.loggedIn()

	w := s.do(http.MethodPost, "/api/v1/intake/classify", `{"image_base64":"aGVsbG8=","image_mime_type":"text/plain"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.intake.AssertNotCalled(s.T(), "ProposeFromNarrative", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestClassify_ExtractionFailure() {
	s.loggedIn()
	s.intake.On("ProposeFromNarrative", mock.Anything, "Boundary dispute", mock.Anything).
		Return(nil, fmt.Errorf("%w: classification timed out", apperrors.ErrExtraction)).Once()

	w := s.do(http.MethodPost, "/api/v1/intake/classify", `{"narrative":"Boundary dispute"}`)

	s.Equal(http.StatusBadGateway, w.Code)
	s.Contains(w.Body.String(), "classification timed out")
}

func (s *HandlersTestSuite) TestCommitIntake() {
	s.loggedIn()
	s.intake.On("Commit", mock.Anything, "sess-1").Return(&domain.Matter{ID: "MTR-3"}, nil).Once()
	s.intake.On("Session", mock.Anything, "sess-1").
		Return(&domain.IntakeSession{ID: "sess-1", Source: domain.SourceManualJSON, State: domain.IntakeCommitted}, nil).Maybe()

	w := s.do(http.MethodPost, "/api/v1/intake/sessions/sess-1/commit", "")

	s.Equal(http.StatusCreated, w.Code)
	var body domain.Matter
	s.decode(w, &body)
	s.Equal("MTR-3", body.ID)
}

func (s *HandlersTestSuite) TestConsumeContext_EmptyIsObject() {
	s.loggedIn()
	s.views.On("ConsumeContext", mock.Anything).Return(nil).Once()

	w := s.do(http.MethodPost, "/api/v1/views/context/consume", "")

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{}`, w.Body.String())
}

func (s *HandlersTestSuite) TestResolveHandoff_Decline() {
	s.loggedIn()
	s.views.On("ResolveHandoff", mock.Anything, "offer-1", false).Return(nil, nil).Once()

	w := s.do(http.MethodPost, "/api/v1/views/handoffs/offer-1", `{"accept":false}`)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"accepted":false}`, w.Body.String())
}

func (s *HandlersTestSuite) TestNavigate_UnknownView() {
	s.loggedIn()

	w := s.do(http.MethodPost, "/api/v1/views/navigate", `{"view":"settings"}`)

	s.Equal(http.StatusBadRequest, w.Code)
	s.views.AssertNotCalled(s.T(), "Navigate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *HandlersTestSuite) TestExportWorkbook() {
	s.loggedIn()
	s.reporting.On("ExportWorkbook", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_, _ = args.Get(1).(io.Writer).Write([]byte("PK\x03\x04"))
		}).Return(nil).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/export", "")

	s.Equal(http.StatusOK, w.Code)
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), `attachment; filename="legalos-`)
	s.Equal("PK\x03\x04", w.Body.String())
}

func (s *HandlersTestSuite) TestExportWorkbook_FailureIsJSON() {
	s.loggedIn()
	s.reporting.On("ExportWorkbook", mock.Anything, mock.Anything).Return(errors.New("zip failed")).Once()

	w := s.do(http.MethodGet, "/api/v1/reports/export", "")

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Empty(w.Header().Get("Content-Disposition"))
	s.JSONEq(`{"error":"Failed to export workbook"}`, w.Body.String())
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
