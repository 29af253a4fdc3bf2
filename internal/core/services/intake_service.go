package services

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	manualIntakeRawInput   = "Manual Intake Entry"
	defaultIntakeTimeout   = 60 * time.Second
	defaultIntakeTTL       = 30 * time.Minute
	defaultIntakeCacheSize = 256
)

// IntakeConfig bounds classifier calls and session retention.
type IntakeConfig struct {
	Timeout    time.Duration
	SessionTTL time.Duration
	MaxEntries int
}

type intakeEntry struct {
	session domain.IntakeSession
	cancel  context.CancelFunc
	callCtx context.Context
	done    chan struct{}
}

type intakeService struct {
	BaseService
	classifier portsrepo.Classifier
	matters    portssvc.MatterWriterSvc
	ids        portsrepo.IDGenerator
	timeout    time.Duration

	mu       sync.Mutex
	sessions *expirable.LRU[string, *intakeEntry]
}

// NewIntakeService creates the propose-then-commit intake adapter.
// classifier may be nil, which leaves only the manual JSON path available.
func NewIntakeService(classifier portsrepo.Classifier, matters portssvc.MatterWriterSvc, ids portsrepo.IDGenerator, cfg IntakeConfig, opts ...ServiceOption) portssvc.IntakeSvcFacade {
	sc := newServiceConfig(opts)
	s := &intakeService{
		BaseService: BaseService{now: sc.now},
		classifier:  classifier,
		matters:     matters,
		ids:         ids,
		timeout:     cmp.Or(cfg.Timeout, defaultIntakeTimeout),
	}
	// An evicted session can no longer be committed, so stop its call.
	s.sessions = expirable.NewLRU[string, *intakeEntry](
		cmp.Or(cfg.MaxEntries, defaultIntakeCacheSize),
		func(_ string, e *intakeEntry) {
			if e.cancel != nil {
				e.cancel()
			}
		},
		cmp.Or(cfg.SessionTTL, defaultIntakeTTL),
	)
	return s
}

var _ portssvc.IntakeSvcFacade = (*intakeService)(nil)

func (s *intakeService) newEntry(source domain.IntakeSource) *intakeEntry {
	now := s.Now()
	return &intakeEntry{
		session: domain.IntakeSession{
			ID:        uuid.NewString(),
			Source:    source,
			State:     domain.IntakePending,
			CreatedAt: now,
			UpdatedAt: now,
		},
		done: make(chan struct{}),
	}
}

func (s *intakeService) ProposeFromNarrative(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.IntakeSession, error) {
	entry, err := s.start(ctx, narrative, image, false)
	if err != nil {
		return nil, err
	}

	select {
	case <-entry.done:
	case <-entry.callCtx.Done():
		reason := "classification timed out"
		if errors.Is(entry.callCtx.Err(), context.Canceled) {
			reason = "classification cancelled"
		}
		s.settle(entry, func(sess *domain.IntakeSession) {
			sess.State = domain.IntakeFailed
			sess.Failure = domain.FailureExtraction
			sess.Reason = reason
		})
	}

	session := s.copySession(entry)
	switch session.State {
	case domain.IntakeProposed:
		return &session, nil
	case domain.IntakeCancelled:
		return &session, nil
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExtraction, session.Reason)
	}
}

func (s *intakeService) StartClassification(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.IntakeSession, error) {
	entry, err := s.start(ctx, narrative, image, true)
	if err != nil {
		return nil, err
	}
	session := s.copySession(entry)
	return &session, nil
}

// start registers a Pending session and runs the classifier in the
// background. A detached call outlives the request that started it.
func (s *intakeService) start(ctx context.Context, narrative string, image *domain.ImageInput, detached bool) (*intakeEntry, error) {
	narrative = strings.TrimSpace(narrative)
	if narrative == "" && image == nil {
		return nil, fmt.Errorf("%w: a narrative or an image is required", apperrors.ErrValidation)
	}
	if s.classifier == nil {
		return nil, fmt.Errorf("%w: no classifier is configured", apperrors.ErrExtraction)
	}

	parent := ctx
	if detached {
		parent = context.WithoutCancel(ctx)
	}
	entry := s.newEntry(domain.SourceClassifier)
	entry.callCtx, entry.cancel = context.WithTimeout(parent, s.timeout)

	s.mu.Lock()
	s.sessions.Add(entry.session.ID, entry)
	s.mu.Unlock()

	s.LogInfo(ctx, "Intake classification started", slog.String("session_id", entry.session.ID), slog.Bool("has_image", image != nil))
	go s.classify(ctx, entry, narrative, image)
	return entry, nil
}

func (s *intakeService) classify(ctx context.Context, entry *intakeEntry, narrative string, image *domain.ImageInput) {
	logger := s.GetLogger(ctx).With(slog.String("session_id", entry.session.ID))

	result, err := s.classifier.Classify(entry.callCtx, narrative, image)
	if err == nil && result == nil {
		err = errors.New("classifier returned no result")
	}
	if err != nil {
		logger.Warn("Classification failed", slog.String("error", err.Error()))
		s.settle(entry, func(sess *domain.IntakeSession) {
			sess.State = domain.IntakeFailed
			sess.Failure = domain.FailureExtraction
			sess.Reason = err.Error()
		})
		return
	}

	candidate, err := s.candidateFromClassification(*result, narrative)
	if err != nil {
		logger.Warn("Classification output rejected", slog.String("error", err.Error()))
		s.settle(entry, func(sess *domain.IntakeSession) {
			sess.State = domain.IntakeFailed
			sess.Failure = domain.FailureExtraction
			sess.Reason = err.Error()
		})
		return
	}

	if s.settle(entry, func(sess *domain.IntakeSession) {
		sess.State = domain.IntakeProposed
		sess.Candidate = candidate
	}) {
		logger.Info("Intake candidate proposed", slog.String("matter_id", candidate.ID))
	}
}

// settle moves a Pending session to its outcome exactly once. It reports
// false when the session had already left Pending, e.g. after Cancel.
func (s *intakeService) settle(entry *intakeEntry, apply func(*domain.IntakeSession)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.session.State != domain.IntakePending {
		return false
	}
	apply(&entry.session)
	entry.session.UpdatedAt = s.Now()
	entry.cancel()
	close(entry.done)
	return true
}

func (s *intakeService) copySession(entry *intakeEntry) domain.IntakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := entry.session
	if session.Candidate != nil {
		candidate := *session.Candidate
		session.Candidate = &candidate
	}
	return session
}

func (s *intakeService) candidateFromClassification(c domain.Classification, narrative string) (*domain.Matter, error) {
	c.Workflow.Stage = cmp.Or(c.Workflow.Stage, domain.StageTodo)
	if strings.TrimSpace(c.TaskMetadata.Title) == "" {
		return nil, errors.New("classifier returned no title")
	}
	if c.Financials.SuggestedFee.IsNegative() || c.Financials.TrustBalance.IsNegative() {
		return nil, errors.New("classifier returned a negative amount")
	}
	candidate := domain.Matter{
		ID:           s.ids.NewID("MTR"),
		RawInput:     narrative,
		TaskMetadata: c.TaskMetadata,
		Workflow:     c.Workflow,
		Financials:   domain.NewFinancials(c.Financials.SuggestedFee, c.Financials.BillingType, c.Financials.TrustBalance),
		CreatedAt:    s.Now(),
	}
	if err := validateMatterEnums(candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (s *intakeService) ProposeFromJSON(ctx context.Context, payload string) (*domain.IntakeSession, error) {
	entry := s.newEntry(domain.SourceManualJSON)
	entry.cancel = func() {}

	candidate, err := s.candidateFromJSON(payload)
	if err != nil {
		entry.session.State = domain.IntakeFailed
		entry.session.Failure = domain.FailureFormat
		entry.session.Reason = err.Error()
		s.mu.Lock()
		s.sessions.Add(entry.session.ID, entry)
		s.mu.Unlock()
		s.LogWarn(ctx, "Manual intake rejected", slog.String("session_id", entry.session.ID), slog.String("error", err.Error()))
		return nil, err
	}

	entry.session.State = domain.IntakeProposed
	entry.session.Candidate = candidate
	close(entry.done)

	s.mu.Lock()
	s.sessions.Add(entry.session.ID, entry)
	s.mu.Unlock()

	s.LogInfo(ctx, "Manual intake proposed", slog.String("session_id", entry.session.ID), slog.String("matter_id", candidate.ID))
	session := s.copySession(entry)
	return &session, nil
}

// candidateFromJSON builds a candidate from a manually typed matter. Tax and
// total are always recomputed from the fee; an id in the payload is ignored.
func (s *intakeService) candidateFromJSON(payload string) (*domain.Matter, error) {
	var parsed domain.Matter
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFormat, err)
	}
	if strings.TrimSpace(parsed.TaskMetadata.Title) == "" {
		return nil, fmt.Errorf("%w: task_metadata.title is required", apperrors.ErrValidation)
	}
	if parsed.Financials.SuggestedFee.IsNegative() || parsed.Financials.TrustBalance.IsNegative() {
		return nil, fmt.Errorf("%w: amounts cannot be negative", apperrors.ErrValidation)
	}

	candidate := domain.Matter{
		ID:       s.ids.NewID("MTR"),
		RawInput: cmp.Or(parsed.RawInput, manualIntakeRawInput),
		TaskMetadata: domain.TaskMetadata{
			Title:          strings.TrimSpace(parsed.TaskMetadata.Title),
			Category:       cmp.Or(parsed.TaskMetadata.Category, domain.CategoryLegal),
			Priority:       cmp.Or(parsed.TaskMetadata.Priority, domain.PriorityMedium),
			CaseNumber:     parsed.TaskMetadata.CaseNumber,
			ClientName:     parsed.TaskMetadata.ClientName,
			LawyerAssigned: parsed.TaskMetadata.LawyerAssigned,
			Deadline:       parsed.TaskMetadata.Deadline,
		},
		Workflow: parsed.Workflow,
		Financials: domain.NewFinancials(
			parsed.Financials.SuggestedFee,
			cmp.Or(parsed.Financials.BillingType, domain.BillingFixed),
			parsed.Financials.TrustBalance,
		),
		CreatedAt: s.Now(),
	}
	candidate.Workflow.Stage = cmp.Or(candidate.Workflow.Stage, domain.StageTodo)
	if err := validateMatterEnums(candidate); err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (s *intakeService) lookup(sessionID string) (*intakeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: intake session %s", apperrors.ErrNotFound, sessionID)
	}
	return entry, nil
}

func (s *intakeService) Session(ctx context.Context, sessionID string) (*domain.IntakeSession, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	session := s.copySession(entry)
	return &session, nil
}

func (s *intakeService) Commit(ctx context.Context, sessionID string) (*domain.Matter, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session := s.copySession(entry)
	if session.State != domain.IntakeProposed || session.Candidate == nil {
		return nil, fmt.Errorf("%w: intake session %s is %s", apperrors.ErrInvalidTransition, sessionID, session.State)
	}

	matter, err := s.matters.AddMatter(ctx, *session.Candidate)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	entry.session.State = domain.IntakeCommitted
	entry.session.UpdatedAt = s.Now()
	s.mu.Unlock()

	s.LogInfo(ctx, "Intake committed", slog.String("session_id", sessionID), slog.String("matter_id", matter.ID))
	return matter, nil
}

func (s *intakeService) Cancel(ctx context.Context, sessionID string) (*domain.IntakeSession, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	switch entry.session.State {
	case domain.IntakePending:
		entry.session.State = domain.IntakeCancelled
		entry.session.Failure = domain.FailureCancelled
		entry.session.UpdatedAt = s.Now()
		entry.cancel()
		close(entry.done)
	case domain.IntakeProposed:
		entry.session.State = domain.IntakeCancelled
		entry.session.Candidate = nil
		entry.session.UpdatedAt = s.Now()
	default:
		state := entry.session.State
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: intake session %s is %s", apperrors.ErrInvalidTransition, sessionID, state)
	}
	s.mu.Unlock()

	s.LogInfo(ctx, "Intake cancelled", slog.String("session_id", sessionID))
	session := s.copySession(entry)
	return &session, nil
}
