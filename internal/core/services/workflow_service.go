package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portsrepo "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/repositories"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const (
	defaultMatterPageSize = 50
	maxMatterPageSize     = 200
)

// completionPrompt is shown when a matter is dropped into Done.
const completionPrompt = "Matter %q completed. Would you like to finalize invoicing in the Finance Terminal?"

type workflowService struct {
	BaseService
	store *EntityStore
	ids   portsrepo.IDGenerator
	views portssvc.ViewRouterSvc
}

// NewWorkflowService creates the matter board service.
func NewWorkflowService(store *EntityStore, ids portsrepo.IDGenerator, views portssvc.ViewRouterSvc, opts ...ServiceOption) portssvc.WorkflowSvcFacade {
	cfg := newServiceConfig(opts)
	return &workflowService{
		BaseService: BaseService{now: cfg.now},
		store:       store,
		ids:         ids,
		views:       views,
	}
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

func (s *workflowService) GetMatter(ctx context.Context, matterID string) (*domain.Matter, error) {
	var (
		matter domain.Matter
		found  bool
	)
	s.store.Read(func(snap *Snapshot) {
		if i := snap.MatterIndex(matterID); i >= 0 {
			matter, found = snap.Matters[i], true
		}
	})
	if !found {
		return nil, fmt.Errorf("%w: matter %s", apperrors.ErrNotFound, matterID)
	}
	return &matter, nil
}

func (s *workflowService) ListMatters(ctx context.Context, params dto.ListMattersParams) (*dto.ListMattersResponse, error) {
	matters, err := s.filterAndSort(params)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultMatterPageSize
	}
	if limit > maxMatterPageSize {
		limit = maxMatterPageSize
	}

	fingerprint := pagination.Fingerprint(params.Search, string(params.BillingType), params.SortBy, params.SortOrder)
	offset := 0
	if params.NextToken != "" {
		offset, err = pagination.DecodeOffsetToken(params.NextToken, fingerprint)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	if offset > len(matters) {
		offset = len(matters)
	}

	end := min(offset+limit, len(matters))
	resp := &dto.ListMattersResponse{Matters: matters[offset:end]}
	if end < len(matters) {
		token := pagination.EncodeOffsetToken(end, fingerprint)
		resp.NextToken = &token
	}
	return resp, nil
}

func (s *workflowService) Board(ctx context.Context, params dto.ListMattersParams) (*dto.BoardResponse, error) {
	matters, err := s.filterAndSort(params)
	if err != nil {
		return nil, err
	}

	columns := make([]dto.BoardColumn, len(domain.Stages))
	for i, stage := range domain.Stages {
		columns[i] = dto.BoardColumn{Stage: stage, Matters: []domain.Matter{}}
	}
	for _, m := range matters {
		if i := slices.Index(domain.Stages, m.Workflow.Stage); i >= 0 {
			columns[i].Matters = append(columns[i].Matters, m)
		}
	}
	return &dto.BoardResponse{Columns: columns}, nil
}

// filterAndSort applies the dashboard's search box, billing filter and sort
// controls. Without a sort field the store order (newest first) is kept.
func (s *workflowService) filterAndSort(params dto.ListMattersParams) ([]domain.Matter, error) {
	if params.BillingType != "" && !params.BillingType.IsValid() {
		return nil, fmt.Errorf("%w: unknown billing type %q", apperrors.ErrValidation, params.BillingType)
	}
	desc := false
	switch strings.ToLower(params.SortOrder) {
	case "", "asc":
	case "desc":
		desc = true
	default:
		return nil, fmt.Errorf("%w: sort order must be asc or desc", apperrors.ErrValidation)
	}

	term := strings.ToLower(strings.TrimSpace(params.Search))
	var matters []domain.Matter
	s.store.Read(func(snap *Snapshot) {
		matters = make([]domain.Matter, 0, len(snap.Matters))
		for _, m := range snap.Matters {
			if term != "" &&
				!strings.Contains(strings.ToLower(m.TaskMetadata.Title), term) &&
				!strings.Contains(strings.ToLower(m.TaskMetadata.ClientName), term) &&
				!strings.Contains(strings.ToLower(m.ID), term) {
				continue
			}
			if params.BillingType != "" && m.Financials.BillingType != params.BillingType {
				continue
			}
			matters = append(matters, m)
		}
	})

	var compare func(a, b domain.Matter) int
	switch params.SortBy {
	case "":
		return matters, nil
	case dto.SortByTitle:
		compare = func(a, b domain.Matter) int {
			return cmp.Compare(strings.ToLower(a.TaskMetadata.Title), strings.ToLower(b.TaskMetadata.Title))
		}
	case dto.SortByDeadline:
		// Matters without a deadline sort as the earliest.
		compare = func(a, b domain.Matter) int {
			da, _ := a.DeadlineTime()
			db, _ := b.DeadlineTime()
			return da.Compare(db)
		}
	default:
		return nil, fmt.Errorf("%w: cannot sort by %q", apperrors.ErrValidation, params.SortBy)
	}

	slices.SortStableFunc(matters, func(a, b domain.Matter) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return matters, nil
}

func (s *workflowService) CreateMatter(ctx context.Context, req dto.CreateMatterRequest) (*domain.Matter, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}
	if req.SuggestedFee.IsNegative() || req.TrustBalance.IsNegative() {
		return nil, fmt.Errorf("%w: fee and trust balance cannot be negative", apperrors.ErrValidation)
	}

	matter := domain.Matter{
		ID:       s.ids.NewID("MTR"),
		RawInput: req.RawInput,
		TaskMetadata: domain.TaskMetadata{
			Title:          strings.TrimSpace(req.Title),
			Category:       cmp.Or(req.Category, domain.CategoryLegal),
			Priority:       cmp.Or(req.Priority, domain.PriorityMedium),
			CaseNumber:     req.CaseNumber,
			ClientName:     req.ClientName,
			LawyerAssigned: req.LawyerAssigned,
			Deadline:       req.Deadline,
		},
		Workflow: domain.Workflow{
			Stage:          domain.StageTodo,
			EstimatedHours: req.EstimatedHours,
			BillableHours:  decimal.Zero,
			IsBillable:     true,
		},
		Financials: domain.NewFinancials(req.SuggestedFee, cmp.Or(req.BillingType, domain.BillingFixed), req.TrustBalance),
		CreatedAt:  s.Now(),
	}
	if err := validateMatterEnums(matter); err != nil {
		return nil, err
	}
	if matter.RawInput == "" {
		matter.RawInput = "Manual Matter Entry"
	}

	return s.AddMatter(ctx, matter)
}

func (s *workflowService) AddMatter(ctx context.Context, matter domain.Matter) (*domain.Matter, error) {
	logger := s.GetLogger(ctx)
	if matter.ID == "" {
		matter.ID = s.ids.NewID("MTR")
	}
	if matter.CreatedAt.IsZero() {
		matter.CreatedAt = s.Now()
	}
	if err := validateMatterEnums(matter); err != nil {
		return nil, err
	}

	err := s.store.Update(ctx, []string{KeyMatters}, func(snap *Snapshot) error {
		if snap.MatterIndex(matter.ID) >= 0 {
			return fmt.Errorf("%w: matter %s", apperrors.ErrDuplicate, matter.ID)
		}
		snap.Matters = slices.Insert(snap.Matters, 0, matter)
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to add matter", slog.String("matter_id", matter.ID))
		return nil, err
	}

	logger.Info("Matter added", slog.String("matter_id", matter.ID), slog.String("stage", string(matter.Workflow.Stage)))
	return &matter, nil
}

func (s *workflowService) UpdateMatter(ctx context.Context, matterID string, req dto.UpdateMatterRequest) (*domain.Matter, error) {
	var updated domain.Matter
	err := s.store.Update(ctx, []string{KeyMatters}, func(snap *Snapshot) error {
		i := snap.MatterIndex(matterID)
		if i < 0 {
			return fmt.Errorf("%w: matter %s", apperrors.ErrNotFound, matterID)
		}
		m := snap.Matters[i]
		if err := applyMatterPatch(&m, req); err != nil {
			return err
		}
		snap.Matters[i] = m
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Matter updated", slog.String("matter_id", matterID))
	return &updated, nil
}

func applyMatterPatch(m *domain.Matter, req dto.UpdateMatterRequest) error {
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return fmt.Errorf("%w: title cannot be empty", apperrors.ErrValidation)
		}
		m.TaskMetadata.Title = strings.TrimSpace(*req.Title)
	}
	if req.ClientName != nil {
		m.TaskMetadata.ClientName = *req.ClientName
	}
	if req.CaseNumber != nil {
		m.TaskMetadata.CaseNumber = *req.CaseNumber
	}
	if req.LawyerAssigned != nil {
		m.TaskMetadata.LawyerAssigned = *req.LawyerAssigned
	}
	if req.Deadline != nil {
		m.TaskMetadata.Deadline = *req.Deadline
	}
	if req.Category != nil {
		m.TaskMetadata.Category = *req.Category
	}
	if req.Priority != nil {
		m.TaskMetadata.Priority = *req.Priority
	}
	if req.BillingType != nil {
		m.Financials.BillingType = *req.BillingType
	}
	if req.TrustBalance != nil {
		if req.TrustBalance.IsNegative() {
			return fmt.Errorf("%w: trust balance cannot be negative", apperrors.ErrValidation)
		}
		m.Financials.TrustBalance = *req.TrustBalance
	}
	if req.EstimatedHours != nil {
		m.Workflow.EstimatedHours = *req.EstimatedHours
	}
	if req.BillableHours != nil {
		m.Workflow.BillableHours = *req.BillableHours
	}
	if req.IsBillable != nil {
		m.Workflow.IsBillable = *req.IsBillable
	}
	if req.SuggestedFee != nil {
		if req.SuggestedFee.IsNegative() {
			return fmt.Errorf("%w: fee cannot be negative", apperrors.ErrValidation)
		}
		m.Financials.SuggestedFee = *req.SuggestedFee
		m.Financials.Rederive()
	}
	return validateMatterEnums(*m)
}

func validateMatterEnums(m domain.Matter) error {
	switch {
	case !m.TaskMetadata.Category.IsValid():
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidation, m.TaskMetadata.Category)
	case !m.TaskMetadata.Priority.IsValid():
		return fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, m.TaskMetadata.Priority)
	case !m.Workflow.Stage.IsValid():
		return fmt.Errorf("%w: unknown stage %q", apperrors.ErrValidation, m.Workflow.Stage)
	case !m.Financials.BillingType.IsValid():
		return fmt.Errorf("%w: unknown billing type %q", apperrors.ErrValidation, m.Financials.BillingType)
	}
	return nil
}

func (s *workflowService) MoveMatter(ctx context.Context, matterID string, stage domain.Stage) (*dto.MoveOutcome, error) {
	logger := s.GetLogger(ctx)
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: unknown stage %q", apperrors.ErrValidation, stage)
	}

	outcome := &dto.MoveOutcome{}
	err := s.store.Update(ctx, []string{KeyMatters}, func(snap *Snapshot) error {
		i := snap.MatterIndex(matterID)
		if i < 0 {
			return fmt.Errorf("%w: matter %s", apperrors.ErrNotFound, matterID)
		}
		if snap.Matters[i].Workflow.Stage == stage {
			outcome.Matter = snap.Matters[i]
			return errNoChange
		}
		snap.Matters[i].Workflow.Stage = stage
		outcome.Matter = snap.Matters[i]
		outcome.Changed = true
		return nil
	})
	if errors.Is(err, errNoChange) {
		logger.Debug("Matter already in stage", slog.String("matter_id", matterID), slog.String("stage", string(stage)))
		return outcome, nil
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Matter moved", slog.String("matter_id", matterID), slog.String("stage", string(stage)))

	if stage == domain.StageDone && s.views != nil {
		offer := s.views.OfferHandoff(ctx, domain.HandoffOffer{
			MatterID: matterID,
			Prompt:   fmt.Sprintf(completionPrompt, outcome.Matter.TaskMetadata.Title),
			Target:   domain.ViewFinancials,
			Context:  domain.ViewContext{"matter_id": matterID, "tab": "invoicing"},
		})
		outcome.Handoff = &offer
	}
	return outcome, nil
}

func (s *workflowService) ApplyBulkStage(ctx context.Context, matterIDs []string, stage domain.Stage) ([]dto.BulkResult, error) {
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: unknown stage %q", apperrors.ErrValidation, stage)
	}
	return s.applyBulk(ctx, matterIDs, func(m *domain.Matter) {
		m.Workflow.Stage = stage
	})
}

func (s *workflowService) ApplyBulkLawyer(ctx context.Context, matterIDs []string, lawyer string) ([]dto.BulkResult, error) {
	lawyer = strings.TrimSpace(lawyer)
	if lawyer == "" {
		return nil, fmt.Errorf("%w: lawyer is required", apperrors.ErrValidation)
	}
	return s.applyBulk(ctx, matterIDs, func(m *domain.Matter) {
		m.TaskMetadata.LawyerAssigned = lawyer
	})
}

// applyBulk updates each listed matter independently. Unknown ids are
// reported per id and do not stop the others.
func (s *workflowService) applyBulk(ctx context.Context, matterIDs []string, apply func(*domain.Matter)) ([]dto.BulkResult, error) {
	results := make([]dto.BulkResult, len(matterIDs))
	updated := 0
	err := s.store.Update(ctx, []string{KeyMatters}, func(snap *Snapshot) error {
		for n, id := range matterIDs {
			results[n] = dto.BulkResult{ID: id}
			i := snap.MatterIndex(id)
			if i < 0 {
				results[n].Error = apperrors.ErrNotFound.Error()
				continue
			}
			apply(&snap.Matters[i])
			results[n].Updated = true
			updated++
		}
		if updated == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil && !errors.Is(err, errNoChange) {
		return nil, err
	}
	s.LogInfo(ctx, "Bulk update applied", slog.Int("requested", len(matterIDs)), slog.Int("updated", updated))
	return results, nil
}
