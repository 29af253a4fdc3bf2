package services

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/google/uuid"
)

type viewRouter struct {
	BaseService
	mu      sync.Mutex
	current domain.View
	context domain.ViewContext
	offers  []domain.HandoffOffer
}

// NewViewRouter creates a router positioned on the dashboard.
func NewViewRouter(opts ...ServiceOption) portssvc.ViewRouterSvc {
	cfg := newServiceConfig(opts)
	return &viewRouter{
		BaseService: BaseService{now: cfg.now},
		current:     domain.ViewDashboard,
	}
}

var _ portssvc.ViewRouterSvc = (*viewRouter)(nil)

func (r *viewRouter) Navigate(ctx context.Context, view domain.View, viewCtx domain.ViewContext) (*domain.ViewState, error) {
	if !view.IsValid() {
		return nil, fmt.Errorf("%w: unknown view %q", apperrors.ErrValidation, view)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.navigateLocked(ctx, view, viewCtx), nil
}

func (r *viewRouter) navigateLocked(ctx context.Context, view domain.View, viewCtx domain.ViewContext) *domain.ViewState {
	r.current = view
	r.context = maps.Clone(viewCtx)
	r.LogDebug(ctx, "View changed", slog.String("view", string(view)))
	return &domain.ViewState{View: view, Context: maps.Clone(viewCtx)}
}

func (r *viewRouter) Current(ctx context.Context) domain.ViewState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.ViewState{View: r.current, Context: maps.Clone(r.context)}
}

func (r *viewRouter) ConsumeContext(ctx context.Context) domain.ViewContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	viewCtx := r.context
	r.context = nil
	return viewCtx
}

// OfferHandoff registers offer as the one pending prompt. An unanswered
// earlier offer is dropped.
func (r *viewRouter) OfferHandoff(ctx context.Context, offer domain.HandoffOffer) domain.HandoffOffer {
	offer.ID = uuid.NewString()
	offer.CreatedAt = r.Now()
	offer.Context = maps.Clone(offer.Context)

	r.mu.Lock()
	superseded := r.offers
	r.offers = []domain.HandoffOffer{offer}
	r.mu.Unlock()

	for _, old := range superseded {
		r.LogDebug(ctx, "Hand-off superseded", slog.String("offer_id", old.ID))
	}
	r.LogInfo(ctx, "Hand-off offered", slog.String("offer_id", offer.ID), slog.String("target", string(offer.Target)))
	return offer
}

func (r *viewRouter) PendingHandoffs(ctx context.Context) []domain.HandoffOffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.offers)
	if out == nil {
		out = []domain.HandoffOffer{}
	}
	return out
}

func (r *viewRouter) ResolveHandoff(ctx context.Context, offerID string, accept bool) (*domain.ViewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.offers, func(o domain.HandoffOffer) bool { return o.ID == offerID })
	if i < 0 {
		return nil, fmt.Errorf("%w: hand-off %s", apperrors.ErrNotFound, offerID)
	}
	offer := r.offers[i]
	r.offers = slices.Delete(r.offers, i, i+1)

	if !accept {
		r.LogInfo(ctx, "Hand-off declined", slog.String("offer_id", offerID))
		return nil, nil
	}
	return r.navigateLocked(ctx, offer.Target, offer.Context), nil
}
