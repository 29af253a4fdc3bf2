package services

import (
	"context"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// ViewRouterSvc tracks the active view and pending cross-view hand-offs.
type ViewRouterSvc interface {
	// Navigate switches views, replacing any transient context.
	Navigate(ctx context.Context, view domain.View, viewCtx domain.ViewContext) (*domain.ViewState, error)

	// Current returns the active view and its context without consuming it.
	Current(ctx context.Context) domain.ViewState

	// ConsumeContext returns the transient context once, then clears it.
	ConsumeContext(ctx context.Context) domain.ViewContext

	// OfferHandoff registers an offer and returns it with its assigned id.
	OfferHandoff(ctx context.Context, offer domain.HandoffOffer) domain.HandoffOffer

	PendingHandoffs(ctx context.Context) []domain.HandoffOffer

	// ResolveHandoff accepts (navigating to the offer's target) or declines an offer.
	ResolveHandoff(ctx context.Context, offerID string, accept bool) (*domain.ViewState, error)
}
