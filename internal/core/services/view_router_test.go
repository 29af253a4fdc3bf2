package services_test

import (
	"context"
	"testing"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRouter_StartsOnDashboard(t *testing.T) {
	r := services.NewViewRouter()
	state := r.Current(context.Background())
	assert.Equal(t, domain.ViewDashboard, state.View)
	assert.Empty(t, state.Context)
}

func TestViewRouter_NavigateRejectsUnknownView(t *testing.T) {
	ctx := context.Background()
	r := services.NewViewRouter()

	_, err := r.Navigate(ctx, domain.View("settings"), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, domain.ViewDashboard, r.Current(ctx).View)
}

func TestViewRouter_ContextIsConsumedOnce(t *testing.T) {
	ctx := context.Background()
	r := services.NewViewRouter()

	state, err := r.Navigate(ctx, domain.ViewFinancials, domain.ViewContext{"matter_id": "MTR-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ViewFinancials, state.View)

	assert.Equal(t, domain.ViewContext{"matter_id": "MTR-1"}, r.ConsumeContext(ctx))
	assert.Nil(t, r.ConsumeContext(ctx))
	assert.Equal(t, domain.ViewFinancials, r.Current(ctx).View)
}

func TestViewRouter_NavigateReplacesContext(t *testing.T) {
	ctx := context.Background()
	r := services.NewViewRouter()

	_, err := r.Navigate(ctx, domain.ViewFinancials, domain.ViewContext{"matter_id": "MTR-1"})
	require.NoError(t, err)
	_, err = r.Navigate(ctx, domain.ViewCalendar, nil)
	require.NoError(t, err)

	assert.Empty(t, r.ConsumeContext(ctx))
}

func TestViewRouter_AcceptHandoffNavigates(t *testing.T) {
	ctx := context.Background()
	r := services.NewViewRouter(services.WithClock(fixedClock))

	offer := r.OfferHandoff(ctx, domain.HandoffOffer{
		MatterID: "MTR-7",
		Target:   domain.ViewFinancials,
		Context:  domain.ViewContext{"matter_id": "MTR-7"},
	})
	require.NotEmpty(t, offer.ID)
	assert.Equal(t, fixedNow, offer.CreatedAt)
	assert.Len(t, r.PendingHandoffs(ctx), 1)

	state, err := r.ResolveHandoff(ctx, offer.ID, true)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, domain.ViewFinancials, state.View)
	assert.Equal(t, "MTR-7", r.ConsumeContext(ctx)["matter_id"])
	assert.Empty(t, r.PendingHandoffs(ctx))
}

func TestViewRouter_DeclineHandoffStaysPut(t *testing.T) {
	ctx := context.Background()
	r := services.NewViewRouter()

	offer := r.OfferHandoff(ctx, domain.HandoffOffer{MatterID: "MTR-7", Target: domain.ViewFinancials})
	state, err := r.ResolveHandoff(ctx, offer.ID, false)
	require.NoError(t, err)
	assert.Nil(t, state)
	assert.Equal(t, domain.ViewDashboard, r.Current(ctx).View)

	_, err = r.ResolveHandoff(ctx, offer.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestViewRouter_NewOfferReplacesPending(t *testing.T) {
	ctx := context.Background()
	r := services.NewViewRouter()

	first := r.OfferHandoff(ctx, domain.HandoffOffer{MatterID: "MTR-1", Target: domain.ViewFinancials})
	for i := 0; i < 5; i++ {
		r.OfferHandoff(ctx, domain.HandoffOffer{MatterID: "MTR-2", Target: domain.ViewFinancials})
	}
	latest := r.OfferHandoff(ctx, domain.HandoffOffer{MatterID: "MTR-3", Target: domain.ViewFinancials})

	pending := r.PendingHandoffs(ctx)
	require.Len(t, pending, 1)
	assert.Equal(t, latest.ID, pending[0].ID)

	_, err := r.ResolveHandoff(ctx, first.ID, true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
