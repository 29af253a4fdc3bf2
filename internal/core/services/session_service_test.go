package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = services.TokenConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "legalos-test"}

func TestSessionService_Login(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)
	svc := services.NewSessionService(store, testTokens, services.WithClock(fixedClock))

	assert.False(t, svc.IsActive(ctx))

	resp, err := svc.Login(ctx, dto.LoginRequest{Name: " Ruth Sasingian ", Email: " Ruth@Sasingian.LAW "})
	require.NoError(t, err)
	assert.Equal(t, "Ruth Sasingian", resp.User.Name)
	assert.Equal(t, "ruth@sasingian.law", resp.User.Email)
	assert.Equal(t, "Partner", resp.User.Role)
	assert.Equal(t, fixedNow.Add(time.Hour), resp.ExpiresAt)

	claims, err := utils.ParseAndValidateJWT(resp.Token, testTokens.Secret)
	require.NoError(t, err)
	assert.Equal(t, "ruth@sasingian.law", claims.Subject)
	assert.Equal(t, "legalos-test", claims.Issuer)

	session := svc.Current(ctx)
	assert.True(t, session.IsLoggedIn)
	require.NotNil(t, session.User)
	assert.Equal(t, "ruth@sasingian.law", session.User.Email)
}

func TestSessionService_LoginPersists(t *testing.T) {
	ctx := context.Background()
	store, kv := newMemoryStore(t)
	svc := services.NewSessionService(store, testTokens)

	_, err := svc.Login(ctx, dto.LoginRequest{Name: "Clerk", Email: "clerk@sasingian.law", Role: "Clerk"})
	require.NoError(t, err)

	reloaded := services.NewEntityStore(kv, nil)
	require.Empty(t, reloaded.Load(ctx).Failed())
	session := services.NewSessionService(reloaded, testTokens).Current(ctx)
	assert.True(t, session.IsLoggedIn)
	assert.Equal(t, "Clerk", session.User.Role)
}

func TestSessionService_LoginValidation(t *testing.T) {
	store, _ := newMemoryStore(t)
	svc := services.NewSessionService(store, testTokens)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Name: "  ", Email: "a@b.c"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.False(t, svc.IsActive(context.Background()))
}

func TestSessionService_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)
	svc := services.NewSessionService(store, testTokens)

	_, err := svc.Login(ctx, dto.LoginRequest{Name: "Ruth", Email: "ruth@sasingian.law"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	assert.False(t, svc.IsActive(ctx))
	assert.Nil(t, svc.Current(ctx).User)
	assert.NoError(t, svc.Logout(ctx))
}
