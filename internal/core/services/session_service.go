package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/apperrors"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	portssvc "github.com/DeepsSystems/Sasingian-Lawyers/internal/core/ports/services"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/utils"
)

const defaultSessionRole = "Partner"

// TokenConfig controls the tokens issued at login.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type sessionService struct {
	BaseService
	store  *EntityStore
	tokens TokenConfig
}

// NewSessionService creates the service for the single persisted login session.
func NewSessionService(store *EntityStore, tokens TokenConfig, opts ...ServiceOption) portssvc.SessionSvcFacade {
	cfg := newServiceConfig(opts)
	return &sessionService{
		BaseService: BaseService{now: cfg.now},
		store:       store,
		tokens:      tokens,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

func (s *sessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user := domain.SessionUser{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Role:  cmp.Or(strings.TrimSpace(req.Role), defaultSessionRole),
	}
	if user.Name == "" || user.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", apperrors.ErrValidation)
	}

	token, err := utils.GenerateJWT(user.Email, s.tokens.Secret, s.tokens.Expiry, s.tokens.Issuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token")
		return nil, fmt.Errorf("%w: sign session token", apperrors.ErrInternal)
	}

	err = s.store.Update(ctx, []string{KeySession}, func(snap *Snapshot) error {
		snap.Session = domain.Session{IsLoggedIn: true, User: &user}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Session started", slog.String("email", user.Email), slog.String("role", user.Role))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: s.Now().Add(s.tokens.Expiry),
		User:      user,
	}, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	err := s.store.Update(ctx, []string{KeySession}, func(snap *Snapshot) error {
		if !snap.Session.IsLoggedIn {
			return errNoChange
		}
		snap.Session = domain.Session{}
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Session ended")
	return nil
}

func (s *sessionService) Current(ctx context.Context) domain.Session {
	var session domain.Session
	s.store.Read(func(snap *Snapshot) {
		session = snap.Session
		if snap.Session.User != nil {
			user := *snap.Session.User
			session.User = &user
		}
	})
	return session
}

func (s *sessionService) IsActive(ctx context.Context) bool {
	return s.Current(ctx).IsLoggedIn
}
