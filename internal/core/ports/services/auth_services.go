package services

import (
	"context"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
)

// SessionSvcFacade manages the simulated login session.
type SessionSvcFacade interface {
	// Login records the session and issues a signed token. No credentials are checked.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) domain.Session
	// IsActive reports whether a session is currently logged in.
	IsActive(ctx context.Context) bool
}
