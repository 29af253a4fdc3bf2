package dto

import (
	"time"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// LoginRequest starts the simulated session.
type LoginRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"` // Defaults to Partner
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      domain.SessionUser `json:"user"`
}
