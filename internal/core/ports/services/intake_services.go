package services

import (
	"context"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// IntakeProposerSvc produces candidate matters without committing them
type IntakeProposerSvc interface {
	// ProposeFromNarrative classifies the narrative and waits for the result.
	ProposeFromNarrative(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.IntakeSession, error)

	// StartClassification opens a Pending session and classifies in the
	// background; poll Session for the outcome.
	StartClassification(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.IntakeSession, error)

	// ProposeFromJSON parses a manually typed matter.
	ProposeFromJSON(ctx context.Context, payload string) (*domain.IntakeSession, error)
}

// IntakeSessionSvc inspects and settles intake sessions
type IntakeSessionSvc interface {
	Session(ctx context.Context, sessionID string) (*domain.IntakeSession, error)

	// Commit adds the proposed candidate to the matter list.
	Commit(ctx context.Context, sessionID string) (*domain.Matter, error)

	// Cancel aborts an in-flight classification or discards a proposal.
	Cancel(ctx context.Context, sessionID string) (*domain.IntakeSession, error)
}

// IntakeSvcFacade combines the intake service interfaces
type IntakeSvcFacade interface {
	IntakeProposerSvc
	IntakeSessionSvc
}
