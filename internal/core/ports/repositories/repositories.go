package repositories

import (
	"context"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// Classifier turns a free-text narrative, optionally with an attached image,
// into the structured fields of a matter.
type Classifier interface {
	Classify(ctx context.Context, narrative string, image *domain.ImageInput) (*domain.Classification, error)
}

// CalendarSyncer mirrors firm calendar events to an external calendar.
type CalendarSyncer interface {
	// PushEvent creates the event remotely and returns the remote id.
	PushEvent(ctx context.Context, event domain.CalendarEvent) (string, error)
}

// IDGenerator issues prefixed identifiers such as MTR-… or INV-….
type IDGenerator interface {
	NewID(prefix string) string
}

// RepositoryProvider holds the outbound dependencies needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	Store      KVStore
	Classifier Classifier     // nil disables narrative intake
	Calendar   CalendarSyncer // nil disables calendar mirroring
	IDs        IDGenerator
}
