package services

import (
	"context"

	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/dto"
)

// MatterReaderSvc defines read operations for matters
type MatterReaderSvc interface {
	// GetMatter retrieves a matter by its ID.
	GetMatter(ctx context.Context, matterID string) (*domain.Matter, error)

	// ListMatters returns a filtered, sorted page of matters.
	ListMatters(ctx context.Context, params dto.ListMattersParams) (*dto.ListMattersResponse, error)

	// Board groups the filtered matters into stage columns.
	Board(ctx context.Context, params dto.ListMattersParams) (*dto.BoardResponse, error)
}

// MatterWriterSvc defines create and edit operations for matters
type MatterWriterSvc interface {
	// CreateMatter adds a matter from the manual form.
	CreateMatter(ctx context.Context, req dto.CreateMatterRequest) (*domain.Matter, error)

	// AddMatter stores a fully formed matter, e.g. a committed intake candidate.
	AddMatter(ctx context.Context, matter domain.Matter) (*domain.Matter, error)

	// UpdateMatter applies the detail-edit form.
	UpdateMatter(ctx context.Context, matterID string, req dto.UpdateMatterRequest) (*domain.Matter, error)
}

// StageMoverSvc defines the board's stage transitions
type StageMoverSvc interface {
	// MoveMatter moves one matter. Moving into Done raises a hand-off offer.
	MoveMatter(ctx context.Context, matterID string, stage domain.Stage) (*dto.MoveOutcome, error)

	// ApplyBulkStage moves several matters; it never raises offers.
	ApplyBulkStage(ctx context.Context, matterIDs []string, stage domain.Stage) ([]dto.BulkResult, error)

	// ApplyBulkLawyer assigns a lawyer to several matters.
	ApplyBulkLawyer(ctx context.Context, matterIDs []string, lawyer string) ([]dto.BulkResult, error)
}

// WorkflowSvcFacade combines all matter-related service interfaces
type WorkflowSvcFacade interface {
	MatterReaderSvc
	MatterWriterSvc
	StageMoverSvc
}
