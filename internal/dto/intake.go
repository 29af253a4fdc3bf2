package dto

import (
	"github.com/DeepsSystems/Sasingian-Lawyers/internal/core/domain"
)

// ClassifyRequest submits a narrative, and optionally a scanned document,
// for classification.
type ClassifyRequest struct {
	Narrative     string `json:"narrative"`
	ImageBase64   string `json:"image_base64"`    // Raw base64 or a data: URL
	ImageMimeType string `json:"image_mime_type"` // Required when the image is raw base64
	Async         bool   `json:"async"`           // Return the pending session immediately
}

// ManualIntakeRequest carries a matter typed in as JSON.
type ManualIntakeRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// NavigateRequest switches the active view.
type NavigateRequest struct {
	View    domain.View        `json:"view" binding:"required,app_view"`
	Context domain.ViewContext `json:"context"`
}

// ResolveHandoffRequest accepts or declines a pending hand-off offer.
type ResolveHandoffRequest struct {
	Accept bool `json:"accept"`
}

// ResolveHandoffResponse is the router state after resolution.
type ResolveHandoffResponse struct {
	Accepted bool              `json:"accepted"`
	State    *domain.ViewState `json:"state,omitempty"`
}
