package domain

import "time"

// IntakeState is the position of an intake session in its lifecycle.
// Pending moves to Proposed or Failed; only Proposed may be Committed.
// Cancelled is reachable from Pending and Proposed.
type IntakeState string

const (
	IntakePending   IntakeState = "Pending"
	IntakeProposed  IntakeState = "Proposed"
	IntakeCommitted IntakeState = "Committed"
	IntakeFailed    IntakeState = "Failed"
	IntakeCancelled IntakeState = "Cancelled"
)

// IntakeFailure distinguishes why a proposal could not be produced.
type IntakeFailure string

const (
	FailureExtraction IntakeFailure = "extraction"
	FailureFormat     IntakeFailure = "format"
	FailureCancelled  IntakeFailure = "cancelled"
)

// IntakeSource records which path produced the candidate.
type IntakeSource string

const (
	SourceClassifier IntakeSource = "classifier"
	SourceManualJSON IntakeSource = "manual_json"
)

// ImageInput is an optional attachment sent alongside a narrative.
type ImageInput struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

// Classification is the structured output of the intake classifier: the
// three field groups of a matter, without id or timestamps.
type Classification struct {
	TaskMetadata TaskMetadata `json:"task_metadata"`
	Workflow     Workflow     `json:"workflow"`
	Financials   Financials   `json:"financials"`
}

// IntakeSession tracks one propose-then-commit exchange.
type IntakeSession struct {
	ID        string        `json:"id"`
	Source    IntakeSource  `json:"source"`
	State     IntakeState   `json:"state"`
	Candidate *Matter       `json:"candidate,omitempty"`
	Failure   IntakeFailure `json:"failure,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
