package ports

import (
	"context"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

// PhotoUpload is an image received through the HTTP boundary.
type PhotoUpload struct {
	Bytes       []byte
	Filename    string
	ContentType string
}

// SubmitIssueInput carries all data needed to create a new issue. At most one
// of Photo / ExternalPhotoURL is meaningful per submission; neither means the
// report has no photo evidence.
type SubmitIssueInput struct {
	Title       string
	Description string
	Location    domain.Point
	Status      string // optional; defaults to Open
	CreatedBy   string

	// Photo is a device-uploaded image, the only form that can carry
	// verifiable metadata.
	Photo *PhotoUpload
	// ExternalPhotoURL is a caller-asserted link with no verifiable
	// provenance; it always yields an accept flagged for review.
	ExternalPhotoURL string
}

// UpdateIssueInput carries a partial issue update. Nil pointer fields are not
// touched.
type UpdateIssueInput struct {
	ID          string
	Title       *string
	Description *string
	PhotoURL    *string
	Latitude    *float64
	Longitude   *float64
	Status      *string

	// Photo optionally replaces the evidence photo, or records the
	// proof-of-fix shot when the effective status is Resolved.
	Photo *PhotoUpload
}

// IssueService defines the use-case operations for issues.
type IssueService interface {
	SubmitIssue(ctx context.Context, input SubmitIssueInput) (*domain.Issue, error)
	GetIssue(ctx context.Context, id string) (*domain.Issue, error)
	ListIssues(ctx context.Context, filter ListIssuesFilter) ([]*domain.Issue, int64, error)
	UpdateIssue(ctx context.Context, input UpdateIssueInput) (*domain.Issue, error)
	DeleteIssue(ctx context.Context, id string) error
}
