package ports

import (
	"context"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

// ListIssuesFilter carries the query parameters for listing issues.
type ListIssuesFilter struct {
	Status      string // optional: filter by issue status
	NeedsReview *bool  // optional: filter by the manual-review flag
	Page        int    // 1-based
	Limit       int    // max rows per page (capped at 100 by service)
}

// IssueUpdate carries a partial update; nil fields are left untouched.
type IssueUpdate struct {
	Title            *string
	Description      *string
	PhotoURL         *string
	ResolvedPhotoURL *string
	Location         *domain.Point
	Address          *string
	Status           *domain.IssueStatus
	NeedsReview      *bool
}

// IssueRepository defines persistence operations for issues.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	// List returns a page of issues ordered by created_at descending and the
	// total count of matches.
	List(ctx context.Context, filter ListIssuesFilter) ([]*domain.Issue, int64, error)
	Update(ctx context.Context, id string, update IssueUpdate) (*domain.Issue, error)
	Delete(ctx context.Context, id string) error
}
