package domain

import (
	"errors"
	"time"
)

// IssueStatus represents the triage state of a reported issue.
type IssueStatus string

const (
	StatusOpen       IssueStatus = "Open"
	StatusInProgress IssueStatus = "In Progress"
	StatusResolved   IssueStatus = "Resolved"
)

// Statuses lists every valid issue status, in lifecycle order.
var Statuses = []IssueStatus{StatusOpen, StatusInProgress, StatusResolved}

// Valid reports whether s is one of the known statuses.
func (s IssueStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

var ErrIssueNotFound = errors.New("issue not found")
var ErrInvalidStatus = errors.New("invalid status provided")
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")
var ErrNoUpdates = errors.New("no updates provided")
var ErrForbidden = errors.New("access forbidden")

// Issue is the core aggregate root: a citizen-reported civic problem.
type Issue struct {
	ID               string      `json:"id" bson:"_id,omitempty"`
	Title            string      `json:"title" bson:"title"`
	Description      string      `json:"description" bson:"description"`
	PhotoURL         string      `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	ResolvedPhotoURL string      `json:"resolved_photo_url,omitempty" bson:"resolved_photo_url,omitempty"`
	Location         Point       `json:"location" bson:"location"`
	Address          string      `json:"address,omitempty" bson:"address,omitempty"`
	Status           IssueStatus `json:"status" bson:"status"`
	// NeedsReview marks issues whose photo evidence could not be fully
	// verified. Advisory only: staff double-check flagged reports.
	NeedsReview bool      `json:"needs_review" bson:"needs_review"`
	CreatedBy   string    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
