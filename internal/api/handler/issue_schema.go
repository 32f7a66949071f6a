package handler

import (
	"time"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

// createIssueRequest binds from JSON bodies and from multipart form fields.
// The photo file itself is read separately via the "photo" form part.
// Coordinates are pointers so a missing pair is distinguishable from an
// explicit 0,0.
type createIssueRequest struct {
	Title       string   `json:"title"       form:"title"       validate:"required"`
	Description string   `json:"description" form:"description" validate:"required"`
	Latitude    *float64 `json:"latitude"    form:"latitude"    validate:"required"`
	Longitude   *float64 `json:"longitude"   form:"longitude"   validate:"required"`
	Status      string   `json:"status"      form:"status"`
	PhotoURL    string   `json:"photo_url"   form:"photo_url"   validate:"omitempty,url"`
}

// updateIssueRequest carries a partial update; absent fields stay untouched.
type updateIssueRequest struct {
	Title       *string  `json:"title"       form:"title"`
	Description *string  `json:"description" form:"description"`
	Latitude    *float64 `json:"latitude"    form:"latitude"`
	Longitude   *float64 `json:"longitude"   form:"longitude"`
	Status      *string  `json:"status"      form:"status"`
	PhotoURL    *string  `json:"photo_url"   form:"photo_url"   validate:"omitempty,url"`
}

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// issueResponse is the transport representation of an issue. It is
// intentionally separate from the domain type so the JSON contract is not
// coupled to internal changes.
type issueResponse struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	PhotoURL         string           `json:"photo_url,omitempty"`
	ResolvedPhotoURL string           `json:"resolved_photo_url,omitempty"`
	Location         locationResponse `json:"location"`
	Address          string           `json:"address,omitempty"`
	Status           string           `json:"status"`
	NeedsReview      bool             `json:"needs_review"`
	CreatedBy        string           `json:"created_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listIssuesResponse struct {
	Data       []issueResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

func toIssueResponse(issue *domain.Issue) issueResponse {
	return issueResponse{
		ID:               issue.ID,
		Title:            issue.Title,
		Description:      issue.Description,
		PhotoURL:         issue.PhotoURL,
		ResolvedPhotoURL: issue.ResolvedPhotoURL,
		Location:         locationResponse{Lat: issue.Location.Lat, Lng: issue.Location.Lng},
		Address:          issue.Address,
		Status:           string(issue.Status),
		NeedsReview:      issue.NeedsReview,
		CreatedBy:        issue.CreatedBy,
		CreatedAt:        issue.CreatedAt,
		UpdatedAt:        issue.UpdatedAt,
	}
}
