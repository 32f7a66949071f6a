package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// IssueService orchestrates issue submissions: it stores the uploaded photo,
// runs evidence verification and reverse geocoding, and hands the finished
// record to the repository.
type IssueService struct {
	repo     ports.IssueRepository
	verifier ports.EvidenceVerifier
	geocoder ports.Geocoder
	photos   ports.PhotoStore
	log      zerolog.Logger
}

func NewIssueService(
	repo ports.IssueRepository,
	verifier ports.EvidenceVerifier,
	geocoder ports.Geocoder,
	photos ports.PhotoStore,
	log zerolog.Logger,
) *IssueService {
	return &IssueService{
		repo:     repo,
		verifier: verifier,
		geocoder: geocoder,
		photos:   photos,
		log:      log,
	}
}

// SubmitIssue creates a new issue. Evidence verification and address
// resolution are independent: geocoding runs concurrently and a rejection
// returns without waiting for the address.
func (s *IssueService) SubmitIssue(ctx context.Context, input ports.SubmitIssueInput) (*domain.Issue, error) {
	if !input.Location.Valid() {
		return nil, domain.ErrInvalidCoordinates
	}

	status := domain.StatusOpen
	if input.Status != "" {
		status = domain.IssueStatus(strings.TrimSpace(input.Status))
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	addressCh := make(chan string, 1)
	go func() {
		addressCh <- s.geocoder.ReverseGeocode(ctx, input.Location)
	}()

	photoURL := input.ExternalPhotoURL
	// A caller-asserted link carries no verifiable evidence.
	needsReview := input.ExternalPhotoURL != ""

	if input.Photo != nil {
		stored, err := s.photos.Save(ctx, *input.Photo)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to store uploaded photo")
			return nil, fmt.Errorf("store photo: %w", err)
		}

		verdict := s.verifier.Verify(ctx, stored.Path, input.Location)
		if !verdict.Accepted {
			s.log.Info().
				Str("reason", string(verdict.Reason)).
				Str("photo", stored.Path).
				Msg("photo evidence rejected")
			return nil, &domain.EvidenceRejectedError{Reason: verdict.Reason, Message: verdict.Message}
		}
		photoURL = stored.URL
		needsReview = verdict.NeedsReview
	}

	now := time.Now().UTC()
	issue := &domain.Issue{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		PhotoURL:    photoURL,
		Location:    input.Location,
		Address:     <-addressCh,
		Status:      status,
		NeedsReview: needsReview,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, issue); err != nil {
		s.log.Error().Err(err).Msg("failed to create issue")
		return nil, err
	}

	s.log.Info().
		Str("issue_id", issue.ID).
		Str("status", string(issue.Status)).
		Bool("needs_review", issue.NeedsReview).
		Msg("issue created")

	return issue, nil
}

func (s *IssueService) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *IssueService) ListIssues(ctx context.Context, filter ports.ListIssuesFilter) ([]*domain.Issue, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Status != "" && !domain.IssueStatus(filter.Status).Valid() {
		return nil, 0, domain.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

// UpdateIssue applies a partial update. An uploaded photo records the
// proof-of-fix shot when the effective status is Resolved; otherwise it
// replaces the evidence photo and re-runs verification. Changed coordinates
// re-resolve the address.
func (s *IssueService) UpdateIssue(ctx context.Context, input ports.UpdateIssueInput) (*domain.Issue, error) {
	issue, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	var update ports.IssueUpdate
	changed := false

	if input.Title != nil {
		update.Title = input.Title
		changed = true
	}
	if input.Description != nil {
		update.Description = input.Description
		changed = true
	}

	effectiveStatus := issue.Status
	if input.Status != nil {
		status := domain.IssueStatus(strings.TrimSpace(*input.Status))
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		update.Status = &status
		effectiveStatus = status
		changed = true
	}

	location := issue.Location
	if input.Latitude != nil || input.Longitude != nil {
		if input.Latitude != nil {
			location.Lat = *input.Latitude
		}
		if input.Longitude != nil {
			location.Lng = *input.Longitude
		}
		if !location.Valid() {
			return nil, domain.ErrInvalidCoordinates
		}
		update.Location = &location
		// The stored address belongs to the old coordinates.
		address := s.geocoder.ReverseGeocode(ctx, location)
		update.Address = &address
		changed = true
	}

	switch {
	case input.Photo != nil:
		stored, err := s.photos.Save(ctx, *input.Photo)
		if err != nil {
			s.log.Error().Err(err).Msg("failed to store uploaded photo")
			return nil, fmt.Errorf("store photo: %w", err)
		}
		if effectiveStatus == domain.StatusResolved {
			update.ResolvedPhotoURL = &stored.URL
		} else {
			verdict := s.verifier.Verify(ctx, stored.Path, location)
			if !verdict.Accepted {
				return nil, &domain.EvidenceRejectedError{Reason: verdict.Reason, Message: verdict.Message}
			}
			update.PhotoURL = &stored.URL
			update.NeedsReview = &verdict.NeedsReview
		}
		changed = true
	case input.PhotoURL != nil:
		update.PhotoURL = input.PhotoURL
		changed = true
	}

	if !changed {
		return nil, domain.ErrNoUpdates
	}

	updated, err := s.repo.Update(ctx, input.ID, update)
	if err != nil {
		s.log.Error().Err(err).Str("issue_id", input.ID).Msg("failed to update issue")
		return nil, err
	}

	s.log.Info().Str("issue_id", updated.ID).Str("status", string(updated.Status)).Msg("issue updated")
	return updated, nil
}

func (s *IssueService) DeleteIssue(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("issue_id", id).Msg("issue deleted")
	return nil
}
