package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Syed-Ali-7/civicfix-backend/internal/api/metrics"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
)

// IssueHandler handles HTTP requests for issue operations.
type IssueHandler struct {
	service        ports.IssueService
	maxUploadBytes int64
}

func NewIssueHandler(service ports.IssueService, maxUploadBytes int64) *IssueHandler {
	return &IssueHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Create handles POST /v1/issues. Accepts JSON or multipart/form-data; the
// multipart form may carry the evidence photo in the "photo" part.
//
// @Summary      Report a new issue
// @Tags         issues
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createIssueRequest  true  "Issue details"
// @Success      201   {object}  issueResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/issues [post]
func (h *IssueHandler) Create(c echo.Context) error {
	_, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	photo, err := h.readPhoto(c)
	if err != nil {
		return err
	}

	issue, err := h.service.SubmitIssue(c.Request().Context(), ports.SubmitIssueInput{
		Title:            req.Title,
		Description:      req.Description,
		Location:         domain.Point{Lat: *req.Latitude, Lng: *req.Longitude},
		Status:           req.Status,
		CreatedBy:        userID,
		Photo:            photo,
		ExternalPhotoURL: req.PhotoURL,
	})
	if err != nil {
		var rejected *domain.EvidenceRejectedError
		if errors.As(err, &rejected) {
			metrics.VerificationsTotal.WithLabelValues("rejected", string(rejected.Reason)).Inc()
		}
		return err
	}

	if photo != nil {
		verdict := "accepted"
		if issue.NeedsReview {
			verdict = "accepted_review"
		}
		metrics.VerificationsTotal.WithLabelValues(verdict, "").Inc()
	}
	metrics.IssuesCreatedTotal.WithLabelValues(string(issue.Status), strconv.FormatBool(issue.NeedsReview)).Inc()

	return c.JSON(http.StatusCreated, toIssueResponse(issue))
}

// Get handles GET /v1/issues/:id.
//
// @Summary      Get an issue by ID
// @Tags         issues
// @Produce      json
// @Param        id   path      string  true  "Issue ID"
// @Success      200  {object}  issueResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/issues/{id} [get]
func (h *IssueHandler) Get(c echo.Context) error {
	issue, err := h.service.GetIssue(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// List handles GET /v1/issues.
//
// @Summary      List issues
// @Tags         issues
// @Produce      json
// @Param        status        query     string  false  "Filter by status"
// @Param        needs_review  query     bool    false  "Filter by review flag"
// @Param        page          query     int     false  "Page number (1-based)"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Success      200  {object}  listIssuesResponse
// @Failure      400  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/issues [get]
func (h *IssueHandler) List(c echo.Context) error {
	filter := ports.ListIssuesFilter{
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("needs_review"); v != "" {
		needsReview, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "needs_review must be a boolean")
		}
		filter.NeedsReview = &needsReview
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	issues, total, err := h.service.ListIssues(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	data := make([]issueResponse, 0, len(issues))
	for _, issue := range issues {
		data = append(data, toIssueResponse(issue))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return c.JSON(http.StatusOK, listIssuesResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		},
	})
}

// Update handles PUT /v1/issues/:id. Accepts JSON or multipart/form-data;
// an uploaded photo becomes the proof-of-fix shot when the issue is being
// resolved.
//
// @Summary      Update an issue
// @Tags         issues
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Issue ID"
// @Param        body  body      updateIssueRequest  true  "Fields to update"
// @Success      200   {object}  issueResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/issues/{id} [put]
func (h *IssueHandler) Update(c echo.Context) error {
	var req updateIssueRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// Optional fields may be absent, but a present value must not be blank.
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "description must not be empty")
	}

	photo, err := h.readPhoto(c)
	if err != nil {
		return err
	}

	issue, err := h.service.UpdateIssue(c.Request().Context(), ports.UpdateIssueInput{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		PhotoURL:    req.PhotoURL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      req.Status,
		Photo:       photo,
	})
	if err != nil {
		var rejected *domain.EvidenceRejectedError
		if errors.As(err, &rejected) {
			metrics.VerificationsTotal.WithLabelValues("rejected", string(rejected.Reason)).Inc()
		}
		return err
	}

	return c.JSON(http.StatusOK, toIssueResponse(issue))
}

// Delete handles DELETE /v1/issues/:id.
//
// @Summary      Delete an issue
// @Tags         issues
// @Security     BearerAuth
// @Param        id  path  string  true  "Issue ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/issues/{id} [delete]
func (h *IssueHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteIssue(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// readPhoto pulls the optional "photo" part out of a multipart request.
// Returns nil without error when the request has no photo part.
func (h *IssueHandler) readPhoto(c echo.Context) (*ports.PhotoUpload, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		// JSON bodies and photo-less forms land here.
		return nil, nil
	}

	if file.Size > h.maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "file too large, the maximum photo size is "+h.maxUploadLabel())
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "only image uploads are accepted")
	}

	src, err := file.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable photo upload")
	}
	defer func(src multipart.File) { _ = src.Close() }(src)

	data, err := io.ReadAll(io.LimitReader(src, h.maxUploadBytes+1))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable photo upload")
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "file too large, the maximum photo size is "+h.maxUploadLabel())
	}

	return &ports.PhotoUpload{
		Bytes:       data,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	}, nil
}

// maxUploadLabel renders the configured size cap for rejection messages.
func (h *IssueHandler) maxUploadLabel() string {
	if h.maxUploadBytes >= 1<<20 {
		return fmt.Sprintf("%dMB", h.maxUploadBytes>>20)
	}
	return fmt.Sprintf("%d bytes", h.maxUploadBytes)
}
