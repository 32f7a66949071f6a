package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Syed-Ali-7/civicfix-backend/internal/core/domain"
	"github.com/Syed-Ali-7/civicfix-backend/internal/core/ports"
)

const testMaxUpload = 5 << 20

// ---------------------------------------------------------------------------
// Stub issue service
// ---------------------------------------------------------------------------

type stubIssueService struct {
	submitFn func(ctx context.Context, input ports.SubmitIssueInput) (*domain.Issue, error)
	getFn    func(ctx context.Context, id string) (*domain.Issue, error)
	listFn   func(ctx context.Context, filter ports.ListIssuesFilter) ([]*domain.Issue, int64, error)
	updateFn func(ctx context.Context, input ports.UpdateIssueInput) (*domain.Issue, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubIssueService) SubmitIssue(ctx context.Context, input ports.SubmitIssueInput) (*domain.Issue, error) {
	return s.submitFn(ctx, input)
}

func (s *stubIssueService) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	return s.getFn(ctx, id)
}

func (s *stubIssueService) ListIssues(ctx context.Context, filter ports.ListIssuesFilter) ([]*domain.Issue, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *stubIssueService) UpdateIssue(ctx context.Context, input ports.UpdateIssueInput) (*domain.Issue, error) {
	return s.updateFn(ctx, input)
}

func (s *stubIssueService) DeleteIssue(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func sampleIssue() *domain.Issue {
	return &domain.Issue{
		ID:          "issue_1",
		Title:       "Pothole",
		Description: "Deep pothole",
		Location:    domain.Point{Lat: 19.4326, Lng: -99.1332},
		Address:     "123 Main St",
		Status:      domain.StatusOpen,
	}
}

func newIssueContext(t *testing.T, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", domain.RoleCitizen)
	c.Set("user_id", "user_1")
	return c, rec
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestIssueHandler_Create_JSON(t *testing.T) {
	var gotInput ports.SubmitIssueInput
	stub := &stubIssueService{
		submitFn: func(_ context.Context, input ports.SubmitIssueInput) (*domain.Issue, error) {
			gotInput = input
			return sampleIssue(), nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	body := `{"title":"Pothole","description":"Deep pothole","latitude":19.4326,"longitude":-99.1332}`
	req := httptest.NewRequest(http.MethodPost, "/v1/issues", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newIssueContext(t, req)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if gotInput.Title != "Pothole" || gotInput.Location.Lat != 19.4326 {
		t.Fatalf("unexpected input: %+v", gotInput)
	}
	if gotInput.CreatedBy != "user_1" {
		t.Fatalf("created_by = %q, want claim value", gotInput.CreatedBy)
	}
	if gotInput.Photo != nil {
		t.Fatalf("JSON submission should carry no upload")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "issue_1" || resp["status"] != "Open" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func multipartIssueRequest(t *testing.T, photo []byte, photoName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("title", "Pothole")
	_ = w.WriteField("description", "Deep pothole")
	_ = w.WriteField("latitude", "19.4326")
	_ = w.WriteField("longitude", "-99.1332")
	if photo != nil {
		part, err := w.CreateFormFile("photo", photoName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(photo); err != nil {
			t.Fatalf("write photo: %v", err)
		}
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/issues", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestIssueHandler_Create_MultipartWithPhoto(t *testing.T) {
	var gotInput ports.SubmitIssueInput
	stub := &stubIssueService{
		submitFn: func(_ context.Context, input ports.SubmitIssueInput) (*domain.Issue, error) {
			gotInput = input
			return sampleIssue(), nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := multipartIssueRequest(t, []byte("jpeg bytes"), "report.jpg")
	c, rec := newIssueContext(t, req)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if gotInput.Photo == nil {
		t.Fatalf("expected photo upload")
	}
	if string(gotInput.Photo.Bytes) != "jpeg bytes" {
		t.Fatalf("photo bytes = %q", gotInput.Photo.Bytes)
	}
	if gotInput.Photo.Filename != "report.jpg" {
		t.Fatalf("photo filename = %q", gotInput.Photo.Filename)
	}
	if gotInput.Location.Lng != -99.1332 {
		t.Fatalf("form coordinates not bound: %+v", gotInput.Location)
	}
}

func TestIssueHandler_Create_PhotoTooLarge(t *testing.T) {
	stub := &stubIssueService{
		submitFn: func(context.Context, ports.SubmitIssueInput) (*domain.Issue, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(stub, 16) // tiny cap for the test

	req := multipartIssueRequest(t, bytes.Repeat([]byte("x"), 64), "big.jpg")
	c, _ := newIssueContext(t, req)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "16 bytes") {
		t.Fatalf("message should name the configured cap, got %q", msg)
	}
}

func TestIssueHandler_Create_RejectedEvidence(t *testing.T) {
	stub := &stubIssueService{
		submitFn: func(context.Context, ports.SubmitIssueInput) (*domain.Issue, error) {
			return nil, &domain.EvidenceRejectedError{
				Reason:  domain.RejectStalePhoto,
				Message: "Photo is older than 48 hours. Please take a new photo.",
			}
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := multipartIssueRequest(t, []byte("jpeg"), "old.jpg")
	c, _ := newIssueContext(t, req)

	err := h.Create(c)
	var rejected *domain.EvidenceRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected EvidenceRejectedError to pass through, got %v", err)
	}
}

func TestIssueHandler_Create_MissingClaims(t *testing.T) {
	stub := &stubIssueService{
		submitFn: func(context.Context, ports.SubmitIssueInput) (*domain.Issue, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/issues", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestIssueHandler_Create_MissingTitle(t *testing.T) {
	stub := &stubIssueService{
		submitFn: func(context.Context, ports.SubmitIssueInput) (*domain.Issue, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodPost, "/v1/issues", strings.NewReader(`{"description":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newIssueContext(t, req)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestIssueHandler_Create_MissingCoordinates(t *testing.T) {
	stub := &stubIssueService{
		submitFn: func(context.Context, ports.SubmitIssueInput) (*domain.Issue, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodPost, "/v1/issues", strings.NewReader(`{"title":"Pothole","description":"Deep pothole"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newIssueContext(t, req)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError for missing coordinates, got %v", err)
	}
}

func TestIssueHandler_Create_BadPhotoURL(t *testing.T) {
	stub := &stubIssueService{
		submitFn: func(context.Context, ports.SubmitIssueInput) (*domain.Issue, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	body := `{"title":"Pothole","description":"Deep pothole","latitude":19.4326,"longitude":-99.1332,"photo_url":"not a url"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/issues", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newIssueContext(t, req)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Get / List
// ---------------------------------------------------------------------------

func TestIssueHandler_Get(t *testing.T) {
	stub := &stubIssueService{
		getFn: func(_ context.Context, id string) (*domain.Issue, error) {
			if id != "issue_1" {
				t.Fatalf("id = %q", id)
			}
			return sampleIssue(), nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodGet, "/v1/issues/issue_1", nil)
	c, rec := newIssueContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("issue_1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestIssueHandler_Get_NotFoundPassesThrough(t *testing.T) {
	stub := &stubIssueService{
		getFn: func(context.Context, string) (*domain.Issue, error) {
			return nil, domain.ErrIssueNotFound
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodGet, "/v1/issues/ghost", nil)
	c, _ := newIssueContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	if err := h.Get(c); !errors.Is(err, domain.ErrIssueNotFound) {
		t.Fatalf("expected ErrIssueNotFound to pass through, got %v", err)
	}
}

func TestIssueHandler_List(t *testing.T) {
	var gotFilter ports.ListIssuesFilter
	stub := &stubIssueService{
		listFn: func(_ context.Context, filter ports.ListIssuesFilter) ([]*domain.Issue, int64, error) {
			gotFilter = filter
			return []*domain.Issue{sampleIssue()}, 41, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodGet, "/v1/issues?status=Open&needs_review=true&page=2&limit=20", nil)
	c, rec := newIssueContext(t, req)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if gotFilter.Status != "Open" || gotFilter.Page != 2 || gotFilter.Limit != 20 {
		t.Fatalf("unexpected filter: %+v", gotFilter)
	}
	if gotFilter.NeedsReview == nil || !*gotFilter.NeedsReview {
		t.Fatalf("needs_review filter not parsed")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	pagination, ok := resp["pagination"].(map[string]any)
	if !ok {
		t.Fatalf("missing pagination: %+v", resp)
	}
	if pagination["total"] != float64(41) || pagination["total_pages"] != float64(3) {
		t.Fatalf("unexpected pagination: %+v", pagination)
	}
}

func TestIssueHandler_List_BadNeedsReview(t *testing.T) {
	stub := &stubIssueService{
		listFn: func(context.Context, ports.ListIssuesFilter) ([]*domain.Issue, int64, error) {
			t.Fatalf("should not be called")
			return nil, 0, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodGet, "/v1/issues?needs_review=maybe", nil)
	c, _ := newIssueContext(t, req)

	err := h.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestIssueHandler_Update(t *testing.T) {
	var gotInput ports.UpdateIssueInput
	stub := &stubIssueService{
		updateFn: func(_ context.Context, input ports.UpdateIssueInput) (*domain.Issue, error) {
			gotInput = input
			issue := sampleIssue()
			issue.Status = domain.StatusInProgress
			return issue, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodPut, "/v1/issues/issue_1", strings.NewReader(`{"status":"In Progress"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newIssueContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("issue_1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if gotInput.ID != "issue_1" {
		t.Fatalf("id = %q", gotInput.ID)
	}
	if gotInput.Status == nil || *gotInput.Status != "In Progress" {
		t.Fatalf("status not bound: %+v", gotInput)
	}
	if gotInput.Title != nil {
		t.Fatalf("absent fields must stay nil")
	}
}

func TestIssueHandler_Update_BlankTitle(t *testing.T) {
	stub := &stubIssueService{
		updateFn: func(context.Context, ports.UpdateIssueInput) (*domain.Issue, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodPut, "/v1/issues/issue_1", strings.NewReader(`{"title":"   "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newIssueContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("issue_1")

	err := h.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError for blank title, got %v", err)
	}
}

func TestIssueHandler_Update_BadPhotoURL(t *testing.T) {
	stub := &stubIssueService{
		updateFn: func(context.Context, ports.UpdateIssueInput) (*domain.Issue, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodPut, "/v1/issues/issue_1", strings.NewReader(`{"photo_url":"not a url"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newIssueContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("issue_1")

	err := h.Update(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError for malformed photo_url, got %v", err)
	}
}

func TestIssueHandler_Delete(t *testing.T) {
	called := false
	stub := &stubIssueService{
		deleteFn: func(_ context.Context, id string) error {
			called = true
			if id != "issue_1" {
				t.Fatalf("id = %q", id)
			}
			return nil
		},
	}
	h := NewIssueHandler(stub, testMaxUpload)

	req := httptest.NewRequest(http.MethodDelete, "/v1/issues/issue_1", nil)
	c, rec := newIssueContext(t, req)
	c.SetParamNames("id")
	c.SetParamValues("issue_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("service not invoked")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if body, _ := io.ReadAll(rec.Body); len(body) != 0 {
		t.Fatalf("expected empty body, got %q", body)
	}
}
