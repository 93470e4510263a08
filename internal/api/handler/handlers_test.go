package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

const (
	projectID = "7d4f5f6e-3c1b-4a52-9a0e-0c8f3e2b9a11"
	pageID    = "1b2c3d4e-5f60-4718-8a9b-0c1d2e3f4a5b"
)

var caller = domain.Caller{UserID: "u-1", Role: domain.RoleProjectManager}

// authed builds a context that looks like it passed the Auth middleware.
func authed(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(CtxUserID, caller.UserID)
	c.Set(CtxRole, caller.Role)
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestCallerFrom_Missing(t *testing.T) {
	e := newEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/projects", nil), httptest.NewRecorder())

	_, err := callerFrom(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

// --- projects ---

type stubProjectService struct {
	ports.ProjectService
	createIn ports.CreateProjectInput
	patch    domain.ProjectPatch
	err      error
}

func (s *stubProjectService) Create(_ context.Context, c domain.Caller, in ports.CreateProjectInput) (*domain.Project, error) {
	s.createIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Project{ID: projectID, Title: in.Title, Status: domain.StatusWorking, CreatedBy: c.UserID}, nil
}

func (s *stubProjectService) List(context.Context, domain.Caller) ([]*domain.Project, error) {
	return []*domain.Project{}, s.err
}

func (s *stubProjectService) Update(_ context.Context, _ domain.Caller, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	s.patch = patch
	if s.err != nil {
		return nil, s.err
	}
	p := &domain.Project{ID: id, Title: "Alpha", Status: domain.StatusWorking}
	patch.Apply(p)
	return p, nil
}

func (s *stubProjectService) Delete(context.Context, domain.Caller, string) error {
	return s.err
}

func TestProjectHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubProjectService{}
	h := NewProjectHandler(svc)

	c, rec := authed(e, jsonRequest(http.MethodPost, "/projects", `{"title":"Alpha","description":"first"}`))
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if _, ok := decode(t, rec)["project"]; !ok {
		t.Fatalf("expected project envelope: %s", rec.Body.String())
	}
	if svc.createIn.Title != "Alpha" || svc.createIn.Description == nil || *svc.createIn.Description != "first" {
		t.Fatalf("unexpected input: %+v", svc.createIn)
	}
	if svc.createIn.Status != "" || svc.createIn.CreatedBy != "" {
		t.Fatalf("defaults belong to the service: %+v", svc.createIn)
	}
}

func TestProjectHandler_Create_InvalidStatus(t *testing.T) {
	e := newEcho()
	h := NewProjectHandler(&stubProjectService{})

	c, _ := authed(e, jsonRequest(http.MethodPost, "/projects", `{"title":"Alpha","status":"Done"}`))
	var ve *domain.ValidationError
	if err := h.Create(c); !errors.As(err, &ve) || ve.Field != "status" {
		t.Fatalf("expected status ValidationError, got %v", err)
	}
}

func TestProjectHandler_List_EmptyArray(t *testing.T) {
	e := newEcho()
	h := NewProjectHandler(&stubProjectService{})

	c, rec := authed(e, httptest.NewRequest(http.MethodGet, "/projects", nil))
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := string(decode(t, rec)["projects"]); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestProjectHandler_Update_PartialPatch(t *testing.T) {
	e := newEcho()
	svc := &stubProjectService{}
	h := NewProjectHandler(svc)

	c, rec := authed(e, jsonRequest(http.MethodPut, "/projects/"+projectID, `{"status":"Ready","createdBy":"someone-else"}`))
	c.SetParamNames("id")
	c.SetParamValues(projectID)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.patch.Title != nil || svc.patch.Status == nil || *svc.patch.Status != domain.StatusReady {
		t.Fatalf("unexpected patch: %+v", svc.patch)
	}
}

func TestProjectHandler_Delete(t *testing.T) {
	e := newEcho()

	c, rec := authed(e, httptest.NewRequest(http.MethodDelete, "/projects/"+projectID, nil))
	c.SetParamNames("id")
	c.SetParamValues(projectID)
	if err := NewProjectHandler(&stubProjectService{}).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = authed(e, httptest.NewRequest(http.MethodDelete, "/projects/"+projectID, nil))
	if err := NewProjectHandler(&stubProjectService{err: domain.ErrNotFound}).Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// --- pages ---

type stubPageService struct {
	ports.PageService
	createIn  ports.CreatePageInput
	listedFor string
}

func (s *stubPageService) Create(_ context.Context, _ domain.Caller, in ports.CreatePageInput) (*domain.Page, error) {
	s.createIn = in
	return &domain.Page{ID: pageID, ProjectID: in.ProjectID, Order: in.Order, ScreenshotPath: in.ScreenshotPath}, nil
}

func (s *stubPageService) ListByProject(_ context.Context, _ domain.Caller, projectID string) ([]*domain.Page, error) {
	s.listedFor = projectID
	return []*domain.Page{}, nil
}

func TestPageHandler_Create_OrderZeroIsValid(t *testing.T) {
	e := newEcho()
	svc := &stubPageService{}

	c, rec := authed(e, jsonRequest(http.MethodPost, "/pages", `{"projectId":"`+projectID+`","screenshotPath":"a.png","order":0,"positionX":1.5}`))
	if err := NewPageHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.createIn.Order != 0 || svc.createIn.PositionX == nil || *svc.createIn.PositionX != 1.5 {
		t.Fatalf("unexpected input: %+v", svc.createIn)
	}
}

func TestPageHandler_Create_MissingOrder(t *testing.T) {
	e := newEcho()
	c, _ := authed(e, jsonRequest(http.MethodPost, "/pages", `{"projectId":"`+projectID+`","screenshotPath":"a.png"}`))

	var ve *domain.ValidationError
	if err := NewPageHandler(&stubPageService{}).Create(c); !errors.As(err, &ve) || ve.Field != "order" {
		t.Fatalf("expected order ValidationError, got %v", err)
	}
}

func TestPageHandler_List_RequiresProjectID(t *testing.T) {
	e := newEcho()
	svc := &stubPageService{}

	c, _ := authed(e, httptest.NewRequest(http.MethodGet, "/pages", nil))
	var ve *domain.ValidationError
	if err := NewPageHandler(svc).List(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	c, rec := authed(e, httptest.NewRequest(http.MethodGet, "/pages?projectId="+projectID, nil))
	if err := NewPageHandler(svc).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.listedFor != projectID || rec.Code != http.StatusOK {
		t.Fatalf("unexpected list call: %q %d", svc.listedFor, rec.Code)
	}
}

// --- workflows ---

type stubWorkflowService struct {
	ports.WorkflowService
	called string
}

func (s *stubWorkflowService) ListByFromPage(context.Context, domain.Caller, string) ([]*domain.Workflow, error) {
	s.called = "from"
	return []*domain.Workflow{{ID: "w-1", FromPageID: pageID}}, nil
}

func (s *stubWorkflowService) ListByToPage(context.Context, domain.Caller, string) ([]*domain.Workflow, error) {
	s.called = "to"
	return []*domain.Workflow{}, nil
}

func (s *stubWorkflowService) ListByProject(context.Context, domain.Caller, string) ([]*domain.Workflow, error) {
	s.called = "project"
	return []*domain.Workflow{}, nil
}

func TestWorkflowHandler_ListFilters(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"?fromPageId=" + pageID, "from"},
		{"?toPageId=" + pageID, "to"},
		{"?projectId=" + projectID, "project"},
		{"?fromPageId=" + pageID + "&toPageId=" + pageID, "from"},
	}

	for _, tc := range tests {
		e := newEcho()
		svc := &stubWorkflowService{}
		c, rec := authed(e, httptest.NewRequest(http.MethodGet, "/workflows"+tc.query, nil))

		if err := NewWorkflowHandler(svc).List(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.query, err)
		}
		if svc.called != tc.want || rec.Code != http.StatusOK {
			t.Fatalf("%s: expected %s, got %s (%d)", tc.query, tc.want, svc.called, rec.Code)
		}
	}
}

func TestWorkflowHandler_NullLabel(t *testing.T) {
	e := newEcho()
	c, rec := authed(e, httptest.NewRequest(http.MethodGet, "/workflows?fromPageId="+pageID, nil))

	if err := NewWorkflowHandler(&stubWorkflowService{}).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var body struct {
		Workflows []map[string]any `json:"workflows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	label, present := body.Workflows[0]["label"]
	if !present || label != nil {
		t.Fatalf("expected label:null, got %v (present=%v)", label, present)
	}
}

func TestWorkflowHandler_ListWithoutFilter(t *testing.T) {
	e := newEcho()
	c, _ := authed(e, httptest.NewRequest(http.MethodGet, "/workflows", nil))

	var ve *domain.ValidationError
	if err := NewWorkflowHandler(&stubWorkflowService{}).List(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

// --- comments ---

type stubCommentService struct {
	ports.CommentService
	pageID, content string
}

func (s *stubCommentService) Create(_ context.Context, c domain.Caller, pageID, content string) (*domain.Comment, error) {
	s.pageID, s.content = pageID, content
	return &domain.Comment{ID: "c-1", PageID: pageID, UserID: c.UserID, Content: content}, nil
}

func TestCommentHandler_Create(t *testing.T) {
	e := newEcho()
	svc := &stubCommentService{}

	c, rec := authed(e, jsonRequest(http.MethodPost, "/comments", `{"pageId":"`+pageID+`","content":"looks good"}`))
	if err := NewCommentHandler(svc).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || svc.content != "looks good" || svc.pageID != pageID {
		t.Fatalf("unexpected result: %d %+v", rec.Code, svc)
	}
}

func TestCommentHandler_Create_EmptyContent(t *testing.T) {
	e := newEcho()
	c, _ := authed(e, jsonRequest(http.MethodPost, "/comments", `{"pageId":"`+pageID+`","content":""}`))

	var ve *domain.ValidationError
	if err := NewCommentHandler(&stubCommentService{}).Create(c); !errors.As(err, &ve) || ve.Field != "content" {
		t.Fatalf("expected content ValidationError, got %v", err)
	}
}

// --- assignments ---

type stubAssignmentService struct {
	ports.AssignmentService
	byUser string
}

func (s *stubAssignmentService) ListByUser(_ context.Context, _ domain.Caller, userID string) ([]*domain.ProjectAssignment, error) {
	s.byUser = userID
	return []*domain.ProjectAssignment{}, nil
}

func (s *stubAssignmentService) Create(context.Context, domain.Caller, string, string) (*domain.ProjectAssignment, error) {
	return nil, domain.ErrDuplicateAssignment
}

func TestAssignmentHandler_ListByUser(t *testing.T) {
	e := newEcho()
	svc := &stubAssignmentService{}

	c, rec := authed(e, httptest.NewRequest(http.MethodGet, "/assignments?userId=u-9", nil))
	if err := NewAssignmentHandler(svc).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.byUser != "u-9" || string(decode(t, rec)["assignments"]) != "[]" {
		t.Fatalf("unexpected result: %q %s", svc.byUser, rec.Body.String())
	}
}

func TestAssignmentHandler_CreateDuplicate(t *testing.T) {
	e := newEcho()
	c, _ := authed(e, jsonRequest(http.MethodPost, "/assignments", `{"projectId":"`+projectID+`","userId":"`+pageID+`"}`))

	if err := NewAssignmentHandler(&stubAssignmentService{}).Create(c); !errors.Is(err, domain.ErrDuplicateAssignment) {
		t.Fatalf("expected ErrDuplicateAssignment, got %v", err)
	}
}

// --- reports ---

type stubReportService struct {
	ports.ReportService
}

func (s *stubReportService) Generate(_ context.Context, _ domain.Caller, projectID string) (*domain.PDFReport, error) {
	return &domain.PDFReport{ID: "r-1", ProjectID: projectID, FilePath: "reports/" + projectID + "/r.pdf"}, nil
}

func TestReportHandler_Create(t *testing.T) {
	e := newEcho()
	c, rec := authed(e, jsonRequest(http.MethodPost, "/reports", `{"projectId":"`+projectID+`"}`))

	if err := NewReportHandler(&stubReportService{}).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var body struct {
		Report domain.PDFReport `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Report.ProjectID != projectID || body.Report.FilePath == "" {
		t.Fatalf("unexpected report: %+v", body.Report)
	}
}

func TestReportHandler_Create_BadProjectID(t *testing.T) {
	e := newEcho()
	c, _ := authed(e, jsonRequest(http.MethodPost, "/reports", `{"projectId":"not-a-uuid"}`))

	var ve *domain.ValidationError
	if err := NewReportHandler(&stubReportService{}).Create(c); !errors.As(err, &ve) || ve.Field != "projectId" {
		t.Fatalf("expected projectId ValidationError, got %v", err)
	}
}
