package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

// table is an insertion-ordered in-memory collection.
type table[T any] struct {
	order []string
	rows  map[string]*T
	err   error
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]*T)}
}

func (t *table[T]) put(id string, v *T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	clone := *v
	t.rows[id] = &clone
}

func (t *table[T]) get(id string) (*T, error) {
	if t.err != nil {
		return nil, t.err
	}
	v, ok := t.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (t *table[T]) del(id string) error {
	if t.err != nil {
		return t.err
	}
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) filter(match func(*T) bool) ([]*T, error) {
	if t.err != nil {
		return nil, t.err
	}
	out := []*T{}
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			clone := *v
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubUserRepo struct{ *table[domain.User] }

func (r stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.rows {
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	u.ID = uuid.NewString()
	r.put(u.ID, u)
	return r.get(u.ID)
}

func (r stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) { return r.get(id) }

func (r stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	users, err := r.filter(func(u *domain.User) bool { return u.Email == email })
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNotFound
	}
	return users[0], nil
}

func (r stubUserRepo) FindByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	return r.filter(func(u *domain.User) bool { return u.Role == role })
}

type stubProjectRepo struct{ *table[domain.Project] }

func (r stubProjectRepo) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	p.ID = uuid.NewString()
	r.put(p.ID, p)
	return r.get(p.ID)
}

func (r stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	return r.get(id)
}

func (r stubProjectRepo) FindAll(_ context.Context) ([]*domain.Project, error) {
	return r.filter(func(*domain.Project) bool { return true })
}

func (r stubProjectRepo) Update(_ context.Context, p *domain.Project) (*domain.Project, error) {
	if _, err := r.get(p.ID); err != nil {
		return nil, err
	}
	stored := *p
	stored.CreatedByName, stored.PagesCount = "", 0
	r.put(p.ID, &stored)
	return r.get(p.ID)
}

func (r stubProjectRepo) Delete(_ context.Context, id string) error { return r.del(id) }

type stubPageRepo struct{ *table[domain.Page] }

func (r stubPageRepo) Create(_ context.Context, p *domain.Page) (*domain.Page, error) {
	p.ID = uuid.NewString()
	r.put(p.ID, p)
	return r.get(p.ID)
}

func (r stubPageRepo) FindByID(_ context.Context, id string) (*domain.Page, error) { return r.get(id) }

func (r stubPageRepo) FindByProject(_ context.Context, projectID string) ([]*domain.Page, error) {
	return r.filter(func(p *domain.Page) bool { return p.ProjectID == projectID })
}

func (r stubPageRepo) CountByProject(ctx context.Context, projectID string) (int64, error) {
	pages, err := r.FindByProject(ctx, projectID)
	return int64(len(pages)), err
}

func (r stubPageRepo) Update(_ context.Context, p *domain.Page) (*domain.Page, error) {
	if _, err := r.get(p.ID); err != nil {
		return nil, err
	}
	r.put(p.ID, p)
	return r.get(p.ID)
}

func (r stubPageRepo) Delete(_ context.Context, id string) error { return r.del(id) }

type stubWorkflowRepo struct{ *table[domain.Workflow] }

func (r stubWorkflowRepo) Create(_ context.Context, w *domain.Workflow) (*domain.Workflow, error) {
	w.ID = uuid.NewString()
	r.put(w.ID, w)
	return r.get(w.ID)
}

func (r stubWorkflowRepo) FindByID(_ context.Context, id string) (*domain.Workflow, error) {
	return r.get(id)
}

func (r stubWorkflowRepo) FindByFromPage(_ context.Context, pageID string) ([]*domain.Workflow, error) {
	return r.filter(func(w *domain.Workflow) bool { return w.FromPageID == pageID })
}

func (r stubWorkflowRepo) FindByToPage(_ context.Context, pageID string) ([]*domain.Workflow, error) {
	return r.filter(func(w *domain.Workflow) bool { return w.ToPageID == pageID })
}

func (r stubWorkflowRepo) FindByPages(_ context.Context, pageIDs []string) ([]*domain.Workflow, error) {
	in := make(map[string]bool, len(pageIDs))
	for _, id := range pageIDs {
		in[id] = true
	}
	return r.filter(func(w *domain.Workflow) bool { return in[w.FromPageID] || in[w.ToPageID] })
}

func (r stubWorkflowRepo) CountByPage(ctx context.Context, pageID string) (int64, error) {
	ws, err := r.FindByPages(ctx, []string{pageID})
	return int64(len(ws)), err
}

func (r stubWorkflowRepo) Delete(_ context.Context, id string) error { return r.del(id) }

type stubCommentRepo struct{ *table[domain.Comment] }

func (r stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	c.ID = uuid.NewString()
	r.put(c.ID, c)
	return r.get(c.ID)
}

func (r stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	return r.get(id)
}

func (r stubCommentRepo) FindByPage(_ context.Context, pageID string) ([]*domain.Comment, error) {
	return r.filter(func(c *domain.Comment) bool { return c.PageID == pageID })
}

func (r stubCommentRepo) CountByPage(ctx context.Context, pageID string) (int64, error) {
	cs, err := r.FindByPage(ctx, pageID)
	return int64(len(cs)), err
}

func (r stubCommentRepo) Delete(_ context.Context, id string) error { return r.del(id) }

type stubAssignmentRepo struct {
	*table[domain.ProjectAssignment]
}

func (r stubAssignmentRepo) Create(_ context.Context, a *domain.ProjectAssignment) (*domain.ProjectAssignment, error) {
	a.ID = uuid.NewString()
	r.put(a.ID, a)
	return r.get(a.ID)
}

func (r stubAssignmentRepo) FindByID(_ context.Context, id string) (*domain.ProjectAssignment, error) {
	return r.get(id)
}

func (r stubAssignmentRepo) FindByProject(_ context.Context, projectID string) ([]*domain.ProjectAssignment, error) {
	return r.filter(func(a *domain.ProjectAssignment) bool { return a.ProjectID == projectID })
}

func (r stubAssignmentRepo) FindByUser(_ context.Context, userID string) ([]*domain.ProjectAssignment, error) {
	return r.filter(func(a *domain.ProjectAssignment) bool { return a.UserID == userID })
}

func (r stubAssignmentRepo) FindByProjectAndUser(_ context.Context, projectID, userID string) (*domain.ProjectAssignment, error) {
	as, err := r.filter(func(a *domain.ProjectAssignment) bool { return a.ProjectID == projectID && a.UserID == userID })
	if err != nil {
		return nil, err
	}
	if len(as) == 0 {
		return nil, domain.ErrNotFound
	}
	return as[0], nil
}

func (r stubAssignmentRepo) CountByProject(ctx context.Context, projectID string) (int64, error) {
	as, err := r.FindByProject(ctx, projectID)
	return int64(len(as)), err
}

func (r stubAssignmentRepo) Delete(_ context.Context, id string) error { return r.del(id) }

type stubReportRepo struct{ *table[domain.PDFReport] }

func (r stubReportRepo) Create(_ context.Context, rep *domain.PDFReport) (*domain.PDFReport, error) {
	rep.ID = uuid.NewString()
	r.put(rep.ID, rep)
	return r.get(rep.ID)
}

func (r stubReportRepo) FindByID(_ context.Context, id string) (*domain.PDFReport, error) {
	return r.get(id)
}

func (r stubReportRepo) FindByProject(_ context.Context, projectID string) ([]*domain.PDFReport, error) {
	return r.filter(func(rep *domain.PDFReport) bool { return rep.ProjectID == projectID })
}

func (r stubReportRepo) CountByProject(ctx context.Context, projectID string) (int64, error) {
	rs, err := r.FindByProject(ctx, projectID)
	return int64(len(rs)), err
}

func (r stubReportRepo) Delete(_ context.Context, id string) error { return r.del(id) }

// stubPolicy allows everything unless deny is set.
type stubPolicy struct {
	deny    bool
	actions []domain.Action
}

func (p *stubPolicy) Permit(_ context.Context, _ domain.Caller, a domain.Action) error {
	p.actions = append(p.actions, a)
	if p.deny {
		return fmt.Errorf("%w: test", domain.ErrForbidden)
	}
	return nil
}

// stubHasher prefixes instead of hashing.
type stubHasher struct {
	hashed   int
	compared int
}

func (h *stubHasher) Hash(password string) (string, error) {
	h.hashed++
	return "hashed:" + password, nil
}

func (h *stubHasher) Compare(hash, password string) error {
	h.compared++
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type stubTokens struct{}

func (stubTokens) Issue(userID string, role domain.Role) (string, error) {
	return "token:" + userID + ":" + string(role), nil
}

func (stubTokens) Verify(token string) (domain.Caller, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return domain.Caller{}, domain.ErrInvalidToken
	}
	return domain.Caller{UserID: parts[1], Role: domain.Role(parts[2])}, nil
}

type stubGenerator struct {
	err       error
	reserved  int
	scheduled []*domain.PDFReport
	discarded []string
}

func (g *stubGenerator) Reserve(projectID string) string {
	g.reserved++
	return fmt.Sprintf("reports/%s/%d.pdf", projectID, g.reserved)
}

func (g *stubGenerator) Schedule(_ context.Context, r *domain.PDFReport) error {
	if g.err != nil {
		return g.err
	}
	g.scheduled = append(g.scheduled, r)
	return nil
}

func (g *stubGenerator) Discard(_ context.Context, key string) error {
	g.discarded = append(g.discarded, key)
	return nil
}

// stubGuard maps project IDs to the key currently rendering.
type stubGuard struct {
	held       map[string]string
	acquireErr error
	released   []string
}

func (g *stubGuard) Acquire(_ context.Context, projectID, key string) (string, bool, error) {
	if g.acquireErr != nil {
		return "", false, g.acquireErr
	}
	if current, ok := g.held[projectID]; ok {
		return current, false, nil
	}
	g.held[projectID] = key
	return key, true, nil
}

func (g *stubGuard) Release(_ context.Context, projectID string) error {
	delete(g.held, projectID)
	g.released = append(g.released, projectID)
	return nil
}

// ---------------------------------------------------------------------------
// Fixture: every service wired over the same stub stores.
// ---------------------------------------------------------------------------

type fixture struct {
	users       stubUserRepo
	projects    stubProjectRepo
	pages       stubPageRepo
	workflows   stubWorkflowRepo
	comments    stubCommentRepo
	assignments stubAssignmentRepo
	reports     stubReportRepo
	policy      *stubPolicy
	hasher      *stubHasher
	generator   *stubGenerator
	guard       *stubGuard

	auth          *AuthService
	userSvc       ports.UserService
	projectSvc    ports.ProjectService
	pageSvc       ports.PageService
	workflowSvc   ports.WorkflowService
	commentSvc    ports.CommentService
	assignmentSvc ports.AssignmentService
	reportSvc     ports.ReportService
}

func newFixture() *fixture {
	f := &fixture{
		users:       stubUserRepo{newTable[domain.User]()},
		projects:    stubProjectRepo{newTable[domain.Project]()},
		pages:       stubPageRepo{newTable[domain.Page]()},
		workflows:   stubWorkflowRepo{newTable[domain.Workflow]()},
		comments:    stubCommentRepo{newTable[domain.Comment]()},
		assignments: stubAssignmentRepo{newTable[domain.ProjectAssignment]()},
		reports:     stubReportRepo{newTable[domain.PDFReport]()},
		policy:      &stubPolicy{},
		hasher:      &stubHasher{},
		generator:   &stubGenerator{},
		guard:       &stubGuard{held: make(map[string]string)},
	}
	log := zerolog.Nop()
	f.auth = NewAuthService(f.users, f.hasher, stubTokens{}, log)
	f.userSvc = NewUserService(f.users, f.policy, log)
	f.projectSvc = NewProjectService(f.projects, f.users, f.pages, f.assignments, f.reports, f.policy, log)
	f.pageSvc = NewPageService(f.pages, f.projects, f.comments, f.workflows, f.policy, log)
	f.workflowSvc = NewWorkflowService(f.workflows, f.pages, f.policy, log)
	f.commentSvc = NewCommentService(f.comments, f.pages, f.users, f.policy, log)
	f.assignmentSvc = NewAssignmentService(f.assignments, f.projects, f.users, f.policy, log)
	f.reportSvc = NewReportService(f.reports, f.projects, f.generator, f.guard, f.policy, log)
	return f
}

// seedUser registers a user and returns it as a caller.
func (f *fixture) seedUser(t *testing.T, email, name string, role domain.Role) domain.Caller {
	t.Helper()
	u, _, err := f.auth.Register(context.Background(), ports.RegisterInput{
		Email: email, Password: "secret1", Name: name, Role: role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return domain.Caller{UserID: u.ID, Role: u.Role}
}

func (f *fixture) seedProject(t *testing.T, caller domain.Caller, title string) *domain.Project {
	t.Helper()
	p, err := f.projectSvc.Create(context.Background(), caller, ports.CreateProjectInput{Title: title})
	if err != nil {
		t.Fatalf("seed project %s: %v", title, err)
	}
	return p
}

func (f *fixture) seedPage(t *testing.T, caller domain.Caller, projectID string, order int) *domain.Page {
	t.Helper()
	p, err := f.pageSvc.Create(context.Background(), caller, ports.CreatePageInput{
		ProjectID: projectID, ScreenshotPath: fmt.Sprintf("/shots/%d.png", order), Order: order,
	})
	if err != nil {
		t.Fatalf("seed page %d: %v", order, err)
	}
	return p
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError on %s, got %v", field, err)
	}
	if ve.Field != field {
		t.Fatalf("expected ValidationError on %s, got field %s", field, ve.Field)
	}
}
