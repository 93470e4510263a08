package memory

import (
	"context"
	"slices"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

type UserRepository struct{ rows *table[domain.User] }

// Create stores the user; addresses are compared exactly.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	return r.rows.insert(user, func(u *domain.User) bool { return u.Email == user.Email }, domain.ErrEmailTaken)
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.rows.get(id)
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.rows.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	return r.rows.filter(func(u *domain.User) bool { return u.Role == role }), nil
}

type ProjectRepository struct{ rows *table[domain.Project] }

func (r *ProjectRepository) Create(_ context.Context, p *domain.Project) (*domain.Project, error) {
	return r.rows.insert(p, nil, nil)
}

func (r *ProjectRepository) FindByID(_ context.Context, id string) (*domain.Project, error) {
	return r.rows.get(id)
}

func (r *ProjectRepository) FindAll(_ context.Context) ([]*domain.Project, error) {
	return r.rows.filter(all[domain.Project]), nil
}

func (r *ProjectRepository) Update(_ context.Context, p *domain.Project) (*domain.Project, error) {
	return r.rows.replace(p)
}

func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

type PageRepository struct{ rows *table[domain.Page] }

func (r *PageRepository) Create(_ context.Context, p *domain.Page) (*domain.Page, error) {
	return r.rows.insert(p, nil, nil)
}

func (r *PageRepository) FindByID(_ context.Context, id string) (*domain.Page, error) {
	return r.rows.get(id)
}

func (r *PageRepository) FindByProject(_ context.Context, projectID string) ([]*domain.Page, error) {
	return r.rows.filter(func(p *domain.Page) bool { return p.ProjectID == projectID }), nil
}

func (r *PageRepository) CountByProject(_ context.Context, projectID string) (int64, error) {
	return r.rows.count(func(p *domain.Page) bool { return p.ProjectID == projectID }), nil
}

func (r *PageRepository) Update(_ context.Context, p *domain.Page) (*domain.Page, error) {
	return r.rows.replace(p)
}

func (r *PageRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

type WorkflowRepository struct{ rows *table[domain.Workflow] }

func (r *WorkflowRepository) Create(_ context.Context, w *domain.Workflow) (*domain.Workflow, error) {
	return r.rows.insert(w, nil, nil)
}

func (r *WorkflowRepository) FindByID(_ context.Context, id string) (*domain.Workflow, error) {
	return r.rows.get(id)
}

func (r *WorkflowRepository) FindByFromPage(_ context.Context, pageID string) ([]*domain.Workflow, error) {
	return r.rows.filter(func(w *domain.Workflow) bool { return w.FromPageID == pageID }), nil
}

func (r *WorkflowRepository) FindByToPage(_ context.Context, pageID string) ([]*domain.Workflow, error) {
	return r.rows.filter(func(w *domain.Workflow) bool { return w.ToPageID == pageID }), nil
}

func (r *WorkflowRepository) FindByPages(_ context.Context, pageIDs []string) ([]*domain.Workflow, error) {
	return r.rows.filter(func(w *domain.Workflow) bool {
		return slices.Contains(pageIDs, w.FromPageID) || slices.Contains(pageIDs, w.ToPageID)
	}), nil
}

func (r *WorkflowRepository) CountByPage(_ context.Context, pageID string) (int64, error) {
	return r.rows.count(func(w *domain.Workflow) bool { return w.FromPageID == pageID || w.ToPageID == pageID }), nil
}

func (r *WorkflowRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

type CommentRepository struct{ rows *table[domain.Comment] }

func (r *CommentRepository) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	return r.rows.insert(c, nil, nil)
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	return r.rows.get(id)
}

func (r *CommentRepository) FindByPage(_ context.Context, pageID string) ([]*domain.Comment, error) {
	return r.rows.filter(func(c *domain.Comment) bool { return c.PageID == pageID }), nil
}

func (r *CommentRepository) CountByPage(_ context.Context, pageID string) (int64, error) {
	return r.rows.count(func(c *domain.Comment) bool { return c.PageID == pageID }), nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

type AssignmentRepository struct {
	rows *table[domain.ProjectAssignment]
}

func (r *AssignmentRepository) Create(_ context.Context, a *domain.ProjectAssignment) (*domain.ProjectAssignment, error) {
	return r.rows.insert(a, func(existing *domain.ProjectAssignment) bool {
		return existing.ProjectID == a.ProjectID && existing.UserID == a.UserID
	}, domain.ErrDuplicateAssignment)
}

func (r *AssignmentRepository) FindByID(_ context.Context, id string) (*domain.ProjectAssignment, error) {
	return r.rows.get(id)
}

func (r *AssignmentRepository) FindByProject(_ context.Context, projectID string) ([]*domain.ProjectAssignment, error) {
	return r.rows.filter(func(a *domain.ProjectAssignment) bool { return a.ProjectID == projectID }), nil
}

func (r *AssignmentRepository) FindByUser(_ context.Context, userID string) ([]*domain.ProjectAssignment, error) {
	return r.rows.filter(func(a *domain.ProjectAssignment) bool { return a.UserID == userID }), nil
}

func (r *AssignmentRepository) FindByProjectAndUser(_ context.Context, projectID, userID string) (*domain.ProjectAssignment, error) {
	return r.rows.find(func(a *domain.ProjectAssignment) bool { return a.ProjectID == projectID && a.UserID == userID })
}

func (r *AssignmentRepository) CountByProject(_ context.Context, projectID string) (int64, error) {
	return r.rows.count(func(a *domain.ProjectAssignment) bool { return a.ProjectID == projectID }), nil
}

func (r *AssignmentRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

type ReportRepository struct{ rows *table[domain.PDFReport] }

func (r *ReportRepository) Create(_ context.Context, rep *domain.PDFReport) (*domain.PDFReport, error) {
	return r.rows.insert(rep, nil, nil)
}

func (r *ReportRepository) FindByID(_ context.Context, id string) (*domain.PDFReport, error) {
	return r.rows.get(id)
}

func (r *ReportRepository) FindByProject(_ context.Context, projectID string) ([]*domain.PDFReport, error) {
	return r.rows.filter(func(rep *domain.PDFReport) bool { return rep.ProjectID == projectID }), nil
}

func (r *ReportRepository) CountByProject(_ context.Context, projectID string) (int64, error) {
	return r.rows.count(func(rep *domain.PDFReport) bool { return rep.ProjectID == projectID }), nil
}

func (r *ReportRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}
