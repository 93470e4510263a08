package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/api/metrics"
	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type projectService struct {
	projects    ports.ProjectRepository
	users       ports.UserRepository
	pages       ports.PageRepository
	assignments ports.AssignmentRepository
	reports     ports.ReportRepository
	policy      ports.Policy
	log         zerolog.Logger
}

// NewProjectService returns a ProjectService implementation. Pages,
// assignments and reports are consulted before a delete so a project with
// children is never removed.
func NewProjectService(
	projects ports.ProjectRepository,
	users ports.UserRepository,
	pages ports.PageRepository,
	assignments ports.AssignmentRepository,
	reports ports.ReportRepository,
	policy ports.Policy,
	log zerolog.Logger,
) ports.ProjectService {
	return &projectService{
		projects:    projects,
		users:       users,
		pages:       pages,
		assignments: assignments,
		reports:     reports,
		policy:      policy,
		log:         log,
	}
}

func (s *projectService) Create(ctx context.Context, caller domain.Caller, in ports.CreateProjectInput) (*domain.Project, error) {
	if err := requireText("title", in.Title); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.StatusWorking
	}
	if !in.Status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of: Working Review Ready")
	}
	if in.CreatedBy == "" {
		in.CreatedBy = caller.UserID
	}
	if err := requireID("createdBy", in.CreatedBy); err != nil {
		return nil, err
	}

	creator, err := s.users.FindByID(ctx, in.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", asReference(err, "createdBy"))
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindProject, Op: domain.OpCreate}); err != nil {
		return nil, err
	}

	ts := now()
	created, err := s.projects.Create(ctx, &domain.Project{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	created.CreatedByName = creator.Name

	metrics.EntitiesCreatedTotal.WithLabelValues(string(domain.KindProject)).Inc()
	s.log.Info().Str("project_id", created.ID).Str("created_by", created.CreatedBy).Msg("project created")
	return created, nil
}

func (s *projectService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Project, error) {
	project, err := s.load(ctx, caller, id, domain.OpRead)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, newUserNames(s.users), project); err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, caller domain.Caller) ([]*domain.Project, error) {
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindProject, Op: domain.OpList}); err != nil {
		return nil, err
	}
	projects, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	names := newUserNames(s.users)
	visible := make([]*domain.Project, 0, len(projects))
	for _, p := range projects {
		// Only projects the caller may read are listed.
		err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindProject, Op: domain.OpRead, ProjectID: p.ID})
		if errors.Is(err, domain.ErrForbidden) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := s.decorate(ctx, names, p); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		visible = append(visible, p)
	}
	return visible, nil
}

func (s *projectService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	if patch.Title != nil {
		if err := requireText("title", *patch.Title); err != nil {
			return nil, err
		}
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of: Working Review Ready")
	}

	project, err := s.load(ctx, caller, id, domain.OpUpdate)
	if err != nil {
		return nil, err
	}
	patch.Apply(project)
	project.UpdatedAt = now()

	updated, err := s.projects.Update(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if err := s.decorate(ctx, newUserNames(s.users), updated); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := s.load(ctx, caller, id, domain.OpDelete); err != nil {
		return err
	}

	counters := []struct {
		what  string
		count func(context.Context, string) (int64, error)
	}{
		{"pages", s.pages.CountByProject},
		{"assignments", s.assignments.CountByProject},
		{"reports", s.reports.CountByProject},
	}
	for _, c := range counters {
		n, err := c.count(ctx, id)
		if err != nil {
			return fmt.Errorf("delete project: count %s: %w", c.what, err)
		}
		if n > 0 {
			return fmt.Errorf("delete project: %w: %d %s", domain.ErrHasDependents, n, c.what)
		}
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	s.log.Info().Str("project_id", id).Msg("project deleted")
	return nil
}

// load fetches the project and checks op against it.
func (s *projectService) load(ctx context.Context, caller domain.Caller, id string, op domain.Operation) (*domain.Project, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s project: %w", op, err)
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindProject, Op: op, ProjectID: id}); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) decorate(ctx context.Context, names *userNames, p *domain.Project) error {
	name, err := names.lookup(ctx, p.CreatedBy)
	if err != nil {
		return err
	}
	p.CreatedByName = name

	count, err := s.pages.CountByProject(ctx, p.ID)
	if err != nil {
		return err
	}
	p.PagesCount = count
	return nil
}
