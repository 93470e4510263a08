package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/api/metrics"
	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type pageService struct {
	pages     ports.PageRepository
	projects  ports.ProjectRepository
	comments  ports.CommentRepository
	workflows ports.WorkflowRepository
	policy    ports.Policy
	log       zerolog.Logger
}

// NewPageService returns a PageService implementation.
func NewPageService(
	pages ports.PageRepository,
	projects ports.ProjectRepository,
	comments ports.CommentRepository,
	workflows ports.WorkflowRepository,
	policy ports.Policy,
	log zerolog.Logger,
) ports.PageService {
	return &pageService{
		pages:     pages,
		projects:  projects,
		comments:  comments,
		workflows: workflows,
		policy:    policy,
		log:       log,
	}
}

func (s *pageService) Create(ctx context.Context, caller domain.Caller, in ports.CreatePageInput) (*domain.Page, error) {
	if err := requireID("projectId", in.ProjectID); err != nil {
		return nil, err
	}
	if err := requireText("screenshotPath", in.ScreenshotPath); err != nil {
		return nil, err
	}

	if _, err := s.projects.FindByID(ctx, in.ProjectID); err != nil {
		return nil, fmt.Errorf("create page: %w", asReference(err, "projectId"))
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindPage, Op: domain.OpCreate, ProjectID: in.ProjectID}); err != nil {
		return nil, err
	}

	ts := now()
	created, err := s.pages.Create(ctx, &domain.Page{
		ProjectID:      in.ProjectID,
		Title:          in.Title,
		ScreenshotPath: in.ScreenshotPath,
		Order:          in.Order,
		PositionX:      in.PositionX,
		PositionY:      in.PositionY,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(string(domain.KindPage)).Inc()
	return created, nil
}

func (s *pageService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Page, error) {
	return s.load(ctx, caller, id, domain.OpRead)
}

func (s *pageService) ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.Page, error) {
	if err := requireID("projectId", projectID); err != nil {
		return nil, err
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindPage, Op: domain.OpList, ProjectID: projectID}); err != nil {
		return nil, err
	}
	pages, err := s.pages.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Order < pages[j].Order })
	return pages, nil
}

func (s *pageService) Update(ctx context.Context, caller domain.Caller, id string, patch domain.PagePatch) (*domain.Page, error) {
	if patch.ScreenshotPath != nil {
		if err := requireText("screenshotPath", *patch.ScreenshotPath); err != nil {
			return nil, err
		}
	}

	page, err := s.load(ctx, caller, id, domain.OpUpdate)
	if err != nil {
		return nil, err
	}
	patch.Apply(page)
	page.UpdatedAt = now()

	updated, err := s.pages.Update(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("update page: %w", err)
	}
	return updated, nil
}

func (s *pageService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := s.load(ctx, caller, id, domain.OpDelete); err != nil {
		return err
	}

	comments, err := s.comments.CountByPage(ctx, id)
	if err != nil {
		return fmt.Errorf("delete page: count comments: %w", err)
	}
	workflows, err := s.workflows.CountByPage(ctx, id)
	if err != nil {
		return fmt.Errorf("delete page: count workflows: %w", err)
	}
	if comments+workflows > 0 {
		return fmt.Errorf("delete page: %w: %d comments, %d workflows", domain.ErrHasDependents, comments, workflows)
	}

	if err := s.pages.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}

func (s *pageService) load(ctx context.Context, caller domain.Caller, id string, op domain.Operation) (*domain.Page, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s page: %w", op, err)
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindPage, Op: op, ProjectID: page.ProjectID}); err != nil {
		return nil, err
	}
	return page, nil
}
