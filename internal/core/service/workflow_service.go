package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/api/metrics"
	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type workflowService struct {
	workflows ports.WorkflowRepository
	pages     ports.PageRepository
	policy    ports.Policy
	log       zerolog.Logger
}

// NewWorkflowService returns a WorkflowService implementation.
func NewWorkflowService(workflows ports.WorkflowRepository, pages ports.PageRepository, policy ports.Policy, log zerolog.Logger) ports.WorkflowService {
	return &workflowService{workflows: workflows, pages: pages, policy: policy, log: log}
}

// Create links two distinct pages of the same project.
func (s *workflowService) Create(ctx context.Context, caller domain.Caller, in ports.CreateWorkflowInput) (*domain.Workflow, error) {
	if err := requireID("fromPageId", in.FromPageID); err != nil {
		return nil, err
	}
	if err := requireID("toPageId", in.ToPageID); err != nil {
		return nil, err
	}
	if in.FromPageID == in.ToPageID {
		return nil, domain.NewValidationError("toPageId", "must differ from fromPageId")
	}

	from, err := s.pages.FindByID(ctx, in.FromPageID)
	if err != nil {
		return nil, fmt.Errorf("create workflow: %w", asReference(err, "fromPageId"))
	}
	to, err := s.pages.FindByID(ctx, in.ToPageID)
	if err != nil {
		return nil, fmt.Errorf("create workflow: %w", asReference(err, "toPageId"))
	}
	if from.ProjectID != to.ProjectID {
		return nil, domain.NewValidationError("toPageId", "must belong to the same project as fromPageId")
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindWorkflow, Op: domain.OpCreate, ProjectID: from.ProjectID}); err != nil {
		return nil, err
	}

	created, err := s.workflows.Create(ctx, &domain.Workflow{
		FromPageID: in.FromPageID,
		ToPageID:   in.ToPageID,
		Label:      in.Label,
		CreatedAt:  now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create workflow: %w", err)
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(string(domain.KindWorkflow)).Inc()
	return created, nil
}

func (s *workflowService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Workflow, error) {
	return s.load(ctx, caller, id, domain.OpRead)
}

func (s *workflowService) ListByFromPage(ctx context.Context, caller domain.Caller, pageID string) ([]*domain.Workflow, error) {
	return s.listByPage(ctx, caller, "fromPageId", pageID, s.workflows.FindByFromPage)
}

func (s *workflowService) ListByToPage(ctx context.Context, caller domain.Caller, pageID string) ([]*domain.Workflow, error) {
	return s.listByPage(ctx, caller, "toPageId", pageID, s.workflows.FindByToPage)
}

func (s *workflowService) listByPage(
	ctx context.Context,
	caller domain.Caller,
	field, pageID string,
	find func(context.Context, string) ([]*domain.Workflow, error),
) ([]*domain.Workflow, error) {
	if err := requireID(field, pageID); err != nil {
		return nil, err
	}
	page, err := s.pages.FindByID(ctx, pageID)
	if errors.Is(err, domain.ErrNotFound) {
		return []*domain.Workflow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindWorkflow, Op: domain.OpList, ProjectID: page.ProjectID}); err != nil {
		return nil, err
	}

	workflows, err := find(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	return workflows, nil
}

// ListByProject returns every workflow touching a page of the project.
func (s *workflowService) ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.Workflow, error) {
	if err := requireID("projectId", projectID); err != nil {
		return nil, err
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindWorkflow, Op: domain.OpList, ProjectID: projectID}); err != nil {
		return nil, err
	}

	pages, err := s.pages.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	if len(pages) == 0 {
		return []*domain.Workflow{}, nil
	}
	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}

	workflows, err := s.workflows.FindByPages(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	return workflows, nil
}

func (s *workflowService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := s.load(ctx, caller, id, domain.OpDelete); err != nil {
		return err
	}
	if err := s.workflows.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

func (s *workflowService) load(ctx context.Context, caller domain.Caller, id string, op domain.Operation) (*domain.Workflow, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	w, err := s.workflows.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s workflow: %w", op, err)
	}

	var projectID string
	from, err := s.pages.FindByID(ctx, w.FromPageID)
	switch {
	case err == nil:
		projectID = from.ProjectID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("%s workflow: %w", op, err)
	}

	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindWorkflow, Op: op, ProjectID: projectID}); err != nil {
		return nil, err
	}
	return w, nil
}
