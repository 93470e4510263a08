package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// WorkflowRepository defines persistence operations for workflows.
type WorkflowRepository interface {
	Create(ctx context.Context, w *domain.Workflow) (*domain.Workflow, error)
	FindByID(ctx context.Context, id string) (*domain.Workflow, error)
	FindByFromPage(ctx context.Context, pageID string) ([]*domain.Workflow, error)
	FindByToPage(ctx context.Context, pageID string) ([]*domain.Workflow, error)
	// FindByPages returns workflows whose source or target is one of pageIDs.
	FindByPages(ctx context.Context, pageIDs []string) ([]*domain.Workflow, error)
	// CountByPage counts workflows starting or ending at pageID.
	CountByPage(ctx context.Context, pageID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

// CreateWorkflowInput carries the fields accepted when linking two pages.
type CreateWorkflowInput struct {
	FromPageID string
	ToPageID   string
	Label      *string
}

type WorkflowService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateWorkflowInput) (*domain.Workflow, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Workflow, error)
	ListByFromPage(ctx context.Context, caller domain.Caller, pageID string) ([]*domain.Workflow, error)
	ListByToPage(ctx context.Context, caller domain.Caller, pageID string) ([]*domain.Workflow, error)
	ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.Workflow, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}
