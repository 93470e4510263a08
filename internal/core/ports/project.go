package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// ProjectRepository defines persistence operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// FindAll returns every project in creation order.
	FindAll(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// CreateProjectInput carries the fields accepted when creating a project.
// An empty Status defaults to Working; an empty CreatedBy defaults to the caller.
type CreateProjectInput struct {
	Title       string
	Description *string
	Status      domain.ProjectStatus
	CreatedBy   string
}

type ProjectService interface {
	Create(ctx context.Context, caller domain.Caller, in CreateProjectInput) (*domain.Project, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Project, error)
	List(ctx context.Context, caller domain.Caller) ([]*domain.Project, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch domain.ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}
