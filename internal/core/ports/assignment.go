package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// AssignmentRepository defines persistence operations for project assignments.
type AssignmentRepository interface {
	// Create stores the assignment. An existing (project, user) pair yields
	// domain.ErrDuplicateAssignment.
	Create(ctx context.Context, a *domain.ProjectAssignment) (*domain.ProjectAssignment, error)
	FindByID(ctx context.Context, id string) (*domain.ProjectAssignment, error)
	FindByProject(ctx context.Context, projectID string) ([]*domain.ProjectAssignment, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.ProjectAssignment, error)
	FindByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.ProjectAssignment, error)
	CountByProject(ctx context.Context, projectID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type AssignmentService interface {
	Create(ctx context.Context, caller domain.Caller, projectID, userID string) (*domain.ProjectAssignment, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.ProjectAssignment, error)
	ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.ProjectAssignment, error)
	ListByUser(ctx context.Context, caller domain.Caller, userID string) ([]*domain.ProjectAssignment, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}
