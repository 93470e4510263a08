package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// FindByPage returns the page's comments oldest first.
	FindByPage(ctx context.Context, pageID string) ([]*domain.Comment, error)
	CountByPage(ctx context.Context, pageID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type CommentService interface {
	// Create stores a comment authored by the caller.
	Create(ctx context.Context, caller domain.Caller, pageID, content string) (*domain.Comment, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Comment, error)
	ListByPage(ctx context.Context, caller domain.Caller, pageID string) ([]*domain.Comment, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}
