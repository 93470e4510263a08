package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// PageRepository defines persistence operations for pages.
type PageRepository interface {
	Create(ctx context.Context, p *domain.Page) (*domain.Page, error)
	FindByID(ctx context.Context, id string) (*domain.Page, error)
	// FindByProject returns the project's pages in insertion order.
	FindByProject(ctx context.Context, projectID string) ([]*domain.Page, error)
	CountByProject(ctx context.Context, projectID string) (int64, error)
	Update(ctx context.Context, p *domain.Page) (*domain.Page, error)
	Delete(ctx context.Context, id string) error
}

// CreatePageInput carries the fields accepted when creating a page.
type CreatePageInput struct {
	ProjectID      string
	Title          *string
	ScreenshotPath string
	Order          int
	PositionX      *float64
	PositionY      *float64
}

type PageService interface {
	Create(ctx context.Context, caller domain.Caller, in CreatePageInput) (*domain.Page, error)
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.Page, error)
	// ListByProject returns pages sorted by Order, ties kept in insertion order.
	ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.Page, error)
	Update(ctx context.Context, caller domain.Caller, id string, patch domain.PagePatch) (*domain.Page, error)
	Delete(ctx context.Context, caller domain.Caller, id string) error
}
