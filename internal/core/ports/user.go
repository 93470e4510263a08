package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create assigns a fresh ID and stores the user. A taken email yields
	// domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}

type UserService interface {
	Get(ctx context.Context, caller domain.Caller, id string) (*domain.User, error)
	ListByRole(ctx context.Context, caller domain.Caller, role domain.Role) ([]*domain.User, error)
}
