package ports

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     domain.Role
}

type AuthService interface {
	// Register stores a new user and returns it together with a fresh token.
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// PasswordHasher is a one-way hash with verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenManager issues and verifies bearer tokens.
type TokenManager interface {
	Issue(userID string, role domain.Role) (string, error)
	Verify(token string) (domain.Caller, error)
}

// Policy decides whether caller may perform action. It returns nil or an
// error wrapping domain.ErrForbidden.
type Policy interface {
	Permit(ctx context.Context, caller domain.Caller, action domain.Action) error
}
