package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type userService struct {
	users  ports.UserRepository
	policy ports.Policy
	log    zerolog.Logger
}

// NewUserService returns a UserService implementation.
func NewUserService(users ports.UserRepository, policy ports.Policy, log zerolog.Logger) ports.UserService {
	return &userService{users: users, policy: policy, log: log}
}

func (s *userService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.User, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindUser, Op: domain.OpRead, SubjectUserID: id}); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListByRole lists users holding role; an empty role means project managers,
// the users a project can be handed to.
func (s *userService) ListByRole(ctx context.Context, caller domain.Caller, role domain.Role) ([]*domain.User, error) {
	if role == "" {
		role = domain.RoleProjectManager
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "must be one of: ProjectManager Developer")
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindUser, Op: domain.OpList}); err != nil {
		return nil, err
	}
	users, err := s.users.FindByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
