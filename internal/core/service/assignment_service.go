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

type assignmentService struct {
	assignments ports.AssignmentRepository
	projects    ports.ProjectRepository
	users       ports.UserRepository
	policy      ports.Policy
	log         zerolog.Logger
}

// NewAssignmentService returns an AssignmentService implementation.
func NewAssignmentService(
	assignments ports.AssignmentRepository,
	projects ports.ProjectRepository,
	users ports.UserRepository,
	policy ports.Policy,
	log zerolog.Logger,
) ports.AssignmentService {
	return &assignmentService{assignments: assignments, projects: projects, users: users, policy: policy, log: log}
}

// Create puts userID on the project team. A user is assigned at most once.
func (s *assignmentService) Create(ctx context.Context, caller domain.Caller, projectID, userID string) (*domain.ProjectAssignment, error) {
	if err := requireID("projectId", projectID); err != nil {
		return nil, err
	}
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}

	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("create assignment: %w", asReference(err, "projectId"))
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("create assignment: %w", asReference(err, "userId"))
	}
	action := domain.Action{Kind: domain.KindAssignment, Op: domain.OpCreate, ProjectID: projectID, SubjectUserID: userID}
	if err := s.policy.Permit(ctx, caller, action); err != nil {
		return nil, err
	}

	_, err := s.assignments.FindByProjectAndUser(ctx, projectID, userID)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateAssignment
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	created, err := s.assignments.Create(ctx, &domain.ProjectAssignment{
		ProjectID:  projectID,
		UserID:     userID,
		AssignedAt: now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}

	metrics.EntitiesCreatedTotal.WithLabelValues(string(domain.KindAssignment)).Inc()
	s.log.Info().Str("project_id", projectID).Str("user_id", userID).Msg("user assigned to project")
	return created, nil
}

func (s *assignmentService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.ProjectAssignment, error) {
	return s.load(ctx, caller, id, domain.OpRead)
}

func (s *assignmentService) ListByProject(ctx context.Context, caller domain.Caller, projectID string) ([]*domain.ProjectAssignment, error) {
	if err := requireID("projectId", projectID); err != nil {
		return nil, err
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindAssignment, Op: domain.OpList, ProjectID: projectID}); err != nil {
		return nil, err
	}
	items, err := s.assignments.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return items, nil
}

func (s *assignmentService) ListByUser(ctx context.Context, caller domain.Caller, userID string) ([]*domain.ProjectAssignment, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindAssignment, Op: domain.OpList, SubjectUserID: userID}); err != nil {
		return nil, err
	}
	items, err := s.assignments.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return items, nil
}

func (s *assignmentService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := s.load(ctx, caller, id, domain.OpDelete); err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}

func (s *assignmentService) load(ctx context.Context, caller domain.Caller, id string, op domain.Operation) (*domain.ProjectAssignment, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	a, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s assignment: %w", op, err)
	}
	action := domain.Action{Kind: domain.KindAssignment, Op: op, ProjectID: a.ProjectID, SubjectUserID: a.UserID}
	if err := s.policy.Permit(ctx, caller, action); err != nil {
		return nil, err
	}
	return a, nil
}
