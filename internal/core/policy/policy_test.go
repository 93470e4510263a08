package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

type stubProjects struct {
	byID  map[string]*domain.Project
	calls int
}

func (s *stubProjects) FindByID(_ context.Context, id string) (*domain.Project, error) {
	s.calls++
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

type stubMemberships struct {
	pairs map[string]bool
	err   error
}

func (s *stubMemberships) FindByProjectAndUser(_ context.Context, projectID, userID string) (*domain.ProjectAssignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.pairs[projectID+"/"+userID] {
		return &domain.ProjectAssignment{ProjectID: projectID, UserID: userID}, nil
	}
	return nil, domain.ErrNotFound
}

func newMembershipEvaluator(t *testing.T) (*Evaluator, *stubProjects, *stubMemberships) {
	t.Helper()
	projects := &stubProjects{byID: map[string]*domain.Project{
		"p1": {ID: "p1", CreatedBy: "owner"},
	}}
	members := &stubMemberships{pairs: map[string]bool{
		"p1/dev":    true,
		"p1/leader": true,
	}}
	ev, err := NewEvaluator(ModeMembership, projects, members, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return ev, projects, members
}

func TestEvaluator_PermissiveAllowsEverything(t *testing.T) {
	projects := &stubProjects{}
	ev, err := NewEvaluator(ModePermissive, projects, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}

	caller := domain.Caller{UserID: "u1", Role: domain.RoleDeveloper}
	actions := []domain.Action{
		{Kind: domain.KindProject, Op: domain.OpDelete, ProjectID: "p1"},
		{Kind: domain.KindAssignment, Op: domain.OpCreate, ProjectID: "p1"},
		{Kind: domain.KindReport, Op: domain.OpDelete, ProjectID: "p9"},
		{Kind: domain.KindUser, Op: domain.OpList},
	}
	for _, a := range actions {
		if err := ev.Permit(context.Background(), caller, a); err != nil {
			t.Errorf("Permit(%+v) = %v, want nil", a, err)
		}
	}
	if projects.calls != 0 {
		t.Fatalf("permissive mode should not look up projects, got %d calls", projects.calls)
	}
}

func TestEvaluator_RejectsAnonymous(t *testing.T) {
	ev, err := NewEvaluator(ModePermissive, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	err = ev.Permit(context.Background(), domain.Caller{}, domain.Action{Kind: domain.KindProject, Op: domain.OpList})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestEvaluator_UnknownMode(t *testing.T) {
	if _, err := NewEvaluator("strict", nil, nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if _, err := NewEvaluator(ModeMembership, nil, nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected error when membership lookups are missing")
	}
}

func TestEvaluator_Membership(t *testing.T) {
	ev, _, _ := newMembershipEvaluator(t)
	ctx := context.Background()

	owner := domain.Caller{UserID: "owner", Role: domain.RoleDeveloper}
	dev := domain.Caller{UserID: "dev", Role: domain.RoleDeveloper}
	leader := domain.Caller{UserID: "leader", Role: domain.RoleProjectManager}
	outsider := domain.Caller{UserID: "outsider", Role: domain.RoleProjectManager}

	tests := []struct {
		name   string
		caller domain.Caller
		action domain.Action
		allow  bool
	}{
		{"owner deletes project", owner, domain.Action{Kind: domain.KindProject, Op: domain.OpDelete, ProjectID: "p1"}, true},
		{"member reads project", dev, domain.Action{Kind: domain.KindProject, Op: domain.OpRead, ProjectID: "p1"}, true},
		{"developer member cannot update project", dev, domain.Action{Kind: domain.KindProject, Op: domain.OpUpdate, ProjectID: "p1"}, false},
		{"manager member updates project", leader, domain.Action{Kind: domain.KindProject, Op: domain.OpUpdate, ProjectID: "p1"}, true},
		{"member creates page", dev, domain.Action{Kind: domain.KindPage, Op: domain.OpCreate, ProjectID: "p1"}, true},
		{"member cannot delete report", dev, domain.Action{Kind: domain.KindReport, Op: domain.OpDelete, ProjectID: "p1"}, false},
		{"manager member assigns", leader, domain.Action{Kind: domain.KindAssignment, Op: domain.OpCreate, ProjectID: "p1"}, true},
		{"developer member cannot assign", dev, domain.Action{Kind: domain.KindAssignment, Op: domain.OpCreate, ProjectID: "p1"}, false},
		{"outsider cannot read page", outsider, domain.Action{Kind: domain.KindPage, Op: domain.OpRead, ProjectID: "p1"}, false},
		{"outsider creates project", outsider, domain.Action{Kind: domain.KindProject, Op: domain.OpCreate}, true},
		{"outsider lists projects", outsider, domain.Action{Kind: domain.KindProject, Op: domain.OpList}, true},
		{"outsider cannot read project", outsider, domain.Action{Kind: domain.KindProject, Op: domain.OpRead, ProjectID: "p1"}, false},
		{"user lists own assignments", outsider, domain.Action{Kind: domain.KindAssignment, Op: domain.OpList, SubjectUserID: "outsider"}, true},
		{"user cannot list others assignments", outsider, domain.Action{Kind: domain.KindAssignment, Op: domain.OpList, SubjectUserID: "dev"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ev.Permit(ctx, tt.caller, tt.action)
			if tt.allow && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tt.allow && !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}
}

func TestEvaluator_MembershipLookupError(t *testing.T) {
	ev, _, members := newMembershipEvaluator(t)
	members.err = errors.New("db down")

	err := ev.Permit(context.Background(),
		domain.Caller{UserID: "dev", Role: domain.RoleDeveloper},
		domain.Action{Kind: domain.KindPage, Op: domain.OpRead, ProjectID: "p1"})
	if err == nil || errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected lookup error to propagate, got %v", err)
	}
}
