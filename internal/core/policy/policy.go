// Package policy decides which authenticated callers may act on which
// resources. Decisions are made by casbin against an embedded model; the
// policy file is picked by Mode.
//
// A caller is evaluated under every relation it holds towards the target
// project (owner, member, self, authenticated) and is allowed when any
// relation permits the action.
package policy

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/casbin/casbin/v3"
	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

//go:embed model.conf policy_permissive.csv policy_membership.csv
var embedFS embed.FS

// Mode selects the policy file.
type Mode string

const (
	// ModePermissive allows every authenticated caller everything.
	ModePermissive Mode = "permissive"
	// ModeMembership restricts project resources to the creator and assigned users.
	ModeMembership Mode = "membership"
)

const (
	relAuthenticated = "authenticated"
	relSelf          = "self"
	relMember        = "member"
	relOwner         = "owner"
)

// ProjectLookup resolves a project's creator.
type ProjectLookup interface {
	FindByID(ctx context.Context, id string) (*domain.Project, error)
}

// MembershipLookup resolves whether a user is assigned to a project.
type MembershipLookup interface {
	FindByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.ProjectAssignment, error)
}

// Evaluator implements ports.Policy.
type Evaluator struct {
	mode        Mode
	enforcer    *casbin.Enforcer
	projects    ProjectLookup
	memberships MembershipLookup
	log         zerolog.Logger
}

// NewEvaluator loads the embedded model and the policy for mode. The lookups
// are only consulted in ModeMembership and may be nil otherwise.
func NewEvaluator(mode Mode, projects ProjectLookup, memberships MembershipLookup, log zerolog.Logger) (*Evaluator, error) {
	var policyFile string
	switch mode {
	case ModePermissive, "":
		mode = ModePermissive
		policyFile = "policy_permissive.csv"
	case ModeMembership:
		if projects == nil || memberships == nil {
			return nil, errors.New("policy: membership mode needs project and membership lookups")
		}
		policyFile = "policy_membership.csv"
	default:
		return nil, fmt.Errorf("policy: unknown mode %q", mode)
	}

	dir, err := os.MkdirTemp("", "legacyapp-casbin-*")
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := writeEmbedToDir(dir, "model.conf", policyFile); err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(filepath.Join(dir, "model.conf"), filepath.Join(dir, policyFile))
	if err != nil {
		return nil, fmt.Errorf("policy: load enforcer: %w", err)
	}

	return &Evaluator{
		mode:        mode,
		enforcer:    enforcer,
		projects:    projects,
		memberships: memberships,
		log:         log,
	}, nil
}

func writeEmbedToDir(dir string, names ...string) error {
	for _, name := range names {
		data, err := embedFS.ReadFile(name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0600); err != nil {
			return err
		}
	}
	return nil
}

// Mode reports the active policy mode.
func (e *Evaluator) Mode() Mode {
	return e.mode
}

// Permit returns nil when caller may perform action, otherwise an error
// wrapping domain.ErrForbidden. Lookup failures are returned as-is.
func (e *Evaluator) Permit(ctx context.Context, caller domain.Caller, action domain.Action) error {
	if caller.UserID == "" {
		return fmt.Errorf("%w: anonymous caller", domain.ErrForbidden)
	}

	relations, err := e.relations(ctx, caller, action)
	if err != nil {
		return err
	}

	for _, rel := range relations {
		ok, err := e.enforcer.Enforce(rel, string(caller.Role), string(action.Kind), string(action.Op))
		if err != nil {
			return fmt.Errorf("policy: enforce: %w", err)
		}
		if ok {
			return nil
		}
	}

	e.log.Debug().
		Str("user_id", caller.UserID).
		Str("role", string(caller.Role)).
		Str("kind", string(action.Kind)).
		Str("op", string(action.Op)).
		Str("project_id", action.ProjectID).
		Msg("access denied")

	return fmt.Errorf("%w: %s %s", domain.ErrForbidden, action.Op, action.Kind)
}

// relations lists the caller's relations to the action's target, strongest
// first. Permissive mode never touches the stores.
func (e *Evaluator) relations(ctx context.Context, caller domain.Caller, action domain.Action) ([]string, error) {
	if e.mode == ModePermissive {
		return []string{relAuthenticated}, nil
	}

	var rels []string
	if action.ProjectID != "" {
		project, err := e.projects.FindByID(ctx, action.ProjectID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// Unknown project: only the authenticated relation applies.
		case err != nil:
			return nil, fmt.Errorf("policy: resolve owner: %w", err)
		case project.CreatedBy == caller.UserID:
			rels = append(rels, relOwner)
		}

		if len(rels) == 0 {
			_, err := e.memberships.FindByProjectAndUser(ctx, action.ProjectID, caller.UserID)
			switch {
			case err == nil:
				rels = append(rels, relMember)
			case !errors.Is(err, domain.ErrNotFound):
				return nil, fmt.Errorf("policy: resolve membership: %w", err)
			}
		}
	}
	if action.SubjectUserID != "" && action.SubjectUserID == caller.UserID {
		rels = append(rels, relSelf)
	}
	return append(rels, relAuthenticated), nil
}
