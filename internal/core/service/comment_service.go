package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/api/metrics"
	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
)

type commentService struct {
	comments ports.CommentRepository
	pages    ports.PageRepository
	users    ports.UserRepository
	policy   ports.Policy
	log      zerolog.Logger
}

// NewCommentService returns a CommentService implementation.
func NewCommentService(
	comments ports.CommentRepository,
	pages ports.PageRepository,
	users ports.UserRepository,
	policy ports.Policy,
	log zerolog.Logger,
) ports.CommentService {
	return &commentService{comments: comments, pages: pages, users: users, policy: policy, log: log}
}

func (s *commentService) Create(ctx context.Context, caller domain.Caller, pageID, content string) (*domain.Comment, error) {
	if err := requireID("pageId", pageID); err != nil {
		return nil, err
	}
	if err := requireText("content", content); err != nil {
		return nil, err
	}

	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", asReference(err, "pageId"))
	}
	author, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", asReference(err, "userId"))
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindComment, Op: domain.OpCreate, ProjectID: page.ProjectID}); err != nil {
		return nil, err
	}

	created, err := s.comments.Create(ctx, &domain.Comment{
		PageID:    pageID,
		UserID:    author.ID,
		Content:   content,
		CreatedAt: now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	created.UserName = author.Name

	metrics.EntitiesCreatedTotal.WithLabelValues(string(domain.KindComment)).Inc()
	return created, nil
}

func (s *commentService) Get(ctx context.Context, caller domain.Caller, id string) (*domain.Comment, error) {
	c, err := s.load(ctx, caller, id, domain.OpRead)
	if err != nil {
		return nil, err
	}
	if c.UserName, err = newUserNames(s.users).lookup(ctx, c.UserID); err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// ListByPage returns the page's comments oldest first.
func (s *commentService) ListByPage(ctx context.Context, caller domain.Caller, pageID string) ([]*domain.Comment, error) {
	if err := requireID("pageId", pageID); err != nil {
		return nil, err
	}
	page, err := s.pages.FindByID(ctx, pageID)
	if errors.Is(err, domain.ErrNotFound) {
		return []*domain.Comment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindComment, Op: domain.OpList, ProjectID: page.ProjectID}); err != nil {
		return nil, err
	}

	comments, err := s.comments.FindByPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	sort.SliceStable(comments, func(i, j int) bool { return comments[i].CreatedAt.Before(comments[j].CreatedAt) })

	names := newUserNames(s.users)
	for _, c := range comments {
		if c.UserName, err = names.lookup(ctx, c.UserID); err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
	}
	return comments, nil
}

func (s *commentService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if _, err := s.load(ctx, caller, id, domain.OpDelete); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *commentService) load(ctx context.Context, caller domain.Caller, id string, op domain.Operation) (*domain.Comment, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s comment: %w", op, err)
	}

	var projectID string
	page, err := s.pages.FindByID(ctx, c.PageID)
	switch {
	case err == nil:
		projectID = page.ProjectID
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("%s comment: %w", op, err)
	}

	if err := s.policy.Permit(ctx, caller, domain.Action{Kind: domain.KindComment, Op: op, ProjectID: projectID}); err != nil {
		return nil, err
	}
	return c, nil
}
