package postgres

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const commentColumns = `id, page_id, user_id, content, created_at`

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	out := *c
	if out.ID == "" {
		out.ID = newID()
	}

	query :=
		`INSERT INTO comments (id, page_id, user_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, out.ID, out.PageID, out.UserID, out.Content, out.CreatedAt)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &out, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return c, nil
}

func (r *CommentRepository) FindByPage(ctx context.Context, pageID string) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE page_id = $1 ORDER BY created_at, id`, pageID)
	if err != nil {
		return nil, translate(err, nil)
	}
	return collect(rows, scanComment)
}

func (r *CommentRepository) CountByPage(ctx context.Context, pageID string) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM comments WHERE page_id = $1`, pageID)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "comments", id)
}

func scanComment(s scanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	if err := s.Scan(&c.ID, &c.PageID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}
