package postgres

import (
	"context"
	"database/sql"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const workflowColumns = `id, from_page_id, to_page_id, label, created_at`

type WorkflowRepository struct {
	db DBTX
}

func NewWorkflowRepository(db DBTX) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

func (r *WorkflowRepository) Create(ctx context.Context, w *domain.Workflow) (*domain.Workflow, error) {
	out := *w
	if out.ID == "" {
		out.ID = newID()
	}

	query :=
		`INSERT INTO workflows (id, from_page_id, to_page_id, label, created_at)
		 VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, out.ID, out.FromPageID, out.ToPageID, nullString(out.Label), out.CreatedAt)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &out, nil
}

func (r *WorkflowRepository) FindByID(ctx context.Context, id string) (*domain.Workflow, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE id = $1`, id)
	w, err := scanWorkflow(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return w, nil
}

func (r *WorkflowRepository) FindByFromPage(ctx context.Context, pageID string) ([]*domain.Workflow, error) {
	return r.list(ctx, `WHERE from_page_id = $1`, pageID)
}

func (r *WorkflowRepository) FindByToPage(ctx context.Context, pageID string) ([]*domain.Workflow, error) {
	return r.list(ctx, `WHERE to_page_id = $1`, pageID)
}

// FindByPages binds the ids as a text array so one query covers the set.
func (r *WorkflowRepository) FindByPages(ctx context.Context, pageIDs []string) ([]*domain.Workflow, error) {
	if len(pageIDs) == 0 {
		return []*domain.Workflow{}, nil
	}
	return r.list(ctx, `WHERE from_page_id::text = ANY($1) OR to_page_id::text = ANY($1)`, pageIDs)
}

func (r *WorkflowRepository) CountByPage(ctx context.Context, pageID string) (int64, error) {
	return countRows(ctx, r.db,
		`SELECT COUNT(*) FROM workflows WHERE from_page_id = $1 OR to_page_id = $1`, pageID)
}

func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "workflows", id)
}

func (r *WorkflowRepository) list(ctx context.Context, where string, arg any) ([]*domain.Workflow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+workflowColumns+` FROM workflows `+where+` ORDER BY created_at, id`, arg)
	if err != nil {
		return nil, translate(err, nil)
	}
	return collect(rows, scanWorkflow)
}

func scanWorkflow(s scanner) (*domain.Workflow, error) {
	w := &domain.Workflow{}
	var label sql.NullString
	if err := s.Scan(&w.ID, &w.FromPageID, &w.ToPageID, &label, &w.CreatedAt); err != nil {
		return nil, err
	}
	w.Label = stringPtr(label)
	return w, nil
}
