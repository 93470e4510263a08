package postgres

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const assignmentColumns = `id, project_id, user_id, assigned_at`

type AssignmentRepository struct {
	db DBTX
}

func NewAssignmentRepository(db DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.ProjectAssignment) (*domain.ProjectAssignment, error) {
	out := *a
	if out.ID == "" {
		out.ID = newID()
	}

	query :=
		`INSERT INTO project_assignments (id, project_id, user_id, assigned_at)
		 VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, out.ID, out.ProjectID, out.UserID, out.AssignedAt)
	if err != nil {
		return nil, translate(err, domain.ErrDuplicateAssignment)
	}
	return &out, nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.ProjectAssignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM project_assignments WHERE id = $1`, id)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return a, nil
}

func (r *AssignmentRepository) FindByProject(ctx context.Context, projectID string) ([]*domain.ProjectAssignment, error) {
	return r.list(ctx, `WHERE project_id = $1`, projectID)
}

func (r *AssignmentRepository) FindByUser(ctx context.Context, userID string) ([]*domain.ProjectAssignment, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

func (r *AssignmentRepository) FindByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.ProjectAssignment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM project_assignments WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return a, nil
}

func (r *AssignmentRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM project_assignments WHERE project_id = $1`, projectID)
}

func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "project_assignments", id)
}

func (r *AssignmentRepository) list(ctx context.Context, where string, arg string) ([]*domain.ProjectAssignment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM project_assignments `+where+` ORDER BY assigned_at, id`, arg)
	if err != nil {
		return nil, translate(err, nil)
	}
	return collect(rows, scanAssignment)
}

func scanAssignment(s scanner) (*domain.ProjectAssignment, error) {
	a := &domain.ProjectAssignment{}
	if err := s.Scan(&a.ID, &a.ProjectID, &a.UserID, &a.AssignedAt); err != nil {
		return nil, err
	}
	return a, nil
}
