package postgres

import (
	"context"
	"database/sql"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const projectColumns = `id, title, description, status, created_by, created_at, updated_at`

type ProjectRepository struct {
	db DBTX
}

func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	out := *p
	if out.ID == "" {
		out.ID = newID()
	}

	query :=
		`INSERT INTO projects (id, title, description, status, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		out.ID, out.Title, nullString(out.Description), string(out.Status), out.CreatedBy, out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &out, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return p, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, translate(err, nil)
	}
	return collect(rows, scanProject)
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	query :=
		`UPDATE projects SET title = $2, description = $3, status = $4, updated_at = $5
		 WHERE id = $1
		 RETURNING ` + projectColumns

	row := r.db.QueryRowContext(ctx, query,
		p.ID, p.Title, nullString(p.Description), string(p.Status), p.UpdatedAt)
	out, err := scanProject(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return out, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "projects", id)
}

func scanProject(s scanner) (*domain.Project, error) {
	p := &domain.Project{}
	var (
		description sql.NullString
		status      string
	)
	if err := s.Scan(&p.ID, &p.Title, &description, &status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Description = stringPtr(description)
	p.Status = domain.ProjectStatus(status)
	return p, nil
}
