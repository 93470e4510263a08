package postgres

import (
	"context"
	"database/sql"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const pageColumns = `id, project_id, title, screenshot_path, sort_order, position_x, position_y, created_at, updated_at`

type PageRepository struct {
	db DBTX
}

func NewPageRepository(db DBTX) *PageRepository {
	return &PageRepository{db: db}
}

func (r *PageRepository) Create(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	out := *p
	if out.ID == "" {
		out.ID = newID()
	}

	query :=
		`INSERT INTO pages (id, project_id, title, screenshot_path, sort_order, position_x, position_y, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		out.ID, out.ProjectID, nullString(out.Title), out.ScreenshotPath, out.Order,
		nullFloat(out.PositionX), nullFloat(out.PositionY), out.CreatedAt, out.UpdatedAt)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &out, nil
}

func (r *PageRepository) FindByID(ctx context.Context, id string) (*domain.Page, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id)
	p, err := scanPage(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return p, nil
}

func (r *PageRepository) FindByProject(ctx context.Context, projectID string) ([]*domain.Page, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE project_id = $1 ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, translate(err, nil)
	}
	return collect(rows, scanPage)
}

func (r *PageRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM pages WHERE project_id = $1`, projectID)
}

func (r *PageRepository) Update(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	query :=
		`UPDATE pages SET title = $2, screenshot_path = $3, sort_order = $4, position_x = $5, position_y = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING ` + pageColumns

	row := r.db.QueryRowContext(ctx, query,
		p.ID, nullString(p.Title), p.ScreenshotPath, p.Order, nullFloat(p.PositionX), nullFloat(p.PositionY), p.UpdatedAt)
	out, err := scanPage(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return out, nil
}

func (r *PageRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "pages", id)
}

func scanPage(s scanner) (*domain.Page, error) {
	p := &domain.Page{}
	var (
		title      sql.NullString
		posX, posY sql.NullFloat64
	)
	if err := s.Scan(&p.ID, &p.ProjectID, &title, &p.ScreenshotPath, &p.Order, &posX, &posY, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Title = stringPtr(title)
	p.PositionX = floatPtr(posX)
	p.PositionY = floatPtr(posY)
	return p, nil
}
