package postgres

import (
	"context"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const reportColumns = `id, project_id, generated_at, file_path`

type ReportRepository struct {
	db DBTX
}

func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.PDFReport) (*domain.PDFReport, error) {
	out := *rep
	if out.ID == "" {
		out.ID = newID()
	}

	query :=
		`INSERT INTO pdf_reports (id, project_id, generated_at, file_path)
		 VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, out.ID, out.ProjectID, out.GeneratedAt, out.FilePath)
	if err != nil {
		return nil, translate(err, nil)
	}
	return &out, nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.PDFReport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM pdf_reports WHERE id = $1`, id)
	rep, err := scanReport(row)
	if err != nil {
		return nil, translate(err, nil)
	}
	return rep, nil
}

func (r *ReportRepository) FindByProject(ctx context.Context, projectID string) ([]*domain.PDFReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM pdf_reports WHERE project_id = $1 ORDER BY generated_at, id`, projectID)
	if err != nil {
		return nil, translate(err, nil)
	}
	return collect(rows, scanReport)
}

func (r *ReportRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM pdf_reports WHERE project_id = $1`, projectID)
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	return deleteRow(ctx, r.db, "pdf_reports", id)
}

func scanReport(s scanner) (*domain.PDFReport, error) {
	rep := &domain.PDFReport{}
	if err := s.Scan(&rep.ID, &rep.ProjectID, &rep.GeneratedAt, &rep.FilePath); err != nil {
		return nil, err
	}
	return rep, nil
}
