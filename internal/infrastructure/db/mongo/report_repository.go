package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const collectionReports = "pdf_reports"

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

var byGeneration = bson.D{{Key: "generated_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.PDFReport) (*domain.PDFReport, error) {
	doc := *rep
	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := insert(ctx, r.col, doc); err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return &doc, nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.PDFReport, error) {
	return findOne[domain.PDFReport](ctx, r.col, bson.M{"_id": id})
}

func (r *ReportRepository) FindByProject(ctx context.Context, projectID string) ([]*domain.PDFReport, error) {
	return findMany[domain.PDFReport](ctx, r.col, bson.M{"project_id": projectID}, byGeneration)
}

func (r *ReportRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	return count(ctx, r.col, bson.M{"project_id": projectID})
}

func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "generated_at", Value: 1}}},
	})
}
