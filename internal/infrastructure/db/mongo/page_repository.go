package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const collectionPages = "pages"

type PageRepository struct {
	col *mongo.Collection
}

func NewPageRepository(db *mongo.Database) *PageRepository {
	return &PageRepository{col: db.Collection(collectionPages)}
}

func (r *PageRepository) Create(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	doc := *p
	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := insert(ctx, r.col, doc); err != nil {
		return nil, fmt.Errorf("insert page: %w", err)
	}
	return &doc, nil
}

func (r *PageRepository) FindByID(ctx context.Context, id string) (*domain.Page, error) {
	return findOne[domain.Page](ctx, r.col, bson.M{"_id": id})
}

func (r *PageRepository) FindByProject(ctx context.Context, projectID string) ([]*domain.Page, error) {
	return findMany[domain.Page](ctx, r.col, bson.M{"project_id": projectID}, byCreation)
}

func (r *PageRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	return count(ctx, r.col, bson.M{"project_id": projectID})
}

func (r *PageRepository) Update(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	if err := replaceByID(ctx, r.col, p.ID, p); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PageRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *PageRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
}
