package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const collectionWorkflows = "workflows"

type WorkflowRepository struct {
	col *mongo.Collection
}

func NewWorkflowRepository(db *mongo.Database) *WorkflowRepository {
	return &WorkflowRepository{col: db.Collection(collectionWorkflows)}
}

func (r *WorkflowRepository) Create(ctx context.Context, w *domain.Workflow) (*domain.Workflow, error) {
	doc := *w
	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := insert(ctx, r.col, doc); err != nil {
		return nil, fmt.Errorf("insert workflow: %w", err)
	}
	return &doc, nil
}

func (r *WorkflowRepository) FindByID(ctx context.Context, id string) (*domain.Workflow, error) {
	return findOne[domain.Workflow](ctx, r.col, bson.M{"_id": id})
}

func (r *WorkflowRepository) FindByFromPage(ctx context.Context, pageID string) ([]*domain.Workflow, error) {
	return findMany[domain.Workflow](ctx, r.col, bson.M{"from_page_id": pageID}, byCreation)
}

func (r *WorkflowRepository) FindByToPage(ctx context.Context, pageID string) ([]*domain.Workflow, error) {
	return findMany[domain.Workflow](ctx, r.col, bson.M{"to_page_id": pageID}, byCreation)
}

func (r *WorkflowRepository) FindByPages(ctx context.Context, pageIDs []string) ([]*domain.Workflow, error) {
	return findMany[domain.Workflow](ctx, r.col, touching(pageIDs...), byCreation)
}

func (r *WorkflowRepository) CountByPage(ctx context.Context, pageID string) (int64, error) {
	return count(ctx, r.col, touching(pageID))
}

func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *WorkflowRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "from_page_id", Value: 1}}},
		{Keys: bson.D{{Key: "to_page_id", Value: 1}}},
	})
}

// touching matches workflows that start or end at one of pageIDs.
func touching(pageIDs ...string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"from_page_id": bson.M{"$in": pageIDs}},
		bson.M{"to_page_id": bson.M{"$in": pageIDs}},
	}}
}
