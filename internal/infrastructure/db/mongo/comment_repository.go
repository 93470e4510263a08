package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const collectionComments = "comments"

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	doc := *c
	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := insert(ctx, r.col, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &doc, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	return findOne[domain.Comment](ctx, r.col, bson.M{"_id": id})
}

func (r *CommentRepository) FindByPage(ctx context.Context, pageID string) ([]*domain.Comment, error) {
	return findMany[domain.Comment](ctx, r.col, bson.M{"page_id": pageID}, byCreation)
}

func (r *CommentRepository) CountByPage(ctx context.Context, pageID string) (int64, error) {
	return count(ctx, r.col, bson.M{"page_id": pageID})
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "page_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
}
