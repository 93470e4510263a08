package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const collectionAssignments = "project_assignments"

type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

var byAssignment = bson.D{{Key: "assigned_at", Value: 1}, {Key: "_id", Value: 1}}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.ProjectAssignment) (*domain.ProjectAssignment, error) {
	doc := *a
	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := insert(ctx, r.col, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateAssignment
		}
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	return &doc, nil
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*domain.ProjectAssignment, error) {
	return findOne[domain.ProjectAssignment](ctx, r.col, bson.M{"_id": id})
}

func (r *AssignmentRepository) FindByProject(ctx context.Context, projectID string) ([]*domain.ProjectAssignment, error) {
	return findMany[domain.ProjectAssignment](ctx, r.col, bson.M{"project_id": projectID}, byAssignment)
}

func (r *AssignmentRepository) FindByUser(ctx context.Context, userID string) ([]*domain.ProjectAssignment, error) {
	return findMany[domain.ProjectAssignment](ctx, r.col, bson.M{"user_id": userID}, byAssignment)
}

func (r *AssignmentRepository) FindByProjectAndUser(ctx context.Context, projectID, userID string) (*domain.ProjectAssignment, error) {
	return findOne[domain.ProjectAssignment](ctx, r.col, bson.M{"project_id": projectID, "user_id": userID})
}

func (r *AssignmentRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	return count(ctx, r.col, bson.M{"project_id": projectID})
}

func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	})
}
