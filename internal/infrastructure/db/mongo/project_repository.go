package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const collectionProjects = "projects"

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	doc := *p
	if doc.ID == "" {
		doc.ID = newID()
	}
	if err := insert(ctx, r.col, doc); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return &doc, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	return findOne[domain.Project](ctx, r.col, bson.M{"_id": id})
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	return findMany[domain.Project](ctx, r.col, bson.M{}, byCreation)
}

func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if err := replaceByID(ctx, r.col, p.ID, p); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, p.ID)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	return createIndexes(ctx, r.col, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: byCreation},
	})
}
