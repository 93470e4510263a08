package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories bundles one repository per collection over a shared database.
type Repositories struct {
	Users       *UserRepository
	Projects    *ProjectRepository
	Pages       *PageRepository
	Workflows   *WorkflowRepository
	Comments    *CommentRepository
	Assignments *AssignmentRepository
	Reports     *ReportRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Projects:    NewProjectRepository(db),
		Pages:       NewPageRepository(db),
		Workflows:   NewWorkflowRepository(db),
		Comments:    NewCommentRepository(db),
		Assignments: NewAssignmentRepository(db),
		Reports:     NewReportRepository(db),
	}
}

// EnsureIndexes creates the foreign-key and uniqueness indexes of every collection.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	ensure := []func(context.Context) error{
		r.Users.EnsureIndexes,
		r.Projects.EnsureIndexes,
		r.Pages.EnsureIndexes,
		r.Workflows.EnsureIndexes,
		r.Comments.EnsureIndexes,
		r.Assignments.EnsureIndexes,
		r.Reports.EnsureIndexes,
	}
	for _, fn := range ensure {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// byCreation sorts documents oldest first. _id breaks ties between documents
// created in the same millisecond.
var byCreation = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &doc, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.M, sort bson.D) ([]*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	defer cur.Close(ctx)

	out := make([]*T, 0)
	for cur.Next(ctx) {
		var doc T
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
		}
		out = append(out, &doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", col.Name(), err)
	}
	return out, nil
}

func count(ctx context.Context, col *mongo.Collection, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", col.Name(), err)
	}
	return n, nil
}

func replaceByID(ctx context.Context, col *mongo.Collection, id string, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("replace %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func insert(ctx context.Context, col *mongo.Collection, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		return err
	}
	return nil
}

func createIndexes(ctx context.Context, col *mongo.Collection, indexes []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create %s indexes: %w", col.Name(), err)
	}
	return nil
}

// newID returns a UUIDv7. Its time-ordered prefix makes id a stable
// tie-break for rows created in the same millisecond.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
