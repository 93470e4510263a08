package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/legacyapp/legacyapp-api/internal/core/ports"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/db/memory"
	mongodb "github.com/legacyapp/legacyapp-api/internal/infrastructure/db/mongo"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/db/postgres"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/http/handlers"
	"github.com/legacyapp/legacyapp-api/internal/pkg/config"
)

type repositories struct {
	users       ports.UserRepository
	projects    ports.ProjectRepository
	pages       ports.PageRepository
	workflows   ports.WorkflowRepository
	comments    ports.CommentRepository
	assignments ports.AssignmentRepository
	reports     ports.ReportRepository
}

// openedStore is the entity store selected by STORE_DRIVER together with its
// readiness probe and shutdown hook.
type openedStore struct {
	repos     repositories
	readiness []handlers.Dependency
	close     func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config) (*openedStore, error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			return nil, err
		}
		r := mongodb.NewRepositories(db)
		if err := r.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &openedStore{
			repos: repositories{r.Users, r.Projects, r.Pages, r.Workflows, r.Comments, r.Assignments, r.Reports},
			readiness: []handlers.Dependency{{
				Name: "mongo",
				Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
			}},
			close: client.Disconnect,
		}, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		r := postgres.NewRepositories(db)
		return &openedStore{
			repos:     repositories{r.Users, r.Projects, r.Pages, r.Workflows, r.Comments, r.Assignments, r.Reports},
			readiness: []handlers.Dependency{{Name: "postgres", Ping: db.PingContext}},
			close:     func(context.Context) error { return db.Close() },
		}, nil

	case "memory":
		r := memory.NewRepositories()
		return &openedStore{
			repos: repositories{r.Users, r.Projects, r.Pages, r.Workflows, r.Comments, r.Assignments, r.Reports},
			close: func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// runMigrate prepares the configured store schema and exits.
func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	switch cfg.StoreDriver {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		if err := mongodb.NewRepositories(db).EnsureIndexes(ctx); err != nil {
			return err
		}
	default:
		return errors.New("migrate: nothing to do for store driver " + cfg.StoreDriver)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.StoreDriver)
	return nil
}
