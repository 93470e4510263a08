package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/legacyapp/legacyapp-api/internal/api"
	"github.com/legacyapp/legacyapp-api/internal/core/policy"
	"github.com/legacyapp/legacyapp-api/internal/core/service"
	redisdb "github.com/legacyapp/legacyapp-api/internal/infrastructure/db/redis"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/http/handlers"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/pdf"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/queue"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/security"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/storage"
	"github.com/legacyapp/legacyapp-api/internal/pkg/config"
	"github.com/legacyapp/legacyapp-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "legacyapp-api",
	})

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	evaluator, err := policy.NewEvaluator(policy.Mode(cfg.Auth.Mode), st.repos.projects, st.repos.assignments, log)
	if err != nil {
		return err
	}

	artifacts, err := openArtifactStore(ctx, cfg)
	if err != nil {
		return err
	}

	r := st.repos
	guard := redisdb.NewReportGuard(rdb, cfg.Reports.DedupWindow)
	worker := pdf.NewWorker(service.NewReportSource(r.projects, r.pages, r.workflows, r.assignments), artifacts, guard, log)
	dispatcher := queue.NewDispatcher(cfg.Reports.Workers, worker, log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	tokens := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	e := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(r.users, security.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, log),
		Users:       service.NewUserService(r.users, evaluator, log),
		Projects:    service.NewProjectService(r.projects, r.users, r.pages, r.assignments, r.reports, evaluator, log),
		Pages:       service.NewPageService(r.pages, r.projects, r.comments, r.workflows, evaluator, log),
		Workflows:   service.NewWorkflowService(r.workflows, r.pages, evaluator, log),
		Comments:    service.NewCommentService(r.comments, r.pages, r.users, evaluator, log),
		Assignments: service.NewAssignmentService(r.assignments, r.projects, r.users, evaluator, log),
		Reports:     service.NewReportService(r.reports, r.projects, pdf.NewGenerator(dispatcher, artifacts), guard, evaluator, log),
		Tokens:      tokens,
		Readiness: append(st.readiness, handlers.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Log: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
	case err := <-errCh:
		cancelWorkers()
		dispatcher.Wait()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	cancelWorkers()
	dispatcher.Wait()

	log.Info().Msg("server stopped")
	return nil
}

func openArtifactStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Reports.Storage == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.Reports.Dir)
}
