package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/queue"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/storage"
)

const contentType = "application/pdf"

// Enqueuer accepts render jobs for background execution.
type Enqueuer interface {
	Enqueue(job queue.RenderJob) error
}

// Generator reserves artifact keys, schedules their rendering and removes
// artifacts no report references any more. It satisfies ports.ReportGenerator.
type Generator struct {
	queue Enqueuer
	store storage.Store
}

func NewGenerator(q Enqueuer, store storage.Store) *Generator {
	return &Generator{queue: q, store: store}
}

// Key returns the storage key layout used for reports of projectID.
func Key(projectID, renderID string) string {
	return fmt.Sprintf("reports/%s/%s.pdf", projectID, renderID)
}

func (g *Generator) Reserve(projectID string) string {
	return Key(projectID, uuid.NewString())
}

// Schedule queues the render of report into report.FilePath.
func (g *Generator) Schedule(_ context.Context, report *domain.PDFReport) error {
	job := queue.RenderJob{ReportID: report.ID, ProjectID: report.ProjectID, Key: report.FilePath}
	if err := g.queue.Enqueue(job); err != nil {
		return fmt.Errorf("schedule report: %w", err)
	}
	return nil
}

func (g *Generator) Discard(ctx context.Context, key string) error {
	return g.store.Delete(ctx, key)
}

// Worker renders queued jobs and writes them to the store. It satisfies
// queue.Handler.
type Worker struct {
	source ports.ReportSource
	store  storage.Store
	guard  ports.ReportGuard
	now    func() time.Time
	log    zerolog.Logger
}

func NewWorker(source ports.ReportSource, store storage.Store, guard ports.ReportGuard, log zerolog.Logger) *Worker {
	return &Worker{
		source: source,
		store:  store,
		guard:  guard,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

// Render produces one report. The project's render slot is released
// whatever the outcome, even when ctx is already cancelled.
func (w *Worker) Render(ctx context.Context, job queue.RenderJob) (err error) {
	defer func() {
		if relErr := w.guard.Release(context.WithoutCancel(ctx), job.ProjectID); relErr != nil {
			w.log.Warn().Err(relErr).Str("project_id", job.ProjectID).Msg("failed to release report guard")
		}
		if err != nil {
			w.log.Error().Err(err).
				Str("report_id", job.ReportID).
				Str("project_id", job.ProjectID).
				Str("key", job.Key).
				Msg("report render failed, artifact missing")
		}
	}()

	snap, err := w.source.Snapshot(ctx, job.ProjectID)
	if err != nil {
		return err
	}
	data, err := Render(snap, w.now())
	if err != nil {
		return err
	}
	if err := w.store.Put(ctx, job.Key, data, contentType); err != nil {
		return fmt.Errorf("store report: %w", err)
	}

	w.log.Info().
		Str("report_id", job.ReportID).
		Str("project_id", job.ProjectID).
		Str("key", job.Key).
		Int("bytes", len(data)).
		Msg("report rendered")
	return nil
}
