package pdf

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
	"github.com/legacyapp/legacyapp-api/internal/core/ports"
	"github.com/legacyapp/legacyapp-api/internal/infrastructure/queue"
)

func strPtr(s string) *string { return &s }

func sampleSnapshot() *ports.ReportSnapshot {
	return &ports.ReportSnapshot{
		Project: &domain.Project{
			ID:          "p-1",
			Title:       "Checkout redesign",
			Description: strPtr("Señor café flow"),
			Status:      domain.StatusReview,
		},
		Pages: []*domain.Page{
			{ID: "pg-1", ProjectID: "p-1", Title: strPtr("Cart"), ScreenshotPath: "shots/cart.png", Order: 1},
			{ID: "pg-2", ProjectID: "p-1", ScreenshotPath: "shots/pay.png", Order: 2},
		},
		Workflows: []*domain.Workflow{
			{ID: "w-1", FromPageID: "pg-1", ToPageID: "pg-2", Label: strPtr("pay")},
		},
		Assignments: []*domain.ProjectAssignment{{ID: "a-1", ProjectID: "p-1", UserID: "u-2"}},
	}
}

func TestRender_ProducesPDF(t *testing.T) {
	data, err := Render(sampleSnapshot(), time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "missing PDF header")
	assert.Greater(t, len(data), 200)
}

func TestRender_EmptyProject(t *testing.T) {
	data, err := Render(&ports.ReportSnapshot{Project: &domain.Project{Title: "Empty", Status: domain.StatusWorking}}, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRender_NilSnapshot(t *testing.T) {
	_, err := Render(nil, time.Now())
	assert.Error(t, err)
}

type fakeQueue struct {
	jobs []queue.RenderJob
	err  error
}

func (q *fakeQueue) Enqueue(job queue.RenderJob) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func TestGenerator_ReserveIsUnique(t *testing.T) {
	g := NewGenerator(&fakeQueue{}, &memStore{})

	key := g.Reserve("p-1")
	assert.True(t, strings.HasPrefix(key, "reports/p-1/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, g.Reserve("p-1"))
}

func TestGenerator_ScheduleEnqueuesReport(t *testing.T) {
	q := &fakeQueue{}
	g := NewGenerator(q, &memStore{})

	report := &domain.PDFReport{ID: "r-1", ProjectID: "p-1", FilePath: "reports/p-1/x.pdf"}
	require.NoError(t, g.Schedule(context.Background(), report))
	require.Len(t, q.jobs, 1)
	assert.Equal(t, queue.RenderJob{ReportID: "r-1", ProjectID: "p-1", Key: "reports/p-1/x.pdf"}, q.jobs[0])
}

func TestGenerator_QueueFull(t *testing.T) {
	g := NewGenerator(&fakeQueue{err: queue.ErrQueueFull}, &memStore{})

	err := g.Schedule(context.Background(), &domain.PDFReport{ID: "r-1", ProjectID: "p-1", FilePath: "k.pdf"})
	assert.ErrorIs(t, err, queue.ErrQueueFull)
}

func TestGenerator_Discard(t *testing.T) {
	store := &memStore{}
	require.NoError(t, store.Put(context.Background(), "k.pdf", []byte("%PDF-"), contentType))
	g := NewGenerator(&fakeQueue{}, store)

	require.NoError(t, g.Discard(context.Background(), "k.pdf"))
	assert.NotContains(t, store.objects, "k.pdf")
}

type fakeSource struct {
	snap *ports.ReportSnapshot
	err  error
}

func (s fakeSource) Snapshot(context.Context, string) (*ports.ReportSnapshot, error) {
	return s.snap, s.err
}

type memStore struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	if m.objects == nil {
		m.objects = map[string][]byte{}
		m.types = map[string]string{}
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

type fakeGuard struct {
	released []string
	ctxErrs  []error
}

func (g *fakeGuard) Acquire(_ context.Context, _, key string) (string, bool, error) {
	return key, true, nil
}

func (g *fakeGuard) Release(ctx context.Context, projectID string) error {
	g.released = append(g.released, projectID)
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	return nil
}

func TestWorker_RendersAndStores(t *testing.T) {
	store := &memStore{}
	guard := &fakeGuard{}
	w := NewWorker(fakeSource{snap: sampleSnapshot()}, store, guard, zerolog.Nop())

	err := w.Render(context.Background(), queue.RenderJob{ProjectID: "p-1", Key: "reports/p-1/x.pdf"})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(store.objects["reports/p-1/x.pdf"], []byte("%PDF-")))
	assert.Equal(t, "application/pdf", store.types["reports/p-1/x.pdf"])
	assert.Equal(t, []string{"p-1"}, guard.released)
}

func TestWorker_ReleasesGuardOnFailure(t *testing.T) {
	guard := &fakeGuard{}
	w := NewWorker(fakeSource{err: domain.ErrNotFound}, &memStore{}, guard, zerolog.Nop())

	err := w.Render(context.Background(), queue.RenderJob{ProjectID: "p-1", Key: "k.pdf"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, []string{"p-1"}, guard.released)
}

func TestWorker_ReleasesGuardAfterShutdown(t *testing.T) {
	guard := &fakeGuard{}
	w := NewWorker(fakeSource{snap: sampleSnapshot()}, &memStore{}, guard, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = w.Render(ctx, queue.RenderJob{ReportID: "r-1", ProjectID: "p-1", Key: "k.pdf"})

	require.Equal(t, []string{"p-1"}, guard.released)
	assert.NoError(t, guard.ctxErrs[0], "release must not inherit the cancelled context")
}
