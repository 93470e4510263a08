package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingHandler struct {
	mu   sync.Mutex
	jobs []RenderJob
	err  error
	done chan struct{}
}

func (h *recordingHandler) Render(_ context.Context, job RenderJob) error {
	h.mu.Lock()
	h.jobs = append(h.jobs, job)
	h.mu.Unlock()
	if h.done != nil {
		h.done <- struct{}{}
	}
	return h.err
}

func (h *recordingHandler) seen() []RenderJob {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]RenderJob(nil), h.jobs...)
}

func waitN(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d jobs", i, n)
		}
	}
}

func TestDispatcher_PreservesPerProjectOrder(t *testing.T) {
	h := &recordingHandler{done: make(chan struct{}, 16)}
	d := NewDispatcher(3, h, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	keys := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"}
	for _, k := range keys {
		if err := d.Enqueue(RenderJob{ProjectID: "p-1", Key: k}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	waitN(t, h.done, len(keys))

	cancel()
	d.Wait()

	got := h.seen()
	for i, k := range keys {
		if got[i].Key != k {
			t.Fatalf("job %d: expected %s, got %s", i, k, got[i].Key)
		}
	}
}

func TestDispatcher_ContinuesAfterHandlerError(t *testing.T) {
	h := &recordingHandler{err: errors.New("boom"), done: make(chan struct{}, 4)}
	d := NewDispatcher(1, h, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	_ = d.Enqueue(RenderJob{ProjectID: "p-1", Key: "a.pdf"})
	_ = d.Enqueue(RenderJob{ProjectID: "p-1", Key: "b.pdf"})
	waitN(t, h.done, 2)

	if n := len(h.seen()); n != 2 {
		t.Fatalf("expected both jobs handled, got %d", n)
	}
}

func TestDispatcher_EnqueueFull(t *testing.T) {
	d := NewDispatcher(1, &recordingHandler{}, zerolog.Nop())

	// Workers not started: the buffer fills and then rejects.
	for i := 0; i < channelBuffer; i++ {
		if err := d.Enqueue(RenderJob{ProjectID: "p-1"}); err != nil {
			t.Fatalf("Enqueue %d: %v", i, err)
		}
	}
	if err := d.Enqueue(RenderJob{ProjectID: "p-1"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, &recordingHandler{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	first := d.shardIndex("p-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("p-42"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
}
