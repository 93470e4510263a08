package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/legacyapp/legacyapp-api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// ErrQueueFull is returned by Enqueue when the owning worker has no room left.
var ErrQueueFull = errors.New("render queue is full")

// RenderJob asks a worker to produce the report stored under Key.
type RenderJob struct {
	ReportID  string
	ProjectID string
	Key       string
}

// Handler executes one render job.
type Handler interface {
	Render(ctx context.Context, job RenderJob) error
}

// Dispatcher routes render jobs to a fixed set of workers using consistent
// hashing on the project ID, so jobs of one project run in submission order.
type Dispatcher struct {
	workers []chan RenderJob
	handler Handler
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler Handler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan RenderJob, numWorkers),
		handler: handler,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan RenderJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands job to the worker responsible for its project without blocking.
func (d *Dispatcher) Enqueue(job RenderJob) error {
	idx := d.shardIndex(job.ProjectID)
	select {
	case d.workers[idx] <- job:
		metrics.ReportQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return nil
	default:
		return ErrQueueFull
	}
}

// shardIndex maps a project ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(projectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(projectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan RenderJob) {
	defer d.wg.Done()
	depth := metrics.ReportQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()

			start := time.Now()
			status := "ok"
			if err := d.handler.Render(ctx, job); err != nil {
				status = "error"
				d.log.Error().Err(err).
					Str("project_id", job.ProjectID).
					Str("key", job.Key).
					Int("worker_id", id).
					Msg("report render failed")
			}
			metrics.ReportRenderDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
		}
	}
}
