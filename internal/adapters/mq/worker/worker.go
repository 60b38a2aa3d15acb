// Package worker runs the asynchronous marker fetch pipeline.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/refsight/refsight/internal/adapters/mq/queue"
	"github.com/refsight/refsight/internal/domain/model"
	"github.com/refsight/refsight/pkg/logger"
	"github.com/refsight/refsight/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	metricsUpdateInterval = 5 * time.Second
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Fetcher performs the upstream round trip for one game's markers.
type Fetcher interface {
	FetchMarkers(ctx context.Context, gameID string) ([]model.Marker, error)
}

// Committer applies a fetched marker set if, and only if, the request tag
// is still the session's current one. Returns false when the result was
// discarded as stale.
type Committer interface {
	CommitMarkers(ctx context.Context, req queue.FetchRequest, markers []model.Marker) bool
}

// Queue defines how workers receive fetch requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.FetchRequest
}

// Worker processes fetch requests until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// FetchWorker implements Worker for the marker fetch pipeline.
type FetchWorker struct {
	queue     Queue
	fetcher   Fetcher
	committer Committer
	name      string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewFetchWorker creates a new worker with configuration options.
func NewFetchWorker(q Queue, fetcher Fetcher, committer Committer, opts ...Option) *FetchWorker {
	w := &FetchWorker{
		queue:     q,
		fetcher:   fetcher,
		committer: committer,
		name:      "fetch-worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("fetch-worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "fetch-worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *FetchWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			if err := w.process(ctx, req); err != nil {
				w.logger.Error(ctx, "fetch request failed", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *FetchWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process handles a single fetch request: round trip, then guarded commit.
func (w *FetchWorker) process(ctx context.Context, req queue.FetchRequest) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	markers, err := w.fetcher.FetchMarkers(ctx, req.GameID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "fetch_error")
		metrics.RecordErrorByType("fetch_error", "high")
		w.logger.Error(ctx, "marker fetch failed",
			logger.String("gameID", req.GameID),
			logger.Error(err),
		)
		return fmt.Errorf("fetch markers for game %s: %w", req.GameID, err)
	}

	if committed := w.committer.CommitMarkers(ctx, req, markers); !committed {
		// The session moved to another game while this fetch was in flight.
		metrics.RecordStaleDiscard()
		w.logger.Debug(ctx, "stale marker fetch discarded",
			logger.String("gameID", req.GameID),
			logger.String("tag", req.Tag),
		)
		return nil
	}

	metrics.RecordMarkersFetched(len(markers))
	return nil
}

// Pool manages multiple fetch workers.
type Pool struct {
	workers   []*FetchWorker
	queue     Queue
	fetcher   Fetcher
	committer Committer

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q Queue, fetcher Fetcher, committer Committer) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
		if n := runtime.NumCPU(); n < workerCount {
			workerCount = n
		}
	}

	pool := &Pool{
		workers:   make([]*FetchWorker, workerCount),
		queue:     q,
		fetcher:   fetcher,
		committer: committer,
		shutdown:  make(chan struct{}),
		logger:    logger.Get().Named("fetch-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewFetchWorker(
			q,
			fetcher,
			committer,
			WithName("fetch-worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerActiveCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker stop timed out", logger.Error(err))
		}
	}
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
