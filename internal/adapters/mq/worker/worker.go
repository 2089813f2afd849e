// Package worker turns queued document jobs into submissions. Each job is
// processed in isolation: an error or panic becomes a per-document error
// on the job's reply channel and never stops the worker.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/pkg/logger"
	"github.com/okian/screener/pkg/metrics"
)

// Default worker configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.Job

// Processor converts one document into a submission.
type Processor interface {
	Process(ctx context.Context, doc model.Document) (model.Submission, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, doc model.Document) (model.Submission, error)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, doc model.Document) (model.Submission, error) {
	return f(ctx, doc)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for a single goroutine.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	name      string
	processed *atomic.Int64

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(queue Queue, processor Processor, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		processor: processor,
		name:      "worker",
		processed: &atomic.Int64{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Processed returns the number of jobs this worker has answered.
func (w *InMemoryWorker) Processed() int64 {
	return w.processed.Load()
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.reply(ctx, j, w.processJob(ctx, j))
		}
	}
}

// Shutdown stops the worker and waits for the loop to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob runs the processor with panic recovery.
func (w *InMemoryWorker) processJob(ctx context.Context, j Job) model.DocumentOutcome { //nolint:gocritic // hugeParam: Job is received by value
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	var (
		sub     model.Submission
		err     error
		catcher panics.Catcher
	)
	catcher.Try(func() {
		sub, err = w.processor.Process(ctx, j.Document)
	})
	if r := catcher.Recovered(); r != nil {
		metrics.RecordWorkerPanic()
		metrics.RecordErrorByType("worker_panic", "high")
		err = r.AsError()
	}

	out := model.DocumentOutcome{Index: j.Index}
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "document_error")
		metrics.RecordDocumentProcessed("error")
		w.logger.Warn(ctx, "document failed",
			logger.String("job_id", j.ID),
			logger.String("filename", j.Document.Filename),
			logger.Error(err),
		)
		out.Err = &model.DocumentError{Filename: j.Document.Filename, Error: err.Error()}
		return out
	}
	if sub.Filename == "" {
		sub.Filename = j.Document.Filename
	}
	metrics.RecordDocumentProcessed("ok")
	out.Submission = &sub
	return out
}

func (w *InMemoryWorker) reply(ctx context.Context, j Job, out model.DocumentOutcome) { //nolint:gocritic // hugeParam: Job is received by value
	w.processed.Add(1)
	if j.Reply == nil {
		return
	}
	select {
	case j.Reply <- out:
	case <-ctx.Done():
	case <-w.shutdown:
	}
}

// Pool manages multiple workers reading the same queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown     chan struct{}
	shutdownOnce sync.Once

	processed         *atomic.Int64
	lastProcessed     int64
	lastProcessedTime time.Time

	logger logger.Logger
}

// NewPool creates a worker pool. A count below one uses runtime.NumCPU.
func NewPool(workerCount int, queue Queue, processor Processor, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	cfg := poolConfig{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		shutdown:          make(chan struct{}),
		processed:         &atomic.Int64{},
		lastProcessedTime: time.Now(),
		logger:            cfg.logger.Named("worker-pool"),
	}

	for i := range workerCount {
		w := NewInMemoryWorker(queue, processor,
			WithLogger(cfg.logger),
			WithName("worker-"+strconv.Itoa(i)),
		)
		w.processed = pool.processed
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of jobs answered by all workers.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

func (p *Pool) updateMetrics() {
	now := time.Now()
	total := p.processed.Load()
	if elapsed := now.Sub(p.lastProcessedTime).Seconds(); elapsed > 0 {
		metrics.UpdateWorkerMessagesPerSecond(float64(total-p.lastProcessed) / elapsed)
	}
	p.lastProcessed = total
	p.lastProcessedTime = now
}

// Shutdown closes the queue when it supports it, then waits for every
// worker to exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	p.shutdownOnce.Do(func() { close(p.shutdown) })

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
