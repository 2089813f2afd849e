// Package service wires extraction, redaction, profiling, scoring and cohort
// analytics into the batch operations served by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/screener/internal/adapters/extract"
	"github.com/okian/screener/internal/adapters/mq/queue"
	"github.com/okian/screener/internal/adapters/mq/worker"
	"github.com/okian/screener/internal/adapters/repository"
	"github.com/okian/screener/internal/domain/analysis"
	"github.com/okian/screener/internal/domain/analytics"
	"github.com/okian/screener/internal/domain/enrich"
	"github.com/okian/screener/internal/domain/fairness"
	"github.com/okian/screener/internal/domain/model"
	"github.com/okian/screener/internal/domain/nlp"
	"github.com/okian/screener/internal/domain/scoring"
	"github.com/okian/screener/pkg/logger"
	"github.com/okian/screener/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerCount    = 4
	defaultQueueSize      = 1024
	defaultMaxBatch       = 50
	defaultMaxTextLength  = 50_000
	defaultPayloadTextCap = 20_000
	defaultDIThreshold    = 0.8
)

// Service implements the ranking operations.
type Service struct {
	mu sync.RWMutex

	// Pipeline
	extractor extract.Extractor
	redactor  fairness.Redactor
	profiles  nlp.Extractor
	enricher  *enrich.Enricher
	analyzer  *analysis.Analyzer
	scorer    scoring.Scorer
	cohort    *analytics.Analyzer

	// Sessions
	store     repository.Store
	ownsStore bool
	locks     *repository.KeyedMutex

	// Document queue
	queue *queue.InMemoryQueue
	pool  *worker.Pool

	// Configuration
	workerCount    int
	queueSize      int
	maxBatch       int
	maxTextLength  int
	payloadTextCap int
	diThreshold    float64

	started bool
	logger  logger.Logger
}

// New constructs a Service with default components.
func New(opts ...Option) *Service {
	s := &Service{
		extractor:      extract.New(),
		redactor:       fairness.New(),
		profiles:       nlp.NewHeuristic(nil),
		enricher:       enrich.New(),
		analyzer:       analysis.New(),
		locks:          repository.NewKeyedMutex(),
		workerCount:    defaultWorkerCount,
		queueSize:      defaultQueueSize,
		maxBatch:       defaultMaxBatch,
		maxTextLength:  defaultMaxTextLength,
		payloadTextCap: defaultPayloadTextCap,
		diThreshold:    defaultDIThreshold,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scorer == nil {
		s.scorer = scoring.NewEngine(scoring.WithLogger(s.logger))
	}
	if s.cohort == nil {
		s.cohort = analytics.New(analytics.WithLogger(s.logger))
	}
	return s
}

// Start creates the session store when none was supplied and starts the
// document workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting screening service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx)
		s.ownsStore = true
	}
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue,
		worker.ProcessorFunc(s.readDocument),
		worker.WithPoolLogger(s.logger),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "screening service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatch", s.maxBatch),
	)
	return nil
}

// Stop drains the workers and closes the store it created.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping screening service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	if closer, ok := s.store.(interface{ Close() error }); ok && s.ownsStore {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(ctx, "screening service stopped")
}

// Process ranks the request's documents, together with any documents
// already accumulated under its session key.
func (s *Service) Process(ctx context.Context, req Request) (Response, error) {
	return s.rank(ctx, req, false)
}

// Analytics is Process plus projection, clustering, neighbors and the
// composite success score for every candidate.
func (s *Service) Analytics(ctx context.Context, req Request) (Response, error) {
	return s.rank(ctx, req, true)
}

func (s *Service) rank(ctx context.Context, req Request, withAnalytics bool) (Response, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Response{}, ErrNotStarted
	}
	if err := req.normalize(s.maxBatch); err != nil {
		return Response{}, err
	}

	resp := Response{
		RequestID: uuid.NewString(),
		SessionID: req.SessionID,
		Errors:    []model.DocumentError{},
	}
	ctx = logger.WithSessionID(logger.WithRequestID(ctx, resp.RequestID), req.SessionID)
	log := s.logger.Named("rank")
	log.Debug(ctx, "ranking request",
		logger.Int("documents", len(req.Documents)),
		logger.Bool("analytics", withAnalytics),
	)

	job := s.redactor.Redact(req.JobText)

	outcomes, err := s.readAll(ctx, resp.RequestID, req.Documents)
	if err != nil {
		return Response{}, err
	}
	bucket, err := s.accumulate(ctx, &req, job.Text, outcomes, &resp)
	if err != nil {
		return Response{}, err
	}

	cands := s.candidates(&req, bucket.Submissions)
	metrics.RecordBatchSize(len(cands))

	var (
		scored scoring.Result
		report analytics.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scored, err = s.scorer.Score(gctx, scoring.Input{
			JobText:    job.Text,
			Candidates: cands,
			HardSkills: req.HardSkills,
			NiceSkills: req.NiceSkills,
		})
		return err
	})
	if withAnalytics {
		g.Go(func() error {
			in := analytics.Input{
				JobText:   job.Text,
				Filenames: make([]string, len(cands)),
				Texts:     make([]string, len(cands)),
			}
			for i := range cands {
				in.Filenames[i] = cands[i].Filename
				in.Texts[i] = cands[i].Text
			}
			report = s.cohort.Run(gctx, in)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, fmt.Errorf("score batch: %w", err)
	}

	if withAnalytics {
		filenames := make([]string, len(cands))
		for i := range cands {
			filenames[i] = cands[i].Filename
		}
		analytics.Attach(scored.Candidates, filenames, report)
		resp.DegradedSteps = degradedSteps(report)
	}

	for i := range scored.Candidates {
		c := &scored.Candidates[i]
		c.RawText = truncate(c.RawText, s.payloadTextCap)
		c.RedactedText = truncate(c.RedactedText, s.payloadTextCap)
	}
	resp.Results = scored.Candidates
	resp.SemanticDegraded = scored.SemanticDegraded

	log.Info(ctx, "ranked batch",
		logger.Int("candidates", len(resp.Results)),
		logger.Int("errors", len(resp.Errors)),
	)
	return resp, nil
}

// readAll pushes every document through the queue and waits for all outcomes.
func (s *Service) readAll(ctx context.Context, requestID string, docs []model.Document) ([]model.DocumentOutcome, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	reply := make(chan model.DocumentOutcome, len(docs))
	for i, d := range docs {
		err := s.queue.Enqueue(ctx, model.Job{
			ID:       requestID + "-" + strconv.Itoa(i),
			Index:    i,
			Document: d,
			Reply:    reply,
		})
		if errors.Is(err, queue.ErrBackpressure) {
			return nil, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		if err != nil {
			return nil, fmt.Errorf("enqueue %s: %w", d.Filename, err)
		}
	}

	out := make([]model.DocumentOutcome, len(docs))
	for range docs {
		select {
		case o := <-reply:
			out[o.Index] = o
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for documents: %w", ctx.Err())
		}
	}
	return out, nil
}

// readDocument is the worker processor: extract, cap, redact, profile.
func (s *Service) readDocument(ctx context.Context, doc model.Document) (model.Submission, error) {
	start := time.Now()
	text, err := s.extractor.Extract(ctx, doc.Filename, doc.Data)
	if err != nil {
		return model.Submission{}, err
	}
	text = truncate(text, s.maxTextLength)

	red := s.redactor.Redact(text)
	sub := model.Submission{
		Filename:       doc.Filename,
		RawText:        text,
		RedactedText:   red.Text,
		RedactionNotes: red.Notes(),
		Raw:            s.profiles.Extract(red.Text),
	}
	s.logger.Debug(ctx, "document read",
		logger.String("filename", doc.Filename),
		logger.Int("chars", len(text)),
		logger.Duration("took", time.Since(start)),
	)
	return sub, nil
}

// accumulate merges the request's outcomes into the session bucket, or into
// a throwaway bucket when there is no session. Writers of one session are
// serialized so a context reset never interleaves with another request.
func (s *Service) accumulate(ctx context.Context, req *Request, jobText string, outcomes []model.DocumentOutcome, resp *Response) (repository.Bucket, error) {
	bucket := repository.Bucket{JobText: jobText, HardSkills: req.HardSkills, NiceSkills: req.NiceSkills}

	if req.SessionID != "" {
		unlock := s.locks.Lock(req.SessionID)
		defer unlock()

		prev, err := s.store.Get(ctx, req.SessionID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			return repository.Bucket{}, fmt.Errorf("load session: %w", err)
		case prev.SameContext(jobText, req.HardSkills, req.NiceSkills):
			bucket = prev
		default:
			metrics.RecordSessionReset()
			s.logger.Info(ctx, "session context changed, resetting",
				logger.Int("dropped", len(prev.Submissions)),
			)
		}
	}

	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			resp.Errors = append(resp.Errors, *o.Err)
		case o.Submission != nil:
			bucket.Upsert(*o.Submission)
		}
	}

	if req.SessionID != "" {
		if err := s.store.Put(ctx, req.SessionID, bucket); err != nil {
			return repository.Bucket{}, fmt.Errorf("save session: %w", err)
		}
	}
	return bucket, nil
}

// candidates enriches and analyzes every submission against the request.
func (s *Service) candidates(req *Request, subs []model.Submission) []model.Candidate {
	out := make([]model.Candidate, len(subs))
	for i := range subs {
		sub := &subs[i]
		profile := s.enricher.Enrich(sub.Raw, sub.RedactedText, sub.RawText)
		out[i] = model.Candidate{
			Filename:       sub.Filename,
			RawText:        sub.RawText,
			Text:           sub.RedactedText,
			RedactionNotes: sub.RedactionNotes,
			Profile:        profile,
			Analysis: s.analyzer.Analyze(analysis.Input{
				Profile:    profile,
				Text:       sub.RedactedText,
				JobText:    req.JobText,
				HardSkills: req.HardSkills,
			}),
		}
	}
	return out
}

// Stats reports service state for monitoring.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":                  s.started,
		"workerCount":              s.workerCount,
		"queueCapacity":            s.queueSize,
		"maxBatch":                 s.maxBatch,
		"disparateImpactThreshold": s.diThreshold,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["documentsProcessed"] = s.pool.Processed()
		stats["sessions"] = s.store.Count(ctx)
	}
	return stats
}

func degradedSteps(rep analytics.Report) []string {
	var steps []string
	if rep.PCA.Degraded {
		steps = append(steps, analytics.StepPCA)
	}
	if rep.Clusters.Degraded {
		steps = append(steps, analytics.StepCluster)
	}
	if rep.Neighbors.Degraded {
		steps = append(steps, analytics.StepNeighbors)
	}
	return steps
}

// truncate caps s at n runes.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
