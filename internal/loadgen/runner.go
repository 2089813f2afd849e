package loadgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/okian/screener/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	reportPermission    = 0o600
)

// Errors reported by Run.
var (
	ErrInvalidConfig = errors.New("invalid load config")
	ErrVerification  = errors.New("verification failed")
)

// counters are shared by the upload goroutines.
type counters struct {
	succeeded     atomic.Int64
	backpressured atomic.Int64
	failed        atomic.Int64
	docErrors     atomic.Int64
	violations    atomic.Int64
	accepted      atomic.Int64
}

// Run uploads Requests batches of Documents resumes concurrently under one
// session, then fetches the session and checks it holds every accepted
// resume in rank order.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Stats, error) {
	if cfg.Requests < 1 || cfg.Documents < 1 || cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: requests, documents and workers must be positive", ErrInvalidConfig)
	}

	stats := &Stats{
		SessionID: uuid.NewString(),
		Requests:  cfg.Requests,
		StartTime: time.Now(),
	}
	log.Info(ctx, "starting screener load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("path", cfg.Path()),
		logger.String("session", stats.SessionID),
		logger.Int("requests", cfg.Requests),
		logger.Int("documents", cfg.Documents),
		logger.Int("workers", cfg.Workers))

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, err
	}

	gen := NewGenerator(cfg.Seed, cfg.Invalid)
	batches := make([][]Upload, cfg.Requests)
	for i := range batches {
		batches[i] = gen.Batch(i, cfg.Documents)
		stats.DocumentsSent += len(batches[i])
	}

	form := Form{
		JobDescription: JobDescription,
		HardSkills:     HardSkills,
		NiceSkills:     NiceSkills,
		SessionID:      stats.SessionID,
	}

	var c counters
	p := pool.New().WithMaxGoroutines(cfg.Workers)
	for i, batch := range batches {
		p.Go(func() {
			upload(ctx, client, cfg, form, i, batch, &c, log)
		})
	}
	p.Wait()

	stats.Succeeded = int(c.succeeded.Load())
	stats.Backpressured = int(c.backpressured.Load())
	stats.Failed = int(c.failed.Load())
	stats.DocumentErrors = int(c.docErrors.Load())
	stats.OrderViolations = int(c.violations.Load())

	var verr error
	final, err := client.Rank(ctx, cfg.Path(), form, nil)
	switch {
	case err != nil:
		verr = fmt.Errorf("%w: fetch session: %w", ErrVerification, err)
	default:
		stats.SessionCandidates = len(final.Results)
		if err := verifySession(&final, int(c.accepted.Load())); err != nil {
			verr = fmt.Errorf("%w: %w", ErrVerification, err)
		}
	}
	if verr == nil && stats.OrderViolations > 0 {
		verr = fmt.Errorf("%w: %d responses broke rank order", ErrVerification, stats.OrderViolations)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayStats(ctx, stats, log)

	if cfg.OutputFile != "" {
		if err := saveReport(cfg.OutputFile, stats); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		}
	}
	return stats, verr
}

func upload(ctx context.Context, client *Client, cfg *Config, form Form, i int, batch []Upload, c *counters, log logger.Logger) {
	resp, err := client.Rank(ctx, cfg.Path(), form, batch)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
			c.backpressured.Add(1)
		} else {
			c.failed.Add(1)
		}
		log.Warn(ctx, "upload failed", logger.Int("request", i), logger.Error(err))
		return
	}

	c.succeeded.Add(1)
	c.docErrors.Add(int64(len(resp.Errors)))
	for _, u := range batch {
		if !u.IsInvalid() {
			c.accepted.Add(1)
		}
	}
	if err := verifyResponse(&resp, batch); err != nil {
		c.violations.Add(1)
		log.Error(ctx, "response check failed", logger.Int("request", i), logger.Error(err))
		return
	}
	if cfg.Verbose {
		log.Info(ctx, "upload ranked",
			logger.Int("request", i),
			logger.String("requestID", resp.RequestID),
			logger.Int("candidates", len(resp.Results)),
			logger.Int("errors", len(resp.Errors)))
	}
}

// saveReport writes stats as JSON.
func saveReport(path string, stats *Stats) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, reportPermission)
}

func displayStats(ctx context.Context, stats *Stats, log logger.Logger) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.DocumentsSent) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.String("session", stats.SessionID),
		logger.Int("requests", stats.Requests),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("backpressured", stats.Backpressured),
		logger.Int("failed", stats.Failed),
		logger.Int("documentsSent", stats.DocumentsSent),
		logger.Int("documentErrors", stats.DocumentErrors),
		logger.Int("orderViolations", stats.OrderViolations),
		logger.Int("sessionCandidates", stats.SessionCandidates),
		logger.Duration("duration", stats.Duration),
		logger.Float64("documentsPerSecond", perSecond))
}
