// Package extract converts uploaded documents to plain text.
//
// Every extraction runs under a wall-clock timeout and panics raised by
// format decoders are returned as errors, so one bad document never takes
// down a batch.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/screener/pkg/metrics"
	"github.com/sourcegraph/conc/panics"
)

// DefaultTimeout bounds a single extraction.
const DefaultTimeout = 10 * time.Second

// Func decodes one format.
type Func func(data []byte) (string, error)

// Extractor converts a named document to text.
type Extractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Registry dispatches on the lowercased file extension.
type Registry struct {
	timeout time.Duration
	byExt   map[string]Func
}

// New creates a Registry for .txt, .docx, .pdf, .html and .htm.
func New(opts ...Option) *Registry {
	r := &Registry{
		timeout: DefaultTimeout,
		byExt: map[string]Func{
			".txt":  Text,
			".docx": DOCX,
			".pdf":  PDF,
			".html": HTML,
			".htm":  HTML,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Supported reports whether filename has a known extension.
func (r *Registry) Supported(filename string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return ok
}

type outcome struct {
	text string
	err  error
}

// Extract implements Extractor.
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	fn, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		metrics.RecordExtractionError("unsupported")
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}

	start := time.Now()
	defer func() {
		metrics.RecordExtractionLatency(float64(time.Since(start).Milliseconds()))
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Decoders are not cancellable; a timed-out goroutine finishes on its own
	// and its result is dropped.
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		if rec := panics.Try(func() { o.text, o.err = fn(data) }); rec != nil {
			o.err = fmt.Errorf("%w: %w", ErrMalformedDocument, rec.AsError())
		}
		done <- o
	}()

	select {
	case o := <-done:
		if o.err != nil {
			metrics.RecordExtractionError("decode")
			return "", fmt.Errorf("extract %s: %w", filename, o.err)
		}
		return o.text, nil
	case <-ctx.Done():
		metrics.RecordExtractionError("timeout")
		return "", fmt.Errorf("%w: %s after %s", ErrExtractTimeout, filename, r.timeout)
	}
}
