package scoring

import (
	"github.com/okian/screener/internal/domain/vectorspace"
	"github.com/okian/screener/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithTrendWeights merges overrides over the default trend table, in order.
func WithTrendWeights(overrides ...map[string]float64) Option {
	return func(e *Engine) {
		e.trends = NewTrendTable(overrides...)
	}
}

// WithMaxFeatures caps the shared vocabulary.
func WithMaxFeatures(n int) Option {
	return func(e *Engine) {
		e.vectorizer = vectorspace.New(vectorspace.WithMaxFeatures(n))
	}
}

// WithLogger sets the logger used for degraded steps.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
