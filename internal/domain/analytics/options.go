package analytics

import (
	"github.com/okian/screener/internal/domain/vectorspace"
	"github.com/okian/screener/pkg/logger"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMaxFeatures caps the analytics vocabulary.
func WithMaxFeatures(n int) Option {
	return func(a *Analyzer) {
		a.vectorizer = vectorspace.New(vectorspace.WithMaxFeatures(n))
	}
}

// WithSeed sets the clustering seed.
func WithSeed(seed int64) Option {
	return func(a *Analyzer) { a.seed = seed }
}

// WithLogger sets the logger used for degraded steps.
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}
