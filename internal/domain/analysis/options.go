package analysis

import "github.com/okian/screener/internal/domain/timeline"

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithNormalizer sets the temporal normalizer, e.g. one with a fixed clock.
func WithNormalizer(n *timeline.Normalizer) Option {
	return func(a *Analyzer) {
		a.timeline = n
	}
}
