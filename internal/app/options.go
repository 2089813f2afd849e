package service

import (
	"github.com/okian/screener/internal/adapters/extract"
	"github.com/okian/screener/internal/adapters/repository"
	"github.com/okian/screener/internal/domain/analysis"
	"github.com/okian/screener/internal/domain/analytics"
	"github.com/okian/screener/internal/domain/fairness"
	"github.com/okian/screener/internal/domain/nlp"
	"github.com/okian/screener/internal/domain/scoring"
	"github.com/okian/screener/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of document workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the document queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxBatch caps the documents accepted per request.
func WithMaxBatch(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatch = n
		}
	}
}

// WithMaxTextLength caps extracted text in runes before analysis.
func WithMaxTextLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTextLength = n
		}
	}
}

// WithPayloadTextCap caps the raw and redacted text returned per candidate.
func WithPayloadTextCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.payloadTextCap = n
		}
	}
}

// WithDisparateImpactThreshold sets the ratio reported in stats.
func WithDisparateImpactThreshold(v float64) Option {
	return func(s *Service) {
		if v >= 0 && v <= 1 {
			s.diThreshold = v
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the session store. The service does not close it.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithExtractor replaces the document text extractor.
func WithExtractor(e extract.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.extractor = e
		}
	}
}

// WithRedactor replaces the sensitive-attribute redactor.
func WithRedactor(r fairness.Redactor) Option {
	return func(s *Service) {
		if r != nil {
			s.redactor = r
		}
	}
}

// WithProfileExtractor replaces the raw profile extractor.
func WithProfileExtractor(e nlp.Extractor) Option {
	return func(s *Service) {
		if e != nil {
			s.profiles = e
		}
	}
}

// WithAnalyzer replaces the anomaly analyzer.
func WithAnalyzer(a *analysis.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithScorer replaces the scoring engine.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithCohortAnalyzer replaces the cohort analytics runner.
func WithCohortAnalyzer(a *analytics.Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.cohort = a
		}
	}
}
