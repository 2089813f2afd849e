package api

import (
	"time"

	"github.com/okian/screener/pkg/logger"
)

type serverConfig struct {
	maxUploadBytes int64
	now            func() time.Time
	logger         logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

// WithMaxUploadBytes caps request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// WithClock replaces time.Now for export filenames.
func WithClock(now func() time.Time) Option {
	return func(c *serverConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
