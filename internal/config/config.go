// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file and SCREENER_* env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the in-memory document queue.
	QueueSize int `koanf:"queue_size" validate:"gt=0"`

	// WorkerCount sets the number of document workers.
	WorkerCount int `koanf:"worker_count" validate:"gt=0"`

	// MaxBatch caps the number of documents accepted in one request.
	MaxBatch int `koanf:"max_batch" validate:"gt=0"`

	// MaxUploadBytes caps the multipart request body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// MaxTextLength caps extracted text before analysis.
	MaxTextLength int `koanf:"max_text_length" validate:"gt=0"`

	// PayloadTextCap caps the raw and redacted text echoed back per candidate.
	PayloadTextCap int `koanf:"payload_text_cap" validate:"gt=0"`

	// MaxFeatures caps the shared vector-space vocabulary.
	MaxFeatures int `koanf:"max_features" validate:"gt=0"`

	// ExtractTimeoutMS bounds text extraction per document.
	ExtractTimeoutMS int `koanf:"extract_timeout_ms" validate:"gt=0"`

	// SessionBackend selects the session store: memory or redis.
	SessionBackend string `koanf:"session_backend" validate:"oneof=memory redis"`

	// SessionTTLSeconds expires idle session buckets.
	SessionTTLSeconds int `koanf:"session_ttl_seconds" validate:"gte=0"`

	// SessionMaxEntries bounds the in-memory store; the least recently used bucket is evicted.
	SessionMaxEntries int `koanf:"session_max_entries" validate:"gte=0"`

	// Redis settings for the redis session backend.
	RedisAddr     string `koanf:"redis_addr" validate:"required_if=SessionBackend redis"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db" validate:"gte=0"`

	// TrendWeights overrides or extends the built-in trend-skill table.
	TrendWeights map[string]float64 `koanf:"trend_weights" validate:"omitempty,dive,gte=0,lte=1"`

	// TrendWeightsFile points to a JSON object of skill -> weight merged over the table.
	TrendWeightsFile string `koanf:"trend_weights_file"`

	// SkillTaxonomyFile points to a JSON array of skill names for the default extractor.
	SkillTaxonomyFile string `koanf:"skill_taxonomy_file"`

	// DisparateImpactThreshold is the four-fifths rule ratio reported in stats.
	DisparateImpactThreshold float64 `koanf:"disparate_impact_threshold" validate:"gte=0,lte=1"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                 "info",
		LogFormat:                "text",
		Addr:                     ":9080",
		QueueSize:                1024,
		WorkerCount:              runtime.NumCPU(),
		MaxBatch:                 50,
		MaxUploadBytes:           16 << 20,
		MaxTextLength:            50_000,
		PayloadTextCap:           20_000,
		MaxFeatures:              5000,
		ExtractTimeoutMS:         10_000,
		SessionBackend:           "memory",
		SessionTTLSeconds:        3600,
		SessionMaxEntries:        1000,
		RedisAddr:                "localhost:6379",
		DisparateImpactThreshold: 0.8,
	}
}

// ExtractTimeout returns the per-document extraction timeout.
func (c *Config) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutMS) * time.Millisecond
}

// SessionTTL returns the idle expiry of session buckets.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}
