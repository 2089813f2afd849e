package extract

import (
	"strings"
	"time"
)

// Option configures a Registry.
type Option func(*Registry)

// WithTimeout bounds each extraction. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithFormat registers or replaces the decoder for ext, e.g. ".md".
func WithFormat(ext string, fn Func) Option {
	return func(r *Registry) {
		if ext != "" && fn != nil {
			r.byExt[strings.ToLower(ext)] = fn
		}
	}
}
