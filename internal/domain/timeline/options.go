package timeline

import "time"

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithClock sets the wall clock used for "present" and "current" end tokens.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithBaseYear sets the year assumed for tokens carrying only a month.
func WithBaseYear(year int) Option {
	return func(n *Normalizer) {
		if year > 0 {
			n.baseYear = year
		}
	}
}
