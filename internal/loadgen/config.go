// Package loadgen drives a running screener with synthetic resumes and
// checks the ranking invariants of every response.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Requests   int           // Number of upload requests
	Documents  int           // Resumes per request
	Workers    int           // Concurrent uploads
	Timeout    time.Duration // HTTP request timeout
	Analytics  bool          // Post to /api/analytics instead of /api/process
	Invalid    int           // Every Nth resume is an unsupported file; 0 disables
	Seed       int64         // Generator seed
	OutputFile string        // Optional JSON report path
	Verbose    bool          // Log every response
}

// Stats holds run statistics.
type Stats struct {
	SessionID         string        `json:"session_id"`
	Requests          int           `json:"requests"`
	Succeeded         int           `json:"succeeded"`
	Backpressured     int           `json:"backpressured"`
	Failed            int           `json:"failed"`
	DocumentsSent     int           `json:"documents_sent"`
	DocumentErrors    int           `json:"document_errors"`
	OrderViolations   int           `json:"order_violations"`
	SessionCandidates int           `json:"session_candidates"`
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	Duration          time.Duration `json:"duration"`
}

// Path returns the ranking endpoint the run posts to.
func (c *Config) Path() string {
	if c.Analytics {
		return "/api/analytics"
	}
	return "/api/process"
}
