package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/screener/internal/loadgen"
	"github.com/okian/screener/pkg/logger"
)

// Default configuration constants.
const (
	defaultRequests    = 20
	defaultDocuments   = 10
	defaultTimeout     = 60 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests   = flag.Int("requests", defaultRequests, "Number of upload requests")
		docs       = flag.Int("docs", defaultDocuments, "Resumes per request")
		workers    = flag.Int("workers", runtime.NumCPU(), "Concurrent uploads")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		analytics  = flag.Bool("analytics", false, "Post to /api/analytics")
		invalid    = flag.Int("invalid", 0, "Every Nth resume is an unsupported file")
		seed       = flag.Int64("seed", 1, "Generator seed")
		outputFile = flag.String("output", "", "Write a JSON report to this file")
		logFile    = flag.String("log", "", "Also log to this file")
		verbose    = flag.Bool("verbose", false, "Log every response")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return
	}

	if err := loadgen.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	cfg := &loadgen.Config{
		BaseURL:    *baseURL,
		Requests:   *requests,
		Documents:  *docs,
		Workers:    *workers,
		Timeout:    *timeout,
		Analytics:  *analytics,
		Invalid:    *invalid,
		Seed:       *seed,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := loadgen.Run(ctx, cfg, logger.Get()); err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		os.Exit(1)
	}
}
