// Package api registers the screening HTTP routes and maps service
// results and errors onto JSON and CSV responses.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	service "github.com/okian/screener/internal/app"
	"github.com/okian/screener/pkg/logger"
)

// Default server configuration constants.
const (
	defaultMaxUploadBytes = 16 << 20
	multipartMemory       = 8 << 20
)

// Ranker is the service surface the handlers need.
type Ranker interface {
	Process(ctx context.Context, req service.Request) (service.Response, error)
	Analytics(ctx context.Context, req service.Request) (service.Response, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	rankHandler      *RankHandler
	exportHandler    *ExportHandler
	dashboardHandler *dashboardHandler
	logger           logger.Logger
}

// NewServer creates an API server with all handlers.
func NewServer(ranker Ranker, stats StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{
		maxUploadBytes: defaultMaxUploadBytes,
		now:            time.Now,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(stats),
		rankHandler:      NewRankHandler(ranker, cfg.maxUploadBytes, cfg.logger),
		exportHandler:    NewExportHandler(cfg.maxUploadBytes, cfg.now),
		dashboardHandler: newDashboardHandler(),
		logger:           cfg.logger,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/api/process", MetricsMiddleware(s.rankHandler.HandleProcess, "process"))
	mux.HandleFunc("/api/analytics", MetricsMiddleware(s.rankHandler.HandleAnalytics, "analytics"))
	mux.HandleFunc("/api/export", MetricsMiddleware(s.exportHandler.HandleExport, "export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code, msg := classify(err)
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
