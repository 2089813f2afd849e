package api

import (
	_ "embed"
	"net/http"
)

//go:embed static/dashboard.html
var dashboardHTML []byte

// dashboardHandler serves the cohort analytics page. The page posts to
// /api/analytics and plots the projection and clusters client-side.
type dashboardHandler struct {
	page []byte
}

func newDashboardHandler() *dashboardHandler {
	return &dashboardHandler{page: dashboardHTML}
}

// HandleDashboard handles GET /dashboard.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodGet {
		_, _ = w.Write(h.page)
	}
}
