// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"io"
	"net/http"
	"time"
)

// dashboardHandler handles dashboard requests
type dashboardHandler struct{}

// newdashboardHandler creates a new dashboard handler
func newdashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests
// Returns an HTML page with JavaScript that drives the review API:
// timeline, selection, filters, and ingestion job status.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// Serve embedded dashboard page
	f, err := dashboardFS.Open("dashboard.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	http.ServeContent(w, r, "dashboard.html", time.Time{}, f.(io.ReadSeeker))
}
