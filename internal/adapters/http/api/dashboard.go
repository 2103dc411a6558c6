// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"io/fs"
	"net/http"
	"time"
)

// dashboardHandler handles dashboard requests
type dashboardHandler struct{}

// newdashboardHandler creates a new dashboard handler
func newdashboardHandler() *dashboardHandler {
	return &dashboardHandler{}
}

// HandleDashboard handles GET /dashboard requests.
// Serves the embedded single-page dashboard; all data comes from /api/*.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(dashboardFS, "dashboard.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, "dashboard.html", time.Time{}, bytes.NewReader(data))
}
