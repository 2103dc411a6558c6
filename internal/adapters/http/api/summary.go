// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "capsight/internal/app"
)

// SummaryDependencies defines the interface for summary reads.
type SummaryDependencies interface {
	Summary(ctx context.Context) (service.SummaryView, error)
}

// SummaryHandler handles summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /api/summary requests.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	summary, err := h.deps.Summary(r.Context())
	if !requireDataset(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
