// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"capsight/internal/domain/trend"
)

// TrendsDependencies defines the interface for trend reads.
type TrendsDependencies interface {
	PeriodDistributions(ctx context.Context) ([]trend.PeriodDistribution, error)
	TrendSeries(ctx context.Context) ([]trend.Point, error)
}

// TrendsHandler handles trend series requests.
type TrendsHandler struct {
	deps TrendsDependencies
}

// NewTrendsHandler creates a new trends handler.
func NewTrendsHandler(deps TrendsDependencies) *TrendsHandler {
	return &TrendsHandler{deps: deps}
}

// trendsResponse carries the dense series plus the per-period groupings
// behind it.
type trendsResponse struct {
	Series  []trend.Point              `json:"series"`
	Periods []trend.PeriodDistribution `json:"periods"`
}

// HandleGetTrends handles GET /api/trends requests.
func (h *TrendsHandler) HandleGetTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	series, err := h.deps.TrendSeries(r.Context())
	if !requireDataset(w, err) {
		return
	}
	periods, err := h.deps.PeriodDistributions(r.Context())
	if !requireDataset(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, trendsResponse{Series: series, Periods: periods})
}
