// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"capsight/internal/domain/aggregate"
	"capsight/internal/domain/schema"
)

// DistributionsDependencies defines the interface for distribution reads.
type DistributionsDependencies interface {
	Distributions(ctx context.Context) ([]aggregate.Distribution, error)
}

// DistributionsHandler handles per-domain distribution requests.
type DistributionsHandler struct {
	deps DistributionsDependencies
}

// NewDistributionsHandler creates a new distributions handler.
func NewDistributionsHandler(deps DistributionsDependencies) *DistributionsHandler {
	return &DistributionsHandler{deps: deps}
}

// distributionResponse augments a distribution with its derived readouts.
type distributionResponse struct {
	aggregate.Distribution
	Index  float64            `json:"index"`
	Shares map[string]float64 `json:"shares"`
}

// HandleGetDistributions handles GET /api/distributions requests.
func (h *DistributionsHandler) HandleGetDistributions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	dists, err := h.deps.Distributions(r.Context())
	if !requireDataset(w, err) {
		return
	}

	out := make([]distributionResponse, 0, len(dists))
	for _, d := range dists {
		out = append(out, distributionResponse{
			Distribution: d,
			Index:        aggregate.Index(d),
			Shares: map[string]float64{
				string(schema.BandEmerging):   aggregate.Share(d, schema.BandEmerging),
				string(schema.BandDeveloping): aggregate.Share(d, schema.BandDeveloping),
				string(schema.BandEmbedded):   aggregate.Share(d, schema.BandEmbedded),
			},
		})
	}
	writeJSON(w, http.StatusOK, out)
}
