// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "capsight/internal/app"
)

// ViewDependencies defines the interface for view state operations.
type ViewDependencies interface {
	View(ctx context.Context) service.ViewState
	SetView(ctx context.Context, v service.ViewState) error
}

// ViewHandler handles view state requests.
type ViewHandler struct {
	deps ViewDependencies
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps ViewDependencies) *ViewHandler {
	return &ViewHandler{deps: deps}
}

// HandleView handles GET and PUT /api/view requests.
func (h *ViewHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.View(r.Context()))
	case http.MethodPut:
		h.handlePut(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *ViewHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	var v service.ViewState
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.SetView(r.Context(), v); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidViewMode),
			errors.Is(err, service.ErrInvalidInterpretation),
			errors.Is(err, service.ErrUnknownContext):
			writeError(w, http.StatusBadRequest, "invalid_view", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, h.deps.View(r.Context()))
}
