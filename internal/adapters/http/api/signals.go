// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "capsight/internal/app"
)

// SignalsHandler handles heuristic signal requests. It needs signals, the
// view state, and the notes store, so it takes the full dependency bundle.
type SignalsHandler struct {
	deps Dependencies
}

// NewSignalsHandler creates a new signals handler.
func NewSignalsHandler(deps Dependencies) *SignalsHandler {
	return &SignalsHandler{deps: deps}
}

// signalResponse is one derived signal plus its note key and any saved
// note. The prompt is withheld unless the view is in reflective mode.
type signalResponse struct {
	Type      string `json:"type"`
	Statement string `json:"statement"`
	Prompt    string `json:"prompt,omitempty"`
	Key       string `json:"key"`
	Note      string `json:"note,omitempty"`
}

// HandleGetSignals handles GET /api/signals requests.
func (h *SignalsHandler) HandleGetSignals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	signals, err := h.deps.Signals(r.Context())
	if !requireDataset(w, err) {
		return
	}

	reflective := h.deps.View(r.Context()).Interpretation == service.InterpretationReflective
	store := h.deps.Notes()

	out := make([]signalResponse, 0, len(signals))
	for _, s := range signals {
		resp := signalResponse{
			Type:      s.Type,
			Statement: s.Statement,
			Key:       s.Key(),
		}
		if reflective {
			resp.Prompt = s.Prompt
		}
		if note, ok := store.Get(r.Context(), s.Key()); ok {
			resp.Note = note
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}
