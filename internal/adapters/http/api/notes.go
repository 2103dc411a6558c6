// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"capsight/internal/adapters/notes"
	service "capsight/internal/app"
)

// maxNotesImportBytes caps notes import payloads. Notes are short free text;
// anything near this limit is not a notes file.
const maxNotesImportBytes = 1 << 20

// NotesDependencies defines the interface for notes operations. The export
// envelope carries the dataset label, hence the Summary requirement.
type NotesDependencies interface {
	Notes() notes.Store
	Summary(ctx context.Context) (service.SummaryView, error)
}

// NotesHandler handles notes requests.
type NotesHandler struct {
	deps NotesDependencies
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(deps NotesDependencies) *NotesHandler {
	return &NotesHandler{deps: deps}
}

// noteRequest is the body of PUT /api/notes.
type noteRequest struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// HandleNotes handles GET, PUT and DELETE /api/notes requests.
func (h *NotesHandler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Notes().All(r.Context()))
	case http.MethodPut:
		h.handlePut(w, r)
	case http.MethodDelete:
		h.handleDelete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *NotesHandler) handlePut(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing key"))
		return
	}
	if err := h.deps.Notes().Set(r.Context(), req.Key, req.Text); err != nil {
		writeError(w, http.StatusInternalServerError, "persist_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Notes().All(r.Context()))
}

// handleDelete removes a single note when ?key= is given, otherwise clears
// all notes.
func (h *NotesHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	var err error
	if key == "" {
		err = h.deps.Notes().Clear(r.Context())
	} else {
		err = h.deps.Notes().Delete(r.Context(), key)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "persist_failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport handles GET /api/notes/export requests. The envelope carries
// the current dataset label when a dataset is loaded, empty otherwise.
func (h *NotesHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	label := ""
	if summary, err := h.deps.Summary(r.Context()); err == nil {
		label = summary.Label
	}
	env := notes.Export(r.Context(), h.deps.Notes(), label)
	w.Header().Set("Content-Disposition", `attachment; filename="signal_notes.json"`)
	writeJSON(w, http.StatusOK, env)
}

// HandleImport handles POST /api/notes/import requests. Accepts either an
// export envelope or a bare key-to-text mapping; imported entries win over
// existing ones.
func (h *NotesHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxNotesImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := notes.Import(r.Context(), h.deps.Notes(), raw); err != nil {
		if errors.Is(err, notes.ErrInvalidImport) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_import", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "persist_failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Notes().All(r.Context()))
}
