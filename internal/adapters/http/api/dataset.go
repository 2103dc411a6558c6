// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	service "capsight/internal/app"
)

// defaultUploadName is used when the client provides no filename at all.
// The extension decides the parser, so a bare JSON body still loads.
const defaultUploadName = "dataset.json"

// DatasetDependencies defines the interface for dataset lifecycle operations.
type DatasetDependencies interface {
	LoadDataset(ctx context.Context, filename string, data []byte) (service.Dataset, error)
	LoadDemo(ctx context.Context, variant string) (service.Dataset, error)
	ClearDataset(ctx context.Context)
	Dataset(ctx context.Context) (service.Dataset, error)
}

// DatasetHandler handles dataset upload, inspection, and clearing.
type DatasetHandler struct {
	deps           DatasetDependencies
	maxUploadBytes int64
}

// NewDatasetHandler creates a new dataset handler.
func NewDatasetHandler(deps DatasetDependencies, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{
		deps:           deps,
		maxUploadBytes: maxUploadBytes,
	}
}

// HandleDataset handles GET, POST and DELETE /api/dataset requests.
func (h *DatasetHandler) HandleDataset(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handleUpload(w, r)
	case http.MethodDelete:
		h.deps.ClearDataset(r.Context())
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func (h *DatasetHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ds, err := h.deps.Dataset(r.Context())
	if !requireDataset(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// handleUpload accepts either a multipart form with a "file" field or a raw
// body; the filename comes from the form part, the X-Dataset-Name header,
// or a default. The extension selects the parser.
func (h *DatasetHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	filename, data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	ds, err := h.deps.LoadDataset(r.Context(), filename, data)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ds)
}

// HandleDemo handles POST /api/dataset/demo?variant=... requests.
func (h *DatasetHandler) HandleDemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	variant := r.URL.Query().Get("variant")
	if variant == "" {
		variant = "baseline"
	}
	ds, err := h.deps.LoadDemo(r.Context(), variant)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ds)
}

func readUpload(r *http.Request) (string, []byte, error) {
	contentType := r.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)

	if strings.HasPrefix(mediaType, "multipart/") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMissingFile, err)
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return header.Filename, data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if len(data) == 0 {
		return "", nil, ErrMissingFile
	}

	filename := r.Header.Get("X-Dataset-Name")
	if filename == "" {
		filename = defaultUploadName
	}
	return filename, data, nil
}
