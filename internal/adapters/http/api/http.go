// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"capsight/internal/adapters/ingest"
	"capsight/internal/adapters/notes"
	service "capsight/internal/app"
	"capsight/internal/demodata"
	"capsight/internal/domain/aggregate"
	"capsight/internal/domain/schema"
	"capsight/internal/domain/signal"
	"capsight/internal/domain/trend"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Dataset lifecycle.
	LoadDataset(ctx context.Context, filename string, data []byte) (service.Dataset, error)
	LoadDemo(ctx context.Context, variant string) (service.Dataset, error)
	ClearDataset(ctx context.Context)
	Dataset(ctx context.Context) (service.Dataset, error)

	// Derived read views over the filtered rows.
	Summary(ctx context.Context) (service.SummaryView, error)
	Distributions(ctx context.Context) ([]aggregate.Distribution, error)
	PeriodDistributions(ctx context.Context) ([]trend.PeriodDistribution, error)
	TrendSeries(ctx context.Context) ([]trend.Point, error)
	Signals(ctx context.Context) ([]signal.Signal, error)

	// View state.
	View(ctx context.Context) service.ViewState
	SetView(ctx context.Context, v service.ViewState) error

	// Notes store.
	Notes() notes.Store
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	datasetHandler       *DatasetHandler
	summaryHandler       *SummaryHandler
	distributionsHandler *DistributionsHandler
	trendsHandler        *TrendsHandler
	signalsHandler       *SignalsHandler
	viewHandler          *ViewHandler
	notesHandler         *NotesHandler
	dashboardHandler     *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:        NewHealthHandler(),
		statsHandler:         NewStatsHandler(statsProvider),
		datasetHandler:       NewDatasetHandler(deps, maxUploadBytes),
		summaryHandler:       NewSummaryHandler(deps),
		distributionsHandler: NewDistributionsHandler(deps),
		trendsHandler:        NewTrendsHandler(deps),
		signalsHandler:       NewSignalsHandler(deps),
		viewHandler:          NewViewHandler(deps),
		notesHandler:         NewNotesHandler(deps),
		dashboardHandler:     newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/dataset/demo", MetricsMiddleware(s.datasetHandler.HandleDemo, "dataset_demo"))
	mux.HandleFunc("/api/dataset", MetricsMiddleware(s.datasetHandler.HandleDataset, "dataset"))
	mux.HandleFunc("/api/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/api/distributions", MetricsMiddleware(s.distributionsHandler.HandleGetDistributions, "distributions"))
	mux.HandleFunc("/api/trends", MetricsMiddleware(s.trendsHandler.HandleGetTrends, "trends"))
	mux.HandleFunc("/api/signals", MetricsMiddleware(s.signalsHandler.HandleGetSignals, "signals"))
	mux.HandleFunc("/api/view", MetricsMiddleware(s.viewHandler.HandleView, "view"))
	mux.HandleFunc("/api/notes/export", MetricsMiddleware(s.notesHandler.HandleExport, "notes_export"))
	mux.HandleFunc("/api/notes/import", MetricsMiddleware(s.notesHandler.HandleImport, "notes_import"))
	mux.HandleFunc("/api/notes", MetricsMiddleware(s.notesHandler.HandleNotes, "notes"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLoadError maps dataset load failures onto status codes: unsupported
// inputs are 415, content that parses but fails validation is 422, size and
// I/O problems are 413/400.
func writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFileType),
		errors.Is(err, ingest.ErrUnsupportedSchemaVersion):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_format", err)
	case errors.Is(err, service.ErrUploadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
	case errors.Is(err, service.ErrReadFailure):
		writeError(w, http.StatusBadRequest, "read_failure", err)
	case errors.Is(err, ingest.ErrEmptyInput),
		errors.Is(err, ingest.ErrInvalidJSON),
		errors.Is(err, ingest.ErrMissingColumn),
		errors.Is(err, schema.ErrEmptyDataset),
		errors.Is(err, schema.ErrMissingPeriod),
		errors.Is(err, schema.ErrUnknownDomain),
		errors.Is(err, schema.ErrInvalidBand),
		errors.Is(err, schema.ErrInvalidCount):
		writeError(w, http.StatusUnprocessableEntity, "invalid_dataset", err)
	case errors.Is(err, demodata.ErrUnknownVariant):
		writeError(w, http.StatusBadRequest, "unknown_variant", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// requireDataset translates the no-dataset condition to 404 for read views.
func requireDataset(w http.ResponseWriter, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, service.ErrNoDataset) {
		writeError(w, http.StatusNotFound, "no_dataset", err)
		return false
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
	return false
}
