// Package service provides the core business service that implements
// the dependencies required by the HTTP API: it owns the current dataset,
// the view state, and the notes store, and recomputes every derived
// structure from scratch on each change.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"capsight/internal/adapters/ingest"
	"capsight/internal/adapters/notes"
	"capsight/internal/demodata"
	"capsight/internal/domain/aggregate"
	"capsight/internal/domain/schema"
	"capsight/internal/domain/signal"
	"capsight/internal/domain/trend"
	"capsight/pkg/logger"
	"capsight/pkg/metrics"
)

// View modes. The dashboard shows one of these at a time.
const (
	ModeOverview = "overview"
	ModeTrends   = "trends"
	ModeDomain   = "domain"
	ModeSignals  = "signals"
)

// Interpretation modes. Descriptive shows aggregate patterns only;
// reflective also reveals discussion prompts.
const (
	InterpretationDescriptive = "descriptive"
	InterpretationReflective  = "reflective"
)

// defaultNotesDir is used when no notes directory is configured.
const defaultNotesDir = ".capsight"

// Dataset is the currently loaded, validated row set plus load provenance.
type Dataset struct {
	ID         string       `json:"id"`
	SourceName string       `json:"source_name"`
	LoadedAt   time.Time    `json:"loaded_at"`
	Rows       []schema.Row `json:"-"`
}

// ViewState is the presentation session state: which view is shown, whether
// prompts are revealed, and the active context filter. It is an immutable
// value replaced wholesale on every user action; the engine never observes
// it except as a filter predicate.
type ViewState struct {
	Mode           string `json:"mode"`
	Interpretation string `json:"interpretation"`
	Context        string `json:"context"`
}

// DefaultView is the view state after startup, a cleared dataset, or a
// failed load.
func DefaultView() ViewState {
	return ViewState{
		Mode:           ModeOverview,
		Interpretation: InterpretationDescriptive,
		Context:        "",
	}
}

// SummaryView bundles the unfiltered dataset summary (which drives the
// context filter options) with the summary of the filtered rows.
type SummaryView struct {
	Dataset  aggregate.Summary `json:"dataset"`
	Filtered aggregate.Summary `json:"filtered"`
	Label    string            `json:"label"`
}

// Service implements the API dependencies for the capability dashboard.
type Service struct {
	mu sync.RWMutex

	// State
	dataset *Dataset
	view    ViewState
	started bool

	// Components
	notesStore notes.Store

	// Configuration
	notesDir       string
	maxUploadBytes int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithNotesDir sets the directory holding the notes file.
func WithNotesDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.notesDir = dir
		}
	}
}

// WithNotesStore injects a notes store, bypassing the file-backed default.
func WithNotesStore(store notes.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.notesStore = store
		}
	}
}

// WithMaxUploadBytes caps accepted upload sizes.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		view:           DefaultView(),
		notesDir:       defaultNotesDir,
		maxUploadBytes: 8 << 20,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.notesStore == nil {
		store, err := notes.NewFileStore(s.notesDir)
		if err != nil {
			return err
		}
		s.notesStore = store
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("notesDir", s.notesDir),
	)
	return nil
}

// Stop shuts the service down. Notes persist on every write, so there is
// nothing to flush.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
}

// LoadDataset parses and validates an uploaded file, replacing the current
// dataset wholly. Any parse or validation failure clears the prior dataset
// and resets the view state; no partial dataset is ever kept.
func (s *Service) LoadDataset(ctx context.Context, filename string, data []byte) (Dataset, error) {
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		s.reset(ctx)
		metrics.RecordDatasetLoadFailure()
		return Dataset{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrUploadTooLarge, len(data), s.maxUploadBytes)
	}

	start := time.Now()
	rows, err := ingest.Parse(filename, data)
	metrics.RecordParseDuration(float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.reset(ctx)
		metrics.RecordDatasetLoadFailure()
		s.logger.Warn(ctx, "dataset load rejected",
			logger.String("file", filename),
			logger.Error(err),
		)
		return Dataset{}, err
	}

	return s.install(ctx, filename, rows), nil
}

// LoadFile reads a dataset file from disk and loads it. Read errors surface
// as ErrReadFailure; they are I/O-level, not content-level.
func (s *Service) LoadFile(ctx context.Context, path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.reset(ctx)
		metrics.RecordDatasetLoadFailure()
		return Dataset{}, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return s.LoadDataset(ctx, filepath.Base(path), data)
}

// LoadDemo loads one of the built-in demo datasets.
func (s *Service) LoadDemo(ctx context.Context, variant string) (Dataset, error) {
	rows, err := demodata.Rows(variant)
	if err != nil {
		return Dataset{}, err
	}
	return s.install(ctx, "demo:"+variant, rows), nil
}

// install replaces the dataset and resets the view state to defaults.
func (s *Service) install(ctx context.Context, sourceName string, rows []schema.Row) Dataset {
	ds := Dataset{
		ID:         uuid.NewString(),
		SourceName: sourceName,
		LoadedAt:   time.Now().UTC(),
		Rows:       rows,
	}

	s.mu.Lock()
	s.dataset = &ds
	s.view = DefaultView()
	s.mu.Unlock()

	summary := aggregate.Summarise(rows)
	metrics.RecordDatasetLoaded()
	metrics.RecordRowsValidated(len(rows))
	metrics.UpdateDatasetRows(len(rows))
	metrics.UpdateDatasetPeriods(len(summary.Periods))
	metrics.UpdateDatasetContexts(len(summary.Contexts))
	metrics.UpdateSignalCount(len(signal.Derive(aggregate.DistributionsByDomain(rows))))

	s.logger.Info(ctx, "dataset loaded",
		logger.String("id", ds.ID),
		logger.String("source", sourceName),
		logger.Int("rows", len(rows)),
		logger.Int("periods", len(summary.Periods)),
	)
	return ds
}

// ClearDataset drops the current dataset and resets the view state.
func (s *Service) ClearDataset(ctx context.Context) {
	s.reset(ctx)
}

func (s *Service) reset(ctx context.Context) {
	s.mu.Lock()
	s.dataset = nil
	s.view = DefaultView()
	s.mu.Unlock()

	metrics.UpdateDatasetRows(0)
	metrics.UpdateDatasetPeriods(0)
	metrics.UpdateDatasetContexts(0)
	metrics.UpdateSignalCount(0)

	s.logger.Debug(ctx, "dataset cleared")
}

// Dataset returns provenance for the current dataset.
func (s *Service) Dataset(_ context.Context) (Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return Dataset{}, ErrNoDataset
	}
	return *s.dataset, nil
}

// View returns the current view state.
func (s *Service) View(_ context.Context) ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetView replaces the view state. The mode and interpretation must be
// known values; the context must be empty or one of the dataset's tags.
func (s *Service) SetView(_ context.Context, v ViewState) error {
	switch v.Mode {
	case ModeOverview, ModeTrends, ModeDomain, ModeSignals:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidViewMode, v.Mode)
	}
	switch v.Interpretation {
	case InterpretationDescriptive, InterpretationReflective:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidInterpretation, v.Interpretation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if v.Context != "" {
		if s.dataset == nil {
			return fmt.Errorf("%w: %q", ErrUnknownContext, v.Context)
		}
		known := false
		for _, c := range aggregate.Summarise(s.dataset.Rows).Contexts {
			if c == v.Context {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %q", ErrUnknownContext, v.Context)
		}
	}
	s.view = v
	return nil
}

// filteredRows snapshots the context-filtered row slice.
func (s *Service) filteredRows() ([]schema.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return aggregate.FilterByContext(s.dataset.Rows, s.view.Context), nil
}

// Summary computes the dataset and filtered summaries plus the integrity
// label shown alongside every view.
func (s *Service) Summary(_ context.Context) (SummaryView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return SummaryView{}, ErrNoDataset
	}

	full := aggregate.Summarise(s.dataset.Rows)
	filtered := aggregate.Summarise(aggregate.FilterByContext(s.dataset.Rows, s.view.Context))
	return SummaryView{
		Dataset:  full,
		Filtered: filtered,
		Label:    datasetLabel(filtered),
	}, nil
}

// datasetLabel renders the integrity line, e.g.
// "N = 210 · Periods = 2 · Aggregated · No identifiers".
func datasetLabel(summary aggregate.Summary) string {
	return fmt.Sprintf("N = %g · Periods = %d · Aggregated · No identifiers",
		summary.TotalCount, len(summary.Periods))
}

// DatasetLabel renders the integrity line for the filtered rows.
func (s *Service) DatasetLabel(ctx context.Context) (string, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return "", err
	}
	return summary.Label, nil
}

// Distributions computes the per-domain band distributions over the
// filtered rows.
func (s *Service) Distributions(_ context.Context) ([]aggregate.Distribution, error) {
	rows, err := s.filteredRows()
	if err != nil {
		return nil, err
	}
	return aggregate.DistributionsByDomain(rows), nil
}

// PeriodDistributions groups the filtered rows into periods.
func (s *Service) PeriodDistributions(_ context.Context) ([]trend.PeriodDistribution, error) {
	rows, err := s.filteredRows()
	if err != nil {
		return nil, err
	}
	return trend.PeriodDistributions(rows), nil
}

// TrendSeries computes the dense multi-domain trend series.
func (s *Service) TrendSeries(_ context.Context) ([]trend.Point, error) {
	rows, err := s.filteredRows()
	if err != nil {
		return nil, err
	}
	return trend.Series(trend.PeriodDistributions(rows)), nil
}

// Signals derives the heuristic signals over the filtered distributions.
func (s *Service) Signals(_ context.Context) ([]signal.Signal, error) {
	rows, err := s.filteredRows()
	if err != nil {
		return nil, err
	}
	signals := signal.Derive(aggregate.DistributionsByDomain(rows))
	metrics.UpdateSignalCount(len(signals))
	return signals, nil
}

// Notes returns the notes store.
func (s *Service) Notes() notes.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notesStore
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"mode":           s.view.Mode,
		"interpretation": s.view.Interpretation,
		"context":        s.view.Context,
		"hasDataset":     s.dataset != nil,
	}

	if s.dataset != nil {
		summary := aggregate.Summarise(s.dataset.Rows)
		stats["datasetId"] = s.dataset.ID
		stats["sourceName"] = s.dataset.SourceName
		stats["loadedAt"] = s.dataset.LoadedAt
		stats["rows"] = len(s.dataset.Rows)
		stats["totalCount"] = summary.TotalCount
		stats["periods"] = len(summary.Periods)
		stats["contexts"] = len(summary.Contexts)
	}

	return stats
}
