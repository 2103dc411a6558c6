package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"capsight/pkg/metrics"
)

// storageFile is the fixed namespace key for the notes mapping, versioned so
// a future format change does not clobber older notes.
const storageFile = "capsight_signal_notes_v1.json"

// exportTool identifies the producer in exported envelopes.
const exportTool = "AI Capability Dashboard (Signals Workspace)"

// filePermissions for the notes file and its directory.
const (
	fileMode = 0o600
	dirMode  = 0o700
)

// FileStore is a Store backed by a single JSON file. The mapping is read
// once at open and written on every change; concurrent processes are not
// coordinated (last write wins), an accepted limitation for a single-user
// local tool.
type FileStore struct {
	mu   sync.RWMutex
	path string
	data map[string]string
}

// NewFileStore opens (or creates) the notes file under dir.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	s := &FileStore{
		path: filepath.Join(dir, storageFile),
		data: make(map[string]string),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenStore, err)
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenStore, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOpenStore, err)
		}
	}
	return s, nil
}

// Get returns the note for key.
func (s *FileStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores a note and persists the mapping. An empty value deletes the
// entry so the file never accumulates blank notes.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.data, key)
	} else {
		s.data[key] = value
	}
	if err := s.persist(); err != nil {
		return err
	}
	metrics.RecordNoteSaved()
	return nil
}

// Delete removes a single note and persists the mapping.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.persist()
}

// All returns a copy of the full mapping.
func (s *FileStore) All(_ context.Context) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// Clear removes every note and persists the empty mapping.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return s.persist()
}

// persist writes the mapping to disk. Callers hold the write lock.
func (s *FileStore) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistNotes, err)
	}
	if err := os.WriteFile(s.path, raw, fileMode); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistNotes, err)
	}
	return nil
}

// Envelope is the export/import wrapper around the notes mapping.
type Envelope struct {
	ExportedAt   string            `json:"exported_at"`
	Tool         string            `json:"tool"`
	DatasetLabel string            `json:"dataset_label"`
	Notes        map[string]string `json:"notes"`
}

// Export wraps the current mapping in an envelope for download.
func Export(ctx context.Context, store Store, datasetLabel string) Envelope {
	return Envelope{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		Tool:         exportTool,
		DatasetLabel: datasetLabel,
		Notes:        store.All(ctx),
	}
}

// Import merges notes from raw JSON into the store, import-wins. Accepts
// either an export envelope or a bare notes object.
func Import(ctx context.Context, store Store, raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Notes != nil {
		return mergeNotes(ctx, store, env.Notes)
	}

	var bare map[string]string
	if err := json.Unmarshal(raw, &bare); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return mergeNotes(ctx, store, bare)
}

func mergeNotes(ctx context.Context, store Store, incoming map[string]string) error {
	for k, v := range incoming {
		if err := store.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}
