// Package notes defines the user-notes store interface and errors. Notes
// are free text keyed by a content-derived signal key; the store is a plain
// local key-value mapping so the signal engine stays independent of any
// storage mechanism.
package notes

import "context"

// Store provides read/write access to the user-notes mapping.
type Store interface {
	// Get returns the note for key, with ok=false when absent.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a note under key. Empty values delete the entry.
	Set(ctx context.Context, key, value string) error

	// Delete removes a single note.
	Delete(ctx context.Context, key string) error

	// All returns a copy of the full mapping.
	All(ctx context.Context) map[string]string

	// Clear removes every note.
	Clear(ctx context.Context) error
}
