// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. "127.0.0.1:9080".
	Addr string `koanf:"addr"`

	// NotesDir is the directory holding the user-notes file.
	NotesDir string `koanf:"notes_dir"`

	// DatasetPath optionally points at a dataset file loaded at startup.
	DatasetPath string `koanf:"dataset_path"`

	// Watch reloads DatasetPath on file changes when true.
	Watch bool `koanf:"watch"`

	// MaxUploadBytes caps the accepted upload size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// Default configuration values.
const (
	defaultAddr           = "127.0.0.1:9080"
	defaultNotesDir       = ".capsight"
	defaultMaxUploadBytes = 8 << 20 // 8 MiB of aggregated counts is a very large dataset
)

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           defaultAddr,
		NotesDir:       defaultNotesDir,
		DatasetPath:    "",
		Watch:          false,
		MaxUploadBytes: defaultMaxUploadBytes,
	}
}
