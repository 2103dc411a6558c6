// Package notes defines the user-notes store interface and errors.
package notes

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithPath overrides the full path of the notes file.
func WithPath(path string) Option {
	return func(s *FileStore) {
		if path != "" {
			s.path = path
		}
	}
}
