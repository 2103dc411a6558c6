// Package watch reloads a dataset file whenever it changes on disk.
//
// The watcher observes the file's parent directory rather than the file
// itself: most editors and pipelines replace files atomically via rename,
// which drops inotify watches placed on the file inode.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"capsight/pkg/logger"
)

// debounceDelay coalesces bursts of events from a single save.
const debounceDelay = 250 * time.Millisecond

// Loader loads a dataset file from disk. Satisfied by the app service.
type Loader interface {
	LoadFile(ctx context.Context, path string) error
}

// loaderFunc adapts a function to the Loader interface.
type loaderFunc func(ctx context.Context, path string) error

func (f loaderFunc) LoadFile(ctx context.Context, path string) error { return f(ctx, path) }

// LoaderFunc wraps fn as a Loader.
func LoaderFunc(fn func(ctx context.Context, path string) error) Loader { return loaderFunc(fn) }

// Watcher reloads a single dataset file on change.
type Watcher struct {
	path   string
	loader Loader
	logger logger.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithLogger sets a custom logger for the watcher.
func WithLogger(log logger.Logger) Option {
	return func(w *Watcher) {
		if log != nil {
			w.logger = log
		}
	}
}

// New constructs a Watcher for path; changes trigger loader.LoadFile.
func New(path string, loader Loader, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:   abs,
		loader: loader,
		fsw:    fsw,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get()
	}
	return w, nil
}

// Start runs the watch loop until ctx is cancelled or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

// Close stops the watch loop and releases the underlying watcher.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			// Debounce: a single save often produces several events.
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceDelay)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "dataset watcher error", logger.Error(err))
		}
	}
}

// relevant reports whether the event concerns the watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Name != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload(ctx context.Context) {
	if err := w.loader.LoadFile(ctx, w.path); err != nil {
		// LoadFile clears the prior dataset on failure, same as a failed
		// upload; nothing extra to do here.
		w.logger.Warn(ctx, "dataset reload failed",
			logger.String("path", w.path),
			logger.Error(err),
		)
		return
	}
	w.logger.Info(ctx, "dataset reloaded", logger.String("path", w.path))
}
