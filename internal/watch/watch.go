// Package watch reloads a layout file when the build step rewrites it.
//
// The parent directory is watched rather than the file itself so that
// atomic replace-by-rename writes are seen. Bursts of events are debounced
// into a single reload. A file that fails to decode is reported and the
// previously loaded document stays in effect.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/logging"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed indicates the watcher was closed.
var ErrWatcherClosed = errors.New("watcher closed")

// Handler receives each successfully decoded document.
type Handler func(doc *layout.Document)

// ErrorHandler receives read and decode failures.
type ErrorHandler func(err error)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *logging.Logger
}

// Watcher reloads a layout file on change.
type Watcher struct {
	path     string
	debounce time.Duration
	log      *logging.Logger
	fsw      *fsnotify.Watcher

	mu      sync.Mutex
	onLoad  Handler
	onError ErrorHandler
	closed  bool
	reloads int
}

// New creates a watcher for the layout file at path.
// The file's directory must exist; the file itself may appear later.
func New(path string, onLoad Handler, opts Options) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		path:     absPath,
		debounce: opts.Debounce,
		log:      log.WithComponent("watch").WithField("path", absPath),
		fsw:      fsw,
		onLoad:   onLoad,
	}, nil
}

// OnError registers a handler for reload failures.
func (w *Watcher) OnError(fn ErrorHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = fn
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Run processes file events until ctx is cancelled or the watcher is
// closed. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.report(err)

		case <-fire:
			fire = nil
			if err := w.Reload(); err != nil {
				w.report(err)
			}
		}
	}
}

// Reload reads and decodes the file now and hands the result to the
// load handler.
func (w *Watcher) Reload() error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("reading layout %s: %w", w.path, err)
	}

	doc, err := layout.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding layout %s: %w", w.path, err)
	}

	w.mu.Lock()
	w.reloads++
	onLoad := w.onLoad
	w.mu.Unlock()

	w.log.Info("layout reloaded", "sections", doc.Len())
	if onLoad != nil {
		onLoad(doc)
	}
	return nil
}

// Close stops watching. Run returns ErrWatcherClosed afterwards.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.fsw.Close()
}

// relevant reports whether ev changed the watched file's content.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create)
}

func (w *Watcher) report(err error) {
	w.log.Warn("layout reload failed", "error", err)

	w.mu.Lock()
	onError := w.onError
	w.mu.Unlock()

	if onError != nil {
		onError(err)
	}
}
