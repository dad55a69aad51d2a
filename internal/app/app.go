package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/folio/internal/config"
	"github.com/dshills/folio/internal/layout"
	"github.com/dshills/folio/internal/logging"
	"github.com/dshills/folio/internal/preview"
	"github.com/dshills/folio/internal/renderer"
	"github.com/dshills/folio/internal/renderer/surface"
	"github.com/dshills/folio/internal/watch"
	"github.com/dshills/folio/internal/zoom"
)

// Options configures the application.
type Options struct {
	// LayoutPath is the layout JSON file to preview.
	LayoutPath string

	// Config holds the loaded settings.
	Config config.Config

	// Scale is the initial zoom. Zero means the default scale.
	Scale float64

	// Watch reloads the layout when the file changes.
	Watch bool

	// SnapshotPath is where the snapshot key writes a PNG. Defaults to the
	// layout path with a .png extension.
	SnapshotPath string

	// Logger receives application logs. Nil discards them.
	Logger *logging.Logger
}

// Application coordinates a preview session with its surface, the layout
// file and (optionally) the file watcher.
type Application struct {
	opts    Options
	log     *logging.Logger
	metrics *Metrics

	mu      sync.Mutex
	session *preview.Session

	running  atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
}

// New creates an application for the given options.
func New(opts Options) (*Application, error) {
	if opts.LayoutPath == "" {
		return nil, ErrNoLayout
	}
	if opts.Scale == 0 {
		opts.Scale = zoom.DefaultScale
	}
	if opts.SnapshotPath == "" {
		ext := filepath.Ext(opts.LayoutPath)
		opts.SnapshotPath = strings.TrimSuffix(opts.LayoutPath, ext) + ".png"
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &Application{
		opts:    opts,
		log:     log.WithComponent("app"),
		metrics: NewMetrics(),
		done:    make(chan struct{}),
	}, nil
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Session returns the active preview session, or nil before Run.
func (app *Application) Session() *preview.Session {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.session
}

// Export renders the layout at the initial scale and writes it as PNG.
// The raster is sized to the canonical page at that scale.
func (app *Application) Export(w io.Writer) error {
	if err := app.checkScale(); err != nil {
		return err
	}

	ras := surface.NewRaster(layout.DefaultPage().ScaledSize(app.opts.Scale))
	sess, err := app.open(ras, nil)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := ras.EncodePNG(w); err != nil {
		return NewOperationError("export", app.opts.LayoutPath, err)
	}
	app.log.Debug("exported", "scale", sess.Scale())
	return nil
}

// ExportFile writes the PNG export to path.
func (app *Application) ExportFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return NewOperationError("export", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = NewOperationError("export", path, cerr)
		}
	}()

	if err := app.Export(f); err != nil {
		return err
	}
	app.log.Info("snapshot written", "path", path)
	return nil
}

// Run opens the interactive preview on the real terminal.
// It blocks until the user quits, ctx is cancelled or Shutdown is called.
func (app *Application) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return NewComponentError("terminal", "create screen", err)
	}
	return app.RunWithScreen(ctx, screen)
}

// RunWithScreen runs the interactive preview on screen.
func (app *Application) RunWithScreen(ctx context.Context, screen tcell.Screen) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	term := surface.NewTerminalWithScreen(screen, app.opts.Config.TerminalOptions())
	if err := term.Init(); err != nil {
		return NewComponentError("terminal", "init", err)
	}
	defer term.Shutdown()

	sess, err := app.open(term, func(renderer.Stats) { term.Show() })
	if err != nil {
		return err
	}
	defer sess.Close()

	app.mu.Lock()
	app.session = sess
	app.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	if app.opts.Watch {
		if err := app.startWatcher(ctx, &wg, sess); err != nil {
			return err
		}
	}

	events := make(chan tcell.Event, 16)
	go pollEvents(screen, events, ctx.Done())

	defer func() {
		app.log.Info("preview finished", app.metrics.Snapshot().LogArgs()...)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-app.done:
			return nil
		case ev := <-events:
			if err := app.handleEvent(sess, term, ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				app.log.Warn("event failed", "error", err)
			}
		}
	}
}

// Shutdown stops a running preview.
func (app *Application) Shutdown() {
	app.doneOnce.Do(func() { close(app.done) })
}

// open creates a session on s, loads the layout file and applies the
// initial scale. onFrame, if set, runs after every repaint.
func (app *Application) open(s surface.Surface, onFrame func(renderer.Stats)) (*preview.Session, error) {
	cfg := app.opts.Config
	sess := preview.NewSession(s, preview.Options{
		Render: cfg.RenderOptions(),
		Zoom:   cfg.ZoomOptions(),
		Logger: app.log,
	})
	sess.OnRendered(func(st renderer.Stats) {
		app.metrics.RecordFrame(st.Elapsed, st.Drawn, st.Skipped)
		if onFrame != nil {
			onFrame(st)
		}
	})

	if err := app.load(sess); err != nil {
		return nil, err
	}
	if err := app.applyScale(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// load reads the layout file into sess.
func (app *Application) load(sess *preview.Session) error {
	data, err := os.ReadFile(app.opts.LayoutPath)
	if err != nil {
		return NewOperationError("load", app.opts.LayoutPath, err)
	}
	if err := sess.LoadBytes(data); err != nil {
		return NewOperationError("load", app.opts.LayoutPath, err)
	}
	return nil
}

// applyScale zooms sess to the initial scale.
func (app *Application) applyScale(sess *preview.Session) error {
	if err := app.checkScale(); err != nil {
		return err
	}
	if app.opts.Scale == zoom.DefaultScale {
		return nil
	}
	return sess.ZoomBy(app.opts.Scale)
}

// checkScale rejects an initial scale outside the zoom range rather than
// clamping it.
func (app *Application) checkScale() error {
	z := app.opts.Config.ZoomOptions()
	if !zoom.New(z).ZoomBy(app.opts.Scale) && app.opts.Scale != zoom.DefaultScale {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrScaleOutOfRange, app.opts.Scale, z.Min, z.Max)
	}
	return nil
}

// snapshot writes the current preview to the snapshot path.
func (app *Application) snapshot(sess *preview.Session) (err error) {
	path := app.opts.SnapshotPath
	f, err := os.Create(path)
	if err != nil {
		return NewOperationError("snapshot", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = NewOperationError("snapshot", path, cerr)
		}
	}()

	if err := sess.Snapshot(f); err != nil {
		return NewOperationError("snapshot", path, err)
	}
	app.log.Info("snapshot written", "path", path, "scale", sess.Scale())
	return nil
}

// startWatcher reloads sess whenever the layout file changes.
func (app *Application) startWatcher(ctx context.Context, wg *sync.WaitGroup, sess *preview.Session) error {
	w, err := watch.New(app.opts.LayoutPath, func(doc *layout.Document) {
		app.metrics.RecordReload(false)
		if err := sess.Load(doc); err != nil {
			app.log.Warn("reloaded layout not shown", "error", err)
		}
	}, watch.Options{
		Debounce: app.opts.Config.Debounce(),
		Logger:   app.log,
	})
	if err != nil {
		return NewComponentError("watcher", "start", err)
	}
	w.OnError(func(error) {
		app.metrics.RecordReload(true)
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer w.Close()
		if err := w.Run(ctx); err != nil && !errors.Is(err, watch.ErrWatcherClosed) {
			app.log.Warn("watcher stopped", "error", err)
		}
	}()
	return nil
}

// pollEvents forwards screen events until the screen is finalized or quit
// is closed.
func pollEvents(screen tcell.Screen, out chan<- tcell.Event, quit <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-quit:
			return
		}
	}
}
