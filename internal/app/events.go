package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/folio/internal/preview"
	"github.com/dshills/folio/internal/renderer/surface"
)

// handleEvent processes a screen event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(sess *preview.Session, term *surface.Terminal, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		term.Sync()
		return sess.Redraw()
	case *tcell.EventKey:
		app.metrics.RecordKey()
		return app.handleKey(sess, ev)
	default:
		return nil
	}
}

// handleKey maps keys onto the preview control surface.
//
//	+ =     zoom in
//	-       zoom out
//	0       reset zoom
//	r       reload the layout file
//	s       write a PNG snapshot
//	q Esc   quit
func (app *Application) handleKey(sess *preview.Session, ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ErrQuit
	case tcell.KeyRune:
	default:
		return nil
	}

	switch ev.Rune() {
	case '+', '=':
		return sess.ZoomIn()
	case '-':
		return sess.ZoomOut()
	case '0':
		return sess.ResetZoom()
	case 'r':
		err := app.load(sess)
		app.metrics.RecordReload(err != nil)
		return err
	case 's':
		return app.snapshot(sess)
	case 'q':
		return ErrQuit
	default:
		return nil
	}
}
