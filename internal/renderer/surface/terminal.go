package surface

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/folio/internal/layout"
)

// TerminalOptions configures how document units map onto cells.
type TerminalOptions struct {
	// UnitsPerColumn is the document width covered by one cell at scale 1.
	UnitsPerColumn float64
	// UnitsPerRow is the document height covered by one cell at scale 1.
	UnitsPerRow float64
}

// DefaultTerminalOptions fits the 595 unit page width into ~100 columns.
func DefaultTerminalOptions() TerminalOptions {
	return TerminalOptions{
		UnitsPerColumn: 6,
		UnitsPerRow:    14,
	}
}

// Terminal draws a coarse page preview onto a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	opts   TerminalOptions
	scale  float64
	bg     layout.Color
	fill   layout.Color
}

// NewTerminal creates a terminal surface on the real tty.
// Init must be called before drawing.
func NewTerminal(opts TerminalOptions) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, opts), nil
}

// NewTerminalWithScreen wraps an existing screen, e.g. a simulation screen.
func NewTerminalWithScreen(screen tcell.Screen, opts TerminalOptions) *Terminal {
	def := DefaultTerminalOptions()
	if opts.UnitsPerColumn <= 0 {
		opts.UnitsPerColumn = def.UnitsPerColumn
	}
	if opts.UnitsPerRow <= 0 {
		opts.UnitsPerRow = def.UnitsPerRow
	}
	return &Terminal{
		screen: screen,
		opts:   opts,
		scale:  1,
		bg:     layout.ColorWhite,
		fill:   layout.ColorBlack,
	}
}

// Init initializes the underlying screen.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Init()
}

// Shutdown releases the screen and restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Fini()
}

// Screen returns the underlying tcell screen for event polling.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Show flushes pending changes to the terminal.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// Sync repaints the whole terminal, e.g. after a resize.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Sync()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

func (t *Terminal) Clear(bg layout.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bg = bg
	t.screen.Fill(' ', tcell.StyleDefault.Background(toTcell(bg)))
}

func (t *Terminal) Scale(factor float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scale = factor
}

func (t *Terminal) SetFillColor(c layout.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fill = c
}

// DrawText places text on the row holding the middle of the glyph box
// (baseline minus half the font size).
func (t *Terminal) DrawText(text string, at layout.Point, f layout.Font, align layout.Align, c layout.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	col, row := t.cell(layout.Pt(at.X, at.Y-f.Size/2))
	if align == layout.AlignCenter {
		col -= uniseg.StringWidth(text) / 2
	}

	style := tcell.StyleDefault.
		Foreground(toTcell(c)).
		Background(toTcell(t.bg))
	switch f.Style {
	case layout.StyleBold:
		style = style.Bold(true)
	case layout.StyleOblique:
		style = style.Italic(true)
	}

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		t.screen.SetContent(col, row, runes[0], runes[1:], style)
		col += max(g.Width(), 1)
	}
}

// StrokeLine plots the segment cell by cell using box-drawing runes for
// axis-aligned segments. Only the part that lands on the screen is walked.
func (t *Terminal) StrokeLine(from, to layout.Point, c layout.Color, _ float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, b := t.cellPoint(from), t.cellPoint(to)
	if !finite(a, b) {
		return
	}

	ch := '·'
	switch {
	case math.Floor(a.Y) == math.Floor(b.Y):
		ch = '─'
	case math.Floor(a.X) == math.Floor(b.X):
		ch = '│'
	}

	cols, rows := t.screen.Size()
	a, b, ok := clipRect{maxX: float64(cols), maxY: float64(rows)}.segment(a, b)
	if !ok {
		return
	}

	style := tcell.StyleDefault.
		Foreground(toTcell(c)).
		Background(toTcell(t.bg))

	x0, y0 := int(math.Floor(a.X)), int(math.Floor(a.Y))
	x1, y1 := int(math.Floor(b.X)), int(math.Floor(b.Y))
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		t.screen.SetContent(x0, y0, ch, nil, style)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64(dx*i)/float64(steps)))
		y := y0 + int(math.Round(float64(dy*i)/float64(steps)))
		t.screen.SetContent(x, y, ch, nil, style)
	}
}

// cell maps a document point to a screen cell at the current scale.
func (t *Terminal) cell(p layout.Point) (col, row int) {
	s := t.cellPoint(p)
	return int(math.Floor(s.X)), int(math.Floor(s.Y))
}

// cellPoint maps a document point to fractional cell coordinates.
func (t *Terminal) cellPoint(p layout.Point) layout.Point {
	s := p.Scaled(t.scale)
	return layout.Point{X: s.X / t.opts.UnitsPerColumn, Y: s.Y / t.opts.UnitsPerRow}
}

func toTcell(c layout.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
