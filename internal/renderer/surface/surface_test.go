package surface

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/folio/internal/layout"
)

var (
	_ Surface = (*Recorder)(nil)
	_ Surface = (*Raster)(nil)
	_ Surface = (*Terminal)(nil)
)

func TestRecorderRecordsInOrder(t *testing.T) {
	r := NewRecorder(595, 842)
	font := layout.ParseFont("Helvetica-Bold", 20)

	r.Clear(layout.ColorWhite)
	r.Scale(1.5)
	r.SetFillColor(layout.ColorBlack)
	r.DrawText("John Doe", layout.Pt(50, 40), font, layout.AlignLeft, layout.ColorBlack)
	r.StrokeLine(layout.Pt(10, 10), layout.Pt(200, 10), layout.ColorGray, 2)

	ops := r.Ops()
	want := []OpKind{OpClear, OpScale, OpSetFillColor, OpDrawText, OpStrokeLine}
	if len(ops) != len(want) {
		t.Fatalf("expected %d ops, got %d", len(want), len(ops))
	}
	for i, kind := range want {
		if ops[i].Kind != kind {
			t.Errorf("op %d: expected %s, got %s", i, kind, ops[i].Kind)
		}
	}

	if ops[3].Font != font || ops[3].Text != "John Doe" {
		t.Errorf("unexpected text op: %s", ops[3])
	}
	if r.Count(OpDrawText) != 1 {
		t.Errorf("expected 1 text op, got %d", r.Count(OpDrawText))
	}

	r.Reset()
	if len(r.Ops()) != 0 {
		t.Error("Reset should discard ops")
	}
}

func TestRecorderOpsIsCopy(t *testing.T) {
	r := NewRecorder(10, 10)
	r.Clear(layout.ColorWhite)

	ops := r.Ops()
	ops[0].Color = layout.ColorBlack

	if r.Ops()[0].Color != layout.ColorWhite {
		t.Error("Ops should return a copy")
	}
}

func TestRasterClear(t *testing.T) {
	r := NewRaster(20, 10)
	r.Clear(layout.ColorWhite)

	w, h := r.Size()
	if w != 20 || h != 10 {
		t.Fatalf("expected size (20, 10), got (%d, %d)", w, h)
	}

	got := r.Image().RGBAAt(19, 9)
	if got != layout.ColorWhite.ToRGBA() {
		t.Errorf("expected white corner, got %v", got)
	}
}

func TestRasterStrokeLineScaled(t *testing.T) {
	gray := layout.MustParseColor("#888888")
	r := NewRaster(100, 100)
	r.Clear(layout.ColorWhite)
	r.Scale(2)
	r.StrokeLine(layout.Pt(5, 10), layout.Pt(40, 10), gray, 1)

	// Document y=10 lands on pixel row 20 at scale 2.
	if got := r.Image().RGBAAt(50, 20); got != gray.ToRGBA() {
		t.Errorf("expected stroke at (50, 20), got %v", got)
	}
	if got := r.Image().RGBAAt(50, 10); got != layout.ColorWhite.ToRGBA() {
		t.Errorf("unscaled row should stay white, got %v", got)
	}
	if got := r.Image().RGBAAt(95, 20); got != layout.ColorWhite.ToRGBA() {
		t.Errorf("stroke should end at x=80, got %v at x=95", got)
	}
}

func TestRasterStrokeLineOffPage(t *testing.T) {
	white := layout.ColorWhite.ToRGBA()

	tests := []struct {
		name     string
		from, to layout.Point
		inked    []image.Point
		blank    []image.Point
	}{
		{
			name:  "horizontal past right edge",
			from:  layout.Pt(0, 10),
			to:    layout.Pt(5e9, 10),
			inked: []image.Point{{1, 10}, {30, 9}, {59, 10}},
			blank: []image.Point{{30, 30}, {59, 12}},
		},
		{
			name:  "both ends off page",
			from:  layout.Pt(-5e9, 40),
			to:    layout.Pt(5e9, 40),
			inked: []image.Point{{0, 40}, {59, 39}},
			blank: []image.Point{{30, 10}},
		},
		{
			name:  "diagonal",
			from:  layout.Pt(0, 0),
			to:    layout.Pt(5e9, 5e9),
			inked: []image.Point{{30, 30}, {50, 50}},
			blank: []image.Point{{50, 10}, {10, 50}},
		},
		{
			name:  "entirely outside",
			from:  layout.Pt(1e3, -5e9),
			to:    layout.Pt(1e3, 5e9),
			blank: []image.Point{{59, 40}, {0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRaster(60, 84)
			r.Clear(layout.ColorWhite)

			start := time.Now()
			r.StrokeLine(tt.from, tt.to, layout.ColorBlack, 2)
			if elapsed := time.Since(start); elapsed > time.Second {
				t.Errorf("stroke took %v", elapsed)
			}

			for _, p := range tt.inked {
				if got := r.Image().RGBAAt(p.X, p.Y); got.R > 0x40 {
					t.Errorf("expected ink at %v, got %v", p, got)
				}
			}
			for _, p := range tt.blank {
				if got := r.Image().RGBAAt(p.X, p.Y); got != white {
					t.Errorf("expected blank at %v, got %v", p, got)
				}
			}
		})
	}
}

func TestRasterStrokeLineDegenerate(t *testing.T) {
	r := NewRaster(20, 20)
	r.Clear(layout.ColorWhite)

	r.StrokeLine(layout.Pt(10, 10), layout.Pt(10, 10), layout.ColorBlack, 4)
	if got := r.Image().RGBAAt(9, 9); got != layout.ColorBlack.ToRGBA() {
		t.Errorf("zero length stroke should paint a square, got %v", got)
	}

	r.Clear(layout.ColorWhite)
	r.StrokeLine(layout.Pt(0, 5), layout.Pt(math.Inf(1), 5), layout.ColorBlack, 2)
	if hasInk(r, 0, 20) {
		t.Error("non-finite stroke should paint nothing")
	}
}

func TestRasterDrawTextHugeSize(t *testing.T) {
	r := NewRaster(60, 84)
	r.Clear(layout.ColorWhite)

	start := time.Now()
	r.DrawText("W", layout.Pt(0, 80), layout.ParseFont("Helvetica", 1e6), layout.AlignLeft, layout.ColorBlack)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("DrawText took %v", elapsed)
	}
	if !hasInk(r, 0, 60) {
		t.Error("capped glyph should still paint")
	}
}

func TestRasterDrawText(t *testing.T) {
	r := NewRaster(200, 60)
	r.Clear(layout.ColorWhite)
	r.Scale(1)
	r.DrawText("Hello", layout.Pt(100, 40), layout.ParseFont("Helvetica", 20), layout.AlignLeft, layout.ColorBlack)

	if !hasInk(r, 100, 200) {
		t.Error("left aligned text should paint right of the anchor")
	}
	if hasInk(r, 0, 95) {
		t.Error("left aligned text should not paint left of the anchor")
	}

	r.Clear(layout.ColorWhite)
	r.DrawText("Hello", layout.Pt(100, 40), layout.ParseFont("Helvetica", 20), layout.AlignCenter, layout.ColorBlack)
	if !hasInk(r, 0, 100) || !hasInk(r, 100, 200) {
		t.Error("centered text should paint on both sides of the anchor")
	}
}

func TestRasterEncodePNG(t *testing.T) {
	r := NewRaster(8, 8)
	r.Clear(layout.ColorWhite)

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("expected width 8, got %d", img.Bounds().Dx())
	}
}

func TestFontBankCachesFaces(t *testing.T) {
	b := NewFontBank()
	f1 := b.Face(layout.StyleBold, 12)
	f2 := b.Face(layout.StyleBold, 12)
	if f1 != f2 {
		t.Error("expected cached face to be reused")
	}
	if b.Face(layout.StyleRegular, 0) == nil {
		t.Error("expected fallback face for zero size")
	}
}

func hasInk(r *Raster, fromX, toX int) bool {
	img := r.Image()
	white := layout.ColorWhite.ToRGBA()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := fromX; x < toX && x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != white {
				return true
			}
		}
	}
	return false
}

func newSimTerminal(t *testing.T, w, h int) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(screen, TerminalOptions{UnitsPerColumn: 10, UnitsPerRow: 10})
	if err := term.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(term.Shutdown)
	return term, screen
}

func TestTerminalDrawText(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 40)
	blue := layout.MustParseColor("#1e40af")

	term.Clear(layout.ColorWhite)
	term.Scale(1)
	term.DrawText("Hi", layout.Pt(100, 60), layout.ParseFont("Helvetica-Bold", 20), layout.AlignLeft, blue)

	// (100, 60-10) -> cell (10, 5)
	mainc, _, style, _ := screen.GetContent(10, 5) //nolint:staticcheck // GetContent is the correct API
	if mainc != 'H' {
		t.Fatalf("expected 'H' at (10, 5), got %q", mainc)
	}
	fg, bg, attrs := style.Decompose()
	if fg != toTcell(blue) || bg != toTcell(layout.ColorWhite) {
		t.Errorf("unexpected colors fg=%v bg=%v", fg, bg)
	}
	if attrs&tcell.AttrBold == 0 {
		t.Error("expected bold attribute")
	}

	mainc, _, _, _ = screen.GetContent(11, 5) //nolint:staticcheck // GetContent is the correct API
	if mainc != 'i' {
		t.Errorf("expected 'i' at (11, 5), got %q", mainc)
	}
}

func TestTerminalScaleAndLine(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 40)

	term.Clear(layout.ColorWhite)
	term.Scale(2)
	term.StrokeLine(layout.Pt(10, 50), layout.Pt(100, 50), layout.ColorGray, 1)

	// At scale 2: x 20..200 -> cols 2..20, y 100 -> row 10.
	for _, col := range []int{2, 10, 20} {
		mainc, _, _, _ := screen.GetContent(col, 10) //nolint:staticcheck // GetContent is the correct API
		if mainc != '─' {
			t.Errorf("expected horizontal rule at (%d, 10), got %q", col, mainc)
		}
	}
	mainc, _, _, _ := screen.GetContent(21, 10) //nolint:staticcheck // GetContent is the correct API
	if mainc == '─' {
		t.Error("rule should stop at column 20")
	}
}

func TestTerminalLineOffScreen(t *testing.T) {
	term, screen := newSimTerminal(t, 80, 40)

	term.Clear(layout.ColorWhite)
	term.Scale(1)

	start := time.Now()
	term.StrokeLine(layout.Pt(0, 50), layout.Pt(5e9, 50), layout.ColorGray, 1)
	term.StrokeLine(layout.Pt(-5e9, 100), layout.Pt(-10, 100), layout.ColorGray, 1)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("StrokeLine took %v", elapsed)
	}

	for _, col := range []int{0, 40, 79} {
		mainc, _, _, _ := screen.GetContent(col, 5) //nolint:staticcheck // GetContent is the correct API
		if mainc != '─' {
			t.Errorf("expected horizontal rule at (%d, 5), got %q", col, mainc)
		}
	}
	mainc, _, _, _ := screen.GetContent(0, 10) //nolint:staticcheck // GetContent is the correct API
	if mainc == '─' {
		t.Error("segment left of the screen should paint nothing")
	}
}
