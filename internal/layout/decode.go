package layout

import (
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// Defaults for optional numeric fields.
const (
	DefaultFontSize  = 12
	DefaultLineWidth = 1
)

// Decode parses a layout document.
//
// The input is either the layout object itself or a build response that
// wraps it under "layout_data". The "sections" key must be present and be
// an array, otherwise ErrMissingSections is returned and no document is
// produced. Sections with an unrecognized "type" decode to UnknownSection.
func Decode(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)
	if wrapped := root.Get("layout_data"); wrapped.IsObject() {
		root = wrapped
	}
	if !root.IsObject() {
		return nil, ErrMissingSections
	}

	raw := root.Get("sections")
	if !raw.IsArray() {
		return nil, ErrMissingSections
	}

	page := DefaultPage()
	if p := root.Get("page"); p.IsObject() {
		page = decodePage(p, page)
	}

	entries := raw.Array()
	sections := make([]Section, 0, len(entries))
	for i, entry := range entries {
		s, err := decodeSection(entry)
		if err != nil {
			return nil, &DecodeError{Index: i, Kind: Kind(entry.Get("type").String()), Err: err}
		}
		sections = append(sections, s)
	}

	return &Document{page: page, sections: sections}, nil
}

// DecodeReader reads all of r and decodes it.
func DecodeReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}
	return Decode(data)
}

// decodePage reads the informational page block. Extents outside
// (0, 2x] of the canonical page and margins outside [0, width] are ignored.
func decodePage(v gjson.Result, def Page) Page {
	page := def
	if w := v.Get("width"); w.Type == gjson.Number && inRange(w.Float(), 0, 2*PageWidth) {
		page.Width = w.Float()
	}
	if h := v.Get("height"); h.Type == gjson.Number && inRange(h.Float(), 0, 2*PageHeight) {
		page.Height = h.Float()
	}
	margins := []struct {
		key string
		dst *float64
	}{
		{"margin_left", &page.MarginLeft},
		{"margin_right", &page.MarginRight},
		{"margin_top", &page.MarginTop},
	}
	for _, m := range margins {
		if r := v.Get(m.key); r.Type == gjson.Number && (r.Float() == 0 || inRange(r.Float(), 0, page.Width)) {
			*m.dst = r.Float()
		}
	}
	return page
}

// inRange reports whether lo < v <= hi.
func inRange(v, lo, hi float64) bool {
	return v > lo && v <= hi
}

func decodeSection(v gjson.Result) (Section, error) {
	if !v.IsObject() {
		return nil, ErrInvalidSection
	}

	kind := Kind(v.Get("type").String())
	switch {
	case kind.IsText():
		return decodeText(kind, v)
	case kind == KindLine:
		return decodeLine(v)
	default:
		return NewUnknownSection(kind, v.Raw), nil
	}
}

func decodeText(kind Kind, v gjson.Result) (Section, error) {
	c, err := decodeColor(v.Get("color"))
	if err != nil {
		return nil, err
	}

	size := float64(DefaultFontSize)
	if sz := v.Get("size"); sz.Type == gjson.Number {
		size = sz.Float()
	}

	return TextSection{
		kind:       kind,
		Content:    v.Get("content").String(),
		Position:   decodePoint(v.Get("position")),
		Font:       v.Get("font").String(),
		Size:       size,
		Color:      c,
		Align:      v.Get("align").String(),
		TextAnchor: v.Get("text_anchor").String(),
		URL:        v.Get("url").String(),
	}, nil
}

func decodeLine(v gjson.Result) (Section, error) {
	c, err := decodeColor(v.Get("color"))
	if err != nil {
		return nil, err
	}

	width := float64(DefaultLineWidth)
	if w := v.Get("width"); w.Type == gjson.Number {
		width = w.Float()
	}

	return LineSection{
		Position:    decodePoint(v.Get("position")),
		EndPosition: decodePoint(v.Get("end_position")),
		Color:       c,
		Width:       width,
	}, nil
}

func decodePoint(v gjson.Result) Point {
	return Point{X: v.Get("x").Float(), Y: v.Get("y").Float()}
}

// decodeColor parses an optional color; absent means black.
func decodeColor(v gjson.Result) (Color, error) {
	if !v.Exists() || v.Type == gjson.Null {
		return ColorBlack, nil
	}
	if v.Type != gjson.String {
		return Color{}, fmt.Errorf("%w: %s", ErrInvalidColor, v.Raw)
	}
	return ParseColor(v.String())
}
