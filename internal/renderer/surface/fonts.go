package surface

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/dshills/folio/internal/layout"
)

// fontKey identifies a cached face. Sizes are quantized to 1/64 px.
type fontKey struct {
	style layout.FontStyle
	size  int
}

// FontBank maps resolved fonts onto the Go font family.
// Layout documents name PDF base fonts (Helvetica and friends); the Go sans
// faces stand in for all of them, with style selecting the variant.
type FontBank struct {
	mu      sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	italic  *opentype.Font
	cache   map[fontKey]font.Face
}

// NewFontBank parses the embedded Go fonts. If parsing fails the bank
// still works and falls back to basicfont.Face7x13.
func NewFontBank() *FontBank {
	bank := &FontBank{cache: make(map[fontKey]font.Face)}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return bank
	}
	bol, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return bank
	}
	ita, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return bank
	}
	bank.regular = reg
	bank.bold = bol
	bank.italic = ita
	return bank
}

// Face returns a face for style at the given pixel size.
func (b *FontBank) Face(style layout.FontStyle, px float64) font.Face {
	if px <= 0 || math.IsNaN(px) || math.IsInf(px, 0) {
		return basicfont.Face7x13
	}

	key := fontKey{style: style, size: int(math.Round(px * 64))}

	b.mu.Lock()
	defer b.mu.Unlock()

	if face, ok := b.cache[key]; ok {
		return face
	}

	src := b.regular
	switch style {
	case layout.StyleBold:
		src = b.bold
	case layout.StyleOblique:
		src = b.italic
	}
	if src == nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(key.size) / 64,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	b.cache[key] = face
	return face
}
