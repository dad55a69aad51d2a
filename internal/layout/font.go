package layout

import "strings"

// DefaultFontFamily is used when a section names no font.
const DefaultFontFamily = "Helvetica"

// FontStyle is the resolved face variant of a font descriptor.
type FontStyle int

const (
	StyleRegular FontStyle = iota
	StyleBold
	StyleOblique
)

// String returns the style name.
func (s FontStyle) String() string {
	switch s {
	case StyleRegular:
		return "regular"
	case StyleBold:
		return "bold"
	case StyleOblique:
		return "oblique"
	default:
		return "unknown"
	}
}

// Font is a fully resolved font request.
type Font struct {
	Family string
	Style  FontStyle
	Size   float64
}

// styleSuffixes are stripped from a descriptor to recover the base family.
// Longest first so "-BoldOblique" is not left as "-Bold".
var styleSuffixes = []string{"-BoldOblique", "-BoldItalic", "-Oblique", "-Italic", "-Bold"}

// ParseFont resolves a descriptor such as "Helvetica-Bold".
//
// "Bold" is checked before "Oblique": a descriptor carrying both resolves
// to bold and the oblique marker is ignored. There is no combined
// bold-oblique rendering.
func ParseFont(descriptor string, size float64) Font {
	style := StyleRegular
	switch {
	case strings.Contains(descriptor, "Bold"):
		style = StyleBold
	case strings.Contains(descriptor, "Oblique"):
		style = StyleOblique
	}

	family := descriptor
	for _, suffix := range styleSuffixes {
		if strings.HasSuffix(family, suffix) {
			family = strings.TrimSuffix(family, suffix)
			break
		}
	}
	if family == "" {
		family = DefaultFontFamily
	}

	return Font{Family: family, Style: style, Size: size}
}

// Align is the horizontal anchor of a text draw.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// String returns the alignment name.
func (a Align) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

// ResolveAlign picks the alignment for a text section.
// A "middle" text anchor wins over a "center" align; anything else is left.
func ResolveAlign(align, textAnchor string) Align {
	if textAnchor == "middle" || align == "center" {
		return AlignCenter
	}
	return AlignLeft
}
