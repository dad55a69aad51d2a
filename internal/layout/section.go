package layout

// Kind is the type tag of a section.
type Kind string

// Known section kinds.
const (
	KindText          Kind = "text"
	KindHeader        Kind = "header"
	KindContact       Kind = "contact"
	KindLink          Kind = "link"
	KindSectionHeader Kind = "section_header"
	KindLine          Kind = "line"
)

// IsText reports whether sections of this kind paint a run of text.
func (k Kind) IsText() bool {
	switch k {
	case KindText, KindHeader, KindContact, KindLink, KindSectionHeader:
		return true
	default:
		return false
	}
}

// Section is one paintable unit of a document.
// The set of implementations is closed: TextSection, LineSection and
// UnknownSection.
type Section interface {
	// Kind returns the type tag the section was built with.
	Kind() Kind

	isSection()
}

// TextSection paints Content once at Position.
type TextSection struct {
	kind Kind

	Content    string
	Position   Point
	Font       string // descriptor, e.g. "Helvetica-Bold"
	Size       float64
	Color      Color
	Align      string // "left" or "center", optional
	TextAnchor string // "middle" or other, optional
	URL        string // link target, optional
}

// NewTextSection creates a text-like section.
// Returns ErrInvalidSection if kind does not paint text.
func NewTextSection(kind Kind, content string, at Point, font string, size float64, c Color) (TextSection, error) {
	if !kind.IsText() {
		return TextSection{}, ErrInvalidSection
	}
	return TextSection{
		kind:     kind,
		Content:  content,
		Position: at,
		Font:     font,
		Size:     size,
		Color:    c,
	}, nil
}

// Kind returns the section kind.
func (s TextSection) Kind() Kind {
	if s.kind == "" {
		return KindText
	}
	return s.kind
}

// ResolvedFont returns the font family, style and size to draw with.
func (s TextSection) ResolvedFont() Font {
	return ParseFont(s.Font, s.Size)
}

// Alignment returns the horizontal anchor for Position.
func (s TextSection) Alignment() Align {
	return ResolveAlign(s.Align, s.TextAnchor)
}

func (TextSection) isSection() {}

// LineSection strokes a straight segment.
type LineSection struct {
	Position    Point
	EndPosition Point
	Color       Color
	Width       float64
}

// NewLineSection creates a line section.
func NewLineSection(from, to Point, c Color, width float64) LineSection {
	return LineSection{Position: from, EndPosition: to, Color: c, Width: width}
}

// Kind returns KindLine.
func (LineSection) Kind() Kind { return KindLine }

func (LineSection) isSection() {}

// UnknownSection keeps a section whose type tag is not recognized.
// It paints nothing.
type UnknownSection struct {
	kind Kind

	// Raw is the undecoded JSON of the section, if it came from JSON.
	Raw string
}

// NewUnknownSection creates a placeholder for an unrecognized kind.
func NewUnknownSection(kind Kind, raw string) UnknownSection {
	return UnknownSection{kind: kind, Raw: raw}
}

// Kind returns the original type tag.
func (s UnknownSection) Kind() Kind { return s.kind }

func (UnknownSection) isSection() {}
