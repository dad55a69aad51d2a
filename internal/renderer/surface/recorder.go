package surface

import (
	"fmt"
	"sync"

	"github.com/dshills/folio/internal/layout"
)

// OpKind identifies a recorded surface operation.
type OpKind int

const (
	OpClear OpKind = iota
	OpScale
	OpSetFillColor
	OpDrawText
	OpStrokeLine
)

// String returns the operation name.
func (k OpKind) String() string {
	switch k {
	case OpClear:
		return "clear"
	case OpScale:
		return "scale"
	case OpSetFillColor:
		return "fill"
	case OpDrawText:
		return "text"
	case OpStrokeLine:
		return "stroke"
	default:
		return "unknown"
	}
}

// Op is one recorded surface call. Only the fields relevant to Kind are set.
type Op struct {
	Kind   OpKind
	Color  layout.Color
	Factor float64
	Text   string
	At     layout.Point
	To     layout.Point
	Font   layout.Font
	Align  layout.Align
	Width  float64
}

// String returns a compact description of the op.
func (o Op) String() string {
	switch o.Kind {
	case OpClear, OpSetFillColor:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Color)
	case OpScale:
		return fmt.Sprintf("scale(%g)", o.Factor)
	case OpDrawText:
		return fmt.Sprintf("text(%q @%g,%g %s %s %g %s %s)",
			o.Text, o.At.X, o.At.Y, o.Font.Family, o.Font.Style, o.Font.Size, o.Align, o.Color)
	case OpStrokeLine:
		return fmt.Sprintf("stroke(%g,%g -> %g,%g %s w=%g)",
			o.At.X, o.At.Y, o.To.X, o.To.Y, o.Color, o.Width)
	default:
		return o.Kind.String()
	}
}

// Recorder is a software surface that records every call.
// It is used in tests and to compare renders for determinism.
type Recorder struct {
	mu            sync.Mutex
	width, height int
	ops           []Op
}

// NewRecorder creates a recorder with the given native extents.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

func (r *Recorder) Clear(bg layout.Color) {
	r.record(Op{Kind: OpClear, Color: bg})
}

func (r *Recorder) Scale(factor float64) {
	r.record(Op{Kind: OpScale, Factor: factor})
}

func (r *Recorder) SetFillColor(c layout.Color) {
	r.record(Op{Kind: OpSetFillColor, Color: c})
}

func (r *Recorder) DrawText(text string, at layout.Point, font layout.Font, align layout.Align, c layout.Color) {
	r.record(Op{Kind: OpDrawText, Text: text, At: at, Font: font, Align: align, Color: c})
}

func (r *Recorder) StrokeLine(from, to layout.Point, c layout.Color, width float64) {
	r.record(Op{Kind: OpStrokeLine, At: from, To: to, Color: c, Width: width})
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Op, len(r.ops))
	copy(out, r.ops)
	return out
}

// Count returns how many ops of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards the recorded operations.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = r.ops[:0]
}
