package layout

import (
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// maxBorderEffects is how many path effects a border can compose.
const maxBorderEffects = 2

// BorderEffectKind identifies a border path effect.
type BorderEffectKind int

const (
	EffectDash BorderEffectKind = iota
	EffectDiscrete
	EffectPath
)

func (k BorderEffectKind) String() string {
	switch k {
	case EffectDash:
		return "dash"
	case EffectDiscrete:
		return "discrete"
	default:
		return "path"
	}
}

// BorderEffect is one path effect applied to a border stroke.
type BorderEffect struct {
	Kind BorderEffectKind
	// Intervals and Phase configure EffectDash.
	Intervals []float64
	Phase     float64
	// SegmentLength and Deviation configure EffectDiscrete.
	SegmentLength float64
	Deviation     float64
	// Path names a custom stamp for EffectPath.
	Path string
}

// Border is an immutable, validated border description.
type Border struct {
	widths  [4]int
	colors  [4]graphics.Color
	radius  int
	effects []BorderEffect
}

// Width returns the width of a single edge.
func (b Border) Width(side Edge) int {
	if side > EdgeBottom {
		return 0
	}
	return b.widths[side]
}

// Color returns the color of a single edge.
func (b Border) Color(side Edge) graphics.Color {
	if side > EdgeBottom {
		return graphics.ColorTransparent
	}
	return b.colors[side]
}

// Radius returns the corner radius.
func (b Border) Radius() int { return b.radius }

// Effects returns the composed path effects.
func (b Border) Effects() []BorderEffect { return b.effects }

// Horizontal returns the sum of left and right widths.
func (b Border) Horizontal() int { return b.widths[0] + b.widths[2] }

// Vertical returns the sum of top and bottom widths.
func (b Border) Vertical() int { return b.widths[1] + b.widths[3] }

func (b Border) uniformWidth() bool {
	return b.widths[0] == b.widths[1] && b.widths[1] == b.widths[2] && b.widths[2] == b.widths[3]
}

// BorderBuilder accumulates border settings. Build validates them.
type BorderBuilder struct {
	b Border
}

// NewBorder starts a border.
func NewBorder() *BorderBuilder {
	return &BorderBuilder{}
}

// Width sets the width of the given edges in pixels.
func (bb *BorderBuilder) Width(edge Edge, px int) *BorderBuilder {
	for _, side := range edge.sides() {
		bb.b.widths[side] = px
	}
	return bb
}

// Color sets the color of the given edges.
func (bb *BorderBuilder) Color(edge Edge, c graphics.Color) *BorderBuilder {
	for _, side := range edge.sides() {
		bb.b.colors[side] = c
	}
	return bb
}

// Radius sets the corner radius in pixels.
func (bb *BorderBuilder) Radius(px int) *BorderBuilder {
	bb.b.radius = px
	return bb
}

// Dash adds a dash effect with the given on/off intervals and phase.
func (bb *BorderBuilder) Dash(intervals []float64, phase float64) *BorderBuilder {
	bb.b.effects = append(bb.b.effects, BorderEffect{Kind: EffectDash, Intervals: append([]float64(nil), intervals...), Phase: phase})
	return bb
}

// Discrete adds an effect that breaks the stroke into jittered segments.
func (bb *BorderBuilder) Discrete(segmentLength, deviation float64) *BorderBuilder {
	bb.b.effects = append(bb.b.effects, BorderEffect{Kind: EffectDiscrete, SegmentLength: segmentLength, Deviation: deviation})
	return bb
}

// PathEffect adds an effect that stamps the given path along the stroke.
func (bb *BorderBuilder) PathEffect(path string) *BorderBuilder {
	bb.b.effects = append(bb.b.effects, BorderEffect{Kind: EffectPath, Path: path})
	return bb
}

// Build validates the border. At most two effects can be composed, and
// effects require uniform widths on all edges.
func (bb *BorderBuilder) Build() (Border, error) {
	if n := len(bb.b.effects); n > maxBorderEffects {
		return Border{}, errors.Usage("layout.Border", "cannot compose %d effects, at most %d are supported", n, maxBorderEffects)
	}
	if len(bb.b.effects) > 0 && !bb.b.uniformWidth() {
		return Border{}, errors.Usage("layout.Border", "%s effect requires uniform border widths, got %v", bb.b.effects[0].Kind, bb.b.widths)
	}
	out := bb.b
	out.effects = append([]BorderEffect(nil), bb.b.effects...)
	return out, nil
}

// MustBuild is Build for borders known to be valid; it panics on error.
func (bb *BorderBuilder) MustBuild() Border {
	b, err := bb.Build()
	if err != nil {
		panic(err)
	}
	return b
}
