package widgets

import (
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layout"
)

// Text displays a string with a single style.
//
// # Text Wrapping and Line Limits
//
// The Wrap and MaxLines fields control how text flows and truncates:
//
//   - Wrap=false (default): Text lays out on a single line per newline,
//     extending beyond the width constraint. Use for labels.
//
//   - Wrap=true: Text wraps at the width constraint, creating multiple lines.
//
//   - MaxLines: Limits the number of lines. When MaxLines=0 (default), no
//     limit applies.
//
// Text is measured with the fixed bitmap face from graphics.Face, so sizes
// are identical on every host.
type Text struct {
	ID        string
	Content   string
	TextStyle graphics.TextStyle
	// MaxLines limits the number of visible lines (0 = unlimited).
	MaxLines int
	// Wrap enables text wrapping at the width constraint.
	Wrap   bool
	Align  graphics.TextAlign
	Layout *layout.Style
}

func (t Text) Key() string                      { return t.ID }
func (t Text) Style() *layout.Style             { return t.Layout }
func (Text) ContentType() component.ContentType { return component.ContentDrawable }
func (Text) CreateContent() host.Content        { return &TextDrawable{} }

// IsSizeDependent reports whether line breaks depend on the final width.
func (t Text) IsSizeDependent() bool { return t.Wrap }

// Paragraph lays out the text for a given width. Width <= 0 disables
// wrapping.
func (t Text) Paragraph(width int) *graphics.TextLayout {
	opts := graphics.ParagraphOptions{MaxLines: t.MaxLines, Align: t.Align}
	if t.Wrap && width > 0 {
		opts.MaxWidth = width
	}
	return graphics.LayoutTextWithOptions(t.Content, t.TextStyle, opts)
}

func (t Text) Measure(ws, hs layout.MeasureSpec) graphics.Size {
	width := -1
	if ws.Mode() != layout.Unspecified {
		width = ws.Size()
	}
	p := t.Paragraph(width)
	return graphics.Size{Width: ws.Resolve(p.Size.Width), Height: hs.Resolve(p.Size.Height)}
}

func (t Text) Mount(c host.Content) {
	d := c.(*TextDrawable)
	d.Layout = t.Paragraph(d.Bounds().Width())
	d.Color = t.TextStyle.Color
}

func (Text) Unmount(c host.Content) {
	d := c.(*TextDrawable)
	d.Layout = nil
}
