// Package debugdraw paints a flattened layout state into an image. Outputs
// are painted in mount order, so the picture matches what a host would
// show for the same commit.
package debugdraw

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

var (
	outlineColor = color.NRGBA{R: 0x30, G: 0x80, B: 0xe0, A: 0xc0}
	labelColor   = color.NRGBA{R: 0x30, G: 0x80, B: 0xe0, A: 0xff}
	unknownColor = color.NRGBA{R: 0xe0, G: 0x30, B: 0xa0, A: 0xff}
)

// Options controls what is drawn besides content.
type Options struct {
	// Outlines strokes the bounds of every host output.
	Outlines bool
	// Labels writes output IDs at the top left of each host.
	Labels bool
	// Background fills the canvas first. Zero is transparent.
	Background graphics.Color
}

// Draw paints s into a new image of the state's size.
func Draw(s *layoutstate.State, opts Options) image.Image {
	dc := gg.NewContext(max(s.Width, 1), max(s.Height, 1))
	if opts.Background != graphics.ColorTransparent {
		dc.SetColor(opts.Background.NRGBA())
		dc.Clear()
	}
	dc.SetFontFace(graphics.Face())

	p := &painter{dc: dc, opts: opts}
	var folded []*layoutstate.Output
	for _, o := range s.Outputs() {
		switch o.Kind {
		case layoutstate.KindHost:
			p.spec(o.Background, o.Bounds)
			if o.Foreground != nil {
				folded = append(folded, o)
			}
		case layoutstate.KindBackground, layoutstate.KindForeground:
			p.spec(o.Drawable, o.Bounds)
		case layoutstate.KindContent:
			p.content(o)
		}
	}
	// Folded foregrounds cover the whole subtree of their host.
	for _, o := range folded {
		p.spec(o.Foreground, o.Bounds)
	}
	if opts.Outlines || opts.Labels {
		for _, o := range s.Outputs() {
			if o.IsHost() {
				p.annotate(o)
			}
		}
	}
	return dc.Image()
}

// WritePNG encodes the painted state as PNG.
func WritePNG(w io.Writer, s *layoutstate.State, opts Options) error {
	dc := gg.NewContextForImage(Draw(s, opts))
	return dc.EncodePNG(w)
}

// SavePNG writes the painted state to path.
func SavePNG(path string, s *layoutstate.State, opts Options) error {
	return gg.SavePNG(path, Draw(s, opts))
}

type painter struct {
	dc   *gg.Context
	opts Options
}

func (p *painter) spec(spec host.DrawableSpec, bounds graphics.Rect) {
	if spec == nil {
		return
	}
	d := spec.CreateDrawable()
	d.SetBounds(bounds)
	p.drawable(d, bounds)
}

func (p *painter) content(o *layoutstate.Output) {
	if o.Component == nil {
		return
	}
	c := o.Component.CreateContent()
	c.SetBounds(o.Bounds)
	o.Component.Mount(c)
	defer o.Component.Unmount(c)
	p.drawable(c, o.Bounds)
}

func (p *painter) drawable(c host.Content, r graphics.Rect) {
	x, y := float64(r.Left), float64(r.Top)
	switch d := c.(type) {
	case *widgets.ColorDrawable:
		p.fill(r, d.Color.NRGBA())
	case *widgets.TextDrawable:
		p.text(d, x, y)
	case *widgets.ImageDrawable:
		p.image(d, r)
	default:
		p.dc.SetColor(unknownColor)
		p.dc.SetLineWidth(1)
		p.dc.DrawRectangle(x+0.5, y+0.5, float64(r.Width()-1), float64(r.Height()-1))
		p.dc.DrawLine(x, y, x+float64(r.Width()), y+float64(r.Height()))
		p.dc.Stroke()
	}
}

func (p *painter) fill(r graphics.Rect, c color.Color) {
	p.dc.SetColor(c)
	p.dc.DrawRectangle(float64(r.Left), float64(r.Top), float64(r.Width()), float64(r.Height()))
	p.dc.Fill()
}

func (p *painter) text(d *widgets.TextDrawable, x, y float64) {
	l := d.Layout
	if l == nil {
		return
	}
	// The face is fixed; scaled text is drawn through the transform.
	scale := 1.0
	if base := graphics.Face().Metrics().Height.Ceil(); base > 0 {
		scale = float64(l.LineHeight) / float64(base)
	}
	p.dc.SetColor(d.Color.NRGBA())
	for i, line := range l.Lines {
		p.dc.Push()
		p.dc.Translate(x+float64(line.Offset), y+float64(i*l.LineHeight))
		p.dc.Scale(scale, scale)
		p.dc.DrawString(line.Text, 0, float64(l.Ascent)/scale)
		p.dc.Pop()
	}
}

func (p *painter) image(d *widgets.ImageDrawable, r graphics.Rect) {
	if d.Source == nil || d.Dest.Width() <= 0 || d.Dest.Height() <= 0 {
		return
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, d.Dest.Width(), d.Dest.Height()))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), d.Source, d.Source.Bounds(), xdraw.Over, nil)

	p.dc.Push()
	p.dc.DrawRectangle(float64(r.Left), float64(r.Top), float64(r.Width()), float64(r.Height()))
	p.dc.Clip()
	p.dc.DrawImage(scaled, r.Left+d.Dest.Left, r.Top+d.Dest.Top)
	p.dc.Pop()
}

func (p *painter) annotate(o *layoutstate.Output) {
	r := o.Bounds
	if p.opts.Outlines {
		p.dc.SetColor(outlineColor)
		p.dc.SetLineWidth(1)
		p.dc.DrawRectangle(float64(r.Left)+0.5, float64(r.Top)+0.5, float64(r.Width()-1), float64(r.Height()-1))
		p.dc.Stroke()
	}
	if p.opts.Labels {
		p.dc.SetColor(labelColor)
		p.dc.DrawString(o.ID, float64(r.Left)+2, float64(r.Top)+float64(graphics.Face().Metrics().Ascent.Ceil()))
	}
}
