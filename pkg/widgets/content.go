package widgets

import (
	"fmt"
	"image"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
)

// ColorDrawable fills its bounds with a color.
type ColorDrawable struct {
	Color  graphics.Color
	bounds graphics.Rect
}

func (d *ColorDrawable) SetBounds(r graphics.Rect) { d.bounds = r }
func (d *ColorDrawable) Bounds() graphics.Rect     { return d.bounds }

func (d *ColorDrawable) String() string { return fmt.Sprintf("color(%08x)", uint32(d.Color)) }

// ColorSpec is a DrawableSpec for solid backgrounds and foregrounds.
type ColorSpec struct {
	Color graphics.Color
}

func (s ColorSpec) CreateDrawable() host.Drawable { return &ColorDrawable{Color: s.Color} }

func (s ColorSpec) IsEquivalentTo(other host.DrawableSpec) bool {
	o, ok := other.(ColorSpec)
	return ok && o.Color == s.Color
}

// TextDrawable paints a laid-out paragraph.
type TextDrawable struct {
	Layout *graphics.TextLayout
	Color  graphics.Color
	bounds graphics.Rect
}

func (d *TextDrawable) SetBounds(r graphics.Rect) { d.bounds = r }
func (d *TextDrawable) Bounds() graphics.Rect     { return d.bounds }

func (d *TextDrawable) String() string {
	if d.Layout == nil {
		return "text()"
	}
	return fmt.Sprintf("text(%q)", d.Layout.Text)
}

// ImageDrawable paints an image scaled into Dest, a rectangle relative to
// its bounds.
type ImageDrawable struct {
	Source image.Image
	Dest   graphics.Rect
	bounds graphics.Rect
}

func (d *ImageDrawable) SetBounds(r graphics.Rect) { d.bounds = r }
func (d *ImageDrawable) Bounds() graphics.Rect     { return d.bounds }
