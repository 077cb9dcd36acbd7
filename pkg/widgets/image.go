package widgets

import (
	"fmt"
	"image"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layout"
)

// ImageFit determines how an image is scaled into its bounds.
type ImageFit int

const (
	// ImageFitContain scales to fit within the bounds keeping the aspect
	// ratio.
	ImageFitContain ImageFit = iota
	// ImageFitFill stretches the image to fill the bounds.
	ImageFitFill
	// ImageFitCover scales to cover the bounds keeping the aspect ratio. The
	// overflow is cropped by the host.
	ImageFitCover
	// ImageFitNone uses the intrinsic size, centered.
	ImageFitNone
)

// String returns a human-readable representation of the image fit.
func (f ImageFit) String() string {
	switch f {
	case ImageFitContain:
		return "contain"
	case ImageFitFill:
		return "fill"
	case ImageFitCover:
		return "cover"
	case ImageFitNone:
		return "none"
	default:
		return fmt.Sprintf("ImageFit(%d)", int(f))
	}
}

// Image displays a bitmap.
//
// The intrinsic size is the source size unless Width or Height override it.
// Setting only one of them keeps the aspect ratio. Images are size
// dependent: a new size remounts them so the destination rectangle is
// recomputed.
type Image struct {
	ID     string
	Source image.Image
	Width  int
	Height int
	Fit    ImageFit
	Layout *layout.Style
}

func (i Image) Key() string                      { return i.ID }
func (i Image) Style() *layout.Style             { return i.Layout }
func (Image) ContentType() component.ContentType { return component.ContentDrawable }
func (Image) CreateContent() host.Content        { return &ImageDrawable{} }
func (Image) IsSizeDependent() bool              { return true }

// intrinsic returns the preferred size.
func (i Image) intrinsic() (int, int) {
	sw, sh := 0, 0
	if i.Source != nil {
		b := i.Source.Bounds()
		sw, sh = b.Dx(), b.Dy()
	}
	switch {
	case i.Width > 0 && i.Height > 0:
		return i.Width, i.Height
	case i.Width > 0 && sw > 0:
		return i.Width, i.Width * sh / sw
	case i.Height > 0 && sh > 0:
		return i.Height * sw / sh, i.Height
	case i.Width > 0 || i.Height > 0:
		return i.Width, i.Height
	default:
		return sw, sh
	}
}

func (i Image) Measure(ws, hs layout.MeasureSpec) graphics.Size {
	w, h := i.intrinsic()
	return graphics.Size{Width: ws.Resolve(w), Height: hs.Resolve(h)}
}

// Dest returns where the source is drawn inside a box of the given size.
func (i Image) Dest(w, h int) graphics.Rect {
	if i.Source == nil {
		return graphics.Rect{}
	}
	b := i.Source.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return graphics.Rect{}
	}
	dw, dh := w, h
	switch i.Fit {
	case ImageFitFill:
	case ImageFitNone:
		dw, dh = sw, sh
	case ImageFitCover:
		if w*sh > h*sw {
			dh = w * sh / sw
		} else {
			dw = h * sw / sh
		}
	default:
		if w*sh > h*sw {
			dw = h * sw / sh
		} else {
			dh = w * sh / sw
		}
	}
	return graphics.RectXYWH((w-dw)/2, (h-dh)/2, dw, dh)
}

func (i Image) Mount(c host.Content) {
	d := c.(*ImageDrawable)
	d.Source = i.Source
	d.Dest = i.Dest(d.Bounds().Width(), d.Bounds().Height())
}

func (Image) Unmount(c host.Content) {
	c.(*ImageDrawable).Source = nil
}
