package widgets

import (
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layout"
)

// SolidColor fills its bounds with a color. Width and Height are its
// intrinsic size; zero takes whatever the parent gives.
type SolidColor struct {
	ID            string
	Color         graphics.Color
	Width, Height int
	Layout        *layout.Style
}

func (s SolidColor) Key() string                      { return s.ID }
func (s SolidColor) Style() *layout.Style             { return s.Layout }
func (SolidColor) ContentType() component.ContentType { return component.ContentDrawable }
func (s SolidColor) CreateContent() host.Content      { return &ColorDrawable{} }
func (s SolidColor) Mount(c host.Content)             { c.(*ColorDrawable).Color = s.Color }
func (SolidColor) Unmount(host.Content)               {}

func (s SolidColor) Measure(ws, hs layout.MeasureSpec) graphics.Size {
	return graphics.Size{Width: ws.Resolve(s.Width), Height: hs.Resolve(s.Height)}
}
