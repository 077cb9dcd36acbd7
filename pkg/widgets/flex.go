package widgets

import (
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/layout"
)

// Column lays its items out top to bottom.
type Column struct {
	ID      string
	Layout  *layout.Style
	Justify layout.Justify
	Align   layout.Align
	Items   []component.Component
}

func (c Column) Key() string                     { return c.ID }
func (c Column) Children() []component.Component { return c.Items }

func (c Column) Style() *layout.Style {
	return flexStyle(c.Layout, layout.Column, c.Justify, c.Align)
}

// Row lays its items out left to right.
type Row struct {
	ID      string
	Layout  *layout.Style
	Justify layout.Justify
	Align   layout.Align
	Items   []component.Component
}

func (r Row) Key() string                     { return r.ID }
func (r Row) Children() []component.Component { return r.Items }

func (r Row) Style() *layout.Style {
	return flexStyle(r.Layout, layout.Row, r.Justify, r.Align)
}

// View is a column that always gets its own host view, so its subtree can
// be moved, clipped or made interactive as a unit.
type View struct {
	ID     string
	Layout *layout.Style
	Items  []component.Component
}

func (v View) Key() string                     { return v.ID }
func (v View) Children() []component.Component { return v.Items }
func (v View) Style() *layout.Style            { return v.Layout.Clone().WrapInView() }

// ColumnOf returns a Column of items with default alignment.
func ColumnOf(items ...component.Component) Column { return Column{Items: items} }

// RowOf returns a Row of items with default alignment.
func RowOf(items ...component.Component) Row { return Row{Items: items} }

func flexStyle(base *layout.Style, dir layout.Direction, j layout.Justify, a layout.Align) *layout.Style {
	s := base.Clone().Direction(dir)
	if j != layout.JustifyStart {
		s.Justify(j)
	}
	if a != layout.AlignAuto {
		s.AlignItems(a)
	}
	return s
}
