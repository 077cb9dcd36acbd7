package widgets

import (
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/layout"
)

// Card is a padded column with a solid background.
type Card struct {
	ID         string
	Title      string
	Background graphics.Color
	// Padding is applied on every edge. Zero uses 8.
	Padding int
	Items   []component.Component
}

func (c Card) Key() string { return c.ID }

func (c Card) Render(*component.Context) component.Component {
	pad := c.Padding
	if pad == 0 {
		pad = 8
	}
	items := c.Items
	if c.Title != "" {
		items = append([]component.Component{Text{ID: "title", Content: c.Title}}, items...)
	}
	return Column{
		Layout: layout.NewStyle().
			Padding(layout.EdgeAll, pad).
			Background(ColorSpec{Color: c.Background}),
		Items: items,
	}
}
