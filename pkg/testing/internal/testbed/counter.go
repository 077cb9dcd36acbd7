// Package testbed provides components for testing the tree tester.
package testbed

import (
	"strconv"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

// Counter shows a count and increments it on click.
type Counter struct {
	ID      string
	Initial int
}

func (c Counter) Key() string       { return c.ID }
func (c Counter) InitialState() any { return c.Initial }

func (c Counter) Render(ctx *component.Context) component.Component {
	count, _ := ctx.State().(int)
	return widgets.View{
		ID: "button",
		Layout: layout.NewStyle().Size(100, 40).OnClick(func(host.View) {
			_ = ctx.UpdateStateSync(func(prev any) any { return prev.(int) + 1 })
		}),
		Items: []component.Component{
			widgets.Text{ID: "label", Content: strconv.Itoa(count)},
		},
	}
}
