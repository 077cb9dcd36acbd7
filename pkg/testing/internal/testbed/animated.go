package testbed

import (
	"time"

	"github.com/go-drift/mountgraph/pkg/animation"
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/transition"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

// Slider places a box Offset pixels from the top and animates its Y over
// Duration when Offset changes.
type Slider struct {
	Offset   int
	Duration time.Duration
}

func (Slider) Key() string { return "slider" }

func (s Slider) Render(*component.Context) component.Component {
	return widgets.Column{Items: []component.Component{
		widgets.SolidColor{ID: "spacer", Width: 10, Height: s.Offset},
		widgets.SolidColor{
			ID:     "box",
			Color:  graphics.RGB(0, 0, 255),
			Width:  10,
			Height: 10,
			Layout: layout.NewStyle().TransitionKey("box", transition.KeyGlobal),
		},
	}}
}

func (s Slider) Transitions() []transition.Transition {
	return []transition.Transition{{
		ID:         transition.GlobalID("box"),
		Properties: []transition.Property{transition.PropY},
		Animator:   transition.Animator{Duration: s.Duration, Curve: animation.Linear},
	}}
}
