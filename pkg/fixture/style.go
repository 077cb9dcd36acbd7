package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/transition"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

var justifyNames = map[string]layout.Justify{
	"start":        layout.JustifyStart,
	"center":       layout.JustifyCenter,
	"end":          layout.JustifyEnd,
	"spaceBetween": layout.JustifySpaceBetween,
	"spaceAround":  layout.JustifySpaceAround,
}

var alignNames = map[string]layout.Align{
	"auto":    layout.AlignAuto,
	"start":   layout.AlignStart,
	"center":  layout.AlignCenter,
	"end":     layout.AlignEnd,
	"stretch": layout.AlignStretch,
}

// build returns nil for a nil style.
func (s *Style) build() (*layout.Style, error) {
	if s == nil {
		return nil, nil
	}
	out := layout.NewStyle()
	if s.Width != nil {
		out.Width(*s.Width)
	}
	if s.Height != nil {
		out.Height(*s.Height)
	}
	if s.Padding != nil {
		out.Padding(layout.EdgeAll, *s.Padding)
	}
	if s.Margin != nil {
		out.Margin(layout.EdgeAll, *s.Margin)
	}
	if s.Grow != 0 {
		out.FlexGrow(s.Grow)
	}
	if s.Shrink != nil {
		out.FlexShrink(*s.Shrink)
	}
	if s.Basis != nil {
		out.FlexBasis(*s.Basis)
	}
	if s.Absolute {
		out.PositionType(layout.PositionAbsolute)
	}
	if s.Left != nil {
		out.Position(layout.EdgeLeft, *s.Left)
	}
	if s.Top != nil {
		out.Position(layout.EdgeTop, *s.Top)
	}
	if s.Justify != "" {
		j, ok := justifyNames[s.Justify]
		if !ok {
			return nil, fmt.Errorf("unknown justify %q", s.Justify)
		}
		out.Justify(j)
	}
	if s.AlignItems != "" {
		a, ok := alignNames[s.AlignItems]
		if !ok {
			return nil, fmt.Errorf("unknown alignItems %q", s.AlignItems)
		}
		out.AlignItems(a)
	}
	if s.AlignSelf != "" {
		a, ok := alignNames[s.AlignSelf]
		if !ok {
			return nil, fmt.Errorf("unknown alignSelf %q", s.AlignSelf)
		}
		out.AlignSelf(a)
	}
	if s.Background != "" {
		c, err := ParseColor(s.Background)
		if err != nil {
			return nil, err
		}
		out.Background(widgets.ColorSpec{Color: c})
	}
	if s.Foreground != "" {
		c, err := ParseColor(s.Foreground)
		if err != nil {
			return nil, err
		}
		out.Foreground(widgets.ColorSpec{Color: c})
	}
	if s.View {
		out.WrapInView()
	}
	if s.TransitionKey != "" {
		out.TransitionKey(s.TransitionKey, transition.KeyGlobal)
	}
	return out, nil
}

// ParseColor parses #rgb, #rrggbb or #aarrggbb.
func ParseColor(s string) (graphics.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return 0, fmt.Errorf("invalid color %q: missing #", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	switch len(hex) {
	case 6:
		return graphics.Color(0xFF000000 | uint32(v)), nil
	case 8:
		return graphics.Color(uint32(v)), nil
	default:
		return 0, fmt.Errorf("invalid color %q", s)
	}
}

func parseColorOr(s string, fallback graphics.Color) (graphics.Color, error) {
	if s == "" {
		return fallback, nil
	}
	return ParseColor(s)
}

func parseTextAlign(s string) (graphics.TextAlign, error) {
	switch s {
	case "", "left":
		return graphics.TextAlignLeft, nil
	case "center":
		return graphics.TextAlignCenter, nil
	case "right":
		return graphics.TextAlignRight, nil
	default:
		return 0, fmt.Errorf("unknown text align %q", s)
	}
}
