package layout

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

type box struct {
	key      string
	style    *Style
	children []component.Component
}

func (b box) Key() string                     { return b.key }
func (b box) Style() *Style                   { return b.style }
func (b box) Children() []component.Component { return b.children }

type label struct {
	key   string
	w, h  int
	style *Style
}

func (l label) Key() string   { return l.key }
func (l label) Style() *Style { return l.style }

func (l label) Measure(ws, hs MeasureSpec) graphics.Size {
	return graphics.Size{Width: ws.Resolve(l.w), Height: hs.Resolve(l.h)}
}

type counting struct {
	calls  *int
	onCall func(n int)
}

func (counting) Key() string { return "" }

func (c counting) Measure(ws, hs MeasureSpec) graphics.Size {
	*c.calls++
	if c.onCall != nil {
		c.onCall(*c.calls)
	}
	return graphics.Size{Width: ws.Resolve(10), Height: hs.Resolve(10)}
}

type exploding struct{}

func (exploding) Key() string { return "" }

func (exploding) Measure(MeasureSpec, MeasureSpec) graphics.Size { panic("no fonts") }

type wrapper struct{}

func (wrapper) Key() string                                   { return "" }
func (wrapper) Render(*component.Context) component.Component { return nil }

// build creates an unlaid node tree for c, keying children by sibling scope.
func build(c component.Component, key string) *Node {
	n := NewNode(c, key)
	if p, ok := c.(component.Parent); ok {
		scope := component.NewKeyScope(key)
		for _, child := range p.Children() {
			n.AppendChild(build(child, scope.Next(child)))
		}
	}
	return n
}

func TestMeasureSpecEncoding(t *testing.T) {
	tests := []struct {
		name     string
		spec     MeasureSpec
		mode     SpecMode
		size     int
		resolved int
	}{
		{"exactly", ExactlySpec(100), Exactly, 100, 100},
		{"at most larger", AtMostSpec(100), AtMost, 100, 40},
		{"at most smaller", AtMostSpec(30), AtMost, 30, 30},
		{"unspecified", UnspecifiedSpec(), Unspecified, 0, 40},
		{"negative clamps", ExactlySpec(-5), Exactly, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Mode(); got != tt.mode {
				t.Errorf("Mode() = %v, want %v", got, tt.mode)
			}
			if got := tt.spec.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
			if got := tt.spec.Resolve(40); got != tt.resolved {
				t.Errorf("Resolve(40) = %d, want %d", got, tt.resolved)
			}
		})
	}
}

func TestStyleFlagsTrackExplicitAttributes(t *testing.T) {
	s := NewStyle().Width(10).Margin(EdgeAll, 4)

	assert.True(t, s.IsSet(FlagWidth))
	assert.True(t, s.IsSet(FlagMargin))
	assert.False(t, s.IsSet(FlagHeight))
	assert.Equal(t, "width|margin", s.Flags().String())

	// A default-valued setter still counts as explicit.
	assert.True(t, NewStyle().FlexGrow(0).IsSet(FlagFlexGrow))

	var nilStyle *Style
	assert.Equal(t, PrivateFlags(0), nilStyle.Flags())
	assert.True(t, nilStyle.IsEnabled())
}

func TestInteractionSlotsAreIndependent(t *testing.T) {
	s := NewStyle().OnClick(nil)
	info := s.Interaction()
	require.NotNil(t, info)
	assert.True(t, info.IsSet(SlotClick))
	assert.False(t, info.IsSet(SlotTouch))
	assert.True(t, info.IsEmpty())

	assert.Nil(t, NewStyle().Interaction())
}

func TestValidateRoot(t *testing.T) {
	tests := []struct {
		name    string
		style   *Style
		wantErr bool
	}{
		{"nil", nil, false},
		{"size", NewStyle().Size(10, 10).Padding(EdgeAll, 2), false},
		{"margin", NewStyle().Margin(EdgeTop, 1), true},
		{"position type", NewStyle().PositionType(PositionAbsolute), true},
		{"flex grow", NewStyle().FlexGrow(1), true},
		{"align self", NewStyle().AlignSelf(AlignCenter), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoot(tt.style)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsUsage(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBorderBuild(t *testing.T) {
	tests := []struct {
		name    string
		builder *BorderBuilder
		wantErr bool
	}{
		{"uniform with dash", NewBorder().Width(EdgeAll, 2).Dash([]float64{4, 2}, 0), false},
		{"non-uniform without effect", NewBorder().Width(EdgeLeft, 1).Width(EdgeTop, 3), false},
		{"two effects", NewBorder().Width(EdgeAll, 1).Dash([]float64{1}, 0).Discrete(2, 1), false},
		{"non-uniform with dash", NewBorder().Width(EdgeLeft, 1).Width(EdgeRight, 4).Dash([]float64{4, 2}, 0), true},
		{"non-uniform with discrete", NewBorder().Width(EdgeVertical, 2).Discrete(3, 1), true},
		{"non-uniform with path", NewBorder().Width(EdgeTop, 5).PathEffect("stamp"), true},
		{"three effects", NewBorder().Dash([]float64{1}, 0).Discrete(1, 1).PathEffect("p"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsUsage(err), "want usage error, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestColumnLayout(t *testing.T) {
	root := build(box{
		style: NewStyle().Padding(EdgeAll, 10),
		children: []component.Component{
			label{w: 30, h: 20},
			box{style: NewStyle().Height(40)},
		},
	}, "$box")

	laid, err := Calculate(context.Background(), nil, root, ExactlySpec(100), AtMostSpec(200))
	require.NoError(t, err)

	assert.Equal(t, graphics.RectXYWH(0, 0, 100, 80), laid.Bounds())
	assert.Equal(t, graphics.RectXYWH(10, 10, 80, 20), laid.ChildAt(0).Bounds())
	assert.Equal(t, graphics.RectXYWH(10, 30, 80, 40), laid.ChildAt(1).Bounds())
}

func TestRowGrowAndJustify(t *testing.T) {
	t.Run("grow", func(t *testing.T) {
		root := build(box{
			style: NewStyle().Direction(Row),
			children: []component.Component{
				box{style: NewStyle().Width(20)},
				box{style: NewStyle().FlexGrow(1)},
				box{style: NewStyle().FlexGrow(3)},
			},
		}, "$box")
		laid, err := Calculate(context.Background(), FlexEngine{}, root, ExactlySpec(100), ExactlySpec(20))
		require.NoError(t, err)

		var got []graphics.Rect
		for _, c := range laid.Children() {
			got = append(got, c.Bounds())
		}
		assert.Equal(t, []graphics.Rect{
			graphics.RectXYWH(0, 0, 20, 20),
			graphics.RectXYWH(20, 0, 20, 20),
			graphics.RectXYWH(40, 0, 60, 20),
		}, got)
	})

	tests := []struct {
		justify Justify
		wantX   []int
	}{
		{JustifyStart, []int{0, 10}},
		{JustifyCenter, []int{40, 50}},
		{JustifyEnd, []int{80, 90}},
		{JustifySpaceBetween, []int{0, 90}},
		{JustifySpaceAround, []int{20, 70}},
	}
	for _, tt := range tests {
		root := build(box{
			style: NewStyle().Direction(Row).Justify(tt.justify),
			children: []component.Component{
				box{style: NewStyle().Size(10, 10)},
				box{style: NewStyle().Size(10, 10)},
			},
		}, "$box")
		laid, err := Calculate(context.Background(), nil, root, ExactlySpec(100), ExactlySpec(10))
		require.NoError(t, err)
		if got := []int{laid.ChildAt(0).X(), laid.ChildAt(1).X()}; !assert.Equal(t, tt.wantX, got) {
			t.Logf("justify %d", tt.justify)
		}
	}
}

func TestAbsoluteChildLeavesFlow(t *testing.T) {
	root := build(box{
		children: []component.Component{
			box{style: NewStyle().PositionType(PositionAbsolute).Position(EdgeRight, 10).Position(EdgeBottom, 10).Size(20, 20)},
			box{style: NewStyle().Height(30)},
		},
	}, "$box")
	laid, err := Calculate(context.Background(), nil, root, ExactlySpec(100), ExactlySpec(100))
	require.NoError(t, err)

	assert.Equal(t, graphics.RectXYWH(70, 70, 20, 20), laid.ChildAt(0).Bounds())
	assert.Equal(t, graphics.RectXYWH(0, 0, 100, 30), laid.ChildAt(1).Bounds())
}

func TestFrozenNodesAreReusedOrCopied(t *testing.T) {
	root := build(box{children: []component.Component{label{w: 10, h: 10}}}, "$box")
	laid, err := Calculate(context.Background(), nil, root, ExactlySpec(50), ExactlySpec(50))
	require.NoError(t, err)
	laid.Freeze()

	again, err := Calculate(context.Background(), nil, laid, ExactlySpec(50), ExactlySpec(50))
	require.NoError(t, err)
	assert.Same(t, laid, again, "unchanged specs must return the committed node")

	resized, err := Calculate(context.Background(), nil, laid, ExactlySpec(80), ExactlySpec(50))
	require.NoError(t, err)
	assert.NotSame(t, laid, resized)
	assert.Equal(t, 80, resized.Width())
	assert.Equal(t, 50, laid.Width(), "committed node must not be written")
	assert.Equal(t, 50, laid.ChildAt(0).Width())
}

func TestInterruptedLayoutResumes(t *testing.T) {
	calls := 0
	ctx, cancel := context.WithCancel(context.Background())
	leaf := counting{calls: &calls, onCall: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	root := build(box{children: []component.Component{leaf, leaf, leaf, leaf}}, "$box")

	_, err := Calculate(ctx, nil, root, ExactlySpec(100), UnspecifiedSpec())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInterrupted))
	assert.Equal(t, 2, calls)

	laid, err := Calculate(context.Background(), nil, root, ExactlySpec(100), UnspecifiedSpec())
	require.NoError(t, err)
	assert.Equal(t, 4, calls, "completed leaves must not be measured again")
	assert.Equal(t, 40, laid.Height())
}

func TestMeasurePanicBecomesComponentError(t *testing.T) {
	root := NewNode(wrapper{}, "$wrapper")
	col := NewNode(box{}, "$wrapper,$box")
	col.SetOwnerKey("$wrapper")
	col.AppendChild(NewNode(exploding{}, "$wrapper,$box,$exploding"))
	root.AppendChild(col)

	_, err := Calculate(context.Background(), nil, root, ExactlySpec(10), ExactlySpec(10))
	require.Error(t, err)
	ce, ok := errors.AsComponentError(err)
	require.True(t, ok)
	assert.Equal(t, "measure", ce.Phase)
	assert.Equal(t, "$wrapper,$box,$exploding", ce.Key)
	assert.Equal(t, []string{"exploding", "wrapper"}, ce.Stack)
}

func TestFrozenNodeWritePanics(t *testing.T) {
	n := NewNode(box{}, "$box")
	n.Freeze()
	assert.Panics(t, func() { n.SetState(1) })

	clone := n.Clone()
	assert.NotPanics(t, func() { clone.SetState(1) })
	assert.False(t, clone.IsFrozen())
}
