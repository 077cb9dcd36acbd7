package layoutstate

import (
	"slices"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/transition"
	"github.com/go-drift/mountgraph/pkg/visibility"
)

// Options controls flattening.
type Options struct {
	// DrawableOutputs emits backgrounds and foregrounds as separate drawable
	// outputs. When false they are folded into a host view's paint, which
	// turns their node into a host.
	DrawableOutputs bool
}

// State is the flattened result of one commit. It is immutable.
type State struct {
	Root          *layout.Node
	Width, Height int

	outputs     []*Output
	byID        map[string]*Output
	byTop       []*Output
	byBottom    []*Output
	visibility  []visibility.Output
	transitions []transition.Transition
}

// Flatten walks root depth-first and emits its outputs. A nil root yields
// an empty state.
func Flatten(root *layout.Node, opts Options) *State {
	s := &State{Root: root, byID: make(map[string]*Output)}
	if root == nil {
		return s
	}
	s.Width, s.Height = root.Width(), root.Height()
	f := &flattener{state: s, opts: opts}
	bounds := graphics.RectXYWH(0, 0, root.Width(), root.Height())
	f.node(root, bounds, bounds, -1, true)

	s.byTop = slices.Clone(s.outputs)
	slices.SortFunc(s.byTop, CompareTop)
	s.byBottom = slices.Clone(s.outputs)
	slices.SortFunc(s.byBottom, CompareBottom)
	return s
}

type flattener struct {
	state *State
	opts  Options
}

// node emits the outputs of n at absolute bounds. anchor is the bounds of
// the nearest positioned ancestor, host the index of the enclosing host.
func (f *flattener) node(n *layout.Node, bounds, anchor graphics.Rect, host int, isRoot bool) {
	st := n.Style()
	if isRoot || st.IsSet(layout.FlagPositionType) {
		anchor = bounds
	}

	if p, ok := n.Component().(transition.Provider); ok {
		for _, t := range p.Transitions() {
			f.state.transitions = append(f.state.transitions, t.Resolve(n.Key()))
		}
	}
	if v := st.GetVisibility(); v != nil && !v.Handlers.IsEmpty() {
		f.state.visibility = append(f.state.visibility, visibility.Output{
			ID:         n.Key(),
			Bounds:     bounds,
			Handlers:   v.Handlers,
			EnterRatio: v.EnterRatio,
		})
	}

	var flags Flags
	if st.IsDuplicateParentState() {
		flags |= FlagDuplicateParentState
	}
	if !st.IsEnabled() {
		flags |= FlagTouchDisabled
	}
	tid, hasTransition := f.transitionID(n)

	if isRoot || (!n.IsComposite() && f.needsHost(st)) {
		o := f.emit(n, KindHost, bounds, host, flags)
		o.Interaction = st.Interaction()
		if !f.opts.DrawableOutputs {
			o.Background, o.Foreground = st.GetBackground(), st.GetForeground()
		}
		if hasTransition {
			o.TransitionID, o.HasTransition = tid, true
			hasTransition = false
		}
		host = o.Index
	}

	// Composites are transparent: their rendered root occupies the same box.
	if n.IsComposite() {
		for _, c := range n.Children() {
			f.node(c, bounds, anchor, host, false)
		}
		return
	}

	if bg := st.GetBackground(); bg != nil && f.opts.DrawableOutputs {
		f.emit(n, KindBackground, bounds, host, flags).Drawable = bg
	}
	if m, ok := n.Component().(component.Mountable); ok && m.ContentType() != component.ContentNone {
		o := f.emit(n, KindContent, bounds, host, flags)
		o.Component = m
		if hasTransition {
			o.TransitionID, o.HasTransition = tid, true
		}
	}
	for _, c := range n.Children() {
		f.node(c, f.childBounds(c, bounds, anchor), anchor, host, false)
	}
	if fg := st.GetForeground(); fg != nil && f.opts.DrawableOutputs {
		f.emit(n, KindForeground, bounds, host, flags).Drawable = fg
	}
}

// needsHost reports whether a non-root node gets its own host view.
func (f *flattener) needsHost(st *layout.Style) bool {
	if st.IsWrapInView() {
		return true
	}
	if in := st.Interaction(); in != nil && !in.IsEmpty() {
		return true
	}
	if !f.opts.DrawableOutputs && (st.GetBackground() != nil || st.GetForeground() != nil) {
		return true
	}
	return false
}

// childBounds returns the absolute bounds of c inside a parent at bounds.
// Absolute children are placed against the nearest positioned ancestor.
func (f *flattener) childBounds(c *layout.Node, parent, anchor graphics.Rect) graphics.Rect {
	st := c.Style()
	if st.GetPositionType() != layout.PositionAbsolute || anchor == parent {
		return graphics.RectXYWH(parent.Left+c.X(), parent.Top+c.Y(), c.Width(), c.Height())
	}
	x, y := layout.AbsoluteOffset(st, anchor.Width(), anchor.Height(), c.Width(), c.Height())
	return graphics.RectXYWH(anchor.Left+x, anchor.Top+y, c.Width(), c.Height())
}

func (f *flattener) transitionID(n *layout.Node) (transition.ID, bool) {
	key, kt, ok := n.Style().GetTransitionKey()
	if !ok {
		return transition.ID{}, false
	}
	if kt == transition.KeyGlobal {
		return transition.GlobalID(key), true
	}
	return transition.LocalID(n.OwnerKey(), key), true
}

func (f *flattener) emit(n *layout.Node, kind Kind, bounds graphics.Rect, host int, flags Flags) *Output {
	o := &Output{
		ID:        n.Key() + kind.suffix(),
		Index:     len(f.state.outputs),
		Kind:      kind,
		Key:       n.Key(),
		Node:      n,
		Bounds:    bounds,
		HostIndex: host,
		Flags:     flags,
	}
	if host >= 0 {
		o.HostID = f.state.outputs[host].ID
	}
	f.state.outputs = append(f.state.outputs, o)
	f.state.byID[o.ID] = o
	return o
}

// Outputs returns the outputs in mount order.
func (s *State) Outputs() []*Output { return s.outputs }

// Len returns the number of outputs.
func (s *State) Len() int { return len(s.outputs) }

// At returns the output at index i.
func (s *State) At(i int) *Output { return s.outputs[i] }

// Get returns the output with the given ID.
func (s *State) Get(id string) (*Output, bool) {
	o, ok := s.byID[id]
	return o, ok
}

// ByTop returns the outputs sorted with CompareTop.
func (s *State) ByTop() []*Output { return s.byTop }

// ByBottom returns the outputs sorted with CompareBottom.
func (s *State) ByBottom() []*Output { return s.byBottom }

// VisibilityOutputs returns the visibility records of this commit.
func (s *State) VisibilityOutputs() []visibility.Output { return s.visibility }

// Transitions returns the transitions declared by components in the tree.
func (s *State) Transitions() []transition.Transition { return s.transitions }

// TransitionSnapshot maps every transition id in the commit to its bounds.
func (s *State) TransitionSnapshot() transition.Snapshot {
	snap := make(transition.Snapshot)
	for _, o := range s.outputs {
		if o.HasTransition {
			snap[o.TransitionID] = o.Bounds
		}
	}
	return snap
}

// OutputForTransition returns the output carrying id.
func (s *State) OutputForTransition(id transition.ID) (*Output, bool) {
	for _, o := range s.outputs {
		if o.HasTransition && o.TransitionID == id {
			return o, true
		}
	}
	return nil, false
}
