package layout

import (
	"fmt"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// Styled components supply a Style for their node.
type Styled interface {
	Style() *Style
}

// Node is one layout result: a component, its global key, its style and,
// after Calculate, its bounds relative to the parent node.
//
// Nodes are mutable while a calculation builds them. Committing a layout
// freezes the tree; frozen nodes are shared between commits and are never
// written again. Writers call Mutable, which clones a frozen node.
type Node struct {
	component component.Component
	key       string
	ownerKey  string
	style     *Style

	children     []*Node
	ownsChildren bool

	x, y, width, height   int
	widthSpec, heightSpec MeasureSpec
	measured              bool
	laidOut               bool

	state    any
	hasState bool

	frozen bool
}

// NewNode creates a node for c at key. The style is taken from c when it
// implements Styled.
func NewNode(c component.Component, key string) *Node {
	n := &Node{component: c, key: key, ownsChildren: true}
	if s, ok := c.(Styled); ok {
		n.style = s.Style()
	}
	return n
}

func (n *Node) String() string {
	return fmt.Sprintf("%s(%s)", component.TypeName(n.component), n.key)
}

// Component returns the originating component.
func (n *Node) Component() component.Component { return n.component }

// Key returns the global key.
func (n *Node) Key() string { return n.key }

// OwnerKey returns the global key of the composite that rendered this node,
// or "" when the node was created by its parent container.
func (n *Node) OwnerKey() string { return n.ownerKey }

// Style returns the node's style. It may be nil.
func (n *Node) Style() *Style { return n.style }

// Flags returns the explicitly-set style attributes.
func (n *Node) Flags() PrivateFlags { return n.style.Flags() }

// IsComposite reports whether the node's component renders a nested tree.
func (n *Node) IsComposite() bool {
	_, ok := n.component.(component.Composite)
	return ok
}

// Children returns the child nodes. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the i-th child.
func (n *Node) ChildAt(i int) *Node { return n.children[i] }

func (n *Node) X() int      { return n.x }
func (n *Node) Y() int      { return n.y }
func (n *Node) Width() int  { return n.width }
func (n *Node) Height() int { return n.height }

// Bounds returns the bounds relative to the parent node.
func (n *Node) Bounds() graphics.Rect { return graphics.RectXYWH(n.x, n.y, n.width, n.height) }

// LastSpecs returns the specs of the last measurement and whether the node
// has been measured.
func (n *Node) LastSpecs() (w, h MeasureSpec, ok bool) {
	return n.widthSpec, n.heightSpec, n.measured
}

// State returns the state snapshot the node was resolved with.
func (n *Node) State() (any, bool) { return n.state, n.hasState }

// IsFrozen reports whether the node belongs to a committed layout.
func (n *Node) IsFrozen() bool { return n.frozen }

func (n *Node) assertMutable(op string) {
	if n.frozen {
		panic(errors.Concurrency("layout.Node."+op, "write to frozen node %s", n))
	}
}

// SetOwnerKey records the owning composite.
func (n *Node) SetOwnerKey(key string) {
	n.assertMutable("SetOwnerKey")
	n.ownerKey = key
}

// SetComponent replaces the component without touching children. It is
// used to patch a clone with the newer, equivalent component instance.
func (n *Node) SetComponent(c component.Component) {
	n.assertMutable("SetComponent")
	n.component = c
	if s, ok := c.(Styled); ok {
		n.style = s.Style()
	}
}

// SetState records the state snapshot used to resolve the node.
func (n *Node) SetState(state any) {
	n.assertMutable("SetState")
	n.state = state
	n.hasState = true
}

// AppendChild adds child as the last child.
func (n *Node) AppendChild(child *Node) {
	n.assertMutable("AppendChild")
	n.ensureOwnChildren()
	n.children = append(n.children, child)
	n.laidOut = false
}

// SetChildAt replaces the i-th child. The shared children slice of a clone is
// copied on the first write.
func (n *Node) SetChildAt(i int, child *Node) {
	n.assertMutable("SetChildAt")
	if n.children[i] == child {
		return
	}
	n.ensureOwnChildren()
	n.children[i] = child
	n.laidOut = false
}

func (n *Node) ensureOwnChildren() {
	if !n.ownsChildren {
		n.children = append([]*Node(nil), n.children...)
		n.ownsChildren = true
	}
}

// Clone returns a shallow copy with a new identity. The copy shares the
// children slice and is mutable even when n is frozen.
func (n *Node) Clone() *Node {
	cp := *n
	cp.frozen = false
	cp.ownsChildren = false
	cp.laidOut = false
	return &cp
}

// Mutable returns n itself when it can be written, otherwise a clone.
func (n *Node) Mutable() *Node {
	if !n.frozen {
		return n
	}
	return n.Clone()
}

// Freeze marks n and its descendants immutable. Already frozen subtrees are
// skipped.
func (n *Node) Freeze() {
	if n == nil || n.frozen {
		return
	}
	n.frozen = true
	for _, c := range n.children {
		c.Freeze()
	}
}

func (n *Node) setSize(w, h int, ws, hs MeasureSpec) {
	n.width, n.height = w, h
	n.widthSpec, n.heightSpec = ws, hs
	n.measured = true
}

// isLaidOut reports whether the last layout of n under (w, h) is still valid.
func (n *Node) isLaidOut(w, h MeasureSpec) bool {
	return n.measured && (n.frozen || n.laidOut) && n.widthSpec == w && n.heightSpec == h
}

// positioned returns n placed at (x, y), cloning only when needed.
func (n *Node) positioned(x, y int) *Node {
	if n.x == x && n.y == y {
		return n
	}
	valid := n.frozen || n.laidOut
	m := n.Mutable()
	m.x, m.y = x, y
	m.laidOut = valid
	return m
}

// Walk visits n and its descendants depth-first, parents first.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the descendant (or n itself) with the given global key.
func (n *Node) Find(key string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.key == key {
			found = c
			return false
		}
		return true
	})
	return found
}
