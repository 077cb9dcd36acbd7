// Package layoutstate flattens a laid out node tree into the ordered list of
// mountable outputs the mount stage consumes, plus the auxiliary top and
// bottom orderings used by incremental mount, the visibility outputs and the
// declared transitions of one commit.
package layoutstate

import (
	"fmt"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/transition"
)

// Kind is the role of an output.
type Kind int

const (
	// KindHost is a view wrapping the outputs of a node and its subtree.
	KindHost Kind = iota
	// KindBackground is a drawable painted below the node's content.
	KindBackground
	// KindContent is the native content of a mountable component.
	KindContent
	// KindForeground is a drawable painted above the node's subtree.
	KindForeground
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindBackground:
		return "background"
	case KindContent:
		return "content"
	default:
		return "foreground"
	}
}

func (k Kind) suffix() string {
	switch k {
	case KindHost:
		return "#host"
	case KindBackground:
		return "#bg"
	case KindForeground:
		return "#fg"
	default:
		return ""
	}
}

// Flags are boolean attributes of an output.
type Flags uint8

const (
	FlagDuplicateParentState Flags = 1 << iota
	FlagTouchDisabled
)

// Has reports whether every bit of f2 is set.
func (f Flags) Has(f2 Flags) bool { return f&f2 == f2 }

// Output is one mountable unit of a commit.
type Output struct {
	// ID is stable across commits: the node's global key plus a role suffix.
	ID    string
	Index int
	Kind  Kind
	// Key is the global key of the node the output was produced for.
	Key  string
	Node *layout.Node
	// Component is the mountable component for content outputs.
	Component component.Mountable
	// Drawable is the spec of background and foreground outputs.
	Drawable host.DrawableSpec
	// Bounds are absolute within the root.
	Bounds graphics.Rect
	// HostID is the ID of the host output this output mounts into; empty
	// for the root host.
	HostID string
	// HostIndex is the index of the host output, or -1 for the root host.
	HostIndex int
	Flags     Flags

	TransitionID  transition.ID
	HasTransition bool

	// Interaction is set on host outputs whose node has handlers.
	Interaction *layout.InteractionInfo
	// Background and Foreground are folded into host outputs when drawable
	// outputs are disabled.
	Background, Foreground host.DrawableSpec
}

func (o *Output) String() string {
	return fmt.Sprintf("%d %s %s %s", o.Index, o.Kind, o.ID, o.Bounds)
}

// IsHost reports whether o is a host view.
func (o *Output) IsHost() bool { return o.Kind == KindHost }

// ContentType returns the kind of native content o mounts.
func (o *Output) ContentType() component.ContentType {
	switch o.Kind {
	case KindHost:
		return component.ContentView
	case KindContent:
		return o.Component.ContentType()
	default:
		return component.ContentDrawable
	}
}

// CompareTop orders outputs by top edge, hosts before other outputs on the
// same edge, then by index.
func CompareTop(a, b *Output) int {
	if c := cmpInt(a.Bounds.Top, b.Bounds.Top); c != 0 {
		return c
	}
	if a.IsHost() != b.IsHost() {
		if a.IsHost() {
			return -1
		}
		return 1
	}
	return cmpInt(a.Index, b.Index)
}

// CompareBottom orders outputs by bottom edge, non-hosts before hosts on the
// same edge, then by descending index.
func CompareBottom(a, b *Output) int {
	if c := cmpInt(a.Bounds.Bottom, b.Bounds.Bottom); c != 0 {
		return c
	}
	if a.IsHost() != b.IsHost() {
		if a.IsHost() {
			return 1
		}
		return -1
	}
	return cmpInt(b.Index, a.Index)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
