package layout

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// Measurer is implemented by leaf components whose size depends on their
// content. Sizes exclude padding and border.
type Measurer interface {
	Measure(widthSpec, heightSpec MeasureSpec) graphics.Size
}

// Engine annotates a node tree with sizes and relative positions.
//
// Implementations must check ctx at node entry and return an error wrapping
// errors.ErrInterrupted when it is done. Nodes completed before the
// interruption keep their results, so calling Layout again with the same
// tree resumes instead of restarting. Frozen nodes must not be written.
type Engine interface {
	Layout(ctx context.Context, root *Node, widthSpec, heightSpec MeasureSpec) (*Node, error)
}

// Calculate lays out root with engine, defaulting to FlexEngine.
func Calculate(ctx context.Context, engine Engine, root *Node, widthSpec, heightSpec MeasureSpec) (*Node, error) {
	if root == nil {
		return nil, nil
	}
	if engine == nil {
		engine = FlexEngine{}
	}
	return engine.Layout(ctx, root, widthSpec, heightSpec)
}

// rootOnlyFlags are attributes that only make sense inside a parent.
const rootOnlyFlags = FlagMargin | FlagPosition | FlagPositionType | FlagFlexGrow | FlagFlexShrink | FlagFlexBasis | FlagAlignSelf

// ValidateRoot rejects styles that set layout-only attributes on the root of
// a tree.
func ValidateRoot(s *Style) error {
	if bad := s.Flags() & rootOnlyFlags; bad != 0 {
		return errors.Usage("layout.ValidateRoot", "root node does not support %s", bad)
	}
	return nil
}

// Interrupted wraps a context error so callers can match ErrInterrupted.
func Interrupted(err error) error {
	return fmt.Errorf("%w: %w", errors.ErrInterrupted, err)
}

// ComponentStack lists component type names from the last node of path
// outwards through the composites enclosing it.
func ComponentStack(path []*Node) []string {
	if len(path) == 0 {
		return nil
	}
	stack := []string{component.TypeName(path[len(path)-1].component)}
	for i := len(path) - 2; i >= 0; i-- {
		if path[i].IsComposite() {
			stack = append(stack, component.TypeName(path[i].component))
		}
	}
	return stack
}

// Dump renders the tree one node per line, for debugging and tests.
func Dump(n *Node) string {
	var sb strings.Builder
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		fmt.Fprintf(&sb, "%s%s %v\n", strings.Repeat("  ", depth), n.key, n.Bounds())
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	if n != nil {
		walk(n, 0)
	}
	return sb.String()
}
