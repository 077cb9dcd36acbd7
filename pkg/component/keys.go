package component

import (
	"strconv"
	"strings"

	"github.com/go-drift/mountgraph/pkg/errors"
)

const (
	keySeparator    = ","
	autoKeyPrefix   = "$"
	duplicateSuffix = "!"
)

// JoinKey appends segment to a parent global key.
func JoinKey(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + keySeparator + segment
}

// AncestorKeys returns every proper prefix of key, outermost first.
func AncestorKeys(key string) []string {
	var out []string
	for i := 0; i < len(key); i++ {
		if key[i] == keySeparator[0] {
			out = append(out, key[:i])
		}
	}
	return out
}

// ParentKey returns the key of the parent of key, or "" for a root key.
func ParentKey(key string) string {
	i := strings.LastIndex(key, keySeparator)
	if i < 0 {
		return ""
	}
	return key[:i]
}

// keyEscaper keeps manual keys from containing the separator, so a key
// segment can never alias a descendant.
var keyEscaper = strings.NewReplacer("%", "%25", keySeparator, "%2C")

// KeyScope assigns global keys to the children of one parent, in sibling
// order. Every segment it hands out is unique within the scope.
type KeyScope struct {
	parent string
	used   map[string]bool
	next   map[string]int
}

// NewKeyScope starts a scope for the children of the node at parentKey.
func NewKeyScope(parentKey string) *KeyScope {
	return &KeyScope{parent: parentKey}
}

// Next returns the global key for the next sibling c.
//
// The first sibling using a manual key keeps it; later siblings using the
// same manual key get "!1", "!2", … appended and a warning is reported for
// each. A suffix already taken by an earlier sibling is skipped. Automatic
// keys are derived from the type name and deduplicated the same way
// without warnings.
func (s *KeyScope) Next(c Component) string {
	if manual := c.Key(); manual != "" {
		base := keyEscaper.Replace(manual)
		segment := s.claim(base)
		if segment != base {
			errors.ReportWarning(&errors.Warning{
				Op:        "component.KeyScope",
				Component: TypeName(c),
				Key:       manual,
				Msg:       "duplicate manual key; appending a uniqueness suffix",
			})
		}
		return JoinKey(s.parent, segment)
	}
	return JoinKey(s.parent, s.claim(keyEscaper.Replace(autoKeyPrefix+TypeName(c))))
}

// claim returns base, or base with the next free suffix, and marks the
// result used.
func (s *KeyScope) claim(base string) string {
	if s.used == nil {
		s.used = make(map[string]bool)
		s.next = make(map[string]int)
	}
	segment := base
	if s.used[segment] {
		n := s.next[base]
		for {
			n++
			segment = base + duplicateSuffix + strconv.Itoa(n)
			if !s.used[segment] {
				break
			}
		}
		s.next[base] = n
	}
	s.used[segment] = true
	return segment
}

// KeyedNode is a component instance with its global key.
type KeyedNode struct {
	Key       string
	Component Component
	// Owner is the composite that rendered this node, nil for nodes created
	// directly by their parent container.
	Owner    *KeyedNode
	Children []*KeyedNode
}

// KeyedTree is the result of AssignKeys.
type KeyedTree struct {
	Root  *KeyedNode
	byKey map[string]*KeyedNode
}

// Lookup returns the component instance assigned key.
func (t *KeyedTree) Lookup(key string) (Component, bool) {
	n, ok := t.byKey[key]
	if !ok {
		return nil, false
	}
	return n.Component, true
}

// Node returns the keyed node for key.
func (t *KeyedTree) Node(key string) *KeyedNode {
	return t.byKey[key]
}

// Len returns the number of keyed nodes.
func (t *KeyedTree) Len() int { return len(t.byKey) }

// Walk visits nodes depth-first, parents before children. Returning false
// from fn skips the node's children.
func (t *KeyedTree) Walk(fn func(*KeyedNode) bool) {
	var walk func(n *KeyedNode)
	walk = func(n *KeyedNode) {
		if n == nil || !fn(n) {
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t.Root)
}

// AssignKeys walks root, rendering composites with their initial state, and
// assigns every component instance its global key.
func AssignKeys(root Component) (*KeyedTree, error) {
	tree := &KeyedTree{byKey: make(map[string]*KeyedNode)}
	if root == nil {
		return tree, nil
	}
	var visit func(c Component, key string, owner *KeyedNode) (*KeyedNode, error)
	visit = func(c Component, key string, owner *KeyedNode) (*KeyedNode, error) {
		node := &KeyedNode{Key: key, Component: c, Owner: owner}
		tree.byKey[key] = node

		switch typed := c.(type) {
		case Composite:
			ctx := NewContext(key, nil)
			if s, ok := c.(Stateful); ok {
				ctx = ctx.WithState(s.InitialState())
			}
			rendered, err := RenderSafely(typed, ctx)
			if err != nil {
				return nil, err
			}
			if rendered != nil {
				child, err := visit(rendered, NewKeyScope(key).Next(rendered), node)
				if err != nil {
					return nil, err
				}
				node.Children = []*KeyedNode{child}
			}
		case Parent:
			scope := NewKeyScope(key)
			for _, childComponent := range typed.Children() {
				if childComponent == nil {
					continue
				}
				child, err := visit(childComponent, scope.Next(childComponent), owner)
				if err != nil {
					return nil, err
				}
				node.Children = append(node.Children, child)
			}
		}
		return node, nil
	}

	rootNode, err := visit(root, NewKeyScope("").Next(root), nil)
	if err != nil {
		return nil, err
	}
	tree.Root = rootNode
	return tree, nil
}
