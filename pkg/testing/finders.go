package testing

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

// Finder locates nodes in a committed tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *layout.Node) []*layout.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*layout.Node
	finder Finder
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *layout.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *layout.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *layout.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*layout.Node { return r.nodes }

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.nodes) }

// Exists reports whether at least one node matched.
func (r FinderResult) Exists() bool { return len(r.nodes) > 0 }

// Component returns the component of the first match.
func (r FinderResult) Component() component.Component {
	return r.First().Component()
}

// Keys returns the global keys of all matches.
func (r FinderResult) Keys() []string {
	keys := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		keys[i] = n.Key()
	}
	return keys
}

type predicateFinder struct {
	desc string
	fn   func(*layout.Node) bool
}

func (f *predicateFinder) Evaluate(root *layout.Node) []*layout.Node {
	var out []*layout.Node
	root.Walk(func(n *layout.Node) bool {
		if f.fn(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (f *predicateFinder) Description() string { return f.desc }

// ByType returns a finder that matches nodes whose component is type T.
func ByType[T component.Component]() Finder {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &predicateFinder{
		desc: fmt.Sprintf("ByType(%s)", t),
		fn:   func(n *layout.Node) bool { return reflect.TypeOf(n.Component()) == t },
	}
}

// ByKey returns a finder that matches nodes whose component has the manual
// key.
func ByKey(key string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByKey(%q)", key),
		fn:   func(n *layout.Node) bool { return n.Component() != nil && n.Component().Key() == key },
	}
}

// ByGlobalKey returns a finder that matches the node with the global key.
func ByGlobalKey(key string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByGlobalKey(%q)", key),
		fn:   func(n *layout.Node) bool { return n.Key() == key },
	}
}

// ByText returns a finder that matches [widgets.Text] with exact content.
func ByText(text string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByText(%q)", text),
		fn: func(n *layout.Node) bool {
			t, ok := n.Component().(widgets.Text)
			return ok && t.Content == text
		},
	}
}

// ByTextContaining returns a finder that matches [widgets.Text] whose
// content contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
		fn: func(n *layout.Node) bool {
			t, ok := n.Component().(widgets.Text)
			return ok && strings.Contains(t.Content, substring)
		},
	}
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*layout.Node) bool) Finder {
	return &predicateFinder{desc: "ByPredicate", fn: fn}
}

// descendantFinder finds nodes matching 'matching' below nodes matching
// 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *layout.Node) []*layout.Node {
	var results []*layout.Node
	seen := make(map[*layout.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' above nodes matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *layout.Node) []*layout.Node {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	var results []*layout.Node
	for _, candidate := range f.matching.Evaluate(root) {
		for _, d := range descendants {
			if candidate != d && candidate.Find(d.Key()) == d {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching' that
// are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}
