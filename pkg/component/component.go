// Package component defines the immutable component model: the interfaces a
// UI unit may implement, the render Context handed to composites, prop
// equivalence, and hierarchy-derived global keys.
//
// A component is any Go value implementing [Component]. Behavior is opted
// into through optional interfaces:
//
//   - [Composite] renders a nested tree and becomes the owner of it.
//   - [Parent] exposes ordered children (rows, columns).
//   - [Stateful] carries a state container keyed by its global key.
//   - [Mountable] produces native content (a view or a drawable).
//   - [Updater] overrides the default prop equivalence check.
//
// Components are never mutated after creation. A new tree is built for every
// render pass and reconciled against the previous one.
package component

import (
	"reflect"

	"github.com/go-drift/mountgraph/pkg/host"
)

// Component is an immutable description of a UI unit.
type Component interface {
	// Key returns the manual key, or "" when identity is positional.
	Key() string
}

// Composite renders a nested component tree. The rendered root is keyed
// under the composite's own global key.
type Composite interface {
	Component
	Render(c *Context) Component
}

// Parent exposes ordered children.
type Parent interface {
	Component
	Children() []Component
}

// Stateful components get a state value that survives across trees.
type Stateful interface {
	Component
	InitialState() any
}

// Updater overrides the default equivalence used to decide whether a
// component with changed props must be re-resolved or remounted.
type Updater interface {
	ShouldUpdate(prev Component) bool
}

// ErrorBoundary components receive failures raised while resolving their
// subtree and may render a fallback. Returning nil renders nothing; panicking
// re-raises.
type ErrorBoundary interface {
	Composite
	OnError(c *Context, err error) Component
}

// ContentType distinguishes the native content a Mountable produces.
type ContentType int

const (
	ContentNone ContentType = iota
	ContentView
	ContentDrawable
)

func (t ContentType) String() string {
	switch t {
	case ContentView:
		return "view"
	case ContentDrawable:
		return "drawable"
	default:
		return "none"
	}
}

// Mountable components produce native content.
type Mountable interface {
	Component
	ContentType() ContentType
	CreateContent() host.Content
	// Mount applies props to content that was just attached.
	Mount(content host.Content)
	// Unmount releases anything Mount acquired.
	Unmount(content host.Content)
}

// Binder components receive bind/unbind around every mount and every
// in-place update.
type Binder interface {
	Bind(content host.Content)
	Unbind(content host.Content)
}

// SizeDependent components must be remounted when their measured size
// changes even if their props did not.
type SizeDependent interface {
	IsSizeDependent() bool
}

// TypeName returns the type identity of c: the reflect type name without
// package or pointer decoration.
func TypeName(c Component) string {
	if c == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// SameType reports whether a and b have the same concrete type.
func SameType(a, b Component) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}

// ShouldUpdate reports whether next must replace prev. Components
// implementing Updater decide themselves; otherwise props are compared with
// Equivalent.
func ShouldUpdate(prev, next Component) bool {
	if !SameType(prev, next) {
		return true
	}
	if u, ok := next.(Updater); ok {
		return u.ShouldUpdate(prev)
	}
	return !Equivalent(prev, next)
}
