// Package reconcile decides, node by node, whether a previous layout result
// can be reused, must be cloned and patched, or must be resolved again, and
// builds the next node tree accordingly.
package reconcile

import (
	"context"
	stderrors "errors"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/layout"
)

// Decision is the outcome for one node.
type Decision int

const (
	// Reuse keeps the previous node pointer.
	Reuse Decision = iota
	// Clone copies the previous node once and keeps its children.
	Clone
	// Resolve creates a new node and reconciles its children.
	Resolve
)

func (d Decision) String() string {
	switch d {
	case Reuse:
		return "reuse"
	case Clone:
		return "clone"
	default:
		return "resolve"
	}
}

// Config describes one reconciliation.
type Config struct {
	// Prev is the committed root, nil on the first pass.
	Prev *layout.Node
	// Root is the new component tree.
	Root component.Component
	// State is the calculation's state view.
	State *Snapshot
	// ForceRelayout clones every node that would otherwise be reused, for
	// size changes and explicit relayouts.
	ForceRelayout bool
	// Updater receives state updates from render contexts.
	Updater component.StateUpdater
	LogTag  string
	TreeID  int64
	// Observer is told about every decision.
	Observer func(Decision)
}

// Reconciler builds the next node tree. Run may be called again after it
// returns an error wrapping errors.ErrInterrupted; completed subtrees are
// memoized and not rebuilt.
type Reconciler struct {
	cfg            Config
	dirtyAncestors map[string]bool
	memo           map[string]*layout.Node
	stats          *Stats
}

// New prepares a reconciliation.
func New(cfg Config) *Reconciler {
	if cfg.State == nil {
		cfg.State = NewStateHandler().Snapshot()
	}
	r := &Reconciler{
		cfg:            cfg,
		dirtyAncestors: make(map[string]bool),
		memo:           make(map[string]*layout.Node),
		stats:          &Stats{},
	}
	for _, key := range cfg.State.DirtyKeys() {
		for _, a := range component.AncestorKeys(key) {
			r.dirtyAncestors[a] = true
		}
	}
	return r
}

// Stats returns the decisions made so far.
func (r *Reconciler) Stats() *Stats { return r.stats }

// frame is one enclosing composite on the current path.
type frame struct {
	c   component.Component
	key string
}

// Run reconciles the whole tree.
func (r *Reconciler) Run(ctx context.Context) (*layout.Node, error) {
	if r.cfg.Root == nil {
		return nil, nil
	}
	key := component.NewKeyScope("").Next(r.cfg.Root)
	prev := r.cfg.Prev
	if prev != nil && prev.Key() != key {
		prev = nil
	}
	return r.reconcile(ctx, prev, r.cfg.Root, key, "", nil)
}

func (r *Reconciler) decide(prev *layout.Node, next component.Component, key string) Decision {
	switch {
	case prev == nil || !component.SameType(prev.Component(), next):
		return Resolve
	case r.cfg.State.Dirty(key):
		return Resolve
	case component.ShouldUpdate(prev.Component(), next):
		return Resolve
	case r.cfg.ForceRelayout || r.dirtyAncestors[key]:
		return Clone
	default:
		return Reuse
	}
}

func (r *Reconciler) reconcile(ctx context.Context, prev *layout.Node, next component.Component, key, ownerKey string, owners []frame) (*layout.Node, error) {
	if n, ok := r.memo[key]; ok {
		return n, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, layout.Interrupted(err)
	}

	var (
		n   *layout.Node
		err error
	)
	d := r.decide(prev, next, key)
	switch d {
	case Reuse:
		n = prev
		r.keepState(prev)
	case Clone:
		n, err = r.clone(ctx, prev, next, owners)
	default:
		n, err = r.resolve(ctx, prev, next, key, ownerKey, owners)
	}
	if err != nil {
		return nil, err
	}
	r.stats.record(d, key)
	if r.cfg.Observer != nil {
		r.cfg.Observer(d)
	}
	r.memo[key] = n
	return n, nil
}

func (r *Reconciler) keepState(n *layout.Node) {
	if s, ok := n.State(); ok {
		r.cfg.State.Keep(n.Key(), s)
	}
	// Reused subtrees carry their descendants' state unchanged.
	for _, c := range n.Children() {
		r.keepState(c)
	}
}

func (r *Reconciler) clone(ctx context.Context, prev *layout.Node, next component.Component, owners []frame) (*layout.Node, error) {
	n := prev.Clone()
	n.SetComponent(next)
	if s, ok := prev.State(); ok {
		r.cfg.State.Keep(prev.Key(), s)
	}
	if _, ok := next.(component.Composite); ok {
		owners = append(owners, frame{c: next, key: prev.Key()})
	}
	for i, child := range prev.Children() {
		c, err := r.reconcile(ctx, child, child.Component(), child.Key(), child.OwnerKey(), owners)
		if err != nil {
			return nil, err
		}
		n.SetChildAt(i, c)
	}
	return n, nil
}

func (r *Reconciler) resolve(ctx context.Context, prev *layout.Node, next component.Component, key, ownerKey string, owners []frame) (*layout.Node, error) {
	if prev != nil && !component.SameType(prev.Component(), next) {
		prev = nil
	}
	n := layout.NewNode(next, key)
	n.SetOwnerKey(ownerKey)

	switch typed := next.(type) {
	case component.Composite:
		rctx := component.NewContext(key, r.cfg.Updater).WithLogTag(r.cfg.LogTag, r.cfg.TreeID)
		if s, ok := next.(component.Stateful); ok {
			state := r.cfg.State.State(key, s.InitialState)
			rctx = rctx.WithState(state)
			n.SetState(state)
		}
		owners = append(owners, frame{c: next, key: key})
		rendered, err := component.RenderSafely(typed, rctx)
		if err != nil {
			return nil, r.annotate(err, owners)
		}
		child, err := r.resolveRendered(ctx, prev, rendered, key, owners)
		if err != nil {
			b, ok := next.(component.ErrorBoundary)
			if !ok || stderrors.Is(err, errors.ErrInterrupted) {
				return nil, err
			}
			child, err = r.recover(ctx, b, rctx, err, key, owners)
			if err != nil {
				return nil, err
			}
		}
		if child != nil {
			n.AppendChild(child)
		}

	case component.Parent:
		if s, ok := next.(component.Stateful); ok {
			n.SetState(r.cfg.State.State(key, s.InitialState))
		}
		prevByKey := childrenByKey(prev)
		scope := component.NewKeyScope(key)
		for _, c := range typed.Children() {
			if c == nil {
				continue
			}
			ck := scope.Next(c)
			child, err := r.reconcile(ctx, prevByKey[ck], c, ck, ownerKey, owners)
			if err != nil {
				return nil, err
			}
			n.AppendChild(child)
		}

	default:
		if s, ok := next.(component.Stateful); ok {
			n.SetState(r.cfg.State.State(key, s.InitialState))
		}
	}
	return n, nil
}

// resolveRendered reconciles the root rendered by the composite at key.
func (r *Reconciler) resolveRendered(ctx context.Context, prev *layout.Node, rendered component.Component, key string, owners []frame) (*layout.Node, error) {
	if rendered == nil {
		return nil, nil
	}
	ck := component.NewKeyScope(key).Next(rendered)
	var prevChild *layout.Node
	if prev != nil && prev.ChildCount() == 1 && prev.ChildAt(0).Key() == ck {
		prevChild = prev.ChildAt(0)
	}
	return r.reconcile(ctx, prevChild, rendered, ck, key, owners)
}

// recover hands a subtree failure to an error boundary. A fallback replaces
// the failed subtree; a handler that panics re-raises the original error.
func (r *Reconciler) recover(ctx context.Context, b component.ErrorBoundary, rctx *component.Context, cause error, key string, owners []frame) (child *layout.Node, err error) {
	if ce, ok := errors.AsComponentError(cause); ok {
		errors.ReportComponentError(ce)
	}
	var fallback component.Component
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = cause
			}
		}()
		fallback = b.OnError(rctx, cause)
	}()
	if err != nil {
		return nil, err
	}
	// The failed subtree is discarded; drop its memoized nodes so the
	// fallback resolves from scratch.
	for k := range r.memo {
		if len(k) > len(key) && k[:len(key)] == key && k[len(key)] == ',' {
			delete(r.memo, k)
		}
	}
	return r.resolveRendered(ctx, nil, fallback, key, owners)
}

// annotate fills in the component stack of a render failure, innermost
// first, walking the enclosing composites.
func (r *Reconciler) annotate(err error, owners []frame) error {
	var ce *errors.ComponentError
	if !stderrors.As(err, &ce) || len(ce.Stack) > 0 {
		return err
	}
	for i := len(owners) - 1; i >= 0; i-- {
		ce.Stack = append(ce.Stack, component.TypeName(owners[i].c))
	}
	ce.LogTag = r.cfg.LogTag
	return ce
}

func childrenByKey(n *layout.Node) map[string]*layout.Node {
	if n == nil || n.ChildCount() == 0 {
		return nil
	}
	m := make(map[string]*layout.Node, n.ChildCount())
	for _, c := range n.Children() {
		m[c.Key()] = c
	}
	return m
}
