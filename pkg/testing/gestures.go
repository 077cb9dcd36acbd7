package testing

import (
	"fmt"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host/hosttest"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
)

// Tap clicks the host view of the first node matched by finder. The node
// must have a click handler, which makes it a host.
func (t *TreeTester) Tap(finder Finder) error {
	v, err := t.hostView("Tap", finder)
	if err != nil {
		return err
	}
	if !v.PerformClick() {
		return fmt.Errorf("Tap: no click listener on %s", finder.Description())
	}
	return nil
}

// LongPress long-clicks the host view of the first node matched by finder
// and reports whether the handler consumed it.
func (t *TreeTester) LongPress(finder Finder) (bool, error) {
	v, err := t.hostView("LongPress", finder)
	if err != nil {
		return false, err
	}
	return v.PerformLongClick(), nil
}

// TapAt clicks the innermost mounted host view containing pos.
func (t *TreeTester) TapAt(pos graphics.Point) error {
	s := t.State()
	if s == nil {
		return fmt.Errorf("TapAt: nothing mounted")
	}
	var hit *layoutstate.Output
	for _, o := range s.Outputs() {
		if o.IsHost() && o.Interaction != nil && o.Bounds.ContainsPoint(pos) {
			hit = o
		}
	}
	if hit == nil {
		return fmt.Errorf("TapAt: no interactive host at %v", pos)
	}
	it, ok := t.tree.MountState().Item(hit.ID)
	if !ok {
		return fmt.Errorf("TapAt: %s is not mounted", hit.ID)
	}
	v, ok := it.View().(*hosttest.View)
	if !ok || !v.PerformClick() {
		return fmt.Errorf("TapAt: no click listener on %s", hit.ID)
	}
	return nil
}

func (t *TreeTester) hostView(op string, finder Finder) (*hosttest.View, error) {
	result := t.Find(finder)
	if !result.Exists() {
		return nil, fmt.Errorf("%s: finder matched no nodes: %s", op, finder.Description())
	}
	s := t.State()
	if s == nil {
		return nil, fmt.Errorf("%s: nothing mounted", op)
	}
	key := result.First().Key()
	for _, o := range s.Outputs() {
		if !o.IsHost() || o.Key != key {
			continue
		}
		it, ok := t.tree.MountState().Item(o.ID)
		if !ok {
			return nil, fmt.Errorf("%s: %s is not mounted", op, o.ID)
		}
		v, ok := it.View().(*hosttest.View)
		if !ok {
			return nil, fmt.Errorf("%s: %s is not a test view", op, o.ID)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%s: %s has no host view", op, finder.Description())
}
