// Package mount applies flattened layout states to native content on the
// main goroutine. It diffs each new state against what is mounted and
// performs the minimal mount, unmount, move and rebind operations, mounting
// only the outputs inside the visible rectangle when incremental mount is
// enabled.
package mount

import (
	"slices"

	"github.com/go-logr/logr"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
	"github.com/go-drift/mountgraph/pkg/thread"
	"github.com/go-drift/mountgraph/pkg/transition"
)

// Stats counts the operations of one mount pass.
type Stats struct {
	Mounted   int
	Unmounted int
	Moved     int
	Rebound   int
	Remounted int
}

// IsZero reports whether the pass changed nothing.
func (s Stats) IsZero() bool { return s == Stats{} }

// Config configures a MountState.
type Config struct {
	// Looper is the main goroutine every entry point asserts. Nil skips the
	// check, for single-goroutine tools.
	Looper *thread.Looper
	// ViewFactory creates host views for host outputs.
	ViewFactory host.ViewFactory
	// Incremental mounts only outputs intersecting the visible rectangle.
	Incremental bool
	// PoolSize bounds recycled contents per type; see NewPool.
	PoolSize int
	// OnMount observes the stats of every pass.
	OnMount func(Stats)
	Logger  logr.Logger
}

// MountState owns the mounted contents of one tree.
type MountState struct {
	cfg   Config
	root  host.View
	pool  *Pool
	items map[string]*Item

	state   *layoutstate.State
	visible graphics.Rect
	last    Stats
}

// New creates a mount state attaching into root, the view that hosts the
// tree.
func New(root host.View, cfg Config) *MountState {
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = errors.Logger().WithName("mount")
	}
	return &MountState{
		cfg:   cfg,
		root:  root,
		pool:  NewPool(cfg.PoolSize),
		items: make(map[string]*Item),
	}
}

func (m *MountState) assertMain(op string) {
	if m.cfg.Looper != nil {
		m.cfg.Looper.AssertMain(op)
	}
}

// Mount applies s inside the visible rectangle.
func (m *MountState) Mount(s *layoutstate.State, visible graphics.Rect) Stats {
	m.assertMain("mount.MountState.Mount")
	var stats Stats
	want := m.wanted(s, visible)

	// Children are unmounted before their hosts: descending previous index.
	var gone []*Item
	for id, it := range m.items {
		next, ok := s.Get(id)
		if !ok || !want[id] || next.Kind != it.Output.Kind || next.HostID != it.Output.HostID {
			gone = append(gone, it)
		}
	}
	slices.SortFunc(gone, func(a, b *Item) int { return b.Output.Index - a.Output.Index })
	for _, it := range gone {
		m.unmount(it)
		stats.Unmounted++
	}

	for _, o := range s.Outputs() {
		if !want[o.ID] {
			continue
		}
		it, ok := m.items[o.ID]
		if !ok {
			m.mount(o)
			stats.Mounted++
			continue
		}
		if it.Output == o {
			continue
		}
		if m.needsRemount(it.Output, o) {
			m.unmount(it)
			m.mount(o)
			stats.Remounted++
			continue
		}
		if m.update(it, o) {
			stats.Moved++
		}
		stats.Rebound++
	}

	m.state, m.visible, m.last = s, visible, stats
	if !stats.IsZero() {
		m.cfg.Logger.V(1).Info("mounted",
			"outputs", s.Len(), "mounted", stats.Mounted, "unmounted", stats.Unmounted,
			"moved", stats.Moved, "rebound", stats.Rebound, "remounted", stats.Remounted)
	}
	if m.cfg.OnMount != nil {
		m.cfg.OnMount(stats)
	}
	return stats
}

// SetVisibleRect re-runs incremental mount of the current state.
func (m *MountState) SetVisibleRect(visible graphics.Rect) Stats {
	m.assertMain("mount.MountState.SetVisibleRect")
	if m.state == nil {
		m.visible = visible
		return Stats{}
	}
	return m.Mount(m.state, visible)
}

// wanted returns the IDs that must be mounted for visible, hosts included.
func (m *MountState) wanted(s *layoutstate.State, visible graphics.Rect) map[string]bool {
	want := make(map[string]bool, s.Len())
	if !m.cfg.Incremental {
		for _, o := range s.Outputs() {
			want[o.ID] = true
		}
		return want
	}
	for _, o := range Visible(s, visible) {
		for cur := o; cur != nil && !want[cur.ID]; {
			want[cur.ID] = true
			if cur.HostIndex < 0 {
				break
			}
			cur = s.At(cur.HostIndex)
		}
	}
	if s.Len() > 0 {
		want[s.At(0).ID] = true
	}
	return want
}

func (m *MountState) needsRemount(prev, next *layoutstate.Output) bool {
	switch next.Kind {
	case layoutstate.KindContent:
		if !component.SameType(prev.Component, next.Component) || component.ShouldUpdate(prev.Component, next.Component) {
			return true
		}
		if sd, ok := next.Component.(component.SizeDependent); ok && sd.IsSizeDependent() {
			return prev.Bounds.Width() != next.Bounds.Width() || prev.Bounds.Height() != next.Bounds.Height()
		}
	case layoutstate.KindBackground, layoutstate.KindForeground:
		return !next.Drawable.IsEquivalentTo(prev.Drawable)
	}
	return false
}

func (m *MountState) mount(o *layoutstate.Output) {
	it := &Item{Output: o, position: o.Index}
	if o.HostIndex >= 0 {
		h, ok := m.items[o.HostID]
		if !ok || !h.mounted {
			panic(errors.Concurrency("mount.MountState.mount", "host %s of %s is not mounted", o.HostID, o.ID))
		}
		it.Host = h
	}
	it.Content = m.acquire(o)
	it.Content.SetBounds(m.relative(o))
	if it.Host != nil {
		it.Host.View().MountChild(it.Content, it.position)
	}
	if mc := o.Component; mc != nil {
		mc.Mount(it.Content)
	}
	if o.IsHost() {
		m.applyHost(it, o)
	}
	it.mounted = true
	it.bind()
	m.items[o.ID] = it
}

func (m *MountState) unmount(it *Item) {
	if !it.mounted {
		panic(errors.Concurrency("mount.MountState.unmount", "%s is not mounted", it.Output.ID))
	}
	it.unbind()
	if mc := it.Output.Component; mc != nil {
		mc.Unmount(it.Content)
	}
	if it.Host != nil {
		it.Host.View().UnmountChild(it.Content)
	}
	it.mounted = false
	delete(m.items, it.Output.ID)
	m.release(it)
}

// update moves it to o in place and reports whether it changed position.
func (m *MountState) update(it *Item, o *layoutstate.Output) bool {
	it.unbind()
	it.Output = o
	moved := false
	if it.position != o.Index && it.Host != nil {
		it.Host.View().MoveChild(it.Content, it.position, o.Index)
		moved = true
	}
	it.position = o.Index
	if b := m.relative(o); b != it.Content.Bounds() {
		it.Content.SetBounds(b)
	}
	if o.IsHost() {
		m.applyHost(it, o)
	}
	it.bind()
	return moved
}

func (m *MountState) applyHost(it *Item, o *layoutstate.Output) {
	v := it.View()
	it.applyInteraction(v, o.Interaction)
	v.SetEnabled(!o.Flags.Has(layoutstate.FlagTouchDisabled))
	v.SetDuplicateParentState(o.Flags.Has(layoutstate.FlagDuplicateParentState))
	var bg, fg host.Drawable
	if o.Background != nil {
		bg = o.Background.CreateDrawable()
	}
	if o.Foreground != nil {
		fg = o.Foreground.CreateDrawable()
	}
	if bg != nil || fg != nil || it.mounted {
		v.SetPaint(bg, fg)
	}
}

// relative returns the bounds of o inside its host.
func (m *MountState) relative(o *layoutstate.Output) graphics.Rect {
	if o.HostIndex < 0 {
		return o.Bounds
	}
	h := m.items[o.HostID].Output.Bounds
	return o.Bounds.Offset(-h.Left, -h.Top)
}

func poolKind(o *layoutstate.Output) string {
	switch o.Kind {
	case layoutstate.KindHost:
		return "view"
	case layoutstate.KindContent:
		return component.TypeName(o.Component)
	default:
		return ""
	}
}

func (m *MountState) acquire(o *layoutstate.Output) host.Content {
	switch o.Kind {
	case layoutstate.KindHost:
		if o.HostIndex < 0 {
			return m.root
		}
		return m.pool.Acquire("view", func() host.Content { return m.cfg.ViewFactory() })
	case layoutstate.KindContent:
		return m.pool.Acquire(poolKind(o), o.Component.CreateContent)
	default:
		return o.Drawable.CreateDrawable()
	}
}

func (m *MountState) release(it *Item) {
	kind := poolKind(it.Output)
	if kind == "" || it.Content == m.root {
		return
	}
	if it.click != nil {
		it.click.handler = nil
	}
	if it.longClick != nil {
		it.longClick.handler = nil
	}
	if it.touch != nil {
		it.touch.handler = nil
	}
	m.pool.Release(kind, it.Content)
}

// UnmountAll unmounts every item, children first.
func (m *MountState) UnmountAll() int {
	m.assertMain("mount.MountState.UnmountAll")
	all := make([]*Item, 0, len(m.items))
	for _, it := range m.items {
		all = append(all, it)
	}
	slices.SortFunc(all, func(a, b *Item) int { return b.Output.Index - a.Output.Index })
	for _, it := range all {
		m.unmount(it)
	}
	m.state = nil
	return len(all)
}

// Release unmounts everything and drops pooled content.
func (m *MountState) Release() {
	m.UnmountAll()
	m.pool.Clear()
}

// Item returns the mounted item for an output ID.
func (m *MountState) Item(id string) (*Item, bool) {
	it, ok := m.items[id]
	return it, ok
}

// Len returns the number of mounted items.
func (m *MountState) Len() int { return len(m.items) }

// State returns the layout state last mounted.
func (m *MountState) State() *layoutstate.State { return m.state }

// LastStats returns the stats of the last pass.
func (m *MountState) LastStats() Stats { return m.last }

// Pool exposes the content pool.
func (m *MountState) Pool() *Pool { return m.pool }

// TransitionTarget returns the mounted content carrying id, translating
// absolute bounds to host coordinates. It returns nil when id is not
// mounted.
func (m *MountState) TransitionTarget(id transition.ID) transition.Target {
	if m.state == nil {
		return nil
	}
	o, ok := m.state.OutputForTransition(id)
	if !ok {
		return nil
	}
	it, ok := m.items[o.ID]
	if !ok {
		return nil
	}
	return &target{item: it, m: m}
}

type target struct {
	item *Item
	m    *MountState
}

func (t *target) origin() (int, int) {
	if t.item.Host == nil {
		return 0, 0
	}
	h := t.item.Host.Output.Bounds
	return h.Left, h.Top
}

func (t *target) SetBounds(r graphics.Rect) {
	x, y := t.origin()
	t.item.Content.SetBounds(r.Offset(-x, -y))
}

func (t *target) Bounds() graphics.Rect {
	x, y := t.origin()
	return t.item.Content.Bounds().Offset(x, y)
}
