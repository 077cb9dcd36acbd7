// Package visibility tracks which outputs are inside the visible rectangle
// and dispatches enter, exit, focus and full-impression events exactly once
// per transition.
package visibility

import (
	"slices"

	"github.com/go-drift/mountgraph/pkg/graphics"
)

// Event is passed to visibility handlers.
type Event struct {
	// ID identifies the output across commits.
	ID string
	// Bounds is the output's absolute bounds.
	Bounds graphics.Rect
	// Visible is the part of Bounds inside the visible rectangle.
	Visible graphics.Rect
}

// Handler receives a visibility event.
type Handler func(ev Event)

// Handlers are the optional callbacks of one output. Any may be nil.
type Handlers struct {
	Visible        Handler
	Invisible      Handler
	Focused        Handler
	Unfocused      Handler
	FullImpression Handler
}

// IsEmpty reports whether no handler is set.
func (h Handlers) IsEmpty() bool {
	return h.Visible == nil && h.Invisible == nil && h.Focused == nil &&
		h.Unfocused == nil && h.FullImpression == nil
}

// EventKind names a dispatched event.
type EventKind int

const (
	EventVisible EventKind = iota
	EventInvisible
	EventFocused
	EventUnfocused
	EventFullImpression
)

func (k EventKind) String() string {
	switch k {
	case EventVisible:
		return "visible"
	case EventInvisible:
		return "invisible"
	case EventFocused:
		return "focused"
	case EventUnfocused:
		return "unfocused"
	default:
		return "full_impression"
	}
}

// Output is the visibility record of one node for one commit.
type Output struct {
	ID       string
	Bounds   graphics.Rect
	Handlers Handlers
	// EnterRatio is the fraction of the height trimmed from both ends before
	// the output counts as entered. Zero requires the full height.
	EnterRatio float64
}

func (o Output) trim() int {
	if o.EnterRatio <= 0 {
		return 0
	}
	r := min(o.EnterRatio, 0.5)
	return int(r * float64(o.Bounds.Height()))
}

// EnterTop is the top of the range that must be covered to enter.
func (o Output) EnterTop() int { return o.Bounds.Top + o.trim() }

// EnterBottom is the bottom of the range that must be covered to enter.
func (o Output) EnterBottom() int { return o.Bounds.Bottom - o.trim() }

// inRange reports whether visible covers the enter range vertically and
// overlaps the output horizontally.
func (o Output) inRange(visible graphics.Rect) bool {
	if visible.IsEmpty() {
		return false
	}
	return visible.Top <= o.EnterTop() && o.EnterBottom() <= visible.Bottom &&
		visible.Left < o.Bounds.Right && o.Bounds.Left < visible.Right
}

// covered reports whether visible covers the full bounds vertically and
// overlaps the output horizontally. Entered outputs exit once it is false.
func (o Output) covered(visible graphics.Rect) bool {
	if visible.IsEmpty() {
		return false
	}
	return visible.Top <= o.Bounds.Top && o.Bounds.Bottom <= visible.Bottom &&
		visible.Left < o.Bounds.Right && o.Bounds.Left < visible.Right
}

// fullyVisible reports whether visible covers the whole output.
func (o Output) fullyVisible(visible graphics.Rect) bool {
	return !visible.IsEmpty() && visible.Contains(o.Bounds)
}

// Observer is told about every dispatched event.
type Observer func(kind EventKind, id string)

type item struct {
	output         Output
	focused        bool
	fullImpression bool
}

// Tracker holds the entered state of outputs between passes. Only entered
// outputs are kept, so Len equals the number of entered outputs. A Tracker
// is not safe for concurrent use; it is driven from the main goroutine.
type Tracker struct {
	items    map[string]*item
	viewport graphics.Rect
	observer Observer
}

// NewTracker creates an empty tracker. observer may be nil.
func NewTracker(observer Observer) *Tracker {
	return &Tracker{items: make(map[string]*item), observer: observer}
}

// Len returns the number of entered outputs.
func (t *Tracker) Len() int { return len(t.items) }

// IsEntered reports whether id is currently entered.
func (t *Tracker) IsEntered(id string) bool {
	_, ok := t.items[id]
	return ok
}

// Entered returns the sorted IDs of entered outputs.
func (t *Tracker) Entered() []string {
	ids := make([]string, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Process updates every output against visible and dispatches the resulting
// transitions. Tracked outputs missing from outputs are exited.
func (t *Tracker) Process(visible graphics.Rect, outputs []Output) {
	t.viewport = visible
	seen := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		seen[o.ID] = true
		it, entered := t.items[o.ID]
		switch {
		case !entered && !o.inRange(visible):
			continue
		case !entered:
			it = &item{output: o}
			t.items[o.ID] = it
			t.dispatch(EventVisible, it, o.Handlers.Visible)
		case !o.covered(visible):
			it.output = o
			t.exit(it)
			continue
		default:
			it.output = o
		}

		if !it.fullImpression && o.fullyVisible(visible) {
			it.fullImpression = true
			t.dispatch(EventFullImpression, it, o.Handlers.FullImpression)
		}
		focused := t.isFocused(o, visible)
		if focused != it.focused {
			it.focused = focused
			if focused {
				t.dispatch(EventFocused, it, o.Handlers.Focused)
			} else {
				t.dispatch(EventUnfocused, it, o.Handlers.Unfocused)
			}
		}
	}

	var gone []string
	for id := range t.items {
		if !seen[id] {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	for _, id := range gone {
		t.exit(t.items[id])
	}
}

// Clear exits every entered output.
func (t *Tracker) Clear() {
	for _, id := range t.Entered() {
		t.exit(t.items[id])
	}
}

func (t *Tracker) exit(it *item) {
	if it.focused {
		it.focused = false
		t.dispatch(EventUnfocused, it, it.output.Handlers.Unfocused)
	}
	t.dispatch(EventInvisible, it, it.output.Handlers.Invisible)
	delete(t.items, it.output.ID)
}

// isFocused reports whether the output occupies at least half of the
// viewport, or is entirely visible.
func (t *Tracker) isFocused(o Output, visible graphics.Rect) bool {
	if o.fullyVisible(visible) {
		return true
	}
	part := o.Bounds.Intersect(visible)
	return !part.IsEmpty() && 2*part.Height() >= visible.Height()
}

func (t *Tracker) dispatch(kind EventKind, it *item, h Handler) {
	if t.observer != nil {
		t.observer(kind, it.output.ID)
	}
	if h == nil {
		return
	}
	h(Event{ID: it.output.ID, Bounds: it.output.Bounds, Visible: it.output.Bounds.Intersect(t.viewport)})
}
