// Package hosttest provides recording fakes for the host interfaces.
package hosttest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
)

// Log collects the operations performed on fakes that share it.
type Log struct {
	mu  sync.Mutex
	ops []string
}

func (l *Log) add(format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, fmt.Sprintf(format, args...))
}

// Ops returns a copy of the recorded operations.
func (l *Log) Ops() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.ops)
}

// Reset discards the recorded operations.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = nil
}

type child struct {
	content  host.Content
	position int
}

// View is a fake host.View.
type View struct {
	Name string

	log      *Log
	bounds   graphics.Rect
	children []child

	Background, Foreground host.Drawable
	Click                  host.ClickListener
	LongClick              host.LongClickListener
	Touch                  host.TouchListener
	Enabled                bool
	DuplicateParentState   bool

	// ListenerSets counts Set*Listener calls, including clears.
	ListenerSets int
	// SetBoundsCalls counts SetBounds calls.
	SetBoundsCalls int
}

// NewView returns a fake view writing to log (which may be nil).
func NewView(name string, log *Log) *View {
	return &View{Name: name, log: log, Enabled: true}
}

func (v *View) String() string { return v.Name }

func (v *View) SetBounds(bounds graphics.Rect) {
	v.SetBoundsCalls++
	v.bounds = bounds
}

func (v *View) Bounds() graphics.Rect { return v.bounds }

func (v *View) MountChild(c host.Content, position int) {
	for _, existing := range v.children {
		if existing.content == c {
			panic(fmt.Sprintf("hosttest: %v already attached to %s", c, v.Name))
		}
	}
	v.children = append(v.children, child{content: c, position: position})
	v.sort()
	v.log.add("mount %v in %s@%d", c, v.Name, position)
}

func (v *View) UnmountChild(c host.Content) {
	for i, existing := range v.children {
		if existing.content == c {
			v.children = slices.Delete(v.children, i, i+1)
			v.log.add("unmount %v from %s", c, v.Name)
			return
		}
	}
	panic(fmt.Sprintf("hosttest: %v is not attached to %s", c, v.Name))
}

func (v *View) MoveChild(c host.Content, from, to int) {
	for i := range v.children {
		if v.children[i].content == c {
			v.children[i].position = to
			v.sort()
			v.log.add("move %v in %s %d->%d", c, v.Name, from, to)
			return
		}
	}
	panic(fmt.Sprintf("hosttest: %v is not attached to %s", c, v.Name))
}

func (v *View) sort() {
	slices.SortStableFunc(v.children, func(a, b child) int { return a.position - b.position })
}

// Children returns the attached children in drawing order.
func (v *View) Children() []host.Content {
	out := make([]host.Content, len(v.children))
	for i, c := range v.children {
		out[i] = c.content
	}
	return out
}

func (v *View) SetPaint(background, foreground host.Drawable) {
	v.Background, v.Foreground = background, foreground
}

func (v *View) SetClickListener(l host.ClickListener) {
	v.ListenerSets++
	v.Click = l
}

func (v *View) SetLongClickListener(l host.LongClickListener) {
	v.ListenerSets++
	v.LongClick = l
}

func (v *View) SetTouchListener(l host.TouchListener) {
	v.ListenerSets++
	v.Touch = l
}

func (v *View) SetEnabled(enabled bool) { v.Enabled = enabled }

func (v *View) SetDuplicateParentState(duplicate bool) { v.DuplicateParentState = duplicate }

// PerformClick simulates a click. Reports whether a listener was attached.
func (v *View) PerformClick() bool {
	if v.Click == nil {
		return false
	}
	v.Click.OnClick(v)
	return true
}

// PerformLongClick simulates a long click.
func (v *View) PerformLongClick() bool {
	if v.LongClick == nil {
		return false
	}
	return v.LongClick.OnLongClick(v)
}

// Drawable is a fake host.Drawable.
type Drawable struct {
	Name   string
	bounds graphics.Rect
}

func (d *Drawable) String() string { return d.Name }

func (d *Drawable) SetBounds(bounds graphics.Rect) { d.bounds = bounds }

func (d *Drawable) Bounds() graphics.Rect { return d.bounds }

// ViewFactory returns a host.ViewFactory creating sequentially named views.
func ViewFactory(log *Log) host.ViewFactory {
	var mu sync.Mutex
	n := 0
	return func() host.View {
		mu.Lock()
		defer mu.Unlock()
		n++
		return NewView(fmt.Sprintf("host%d", n), log)
	}
}

// Spec is a fake host.DrawableSpec. Specs with the same name are equivalent.
type Spec struct {
	Name string
}

func (s Spec) CreateDrawable() host.Drawable { return &Drawable{Name: s.Name} }

func (s Spec) IsEquivalentTo(other host.DrawableSpec) bool {
	o, ok := other.(Spec)
	return ok && o.Name == s.Name
}
