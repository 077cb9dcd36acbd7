package mount

import (
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
)

// Item binds one output to the content mounted for it.
type Item struct {
	Output  *layoutstate.Output
	Content host.Content
	// Host is the item whose view Content is attached to; nil for the root.
	Host *Item

	mounted  bool
	bound    bool
	position int

	click     *clickListener
	longClick *longClickListener
	touch     *touchListener
}

// IsMounted reports whether the item's content is attached.
func (it *Item) IsMounted() bool { return it.mounted }

// IsBound reports whether the item's component is bound to its content.
func (it *Item) IsBound() bool { return it.bound }

// View returns the content as a host view, or nil for drawables.
func (it *Item) View() host.View {
	v, _ := it.Content.(host.View)
	return v
}

func (it *Item) binder() component.Binder {
	if it.Output.Component == nil {
		return nil
	}
	b, _ := it.Output.Component.(component.Binder)
	return b
}

func (it *Item) bind() {
	if it.bound {
		return
	}
	if b := it.binder(); b != nil {
		b.Bind(it.Content)
	}
	it.bound = true
}

func (it *Item) unbind() {
	if !it.bound {
		return
	}
	if b := it.binder(); b != nil {
		b.Unbind(it.Content)
	}
	it.bound = false
}

// Listeners are created once per host view and retargeted on every update.
// Unset handlers leave the listener attached with a nil handler.

type clickListener struct{ handler layout.ClickHandler }

func (l *clickListener) OnClick(v host.View) {
	if l.handler != nil {
		l.handler(v)
	}
}

type longClickListener struct{ handler layout.LongClickHandler }

func (l *longClickListener) OnLongClick(v host.View) bool {
	return l.handler != nil && l.handler(v)
}

type touchListener struct{ handler layout.TouchHandler }

func (l *touchListener) OnTouch(v host.View, ev host.TouchEvent) bool {
	return l.handler != nil && l.handler(v, ev)
}

// applyInteraction points the cached listeners at the handlers of in. A
// listener is only created, and only set on the view, the first time its
// slot gets a handler.
func (it *Item) applyInteraction(v host.View, in *layout.InteractionInfo) {
	var (
		click     layout.ClickHandler
		longClick layout.LongClickHandler
		touch     layout.TouchHandler
	)
	if in != nil {
		click, longClick, touch = in.Click, in.LongClick, in.Touch
	}

	switch {
	case it.click != nil:
		it.click.handler = click
	case click != nil:
		it.click = &clickListener{handler: click}
		v.SetClickListener(it.click)
	}
	switch {
	case it.longClick != nil:
		it.longClick.handler = longClick
	case longClick != nil:
		it.longClick = &longClickListener{handler: longClick}
		v.SetLongClickListener(it.longClick)
	}
	switch {
	case it.touch != nil:
		it.touch.handler = touch
	case touch != nil:
		it.touch = &touchListener{handler: touch}
		v.SetTouchListener(it.touch)
	}
}
