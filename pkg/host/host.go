// Package host declares the native view and drawable primitives the engine
// mounts into. A GUI toolkit binding implements these interfaces; the
// engine never draws or measures pixels itself.
package host

import "github.com/go-drift/mountgraph/pkg/graphics"

// Content is anything the mount stage can position: a view or a drawable.
type Content interface {
	SetBounds(bounds graphics.Rect)
	Bounds() graphics.Rect
}

// Drawable is non-interactive content painted by its host view.
type Drawable interface {
	Content
}

// View is interactive content that can host children.
type View interface {
	Content

	// MountChild attaches child at the given drawing position. Positions are
	// ordering hints; a host keeps its children sorted by them.
	MountChild(child Content, position int)
	// UnmountChild detaches child.
	UnmountChild(child Content)
	// MoveChild changes the drawing position of an attached child.
	MoveChild(child Content, from, to int)

	// SetPaint assigns the background and foreground painted by the view
	// itself. Either may be nil.
	SetPaint(background, foreground Drawable)

	SetClickListener(l ClickListener)
	SetLongClickListener(l LongClickListener)
	SetTouchListener(l TouchListener)

	SetEnabled(enabled bool)
	SetDuplicateParentState(duplicate bool)
}

// ClickListener receives clicks from a view.
type ClickListener interface {
	OnClick(v View)
}

// LongClickListener receives long clicks and reports whether it consumed one.
type LongClickListener interface {
	OnLongClick(v View) bool
}

// TouchAction is the phase of a touch event.
type TouchAction int

const (
	TouchDown TouchAction = iota
	TouchMove
	TouchUp
	TouchCancel
)

// TouchEvent is delivered to touch listeners.
type TouchEvent struct {
	Action   TouchAction
	Position graphics.Point
}

// TouchListener receives raw touch events.
type TouchListener interface {
	OnTouch(v View, ev TouchEvent) bool
}

// DrawableSpec describes a drawable independent of any instance, so it can
// live in an immutable style and be compared across commits.
type DrawableSpec interface {
	CreateDrawable() Drawable
	// IsEquivalentTo reports whether other would paint identically.
	IsEquivalentTo(other DrawableSpec) bool
}

// ViewFactory creates host views for wrapper outputs.
type ViewFactory func() View
