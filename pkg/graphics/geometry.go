// Package graphics holds the integer geometry and color types shared by the
// layout, flattening and mount stages.
package graphics

import "fmt"

// Point is a position in pixels.
type Point struct {
	X, Y int
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Rect is an axis-aligned rectangle. Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectXYWH builds a rect from an origin and a size.
func RectXYWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns Right - Left.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Size returns the rect dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width(), Height: r.Height()} }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.Left, Y: r.Top} }

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Left >= r.Right || r.Top >= r.Bottom
}

// Offset returns the rect translated by dx, dy.
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersects reports whether the two rects share any area.
func (r Rect) Intersects(other Rect) bool {
	return r.Left < other.Right && other.Left < r.Right &&
		r.Top < other.Bottom && other.Top < r.Bottom
}

// Intersect returns the overlapping area, or the zero rect when the two
// rects are disjoint.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}
}

// Contains reports whether other lies entirely inside r.
func (r Rect) Contains(other Rect) bool {
	return r.Left <= other.Left && r.Top <= other.Top &&
		r.Right >= other.Right && r.Bottom >= other.Bottom
}

// ContainsPoint reports whether p lies inside r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", r.Left, r.Top, r.Width(), r.Height())
}
