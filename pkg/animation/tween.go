package animation

import (
	"math"

	"github.com/go-drift/mountgraph/pkg/graphics"
)

// Tween interpolates between Begin and End.
type Tween[T any] struct {
	Begin, End T
	Lerp       func(a, b T, t float64) T
}

// Evaluate returns the value at progress t.
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// Transform returns the value at the controller's current progress.
func (tw *Tween[T]) Transform(c *AnimationController) T {
	return tw.Evaluate(c.Value)
}

// LerpFloat64 interpolates linearly.
func LerpFloat64(a, b, t float64) float64 { return a + (b-a)*t }

// LerpInt interpolates linearly and rounds to the nearest pixel.
func LerpInt(a, b int, t float64) int {
	return int(math.Round(LerpFloat64(float64(a), float64(b), t)))
}

// LerpRect interpolates every edge.
func LerpRect(a, b graphics.Rect, t float64) graphics.Rect {
	return graphics.Rect{
		Left:   LerpInt(a.Left, b.Left, t),
		Top:    LerpInt(a.Top, b.Top, t),
		Right:  LerpInt(a.Right, b.Right, t),
		Bottom: LerpInt(a.Bottom, b.Bottom, t),
	}
}

// LerpColor interpolates each ARGB channel.
func LerpColor(a, b graphics.Color, t float64) graphics.Color {
	var out graphics.Color
	for shift := 0; shift < 32; shift += 8 {
		ca := float64((a >> shift) & 0xFF)
		cb := float64((b >> shift) & 0xFF)
		out |= graphics.Color(uint8(math.Round(LerpFloat64(ca, cb, t)))) << shift
	}
	return out
}

// TweenFloat64 creates a float64 tween.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{Begin: begin, End: end, Lerp: LerpFloat64}
}

// TweenRect creates a rect tween.
func TweenRect(begin, end graphics.Rect) *Tween[graphics.Rect] {
	return &Tween[graphics.Rect]{Begin: begin, End: end, Lerp: LerpRect}
}

// TweenColor creates a color tween.
func TweenColor(begin, end graphics.Color) *Tween[graphics.Color] {
	return &Tween[graphics.Color]{Begin: begin, End: end, Lerp: LerpColor}
}
