package animation

import "math"

// Curve maps linear progress in [0, 1] to eased progress.
type Curve func(t float64) float64

// Linear applies no easing.
func Linear(t float64) float64 { return t }

// Named curves, equivalent to the CSS keywords.
var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1.0)
	EaseIn    = CubicBezier(0.42, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.58, 1.0)
	EaseInOut = CubicBezier(0.42, 0.0, 0.58, 1.0)
)

// CurveByName resolves a curve name used in configuration files.
func CurveByName(name string) (Curve, bool) {
	switch name {
	case "", "linear":
		return Linear, true
	case "ease":
		return Ease, true
	case "ease-in":
		return EaseIn, true
	case "ease-out":
		return EaseOut, true
	case "ease-in-out":
		return EaseInOut, true
	}
	return nil, false
}

// CubicBezier returns the timing curve with control points (x1, y1) and
// (x2, y2), like CSS cubic-bezier().
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	bx := bezier{p1: x1, p2: x2}
	by := bezier{p1: y1, p2: y2}
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}
		return by.at(bx.solve(t))
	}
}

// bezier is one axis of a cubic curve from 0 to 1.
type bezier struct{ p1, p2 float64 }

func (b bezier) at(u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*b.p1 + 3*inv*u*u*b.p2 + u*u*u
}

func (b bezier) slope(u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*b.p1 + 6*inv*u*(b.p2-b.p1) + 3*u*u*(1-b.p2)
}

// solve finds u with at(u) == x, by Newton steps then bisection.
func (b bezier) solve(x float64) float64 {
	const epsilon = 1e-7
	u := x
	for i := 0; i < 8; i++ {
		diff := b.at(u) - x
		if math.Abs(diff) < epsilon {
			return clamp01(u)
		}
		d := b.slope(u)
		if math.Abs(d) < epsilon {
			break
		}
		u -= diff / d
	}
	lo, hi := 0.0, 1.0
	u = clamp01(u)
	for i := 0; i < 20; i++ {
		diff := b.at(u) - x
		if math.Abs(diff) < epsilon {
			break
		}
		if diff > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) / 2
	}
	return u
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
