package animation_test

import (
	"fmt"
	"time"

	"github.com/go-drift/mountgraph/pkg/animation"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// This example steps a controller with a manual clock.
func ExampleAnimationController() {
	clock := animation.NewManualClock(time.Unix(0, 0))
	s := animation.NewScheduler(clock)
	c := animation.NewAnimationController(s, 100*time.Millisecond)
	c.AddStatusListener(func(st animation.AnimationStatus) { fmt.Println("status:", st) })

	c.Forward()
	clock.Advance(50 * time.Millisecond)
	s.Step()
	fmt.Printf("value: %.2f\n", c.Value)

	clock.Advance(50 * time.Millisecond)
	s.Step()
	fmt.Printf("value: %.2f active tickers: %d\n", c.Value, s.Active())

	// Output:
	// status: forward
	// value: 0.50
	// status: completed
	// value: 1.00 active tickers: 0
}

// This example interpolates bounds.
func ExampleTween() {
	tw := animation.TweenRect(graphics.RectXYWH(0, 0, 10, 10), graphics.RectXYWH(100, 0, 10, 10))
	fmt.Println(tw.Evaluate(0.5))

	// Output:
	// [50,0 10x10]
}

// This example evaluates a CSS-style curve.
func ExampleCubicBezier() {
	ease := animation.CubicBezier(0.4, 0.0, 0.2, 1.0)
	fmt.Printf("%.2f %.2f %.2f\n", ease(0), ease(0.5), ease(1))

	// Output:
	// 0.00 0.78 1.00
}
