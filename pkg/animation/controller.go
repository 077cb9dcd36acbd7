package animation

import (
	"fmt"
	"time"
)

// AnimationStatus is the state of an AnimationController.
//
//	           Forward()
//	Dismissed ──────────► Completed
//	    ▲                     │
//	    └──── Reverse() ──────┘
//
// While running the status is AnimationForward or AnimationReverse.
type AnimationStatus int

const (
	AnimationDismissed AnimationStatus = iota
	AnimationForward
	AnimationReverse
	AnimationCompleted
)

func (s AnimationStatus) String() string {
	switch s {
	case AnimationDismissed:
		return "dismissed"
	case AnimationForward:
		return "forward"
	case AnimationReverse:
		return "reverse"
	case AnimationCompleted:
		return "completed"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

// AnimationController moves Value between 0 and 1 over Duration, shaped by
// Curve. It advances only when its scheduler steps.
type AnimationController struct {
	Value    float64
	Duration time.Duration
	Curve    Curve

	scheduler  *Scheduler
	status     AnimationStatus
	ticker     *Ticker
	from, to   float64
	listeners  []func()
	onStatuses []func(AnimationStatus)
}

// NewAnimationController creates a dismissed controller on s.
func NewAnimationController(s *Scheduler, duration time.Duration) *AnimationController {
	return &AnimationController{Duration: duration, Curve: Linear, scheduler: s}
}

// Forward runs towards 1.
func (c *AnimationController) Forward() { c.run(1, AnimationForward) }

// Reverse runs towards 0.
func (c *AnimationController) Reverse() { c.run(0, AnimationReverse) }

func (c *AnimationController) run(target float64, direction AnimationStatus) {
	c.Stop()
	c.from, c.to = c.Value, target
	c.setStatus(direction)
	c.ticker = c.scheduler.NewTicker(c.tick)
	c.ticker.Start()
}

func (c *AnimationController) tick(elapsed time.Duration) {
	progress := 1.0
	if c.Duration > 0 {
		progress = min(1, float64(elapsed)/float64(c.Duration))
	}
	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.Value = LerpFloat64(c.from, c.to, eased)
	for _, l := range c.listeners {
		l()
	}
	if progress >= 1 {
		c.Stop()
		if c.to >= 1 {
			c.setStatus(AnimationCompleted)
		} else {
			c.setStatus(AnimationDismissed)
		}
	}
}

// Stop halts the controller at its current value.
func (c *AnimationController) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the current status.
func (c *AnimationController) Status() AnimationStatus { return c.status }

// IsAnimating reports whether the controller is running.
func (c *AnimationController) IsAnimating() bool {
	return c.status == AnimationForward || c.status == AnimationReverse
}

// AddListener registers fn for every value change.
func (c *AnimationController) AddListener(fn func()) {
	c.listeners = append(c.listeners, fn)
}

// AddStatusListener registers fn for every status change.
func (c *AnimationController) AddStatusListener(fn func(AnimationStatus)) {
	c.onStatuses = append(c.onStatuses, fn)
}

func (c *AnimationController) setStatus(s AnimationStatus) {
	if c.status == s {
		return
	}
	c.status = s
	for _, l := range c.onStatuses {
		l(s)
	}
}

// Dispose stops the controller and drops its listeners.
func (c *AnimationController) Dispose() {
	c.Stop()
	c.listeners = nil
	c.onStatuses = nil
}
