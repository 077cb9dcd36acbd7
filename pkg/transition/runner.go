package transition

import (
	"github.com/go-drift/mountgraph/pkg/animation"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// Target is the content an animation writes bounds to.
type Target interface {
	SetBounds(graphics.Rect)
	Bounds() graphics.Rect
}

// Runner drives PropertyAnimations on a scheduler. Starting an animation for
// an (id, property) pair that is already running replaces it. A Runner is
// used from the main goroutine only.
type Runner struct {
	scheduler *animation.Scheduler
	running   map[pairKey]*run
}

type run struct {
	anim       PropertyAnimation
	target     Target
	controller *animation.AnimationController
}

// NewRunner creates a runner on s.
func NewRunner(s *animation.Scheduler) *Runner {
	return &Runner{scheduler: s, running: make(map[pairKey]*run)}
}

// Start begins anims. resolve maps an id to its mounted content; ids without
// content are skipped.
func (r *Runner) Start(anims []PropertyAnimation, resolve func(ID) Target) {
	for _, a := range anims {
		a := a
		target := resolve(a.ID)
		if target == nil {
			continue
		}
		k := pairKey{a.ID, a.Property}
		if prev, ok := r.running[k]; ok {
			prev.controller.Dispose()
			delete(r.running, k)
		}

		c := animation.NewAnimationController(r.scheduler, a.Animator.Duration)
		if a.Animator.Curve != nil {
			c.Curve = a.Animator.Curve
		}
		rn := &run{anim: a, target: target, controller: c}
		target.SetBounds(a.Property.Set(target.Bounds(), a.From))
		c.AddListener(func() {
			v := animation.LerpInt(a.From, a.To, c.Value)
			target.SetBounds(a.Property.Set(target.Bounds(), v))
		})
		c.AddStatusListener(func(s animation.AnimationStatus) {
			if s == animation.AnimationCompleted && r.running[k] == rn {
				delete(r.running, k)
			}
		})
		r.running[k] = rn
		c.Forward()
	}
}

// Running returns the number of animations in flight.
func (r *Runner) Running() int { return len(r.running) }

// IsRunning reports whether any property of id is animating.
func (r *Runner) IsRunning(id ID) bool {
	for k := range r.running {
		if k.id == id {
			return true
		}
	}
	return false
}

// Finish jumps every running animation to its end value.
func (r *Runner) Finish() {
	for k, rn := range r.running {
		rn.controller.Dispose()
		rn.target.SetBounds(rn.anim.Property.Set(rn.target.Bounds(), rn.anim.To))
		delete(r.running, k)
	}
}
