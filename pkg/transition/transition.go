// Package transition creates property animations for outputs whose bounds
// changed between two commits, matched by transition id.
package transition

import (
	"fmt"
	"time"

	"github.com/go-drift/mountgraph/pkg/animation"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// KeyType scopes a transition key.
type KeyType int

const (
	// KeyGlobal keys are unique across the whole tree.
	KeyGlobal KeyType = iota
	// KeyLocal keys are unique within the owning component.
	KeyLocal
)

// ID matches an output across commits.
type ID struct {
	Type  KeyType
	Key   string
	Owner string
}

// GlobalID returns a tree-wide transition id.
func GlobalID(key string) ID { return ID{Type: KeyGlobal, Key: key} }

// LocalID returns a transition id scoped to the component at owner.
func LocalID(owner, key string) ID { return ID{Type: KeyLocal, Key: key, Owner: owner} }

func (id ID) String() string {
	if id.Type == KeyLocal {
		return fmt.Sprintf("local:%s/%s", id.Owner, id.Key)
	}
	return "global:" + id.Key
}

// Property is an animatable geometric property.
type Property int

const (
	PropX Property = iota
	PropY
	PropWidth
	PropHeight
)

func (p Property) String() string {
	switch p {
	case PropX:
		return "x"
	case PropY:
		return "y"
	case PropWidth:
		return "width"
	default:
		return "height"
	}
}

// Get reads the property from bounds.
func (p Property) Get(r graphics.Rect) int {
	switch p {
	case PropX:
		return r.Left
	case PropY:
		return r.Top
	case PropWidth:
		return r.Width()
	default:
		return r.Height()
	}
}

// Set returns bounds with the property replaced. Moving keeps the size;
// resizing keeps the origin.
func (p Property) Set(r graphics.Rect, v int) graphics.Rect {
	switch p {
	case PropX:
		return r.Offset(v-r.Left, 0)
	case PropY:
		return r.Offset(0, v-r.Top)
	case PropWidth:
		r.Right = r.Left + v
	default:
		r.Bottom = r.Top + v
	}
	return r
}

// Animator times a property animation.
type Animator struct {
	Duration time.Duration
	Curve    animation.Curve
}

// DefaultAnimator is used when a transition does not name one.
var DefaultAnimator = Animator{Duration: 300 * time.Millisecond, Curve: animation.EaseInOut}

// Transition declares which properties of an output animate.
type Transition struct {
	ID         ID
	Properties []Property
	Animator   Animator
	// AppearFrom holds baselines for ids absent from the previous commit.
	AppearFrom map[Property]int
}

// Provider is implemented by components declaring transitions. Local ids
// may leave Owner empty; the flattener fills it in.
type Provider interface {
	Transitions() []Transition
}

// Resolve scopes local ids without an owner to owner.
func (t Transition) Resolve(owner string) Transition {
	if t.ID.Type == KeyLocal && t.ID.Owner == "" {
		t.ID.Owner = owner
	}
	return t
}

// PropertyAnimation is one property of one transition id moving between two
// values.
type PropertyAnimation struct {
	ID       ID
	Property Property
	From, To int
	Animator Animator
}

func (a PropertyAnimation) String() string {
	return fmt.Sprintf("%s.%s %d->%d", a.ID, a.Property, a.From, a.To)
}

// Snapshot holds the bounds of every transition-keyed output of one commit.
type Snapshot map[ID]graphics.Rect

type pairKey struct {
	id   ID
	prop Property
}

// Merge unifies tree-declared and mount-time injected transitions. Each
// (id, property) pair is kept once; declared transitions win.
func Merge(declared, injected []Transition) []Transition {
	seen := make(map[pairKey]bool)
	var out []Transition
	add := func(ts []Transition) {
		for _, t := range ts {
			var props []Property
			for _, p := range t.Properties {
				k := pairKey{t.ID, p}
				if seen[k] {
					continue
				}
				seen[k] = true
				props = append(props, p)
			}
			if len(props) == 0 {
				continue
			}
			t.Properties = props
			out = append(out, t)
		}
	}
	add(declared)
	add(injected)
	return out
}

// Create returns the animations needed to move outputs from prev to next.
// Ids missing from next are left to the disappear path. Ids missing from
// prev start at their AppearFrom baseline, or do not animate without one.
// Properties with a zero delta are skipped.
func Create(prev, next Snapshot, declared, injected []Transition) []PropertyAnimation {
	var out []PropertyAnimation
	for _, t := range Merge(declared, injected) {
		to, ok := next[t.ID]
		if !ok {
			continue
		}
		animator := t.Animator
		if animator.Duration == 0 && animator.Curve == nil {
			animator = DefaultAnimator
		}
		before, existed := prev[t.ID]
		for _, p := range t.Properties {
			var from int
			switch v, ok := t.AppearFrom[p]; {
			case existed:
				from = p.Get(before)
			case ok:
				from = v
			default:
				continue
			}
			if from == p.Get(to) {
				continue
			}
			out = append(out, PropertyAnimation{ID: t.ID, Property: p, From: from, To: p.Get(to), Animator: animator})
		}
	}
	return out
}
