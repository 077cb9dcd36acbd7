package transition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/animation"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

var linear = Animator{Duration: 100 * time.Millisecond, Curve: animation.Linear}

func TestCreateSkipsZeroDeltas(t *testing.T) {
	id := GlobalID("card")
	prev := Snapshot{id: graphics.RectXYWH(0, 0, 50, 50)}
	next := Snapshot{id: graphics.RectXYWH(0, 40, 50, 80)}

	anims := Create(prev, next, []Transition{{
		ID:         id,
		Properties: []Property{PropX, PropY, PropWidth, PropHeight},
		Animator:   linear,
	}}, nil)

	require.Len(t, anims, 2)
	assert.Equal(t, PropertyAnimation{ID: id, Property: PropY, From: 0, To: 40, Animator: linear}, anims[0])
	assert.Equal(t, PropertyAnimation{ID: id, Property: PropHeight, From: 50, To: 80, Animator: linear}, anims[1])
}

func TestCreateAppearAndDisappear(t *testing.T) {
	appearing := GlobalID("new")
	leaving := GlobalID("old")
	prev := Snapshot{leaving: graphics.RectXYWH(0, 0, 10, 10)}
	next := Snapshot{appearing: graphics.RectXYWH(20, 0, 10, 10)}

	anims := Create(prev, next, []Transition{
		{ID: appearing, Properties: []Property{PropX, PropY}, AppearFrom: map[Property]int{PropX: -10}},
		{ID: leaving, Properties: []Property{PropX}},
	}, nil)

	require.Len(t, anims, 1)
	assert.Equal(t, appearing, anims[0].ID)
	assert.Equal(t, PropX, anims[0].Property)
	assert.Equal(t, -10, anims[0].From)
	assert.Equal(t, 20, anims[0].To)
	assert.Equal(t, DefaultAnimator.Duration, anims[0].Animator.Duration)
}

func TestMergeDeduplicatesByIDAndProperty(t *testing.T) {
	id := LocalID("$root,$card", "title")
	declared := []Transition{{ID: id, Properties: []Property{PropX}, Animator: linear}}
	injected := []Transition{
		{ID: id, Properties: []Property{PropX, PropWidth}},
		{ID: GlobalID("other"), Properties: []Property{PropY}},
	}

	merged := Merge(declared, injected)
	require.Len(t, merged, 3)
	assert.Equal(t, []Property{PropX}, merged[0].Properties)
	assert.Equal(t, linear, merged[0].Animator)
	assert.Equal(t, []Property{PropWidth}, merged[1].Properties)

	prev := Snapshot{id: graphics.RectXYWH(0, 0, 10, 10)}
	next := Snapshot{id: graphics.RectXYWH(5, 0, 20, 10)}
	anims := Create(prev, next, declared, injected)
	require.Len(t, anims, 2, "one animation per distinct property")
	assert.Equal(t, PropX, anims[0].Property)
	assert.Equal(t, PropWidth, anims[1].Property)
}

func TestResolveScopesLocalIDs(t *testing.T) {
	local := Transition{ID: ID{Type: KeyLocal, Key: "k"}}.Resolve("$owner")
	assert.Equal(t, LocalID("$owner", "k"), local.ID)

	global := Transition{ID: GlobalID("k")}.Resolve("$owner")
	assert.Equal(t, GlobalID("k"), global.ID)
	assert.Equal(t, "local:$owner/k", local.ID.String())
}

type box struct{ bounds graphics.Rect }

func (b *box) SetBounds(r graphics.Rect) { b.bounds = r }
func (b *box) Bounds() graphics.Rect     { return b.bounds }

func TestRunnerDrivesBounds(t *testing.T) {
	clock := animation.NewManualClock(time.Unix(0, 0))
	s := animation.NewScheduler(clock)
	r := NewRunner(s)
	id := GlobalID("card")
	target := &box{bounds: graphics.RectXYWH(100, 0, 10, 10)}

	r.Start([]PropertyAnimation{{ID: id, Property: PropX, From: 0, To: 100, Animator: linear}},
		func(ID) Target { return target })
	assert.Equal(t, 0, target.bounds.Left, "animation starts at its from value")
	assert.True(t, r.IsRunning(id))

	clock.Advance(25 * time.Millisecond)
	s.Step()
	assert.Equal(t, graphics.RectXYWH(25, 0, 10, 10), target.bounds)

	clock.Advance(75 * time.Millisecond)
	s.Step()
	assert.Equal(t, 100, target.bounds.Left)
	assert.Equal(t, 0, r.Running())
	assert.Equal(t, 0, s.Active())
}

func TestRunnerReplacesAndFinishes(t *testing.T) {
	clock := animation.NewManualClock(time.Unix(0, 0))
	s := animation.NewScheduler(clock)
	r := NewRunner(s)
	id := GlobalID("card")
	target := &box{bounds: graphics.RectXYWH(0, 0, 10, 10)}
	resolve := func(ID) Target { return target }

	r.Start([]PropertyAnimation{{ID: id, Property: PropWidth, From: 10, To: 50, Animator: linear}}, resolve)
	r.Start([]PropertyAnimation{{ID: id, Property: PropWidth, From: 20, To: 80, Animator: linear}}, resolve)
	assert.Equal(t, 1, r.Running())
	assert.Equal(t, 1, s.Active())

	r.Finish()
	assert.Equal(t, 80, target.bounds.Width())
	assert.Equal(t, 0, r.Running())

	r.Start([]PropertyAnimation{{ID: GlobalID("gone"), Property: PropX, To: 1}}, func(ID) Target { return nil })
	assert.Equal(t, 0, r.Running())
}
