package visibility

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/graphics"
)

type eventLog struct {
	events []string
}

func (l *eventLog) handlers() Handlers {
	record := func(kind string) Handler {
		return func(ev Event) { l.events = append(l.events, kind+":"+ev.ID) }
	}
	return Handlers{
		Visible:        record("visible"),
		Invisible:      record("invisible"),
		Focused:        record("focused"),
		Unfocused:      record("unfocused"),
		FullImpression: record("full"),
	}
}

func (l *eventLog) take(prefix string) []string {
	var out []string
	for _, e := range l.events {
		if len(e) > len(prefix) && e[:len(prefix)] == prefix {
			out = append(out, e)
		}
	}
	l.events = nil
	return out
}

func rect(l, t, r, b int) graphics.Rect {
	return graphics.Rect{Left: l, Top: t, Right: r, Bottom: b}
}

func TestIncrementalEnterExit(t *testing.T) {
	log := &eventLog{}
	outputs := []Output{
		{ID: "a", Bounds: rect(0, 0, 10, 5), Handlers: log.handlers()},
		{ID: "b", Bounds: rect(0, 5, 10, 10), Handlers: log.handlers()},
		{ID: "c", Bounds: rect(0, 10, 10, 15), Handlers: log.handlers()},
	}
	tr := NewTracker(nil)

	tr.Process(rect(0, 0, 10, 15), outputs)
	assert.Equal(t, []string{"visible:a", "visible:b", "visible:c"}, log.take("visible"))
	assert.Equal(t, 3, tr.Len())

	tr.Process(rect(0, 0, 10, 0), outputs)
	assert.Equal(t, []string{"invisible:a", "invisible:b", "invisible:c"}, log.take("invisible"))
	assert.Equal(t, 0, tr.Len())

	// Only the item whose whole range lies inside [3, 11] enters.
	tr.Process(rect(0, 3, 10, 11), outputs)
	assert.Equal(t, []string{"visible:b"}, log.take("visible"))
	assert.Equal(t, 1, tr.Len())
	assert.True(t, tr.IsEntered("b"))
}

func TestEnterRatioFiresOncePerCrossing(t *testing.T) {
	log := &eventLog{}
	out := []Output{{ID: "x", Bounds: rect(0, 100, 10, 200), EnterRatio: 0.25, Handlers: log.handlers()}}
	assert.Equal(t, 125, out[0].EnterTop())
	assert.Equal(t, 175, out[0].EnterBottom())

	steps := []struct {
		top, bottom int
		entered     bool
	}{
		{0, 120, false},
		{0, 130, false},
		{100, 180, true},
		{0, 300, true},
		{120, 180, false},
		{126, 190, false},
		{120, 176, true},
		{90, 210, true},
	}
	tr := NewTracker(nil)
	visible, invisible := 0, 0
	for i, s := range steps {
		tr.Process(rect(0, s.top, 10, s.bottom), out)
		for _, e := range log.events {
			switch e {
			case "visible:x":
				visible++
			case "invisible:x":
				invisible++
			}
		}
		log.events = nil
		require.Equal(t, s.entered, tr.IsEntered("x"), "step %d", i)
		if s.entered {
			require.Equal(t, 1, tr.Len(), "step %d", i)
		} else {
			require.Equal(t, 0, tr.Len(), "step %d", i)
		}
	}
	assert.Equal(t, 2, visible)
	assert.Equal(t, 1, invisible)
}

func TestFullImpressionOncePerSession(t *testing.T) {
	log := &eventLog{}
	out := []Output{{ID: "x", Bounds: rect(0, 100, 10, 200), EnterRatio: 0.25, Handlers: log.handlers()}}
	tr := NewTracker(nil)

	tr.Process(rect(0, 120, 10, 180), out)
	assert.Empty(t, log.take("full"))

	tr.Process(rect(0, 100, 10, 200), out)
	assert.Equal(t, []string{"full:x"}, log.take("full"))

	tr.Process(rect(0, 90, 10, 210), out)
	assert.Empty(t, log.take("full"), "full impression fires once per entered session")

	tr.Process(rect(0, 0, 10, 0), out)
	tr.Process(rect(0, 0, 10, 300), out)
	assert.Equal(t, []string{"full:x"}, log.take("full"))
}

func TestFocus(t *testing.T) {
	log := &eventLog{}
	out := []Output{{ID: "x", Bounds: rect(0, 0, 10, 200), EnterRatio: 0.4, Handlers: log.handlers()}}
	tr := NewTracker(nil)

	tr.Process(rect(0, 60, 10, 140), out)
	assert.Equal(t, []string{"visible:x", "focused:x"}, log.take(""))

	tr.Process(rect(0, 0, 10, 400), out)
	assert.Equal(t, []string{"full:x"}, log.take(""))

	tr.Process(rect(0, 80, 10, 400), out)
	assert.Equal(t, []string{"unfocused:x", "invisible:x"}, log.take(""))

	// 130 visible pixels of a 630 pixel viewport.
	tr.Process(rect(0, 70, 10, 700), out)
	assert.Equal(t, []string{"visible:x"}, log.take(""))

	tr.Process(rect(0, 0, 10, 0), out)
	assert.Equal(t, []string{"invisible:x"}, log.take(""))
}

func TestExitUsesFullBounds(t *testing.T) {
	log := &eventLog{}
	out := []Output{{ID: "x", Bounds: rect(0, 100, 10, 200), EnterRatio: 0.25, Handlers: log.handlers()}}
	tr := NewTracker(nil)

	tr.Process(rect(0, 0, 10, 300), out)
	require.True(t, tr.IsEntered("x"))
	log.events = nil

	// [120, 180] still covers the enter range [125, 175] but not [100, 200].
	tr.Process(rect(0, 120, 10, 180), out)
	assert.Equal(t, []string{"invisible:x"}, log.take("invisible"))
	assert.False(t, tr.IsEntered("x"))
	assert.Equal(t, 0, tr.Len())
}

func TestExitFiresBeforeRemoval(t *testing.T) {
	tr := NewTracker(nil)
	var enteredDuringExit []bool
	h := Handlers{Invisible: func(ev Event) {
		enteredDuringExit = append(enteredDuringExit, tr.IsEntered(ev.ID))
	}}
	tr.Process(rect(0, 0, 10, 100), []Output{{ID: "a", Bounds: rect(0, 0, 10, 10), Handlers: h}})

	tr.Process(rect(0, 0, 10, 100), nil)
	assert.Equal(t, []bool{true}, enteredDuringExit)
	assert.Equal(t, 0, tr.Len())
}

func TestRemovedOutputExits(t *testing.T) {
	log := &eventLog{}
	tr := NewTracker(nil)
	tr.Process(rect(0, 0, 100, 100), []Output{
		{ID: "a", Bounds: rect(0, 0, 10, 10), Handlers: log.handlers()},
		{ID: "b", Bounds: rect(0, 10, 10, 20), Handlers: log.handlers()},
	})
	log.events = nil

	tr.Process(rect(0, 0, 100, 100), []Output{{ID: "a", Bounds: rect(0, 0, 10, 10), Handlers: log.handlers()}})
	assert.Equal(t, []string{"invisible:b"}, log.take("invisible"))
	assert.Equal(t, []string{"a"}, tr.Entered())

	tr.Clear()
	assert.Equal(t, []string{"invisible:a"}, log.take("invisible"))
	assert.Equal(t, 0, tr.Len())
}

func TestObserverSeesEveryEvent(t *testing.T) {
	var kinds []string
	tr := NewTracker(func(kind EventKind, id string) {
		kinds = append(kinds, fmt.Sprintf("%s:%s", kind, id))
	})
	out := []Output{{ID: "a", Bounds: rect(0, 0, 10, 10)}}

	tr.Process(rect(0, 0, 10, 10), out)
	tr.Process(graphics.Rect{}, out)

	assert.Equal(t, []string{"visible:a", "full_impression:a", "focused:a", "unfocused:a", "invisible:a"}, kinds)
}

func TestHorizontalOverlapRequired(t *testing.T) {
	tr := NewTracker(nil)
	tr.Process(rect(20, 0, 40, 100), []Output{{ID: "a", Bounds: rect(0, 0, 10, 10)}})
	assert.Equal(t, 0, tr.Len())
}
