package tree

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/animation"
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/host/hosttest"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/thread"
	"github.com/go-drift/mountgraph/pkg/transition"
	"github.com/go-drift/mountgraph/pkg/visibility"
)

type column struct {
	key      string
	style    *layout.Style
	children []component.Component
}

func (c column) Key() string                     { return c.key }
func (c column) Style() *layout.Style            { return c.style }
func (c column) Children() []component.Component { return c.children }

type leaf struct {
	key   string
	text  string
	h     int
	style *layout.Style
}

func (l leaf) Key() string                      { return l.key }
func (l leaf) Style() *layout.Style             { return l.style }
func (leaf) ContentType() component.ContentType { return component.ContentDrawable }
func (l leaf) CreateContent() host.Content      { return &hosttest.Drawable{Name: l.key} }
func (leaf) Mount(host.Content)                 {}
func (leaf) Unmount(host.Content)               {}

func (l leaf) Measure(ws, hs layout.MeasureSpec) graphics.Size {
	return graphics.Size{Width: ws.Resolve(10), Height: hs.Resolve(l.h)}
}

// counter renders its state and counts renders.
type counter struct {
	key     string
	renders *atomic.Int32
}

func (c counter) Key() string     { return c.key }
func (counter) InitialState() any { return 0 }

func (c counter) Render(ctx *component.Context) component.Component {
	c.renders.Add(1)
	return leaf{text: fmt.Sprint(ctx.State()), h: 10}
}

// gated blocks its first render until gate is closed.
type gated struct {
	key     string
	entered chan struct{}
	gate    chan struct{}
	renders *atomic.Int32
}

func (g gated) Key() string { return g.key }

func (g gated) Render(*component.Context) component.Component {
	g.renders.Add(1)
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.gate
	return leaf{h: 10}
}

type boom struct{}

func (boom) Key() string                                   { return "boom" }
func (boom) Render(*component.Context) component.Component { panic("exploded") }

type fixture struct {
	looper *thread.Looper
	exec   *thread.ManualExecutor
	tree   *Tree
	view   *hosttest.View
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	f := &fixture{looper: thread.NewLooper(), exec: &thread.ManualExecutor{}, view: hosttest.NewView("root", nil)}
	f.looper.Bind()
	cfg.Looper = f.looper
	cfg.Executor = f.exec
	cfg.ViewFactory = hosttest.ViewFactory(nil)
	cfg.DrawableOutputs = true
	f.tree = New(cfg)
	t.Cleanup(f.tree.Release)
	require.NoError(t, f.tree.SetSizeSpec(layout.ExactlySpec(100), layout.ExactlySpec(100)))
	return f
}

func claimed(tr *Tree) bool {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.inFlight != nil && tr.inFlight.claimed
}

func TestSetRootLaysOutAndMounts(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.tree.Attach(f.view))

	require.NoError(t, f.tree.SetRoot(column{key: "root", children: []component.Component{
		leaf{key: "a", h: 10},
		leaf{key: "b", h: 20},
	}}))

	c := f.tree.Committed()
	require.NotNil(t, c)
	assert.Equal(t, 3, c.State.Len())
	assert.Equal(t, 3, f.tree.MountState().Len())
	assert.Len(t, f.view.Children(), 2)
	assert.Equal(t, Stats{Committed: 1}, f.tree.Stats())
	assert.True(t, c.Root.IsFrozen())
}

func TestSetRootRejectsLayoutOnlyAttributes(t *testing.T) {
	f := newFixture(t, Config{})
	err := f.tree.SetRoot(column{key: "root", style: layout.NewStyle().Margin(layout.EdgeAll, 4)})
	require.Error(t, err)
	assert.True(t, errors.IsUsage(err))
	assert.Nil(t, f.tree.Committed())
}

func TestAsyncStateUpdatesShareOnePass(t *testing.T) {
	f := newFixture(t, Config{})
	renders := &atomic.Int32{}
	require.NoError(t, f.tree.SetRoot(counter{key: "c", renders: renders}))
	require.EqualValues(t, 1, renders.Load())

	f.tree.UpdateStateAsync("c", func(v any) any { return v.(int) + 1 })
	f.tree.UpdateStateAsync("c", func(v any) any { return v.(int) + 1 })
	assert.Equal(t, 1, f.exec.Pending(), "updates coalesce into one task")

	assert.Equal(t, 1, f.exec.RunAll())
	assert.EqualValues(t, 2, renders.Load(), "exactly one relayout")
	state, ok := f.tree.State("c")
	require.True(t, ok)
	assert.Equal(t, 2, state)
	assert.Equal(t, Stats{Committed: 2}, f.tree.Stats())
	assert.Empty(t, f.tree.PendingStateKeys())
}

func TestQueuedRequestsKeepOnlyTheLatest(t *testing.T) {
	f := newFixture(t, Config{})
	a := column{key: "root", children: []component.Component{leaf{key: "a", h: 10}}}
	b := column{key: "root", children: []component.Component{leaf{key: "b", h: 10}}}
	require.NoError(t, f.tree.SetRootAsync(a))
	require.NoError(t, f.tree.SetRootAsync(b))

	assert.Equal(t, 1, f.exec.RunAll())
	c := f.tree.Committed()
	require.NotNil(t, c)
	assert.Equal(t, b, c.Root.Component())
	assert.Equal(t, Stats{Committed: 1}, f.tree.Stats())
}

func TestSyncRequestMakesQueuedTaskANoop(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.tree.SetRootAsync(column{key: "root"}))
	require.NoError(t, f.tree.SetRoot(column{key: "root", children: []component.Component{leaf{key: "a", h: 5}}}))

	f.exec.RunAll()
	assert.Equal(t, Stats{Committed: 1}, f.tree.Stats())
}

func TestSupersededCalculationIsAbandoned(t *testing.T) {
	f := newFixture(t, Config{})
	g := gated{key: "g", entered: make(chan struct{}, 1), gate: make(chan struct{}), renders: &atomic.Int32{}}
	require.NoError(t, f.tree.SetRootAsync(column{key: "root", children: []component.Component{g}}))
	done := f.exec.Start()
	<-g.entered

	next := column{key: "root", children: []component.Component{leaf{key: "x", h: 10}}}
	require.NoError(t, f.tree.SetRootAsync(next))
	close(g.gate)
	<-done

	assert.Equal(t, Stats{Abandoned: 1}, f.tree.Stats())
	assert.Nil(t, f.tree.Committed(), "abandoned work never commits")

	f.exec.RunAll()
	require.NotNil(t, f.tree.Committed())
	assert.Equal(t, next, f.tree.Committed().Root.Component())
	assert.Equal(t, Stats{Committed: 1, Abandoned: 1}, f.tree.Stats())
}

func TestSyncRequestResumesInFlightCalculation(t *testing.T) {
	f := newFixture(t, Config{})
	before, after := &atomic.Int32{}, &atomic.Int32{}
	g := gated{key: "g", entered: make(chan struct{}, 1), gate: make(chan struct{}), renders: &atomic.Int32{}}
	require.NoError(t, f.tree.SetRootAsync(column{key: "root", children: []component.Component{
		counter{key: "before", renders: before},
		g,
		counter{key: "after", renders: after},
	}}))
	done := f.exec.Start()
	<-g.entered

	errc := make(chan error, 1)
	go func() { errc <- f.tree.SetSizeSpec(layout.ExactlySpec(100), layout.ExactlySpec(100)) }()
	require.Eventually(t, func() bool { return claimed(f.tree) }, time.Second, time.Millisecond)
	close(g.gate)
	<-done
	require.NoError(t, <-errc)

	assert.Equal(t, Stats{Committed: 1, Resumed: 1}, f.tree.Stats())
	assert.EqualValues(t, 1, before.Load(), "completed subtrees are not rebuilt")
	assert.EqualValues(t, 2, g.renders.Load(), "the interrupted node resolves again")
	assert.EqualValues(t, 1, after.Load())
	require.NotNil(t, f.tree.Committed())
	assert.NotNil(t, f.tree.Committed().Root.Find("root,after"))
}

func TestLazyUpdatesWaitForTheNextPass(t *testing.T) {
	f := newFixture(t, Config{})
	renders := &atomic.Int32{}
	require.NoError(t, f.tree.SetRoot(counter{key: "c", renders: renders}))

	f.tree.UpdateStateLazy("c", func(v any) any { return v.(int) + 10 })
	assert.Zero(t, f.exec.Pending())
	assert.Equal(t, []string{"c"}, f.tree.PendingStateKeys())
	state, _ := f.tree.State("c")
	assert.Equal(t, 0, state)

	require.NoError(t, f.tree.UpdateStateSync("c", func(v any) any { return v.(int) * 2 }))
	state, _ = f.tree.State("c")
	assert.Equal(t, 20, state)
	assert.EqualValues(t, 2, renders.Load())
}

func TestRenderErrorsAreReturned(t *testing.T) {
	f := newFixture(t, Config{LogTag: "feed"})
	err := f.tree.SetRoot(boom{})
	require.Error(t, err)
	ce, ok := errors.AsComponentError(err)
	require.True(t, ok)
	assert.Equal(t, "feed", ce.LogTag)
	assert.Equal(t, []string{"boom"}, ce.Stack)
	assert.Equal(t, Stats{Errors: 1}, f.tree.Stats())
	assert.Nil(t, f.tree.Committed())
}

func TestAsyncRenderErrorsAreReported(t *testing.T) {
	rec := &errors.Recorder{}
	defer rec.Install()()
	f := newFixture(t, Config{})
	require.NoError(t, f.tree.SetRootAsync(boom{}))
	f.exec.RunAll()
	require.Len(t, rec.ComponentErrors(), 1)
	assert.Equal(t, "boom", rec.ComponentErrors()[0].Component)
}

func TestBackgroundCommitIsMountedOnTheLooper(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.tree.Attach(f.view))
	require.NoError(t, f.tree.SetRootAsync(column{key: "root", children: []component.Component{leaf{key: "a", h: 10}}}))

	f.exec.RunAll()
	assert.Zero(t, f.tree.MountState().Len(), "nothing mounts off the main goroutine")
	assert.Equal(t, 1, f.looper.Pending())

	f.looper.Drain()
	assert.Equal(t, 2, f.tree.MountState().Len())
}

func TestAttachMountsLatestCommit(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.tree.SetRoot(column{key: "root", children: []component.Component{leaf{key: "a", h: 10}}}))
	assert.Nil(t, f.tree.MountState())

	require.NoError(t, f.tree.Attach(f.view))
	assert.Equal(t, 2, f.tree.MountState().Len())
	assert.True(t, errors.IsUsage(f.tree.Attach(f.view)))

	f.tree.Detach()
	assert.False(t, f.tree.IsAttached())
	assert.Empty(t, f.view.Children())
}

func TestVisibilityFollowsTheVisibleRect(t *testing.T) {
	f := newFixture(t, Config{})
	var events []string
	record := func(kind string) visibility.Handler {
		return func(ev visibility.Event) { events = append(events, kind+" "+ev.ID) }
	}
	handlers := visibility.Handlers{Visible: record("visible"), Invisible: record("invisible")}
	require.NoError(t, f.tree.Attach(f.view))
	require.NoError(t, f.tree.SetRoot(column{key: "root", children: []component.Component{
		leaf{key: "top", h: 50},
		leaf{key: "seen", h: 50, style: layout.NewStyle().Visibility(handlers, 0)},
	}}))
	assert.Equal(t, []string{"visible root,seen"}, events)
	assert.Equal(t, 1, f.tree.Visibility().Len())

	f.tree.SetVisibleRect(graphics.RectXYWH(0, 0, 100, 40))
	assert.Equal(t, []string{"visible root,seen", "invisible root,seen"}, events)

	f.tree.SetVisibleRect(graphics.RectXYWH(0, 50, 100, 50))
	f.tree.Detach()
	assert.Equal(t, []string{"visible root,seen", "invisible root,seen", "visible root,seen", "invisible root,seen"}, events)
}

func TestInjectedTransitionsAnimateTheNextMount(t *testing.T) {
	clock := animation.NewManualClock(time.Unix(0, 0))
	f := newFixture(t, Config{Clock: clock})
	mover := func() leaf {
		return leaf{key: "mover", h: 10, style: layout.NewStyle().TransitionKey("mover", transition.KeyGlobal)}
	}
	require.NoError(t, f.tree.Attach(f.view))
	require.NoError(t, f.tree.SetRoot(column{key: "root", children: []component.Component{mover()}}))

	f.tree.InjectTransitions(transition.Transition{
		ID:         transition.GlobalID("mover"),
		Properties: []transition.Property{transition.PropY},
		Animator:   transition.Animator{Duration: 100 * time.Millisecond, Curve: animation.Linear},
	})
	require.NoError(t, f.tree.SetRoot(column{key: "root", children: []component.Component{
		leaf{key: "spacer", h: 20},
		mover(),
	}}))

	require.Equal(t, 1, f.tree.Transitions().Running())
	item, ok := f.tree.MountState().Item("root,mover")
	require.True(t, ok)
	assert.Equal(t, 0, item.Content.Bounds().Top, "starts where it was")

	clock.Advance(50 * time.Millisecond)
	f.tree.Scheduler().Step()
	assert.Equal(t, 10, item.Content.Bounds().Top)

	clock.Advance(50 * time.Millisecond)
	f.tree.Scheduler().Step()
	assert.Equal(t, 20, item.Content.Bounds().Top)
	assert.Zero(t, f.tree.Transitions().Running())
}

func TestReleaseRejectsRequests(t *testing.T) {
	f := newFixture(t, Config{})
	require.NoError(t, f.tree.Attach(f.view))
	require.NoError(t, f.tree.SetRoot(column{key: "root"}))
	f.tree.Release()

	assert.False(t, f.tree.IsAttached())
	assert.ErrorIs(t, f.tree.SetRoot(column{key: "other"}), errors.ErrReleased)
	assert.ErrorIs(t, f.tree.UpdateStateSync("root", func(v any) any { return v }), errors.ErrReleased)
	assert.ErrorIs(t, f.tree.Attach(f.view), errors.ErrReleased)
	f.tree.Release()
}
