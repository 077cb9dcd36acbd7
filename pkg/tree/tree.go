// Package tree implements the ComponentTree: the entry point applications
// use to set a root component and size, enqueue state updates and attach
// the result to a host view.
//
// Layout runs on a background executor or synchronously on the caller.
// Asynchronous requests coalesce into one pending task that reads the newest
// root, size and state when it starts. A calculation superseded by a newer
// request is abandoned; a synchronous request for the version already in
// flight interrupts it and finishes it on the caller. Results commit only
// when their version is current, and mounting always happens on the main
// goroutine with the latest committed layout.
package tree

import (
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/go-drift/mountgraph/pkg/animation"
	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
	"github.com/go-drift/mountgraph/pkg/metrics"
	"github.com/go-drift/mountgraph/pkg/mount"
	"github.com/go-drift/mountgraph/pkg/reconcile"
	"github.com/go-drift/mountgraph/pkg/thread"
	"github.com/go-drift/mountgraph/pkg/transition"
	"github.com/go-drift/mountgraph/pkg/visibility"
)

var lastID atomic.Int64

// Config configures a Tree.
type Config struct {
	// ID identifies the tree in logs and metrics. Zero assigns the next
	// process-wide id.
	ID int64
	// LogTag is attached to component errors raised by this tree.
	LogTag string
	// Looper is the main goroutine. Nil creates a private looper.
	Looper *thread.Looper
	// Executor runs background layout. Nil starts a single worker owned by
	// the tree and closed by Release.
	Executor thread.Executor
	// Engine lays out nodes. Nil uses layout.FlexEngine.
	Engine layout.Engine

	ViewFactory     host.ViewFactory
	Incremental     bool
	DrawableOutputs bool
	PoolSize        int

	// Clock drives transitions. Nil uses the system clock.
	Clock   animation.Clock
	Metrics metrics.Provider
	Logger  logr.Logger
}

// Committed is one committed layout.
type Committed struct {
	Version    uint64
	Root       *layout.Node
	State      *layoutstate.State
	WidthSpec  layout.MeasureSpec
	HeightSpec layout.MeasureSpec
	// Decisions records how every node of Root was produced.
	Decisions *reconcile.Stats
}

// Stats counts calculation outcomes.
type Stats struct {
	Committed int
	Resumed   int
	Stale     int
	Abandoned int
	Errors    int
}

// Tree is a ComponentTree. Its request methods are safe from any goroutine;
// Attach, Detach, SetVisibleRect and InjectTransitions run on the main
// goroutine.
type Tree struct {
	cfg     Config
	label   string
	log     logr.Logger
	looper  *thread.Looper
	exec    thread.Executor
	pool    *thread.WorkerPool
	metrics metrics.Provider
	states  *reconcile.StateHandler

	mu          sync.Mutex
	root        component.Component
	widthSpec   layout.MeasureSpec
	heightSpec  layout.MeasureSpec
	hasSize     bool
	version     uint64
	committed   *Committed
	inFlight    *calculation
	asyncQueued bool
	released    bool
	stats       Stats

	// Main goroutine only.
	mountState *mount.MountState
	mounted    *Committed
	tracker    *visibility.Tracker
	scheduler  *animation.Scheduler
	runner     *transition.Runner
	visible    graphics.Rect
	hasVisible bool
	injected   []transition.Transition
}

// New creates a detached tree with no root.
func New(cfg Config) *Tree {
	if cfg.ID == 0 {
		cfg.ID = lastID.Add(1)
	}
	if cfg.Looper == nil {
		cfg.Looper = thread.NewLooper()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = errors.Logger().WithName("tree")
	}
	t := &Tree{
		cfg:     cfg,
		label:   metrics.TreeLabel(cfg.ID),
		log:     cfg.Logger.WithValues("tree", cfg.ID),
		looper:  cfg.Looper,
		exec:    cfg.Executor,
		metrics: cfg.Metrics,
		states:  reconcile.NewStateHandler(),
	}
	if cfg.LogTag != "" {
		t.log = t.log.WithValues("tag", cfg.LogTag)
	}
	if t.exec == nil {
		t.pool = thread.NewWorkerPool(1, 16)
		t.exec = t.pool
	}
	t.tracker = visibility.NewTracker(func(kind visibility.EventKind, _ string) {
		t.metrics.RecordVisibilityEvent(t.label, kind.String())
	})
	t.scheduler = animation.NewScheduler(cfg.Clock)
	t.runner = transition.NewRunner(t.scheduler)
	return t
}

// ID returns the tree id.
func (t *Tree) ID() int64 { return t.cfg.ID }

// Looper returns the main looper mounting runs on.
func (t *Tree) Looper() *thread.Looper { return t.looper }

// SetRoot replaces the root and lays out synchronously. Layout-only style
// attributes on the root are rejected with a *errors.UsageError.
func (t *Tree) SetRoot(c component.Component) error {
	if err := t.setRoot(c); err != nil {
		return err
	}
	return t.calculateSync()
}

// SetRootAsync replaces the root and schedules a background layout.
func (t *Tree) SetRootAsync(c component.Component) error {
	if err := t.setRoot(c); err != nil {
		return err
	}
	t.scheduleAsync()
	return nil
}

func (t *Tree) setRoot(c component.Component) error {
	if s, ok := c.(layout.Styled); ok {
		if err := layout.ValidateRoot(s.Style()); err != nil {
			return err
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return errors.ErrReleased
	}
	// Re-setting an equivalent root keeps the version, so a synchronous
	// call can claim a calculation already running for it.
	if t.root != nil && c != nil && !component.ShouldUpdate(t.root, c) {
		t.root = c
		return nil
	}
	t.root = c
	t.version++
	return nil
}

// SetSizeSpec changes the size constraints and lays out synchronously.
func (t *Tree) SetSizeSpec(widthSpec, heightSpec layout.MeasureSpec) error {
	if err := t.setSizeSpec(widthSpec, heightSpec); err != nil {
		return err
	}
	return t.calculateSync()
}

// SetSizeSpecAsync changes the size constraints and schedules a background
// layout.
func (t *Tree) SetSizeSpecAsync(widthSpec, heightSpec layout.MeasureSpec) error {
	if err := t.setSizeSpec(widthSpec, heightSpec); err != nil {
		return err
	}
	t.scheduleAsync()
	return nil
}

func (t *Tree) setSizeSpec(w, h layout.MeasureSpec) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.released {
		return errors.ErrReleased
	}
	if t.hasSize && t.widthSpec == w && t.heightSpec == h {
		return nil
	}
	t.widthSpec, t.heightSpec, t.hasSize = w, h, true
	t.version++
	return nil
}

// UpdateStateSync queues fn for key and lays out synchronously. Called
// from inside a render of this tree, it schedules a background layout
// instead.
func (t *Tree) UpdateStateSync(key string, fn component.StateUpdate) error {
	t.states.Enqueue(key, fn, false)
	t.metrics.RecordStateUpdate(t.label, "sync")
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return errors.ErrReleased
	}
	t.version++
	nested := t.inFlight != nil && t.inFlight.isRunningOnCaller()
	t.mu.Unlock()
	if nested {
		t.scheduleAsync()
		return nil
	}
	return t.calculateSync()
}

// UpdateStateAsync queues fn for key and schedules a background layout.
// Updates queued before the layout starts share one pass.
func (t *Tree) UpdateStateAsync(key string, fn component.StateUpdate) {
	t.states.Enqueue(key, fn, false)
	t.metrics.RecordStateUpdate(t.label, "async")
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return
	}
	t.version++
	t.mu.Unlock()
	t.scheduleAsync()
}

// UpdateStateLazy queues fn for key without scheduling a layout. It is
// applied by the next pass that runs.
func (t *Tree) UpdateStateLazy(key string, fn component.StateUpdate) {
	t.states.Enqueue(key, fn, true)
	t.metrics.RecordStateUpdate(t.label, "lazy")
}

// State returns the committed state of the component at key.
func (t *Tree) State(key string) (any, bool) {
	return t.states.Committed(key)
}

// Committed returns the latest committed layout, or nil.
func (t *Tree) Committed() *Committed {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

// Stats returns the calculation outcomes so far.
func (t *Tree) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

func (t *Tree) committedVersion() uint64 {
	if t.committed == nil {
		return 0
	}
	return t.committed.Version
}

// needsLayout reports whether the current request has not been committed.
func (t *Tree) needsLayout() bool {
	return t.root != nil && t.hasSize && t.version > t.committedVersion()
}

// scheduleAsync queues the background task unless one is already pending,
// and abandons a background calculation the new request superseded.
func (t *Tree) scheduleAsync() {
	t.mu.Lock()
	if t.released || !t.needsLayout() {
		t.mu.Unlock()
		return
	}
	if c := t.inFlight; c != nil && !c.claimed && c.version < t.version {
		c.cancel()
	}
	if t.asyncQueued {
		t.mu.Unlock()
		return
	}
	t.asyncQueued = true
	t.mu.Unlock()
	t.exec.Execute(t.runAsync)
}

func (t *Tree) runAsync() {
	t.mu.Lock()
	t.asyncQueued = false
	if t.released || !t.needsLayout() || (t.inFlight != nil && t.inFlight.version == t.version) {
		t.mu.Unlock()
		return
	}
	c := t.startLocked()
	t.mu.Unlock()

	c.mu.Lock()
	err := c.run()
	c.mu.Unlock()

	t.mu.Lock()
	if c.claimed {
		t.mu.Unlock()
		return
	}
	// From here on synchronous callers wait for this result.
	c.claimed = true
	t.mu.Unlock()
	if err := t.finish(c, metrics.SourceAsync, false, err); err != nil {
		if ce, ok := errors.AsComponentError(err); ok {
			errors.ReportComponentError(ce)
		} else {
			errors.Report(&errors.DriftError{Op: "tree.Tree.runAsync", Kind: errors.KindLayout, Err: err})
		}
	}
}

// calculateSync finishes the current request on the caller.
func (t *Tree) calculateSync() error {
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return errors.ErrReleased
	}
	if !t.needsLayout() {
		t.mu.Unlock()
		return nil
	}
	var (
		c       *calculation
		resumed bool
	)
	switch cur := t.inFlight; {
	case cur != nil && cur.version == t.version && cur.claimed:
		// Another synchronous caller owns it; share its result.
		t.mu.Unlock()
		<-cur.done
		return cur.err
	case cur != nil && cur.version == t.version:
		cur.claimed = true
		cur.cancel()
		c, resumed = cur, true
	default:
		c = t.startLocked()
		c.claimed = true
	}
	t.mu.Unlock()

	c.mu.Lock()
	if resumed {
		c.resume()
	}
	err := c.run()
	c.mu.Unlock()
	return t.finish(c, metrics.SourceSync, resumed, err)
}

// startLocked creates the calculation for the current request.
func (t *Tree) startLocked() *calculation {
	if cur := t.inFlight; cur != nil && !cur.claimed {
		cur.cancel()
	}
	var prev *layout.Node
	force := false
	if t.committed != nil {
		prev = t.committed.Root
		force = t.committed.WidthSpec != t.widthSpec || t.committed.HeightSpec != t.heightSpec
	}
	snapshot := t.states.Snapshot()
	r := reconcile.New(reconcile.Config{
		Prev:          prev,
		Root:          t.root,
		State:         snapshot,
		ForceRelayout: force,
		Updater:       t,
		LogTag:        t.cfg.LogTag,
		TreeID:        t.cfg.ID,
	})
	c := newCalculation(t.version, t.root, t.widthSpec, t.heightSpec, t.cfg.Engine, snapshot, r)
	t.inFlight = c
	return c
}

// finish commits c when it is current and records its outcome.
func (t *Tree) finish(c *calculation, source metrics.Source, resumed bool, err error) error {
	var outcome metrics.Outcome
	t.mu.Lock()
	if t.inFlight == c {
		t.inFlight = nil
	}
	switch {
	case err != nil && stderrors.Is(err, errors.ErrInterrupted):
		outcome = metrics.OutcomeAbandoned
		t.stats.Abandoned++
		err = nil
	case err != nil:
		outcome = metrics.OutcomeError
		t.stats.Errors++
	case t.released || c.version != t.version:
		outcome = metrics.OutcomeStale
		t.stats.Stale++
	default:
		t.commitLocked(c)
		outcome = metrics.OutcomeCommitted
		if resumed {
			outcome = metrics.OutcomeResumed
			t.stats.Resumed++
		}
		t.stats.Committed++
	}
	c.err = err
	c.cancel()
	close(c.done)
	t.mu.Unlock()

	t.metrics.RecordCalculation(t.label, source, time.Since(c.started), outcome)
	t.log.V(1).Info("calculation finished", "version", c.version, "source", source, "outcome", outcome)
	if outcome == metrics.OutcomeCommitted || outcome == metrics.OutcomeResumed {
		stats := c.reconciler.Stats()
		t.metrics.RecordDecisions(t.label, stats.Count(reconcile.Reuse), stats.Count(reconcile.Clone), stats.Count(reconcile.Resolve))
		t.scheduleMount()
	}
	if err != nil {
		t.log.Error(err, "layout calculation failed", "version", c.version)
	}
	return err
}

func (t *Tree) commitLocked(c *calculation) {
	root := c.result
	root.Freeze()
	live := make(map[string]bool)
	root.Walk(func(n *layout.Node) bool {
		live[n.Key()] = true
		return true
	})
	t.states.Commit(c.snapshot, live)
	t.committed = &Committed{
		Version:    c.version,
		Root:       root,
		State:      layoutstate.Flatten(root, layoutstate.Options{DrawableOutputs: t.cfg.DrawableOutputs}),
		WidthSpec:  c.widthSpec,
		HeightSpec: c.heightSpec,
		Decisions:  c.reconciler.Stats(),
	}
}

// scheduleMount mounts immediately on the main goroutine and posts
// otherwise.
func (t *Tree) scheduleMount() {
	if t.looper.IsMain() {
		t.mountCommitted()
		return
	}
	t.looper.Post(t.mountCommitted)
}

// mountCommitted brings the mounted content up to the latest commit.
func (t *Tree) mountCommitted() {
	t.looper.AssertMain("tree.Tree.mount")
	t.mu.Lock()
	next := t.committed
	t.mu.Unlock()
	ms := t.mountState
	if ms == nil || next == nil || next == t.mounted {
		return
	}
	prev := t.mounted
	visible := t.visibleRect(next)
	ms.Mount(next.State, visible)
	t.mounted = next
	t.metrics.SetMountedItems(t.label, ms.Len())
	t.tracker.Process(visible, next.State.VisibilityOutputs())

	if prev != nil {
		anims := transition.Create(prev.State.TransitionSnapshot(), next.State.TransitionSnapshot(), next.State.Transitions(), t.injected)
		t.runner.Start(anims, ms.TransitionTarget)
		if len(anims) > 0 {
			t.metrics.RecordAnimations(t.label, len(anims))
		}
	}
	t.injected = nil
}

func (t *Tree) visibleRect(c *Committed) graphics.Rect {
	if t.hasVisible {
		return t.visible
	}
	return graphics.RectXYWH(0, 0, c.State.Width, c.State.Height)
}

// Attach mounts the tree into root and keeps it mounted across commits.
func (t *Tree) Attach(root host.View) error {
	t.looper.AssertMain("tree.Tree.Attach")
	t.mu.Lock()
	released := t.released
	t.mu.Unlock()
	if released {
		return errors.ErrReleased
	}
	if t.mountState != nil {
		return errors.Usage("tree.Tree.Attach", "tree %d is already attached", t.cfg.ID)
	}
	t.mountState = mount.New(root, mount.Config{
		Looper:      t.looper,
		ViewFactory: t.cfg.ViewFactory,
		Incremental: t.cfg.Incremental,
		PoolSize:    t.cfg.PoolSize,
		OnMount: func(s mount.Stats) {
			t.metrics.RecordMount(t.label, s.Mounted, s.Unmounted, s.Moved, s.Rebound, s.Remounted)
		},
		Logger: t.log.WithName("mount"),
	})
	t.mounted = nil
	t.mountCommitted()
	return nil
}

// IsAttached reports whether the tree is mounted into a view.
func (t *Tree) IsAttached() bool { return t.mountState != nil }

// Detach unmounts everything. Running transitions jump to their end and
// entered outputs receive their exit events.
func (t *Tree) Detach() {
	t.looper.AssertMain("tree.Tree.Detach")
	if t.mountState == nil {
		return
	}
	t.runner.Finish()
	t.tracker.Clear()
	t.mountState.Release()
	t.mountState = nil
	t.mounted = nil
	t.metrics.SetMountedItems(t.label, 0)
}

// Release detaches the tree, abandons any calculation and stops the owned
// executor. Later requests return errors.ErrReleased.
func (t *Tree) Release() {
	t.mu.Lock()
	if t.released {
		t.mu.Unlock()
		return
	}
	t.released = true
	if c := t.inFlight; c != nil && !c.claimed {
		c.cancel()
	}
	t.mu.Unlock()

	if t.mountState != nil {
		t.Detach()
	}
	if t.pool != nil {
		t.pool.Close()
	}
	t.log.V(1).Info("released")
}

// SetVisibleRect moves the viewport, incrementally mounting and dispatching
// visibility events.
func (t *Tree) SetVisibleRect(r graphics.Rect) {
	t.looper.AssertMain("tree.Tree.SetVisibleRect")
	t.visible, t.hasVisible = r, true
	if t.mountState == nil || t.mounted == nil {
		return
	}
	t.mountState.SetVisibleRect(r)
	t.metrics.SetMountedItems(t.label, t.mountState.Len())
	t.tracker.Process(r, t.mounted.State.VisibilityOutputs())
}

// InjectTransitions adds transitions applied by the next mount only.
func (t *Tree) InjectTransitions(ts ...transition.Transition) {
	t.looper.AssertMain("tree.Tree.InjectTransitions")
	t.injected = append(t.injected, ts...)
}

// MountState returns the mount state, or nil when detached.
func (t *Tree) MountState() *mount.MountState { return t.mountState }

// Visibility returns the visibility tracker.
func (t *Tree) Visibility() *visibility.Tracker { return t.tracker }

// Transitions returns the transition runner.
func (t *Tree) Transitions() *transition.Runner { return t.runner }

// Scheduler returns the scheduler transitions tick on. Hosts step it once
// per frame.
func (t *Tree) Scheduler() *animation.Scheduler { return t.scheduler }

// PendingStateKeys returns keys with queued updates, for tests.
func (t *Tree) PendingStateKeys() []string { return t.states.PendingKeys() }
