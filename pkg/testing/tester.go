package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/host/hosttest"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
	"github.com/go-drift/mountgraph/pkg/thread"
	"github.com/go-drift/mountgraph/pkg/tree"
)

const (
	// DefaultTestWidth is the default width of the test viewport.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default height of the test viewport.
	DefaultTestHeight = 600
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: tree did not settle")

// TreeTester drives a component tree without a real host. Background
// layout runs on a manual executor and mounting on a looper bound to the
// goroutine that created the tester, so every step is deterministic.
type TreeTester struct {
	looper *thread.Looper
	exec   *thread.ManualExecutor
	clock  *FakeClock
	log    *hosttest.Log
	view   *hosttest.View
	tree   *tree.Tree
	size   graphics.Size
}

// NewTreeTester creates an attached tree with the default viewport. Call
// Cleanup when done, or use NewTreeTesterWithT instead.
func NewTreeTester(cfg tree.Config) *TreeTester {
	t := &TreeTester{
		looper: thread.NewLooper(),
		exec:   &thread.ManualExecutor{},
		clock:  NewFakeClock(),
		log:    &hosttest.Log{},
		size:   graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight},
	}
	t.looper.Bind()
	t.view = hosttest.NewView("root", t.log)

	cfg.Looper = t.looper
	cfg.Executor = t.exec
	cfg.Clock = t.clock
	if cfg.ViewFactory == nil {
		cfg.ViewFactory = hosttest.ViewFactory(t.log)
	}
	t.tree = tree.New(cfg)
	if err := t.tree.Attach(t.view); err != nil {
		panic(err)
	}
	return t
}

// NewTreeTesterWithT creates a tester that is released via t.Cleanup. This
// is the recommended constructor for tests.
func NewTreeTesterWithT(t *testing.T) *TreeTester {
	tester := NewTreeTester(tree.Config{DrawableOutputs: true})
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup releases the tree.
func (t *TreeTester) Cleanup() {
	t.tree.Release()
}

// SetSize sets the viewport. It takes effect on the next Render.
func (t *TreeTester) SetSize(size graphics.Size) {
	t.size = size
}

// Clock returns the fake clock driving transitions.
func (t *TreeTester) Clock() *FakeClock { return t.clock }

// Tree returns the tree under test.
func (t *TreeTester) Tree() *tree.Tree { return t.tree }

// RootView returns the fake view the tree is attached to.
func (t *TreeTester) RootView() *hosttest.View { return t.view }

// HostLog returns the operations performed on fake views.
func (t *TreeTester) HostLog() *hosttest.Log { return t.log }

// Render sets root and lays it out synchronously.
func (t *TreeTester) Render(root component.Component) error {
	if err := t.tree.SetSizeSpec(layout.ExactlySpec(t.size.Width), layout.ExactlySpec(t.size.Height)); err != nil {
		return err
	}
	return t.tree.SetRoot(root)
}

// RenderAsync sets root without laying it out. Pump runs the queued work.
func (t *TreeTester) RenderAsync(root component.Component) error {
	if err := t.tree.SetSizeSpecAsync(layout.ExactlySpec(t.size.Width), layout.ExactlySpec(t.size.Height)); err != nil {
		return err
	}
	return t.tree.SetRootAsync(root)
}

// Pump runs queued background layout, posted mounts and one animation
// frame.
func (t *TreeTester) Pump() {
	for t.exec.RunAll()+t.looper.Drain() > 0 {
	}
	t.tree.Scheduler().Step()
}

// PumpAndSettle pumps frames until no work is queued and no transition is
// running. Each frame advances the fake clock by 16ms.
func (t *TreeTester) PumpAndSettle(timeout time.Duration) error {
	const frameDuration = 16 * time.Millisecond
	var elapsed time.Duration
	for elapsed < timeout {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

func (t *TreeTester) needsWork() bool {
	return t.exec.Pending() > 0 ||
		t.looper.Pending() > 0 ||
		t.tree.Transitions().Running() > 0
}

// Committed returns the latest committed layout, or nil.
func (t *TreeTester) Committed() *tree.Committed { return t.tree.Committed() }

// State returns the mounted layout state, or nil before the first mount.
func (t *TreeTester) State() *layoutstate.State {
	if ms := t.tree.MountState(); ms != nil {
		return ms.State()
	}
	return nil
}

// Find evaluates a finder against the committed node tree.
func (t *TreeTester) Find(finder Finder) FinderResult {
	c := t.tree.Committed()
	if c == nil || c.Root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		nodes:  finder.Evaluate(c.Root),
		finder: finder,
	}
}
