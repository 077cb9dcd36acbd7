package tree

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/reconcile"
)

// calculation is one layout request in flight. It checkpoints through the
// reconciler memo and the laid-out flags of its nodes, so a run that
// returns ErrInterrupted can be continued by calling run again.
type calculation struct {
	version    uint64
	root       component.Component
	widthSpec  layout.MeasureSpec
	heightSpec layout.MeasureSpec
	engine     layout.Engine
	snapshot   *reconcile.Snapshot
	reconciler *reconcile.Reconciler
	started    time.Time

	// claimed is set, under the tree lock, once the goroutine that will
	// finish the calculation is decided: a synchronous caller, or the
	// background runner after it completed. Anyone else waits on done.
	claimed bool

	ctx    context.Context
	cancel context.CancelFunc

	// mu is held while the calculation runs.
	mu     sync.Mutex
	owner  atomic.Int64
	node   *layout.Node
	result *layout.Node

	done chan struct{}
	err  error
}

func newCalculation(version uint64, root component.Component, w, h layout.MeasureSpec, engine layout.Engine, snapshot *reconcile.Snapshot, r *reconcile.Reconciler) *calculation {
	ctx, cancel := context.WithCancel(context.Background())
	return &calculation{
		version:    version,
		root:       root,
		widthSpec:  w,
		heightSpec: h,
		engine:     engine,
		snapshot:   snapshot,
		reconciler: r,
		started:    time.Now(),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// resume replaces an interrupted context so the next run continues from the
// checkpoint.
func (c *calculation) resume() {
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(context.Background())
}

// run reconciles and lays out the tree, skipping work already done.
func (c *calculation) run() error {
	c.owner.Store(goid.Get())
	defer c.owner.Store(0)

	if c.node == nil {
		n, err := c.reconciler.Run(c.ctx)
		if err != nil {
			return err
		}
		c.node = n
	}
	n, err := layout.Calculate(c.ctx, c.engine, c.node, c.widthSpec, c.heightSpec)
	if err != nil {
		return err
	}
	c.result = n
	return nil
}

// isRunningOnCaller reports whether the calling goroutine is inside run.
func (c *calculation) isRunningOnCaller() bool {
	return c.owner.Load() == goid.Get()
}
