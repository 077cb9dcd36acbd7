package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/go-drift/mountgraph/pkg/config"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/fixture"
	"github.com/go-drift/mountgraph/pkg/host/hosttest"
	"github.com/go-drift/mountgraph/pkg/layout"
	"github.com/go-drift/mountgraph/pkg/metrics"
	"github.com/go-drift/mountgraph/pkg/mount"
	"github.com/go-drift/mountgraph/pkg/thread"
	"github.com/go-drift/mountgraph/pkg/tree"
)

// frame is the result of committing and mounting one fixture frame.
type frame struct {
	Index     int
	Committed *tree.Committed
	Mount     mount.Stats
}

// session plays fixture frames through one tree attached to a headless
// host on the calling goroutine.
type session struct {
	doc      *fixture.Document
	tree     *tree.Tree
	log      *hosttest.Log
	registry *prometheus.Registry
}

func newSession(cfg *config.Config, path string) (*session, error) {
	doc, err := fixture.Load(path)
	if err != nil {
		return nil, err
	}
	s := &session{doc: doc, log: &hosttest.Log{}}
	logger := cfg.Logger()
	errors.SetLogger(logger)

	looper := thread.NewLooper()
	looper.Bind()
	tc := tree.Config{
		LogTag:          cfg.Tree.LogTag,
		Looper:          looper,
		Executor:        thread.Inline{},
		ViewFactory:     hosttest.ViewFactory(s.log),
		Incremental:     cfg.Mount.Incremental,
		DrawableOutputs: cfg.DrawableOutputsEnabled(),
		PoolSize:        cfg.PoolSize(),
		Logger:          logger,
	}
	if cfg.Metrics.Enabled {
		s.registry = prometheus.NewRegistry()
		tc.Metrics = metrics.New(&metrics.Config{Namespace: cfg.Metrics.Namespace, Registry: s.registry})
	}
	s.tree = tree.New(tc)
	if err := s.tree.Attach(hosttest.NewView("root", s.log)); err != nil {
		s.tree.Release()
		return nil, err
	}
	if err := s.tree.SetSizeSpec(layout.ExactlySpec(doc.Width), layout.ExactlySpec(doc.Height)); err != nil {
		s.tree.Release()
		return nil, err
	}
	return s, nil
}

// play commits frames 0 through last and calls fn after each mount. A
// negative last plays every frame.
func (s *session) play(last int, fn func(frame) error) error {
	trees, err := s.doc.Trees()
	if err != nil {
		return err
	}
	if last < 0 {
		last = len(trees) - 1
	}
	if last >= len(trees) {
		return fmt.Errorf("frame %d out of range (fixture has %d)", last, len(trees))
	}
	for i := 0; i <= last; i++ {
		if err := s.tree.SetRoot(trees[i]); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		f := frame{Index: i, Committed: s.tree.Committed(), Mount: s.tree.MountState().LastStats()}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// writeMetrics prints the collected metrics in the Prometheus text format.
func (s *session) writeMetrics(w io.Writer) error {
	if s.registry == nil {
		return nil
	}
	families, err := s.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) close() { s.tree.Release() }

// frameFlag parses the value of --frame.
func frameFlag(args []string, i int) (int, error) {
	if i+1 >= len(args) {
		return 0, fmt.Errorf("--frame requires a frame index")
	}
	n, err := strconv.Atoi(args[i+1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid frame %q", args[i+1])
	}
	return n, nil
}
