// Package metrics exports engine counters and histograms to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome is how a layout calculation ended.
type Outcome string

const (
	// OutcomeCommitted means the result became the committed layout.
	OutcomeCommitted Outcome = "committed"
	// OutcomeStale means a newer request was committed first.
	OutcomeStale Outcome = "stale"
	// OutcomeAbandoned means a newer request superseded it mid-flight.
	OutcomeAbandoned Outcome = "abandoned"
	// OutcomeResumed means it was interrupted and finished by a sync caller.
	OutcomeResumed Outcome = "resumed"
	// OutcomeError means resolution or layout failed.
	OutcomeError Outcome = "error"
)

// Source tells where a calculation ran.
type Source string

const (
	SourceSync  Source = "sync"
	SourceAsync Source = "async"
)

// Provider records engine metrics. Every method is safe for concurrent use.
type Provider interface {
	// RecordCalculation records one layout calculation.
	RecordCalculation(tree string, source Source, d time.Duration, outcome Outcome)
	// RecordDecisions adds the reconcile decisions of one calculation.
	RecordDecisions(tree string, reused, cloned, resolved int)
	// RecordMount adds the operations of one mount pass.
	RecordMount(tree string, mounted, unmounted, moved, rebound, remounted int)
	// RecordVisibilityEvent counts a dispatched visibility event.
	RecordVisibilityEvent(tree, kind string)
	// RecordStateUpdate counts a queued state update.
	RecordStateUpdate(tree, mode string)
	// RecordAnimations counts property animations started after a commit.
	RecordAnimations(tree string, n int)
	// SetMountedItems reports the number of mounted items.
	SetMountedItems(tree string, n int)

	// Registry returns the registerer the standard metrics live in.
	Registry() prometheus.Registerer
}

// Config configures the Prometheus provider.
type Config struct {
	// Namespace of all metrics. Default: "mountgraph"
	Namespace string
	// Subsystem of all metrics. Default: "tree"
	Subsystem string
	// CalculationBuckets are the histogram buckets for calculation time.
	CalculationBuckets []float64
	// Registry to register into. Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace:          "mountgraph",
		Subsystem:          "tree",
		CalculationBuckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		Registry:           prometheus.DefaultRegisterer,
	}
}

type provider struct {
	config *Config

	calculationDuration *prometheus.HistogramVec
	calculations        *prometheus.CounterVec
	decisions           *prometheus.CounterVec
	mountOps            *prometheus.CounterVec
	visibilityEvents    *prometheus.CounterVec
	stateUpdates        *prometheus.CounterVec
	animations          *prometheus.CounterVec
	mountedItems        *prometheus.GaugeVec
}

// New creates a provider and registers its metrics. A nil config uses
// DefaultConfig; zero fields take their defaults.
func New(config *Config) Provider {
	def := DefaultConfig()
	if config == nil {
		config = def
	}
	if config.Namespace == "" {
		config.Namespace = def.Namespace
	}
	if config.Subsystem == "" {
		config.Subsystem = def.Subsystem
	}
	if len(config.CalculationBuckets) == 0 {
		config.CalculationBuckets = def.CalculationBuckets
	}
	if config.Registry == nil {
		config.Registry = def.Registry
	}

	p := &provider{config: config}
	p.calculationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "calculation_duration_seconds",
			Help:      "Duration of layout calculations in seconds",
			Buckets:   config.CalculationBuckets,
		},
		[]string{"tree", "source"},
	)
	p.calculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "calculations_total",
			Help:      "Total number of layout calculations by outcome",
		},
		[]string{"tree", "source", "outcome"},
	)
	p.decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "reconcile_decisions_total",
			Help:      "Total number of reconcile decisions by kind",
		},
		[]string{"tree", "decision"},
	)
	p.mountOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "mount_operations_total",
			Help:      "Total number of mount operations by kind",
		},
		[]string{"tree", "operation"},
	)
	p.visibilityEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "visibility_events_total",
			Help:      "Total number of dispatched visibility events",
		},
		[]string{"tree", "event"},
	)
	p.stateUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "state_updates_total",
			Help:      "Total number of queued state updates by mode",
		},
		[]string{"tree", "mode"},
	)
	p.animations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "animations_total",
			Help:      "Total number of property animations started",
		},
		[]string{"tree"},
	)
	p.mountedItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "mounted_items",
			Help:      "Number of currently mounted items",
		},
		[]string{"tree"},
	)

	config.Registry.MustRegister(
		p.calculationDuration,
		p.calculations,
		p.decisions,
		p.mountOps,
		p.visibilityEvents,
		p.stateUpdates,
		p.animations,
		p.mountedItems,
	)
	return p
}

func (p *provider) RecordCalculation(tree string, source Source, d time.Duration, outcome Outcome) {
	p.calculationDuration.WithLabelValues(tree, string(source)).Observe(d.Seconds())
	p.calculations.WithLabelValues(tree, string(source), string(outcome)).Inc()
}

func (p *provider) RecordDecisions(tree string, reused, cloned, resolved int) {
	p.decisions.WithLabelValues(tree, "reuse").Add(float64(reused))
	p.decisions.WithLabelValues(tree, "clone").Add(float64(cloned))
	p.decisions.WithLabelValues(tree, "resolve").Add(float64(resolved))
}

func (p *provider) RecordMount(tree string, mounted, unmounted, moved, rebound, remounted int) {
	p.mountOps.WithLabelValues(tree, "mount").Add(float64(mounted))
	p.mountOps.WithLabelValues(tree, "unmount").Add(float64(unmounted))
	p.mountOps.WithLabelValues(tree, "move").Add(float64(moved))
	p.mountOps.WithLabelValues(tree, "rebind").Add(float64(rebound))
	p.mountOps.WithLabelValues(tree, "remount").Add(float64(remounted))
}

func (p *provider) RecordVisibilityEvent(tree, kind string) {
	p.visibilityEvents.WithLabelValues(tree, kind).Inc()
}

func (p *provider) RecordStateUpdate(tree, mode string) {
	p.stateUpdates.WithLabelValues(tree, mode).Inc()
}

func (p *provider) RecordAnimations(tree string, n int) {
	p.animations.WithLabelValues(tree).Add(float64(n))
}

func (p *provider) SetMountedItems(tree string, n int) {
	p.mountedItems.WithLabelValues(tree).Set(float64(n))
}

func (p *provider) Registry() prometheus.Registerer {
	return p.config.Registry
}

// TreeLabel formats a tree id as a label value.
func TreeLabel(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordCalculation(string, Source, time.Duration, Outcome) {}
func (Nop) RecordDecisions(string, int, int, int)                    {}
func (Nop) RecordMount(string, int, int, int, int, int)              {}
func (Nop) RecordVisibilityEvent(string, string)                     {}
func (Nop) RecordStateUpdate(string, string)                         {}
func (Nop) RecordAnimations(string, int)                             {}
func (Nop) SetMountedItems(string, int)                              {}
func (Nop) Registry() prometheus.Registerer                          { return nil }
