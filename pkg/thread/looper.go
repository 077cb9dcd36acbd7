// Package thread provides the main-goroutine looper that owns mounting and
// visibility dispatch, and the executors background layout runs on.
package thread

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"

	"github.com/go-drift/mountgraph/pkg/errors"
)

// Looper is a queue of callbacks drained on one goroutine, the main
// goroutine. Post is safe from any goroutine.
type Looper struct {
	owner atomic.Int64

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// NewLooper creates a looper with no owner. The first call to Bind, Run or
// Drain decides the main goroutine.
func NewLooper() *Looper {
	return &Looper{wake: make(chan struct{}, 1)}
}

// Bind makes the calling goroutine the main goroutine.
func (l *Looper) Bind() {
	l.owner.Store(goid.Get())
}

// IsMain reports whether the caller is the main goroutine.
func (l *Looper) IsMain() bool {
	owner := l.owner.Load()
	return owner != 0 && owner == goid.Get()
}

// AssertMain panics with a concurrency error when called off the main
// goroutine.
func (l *Looper) AssertMain(op string) {
	if !l.IsMain() {
		panic(errors.Concurrency(op, "must run on the main goroutine (called from goroutine %d)", goid.Get()))
	}
}

// Post queues fn to run on the main goroutine. Posting to a closed looper
// drops fn and reports false.
func (l *Looper) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Pending returns the number of queued callbacks.
func (l *Looper) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs queued callbacks, including ones they post, until the queue is
// empty. It binds the caller when the looper has no owner and must
// otherwise be called on the main goroutine.
func (l *Looper) Drain() int {
	l.owner.CompareAndSwap(0, goid.Get())
	l.AssertMain("thread.Looper.Drain")
	ran := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			l.run(fn)
			ran++
		}
	}
}

func (l *Looper) run(fn func()) {
	defer errors.Recover("thread.Looper")
	fn()
}

// Run binds the calling goroutine and processes callbacks until ctx is done
// or the looper is closed.
func (l *Looper) Run(ctx context.Context) error {
	l.Bind()
	for {
		l.Drain()
		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting callbacks and ends Run after the queue drains.
func (l *Looper) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
