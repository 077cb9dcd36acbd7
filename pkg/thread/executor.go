package thread

import (
	"sync"

	"github.com/go-drift/mountgraph/pkg/errors"
)

// Executor runs background work. Implementations must never run tasks on
// the main goroutine of a looper they are paired with, except Inline, which
// is meant for single-goroutine tools.
type Executor interface {
	Execute(task func())
}

// Inline runs tasks synchronously on the caller.
type Inline struct{}

func (Inline) Execute(task func()) { task() }

// WorkerPool runs tasks on a fixed set of goroutines.
type WorkerPool struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// NewWorkerPool starts workers goroutines with a queue of the given depth.
func NewWorkerPool(workers, queue int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	p := &WorkerPool{tasks: make(chan func(), queue)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *WorkerPool) work() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *WorkerPool) run(task func()) {
	defer errors.Recover("thread.WorkerPool")
	task()
}

// Execute queues task, blocking while the queue is full.
func (p *WorkerPool) Execute(task func()) {
	p.tasks <- task
}

// Close stops accepting tasks and waits for queued ones to finish.
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}

// ManualExecutor queues tasks until the test runs them, so races between
// background calculations can be staged deterministically.
type ManualExecutor struct {
	mu    sync.Mutex
	tasks []func()
}

func (m *ManualExecutor) Execute(task func()) {
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
}

// Pending returns the number of queued tasks.
func (m *ManualExecutor) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// RunNext runs the oldest queued task on a new goroutine and waits for it.
// It reports false when nothing was queued.
func (m *ManualExecutor) RunNext() bool {
	m.mu.Lock()
	if len(m.tasks) == 0 {
		m.mu.Unlock()
		return false
	}
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		task()
	}()
	<-done
	return true
}

// RunAll runs queued tasks, including ones they queue, until none remain.
func (m *ManualExecutor) RunAll() int {
	n := 0
	for m.RunNext() {
		n++
	}
	return n
}

// Start runs the oldest queued task on a new goroutine without waiting. The
// returned channel closes when it finishes.
func (m *ManualExecutor) Start() <-chan struct{} {
	done := make(chan struct{})
	m.mu.Lock()
	if len(m.tasks) == 0 {
		m.mu.Unlock()
		close(done)
		return done
	}
	task := m.tasks[0]
	m.tasks = m.tasks[1:]
	m.mu.Unlock()
	go func() {
		defer close(done)
		task()
	}()
	return done
}
