package thread

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-drift/mountgraph/pkg/errors"
)

func TestLooperMainAffinity(t *testing.T) {
	l := NewLooper()
	assert.False(t, l.IsMain(), "unbound looper has no main goroutine")

	l.Bind()
	assert.True(t, l.IsMain())
	assert.NotPanics(t, func() { l.AssertMain("test") })

	var offMain atomic.Bool
	var panicked any
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() { panicked = recover() }()
		offMain.Store(!l.IsMain())
		l.AssertMain("test.background")
	}()
	<-done

	assert.True(t, offMain.Load())
	de, ok := panicked.(*errors.DriftError)
	require.True(t, ok, "want *DriftError, got %T", panicked)
	assert.Equal(t, errors.KindConcurrency, de.Kind)
	assert.Equal(t, "test.background", de.Op)
}

func TestLooperDrainRunsNestedPosts(t *testing.T) {
	l := NewLooper()
	var order []int
	l.Post(func() {
		order = append(order, 1)
		l.Post(func() { order = append(order, 3) })
	})
	l.Post(func() { order = append(order, 2) })

	assert.Equal(t, 2, l.Pending())
	assert.Equal(t, 3, l.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.True(t, l.IsMain(), "Drain binds an unowned looper")
}

func TestLooperRecoversPanics(t *testing.T) {
	rec := &errors.Recorder{}
	defer rec.Install()()

	l := NewLooper()
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	l.Drain()

	assert.True(t, ran)
	require.Len(t, rec.Panics(), 1)
	assert.Equal(t, "boom", rec.Panics()[0].Value)
}

func TestLooperRunAndClose(t *testing.T) {
	l := NewLooper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var mainSeen atomic.Bool
	result := make(chan error, 1)
	go func() { result <- l.Run(ctx) }()

	done := make(chan struct{})
	l.Post(func() {
		mainSeen.Store(l.IsMain())
		close(done)
	})
	<-done
	l.Close()

	require.NoError(t, <-result)
	assert.True(t, mainSeen.Load())
	assert.False(t, l.Post(func() {}), "closed looper rejects posts")
}

func TestWorkerPool(t *testing.T) {
	p := NewWorkerPool(3, 8)
	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		p.Execute(func() {
			defer wg.Done()
			n.Add(1)
		})
	}
	wg.Wait()
	p.Close()
	assert.Equal(t, int32(20), n.Load())
}

func TestManualExecutor(t *testing.T) {
	l := NewLooper()
	l.Bind()
	m := &ManualExecutor{}

	var onMain []bool
	m.Execute(func() { onMain = append(onMain, l.IsMain()) })
	m.Execute(func() {
		onMain = append(onMain, l.IsMain())
		m.Execute(func() { onMain = append(onMain, l.IsMain()) })
	})
	assert.Equal(t, 2, m.Pending())

	assert.Equal(t, 3, m.RunAll())
	assert.Equal(t, []bool{false, false, false}, onMain, "tasks never run on the main goroutine")
	assert.False(t, m.RunNext())

	<-m.Start()
}
