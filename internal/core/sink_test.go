package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"
)

func TestSinkFuncIsSynchronous(t *testing.T) {
	var got []uint64
	sink := SinkFunc(func(r Result) { got = append(got, r.Task.Seq) })

	sink.Deliver(Result{Task: Task{Seq: 7}, Image: gocv.NewMat()})
	assert.Equal(t, []uint64{7}, got)
}

func TestAsyncSinkDispatchesOnConsumer(t *testing.T) {
	logger, _ := test.NewNullLogger()

	var (
		mu         sync.Mutex
		handled    []uint64
		dispatched int
	)
	dispatch := func(fn func()) {
		mu.Lock()
		dispatched++
		mu.Unlock()
		fn()
	}
	sink := NewAsyncSink(func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, r.Task.Seq)
		r.Close()
	}, dispatch, 4, logger)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		sink.Run(ctx)
		close(stopped)
	}()

	for i := uint64(0); i < 3; i++ {
		sink.Deliver(Result{Task: Task{Seq: i}, Image: gocv.NewMat()})
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(handled) == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-stopped

	mu.Lock()
	assert.Equal(t, []uint64{0, 1, 2}, handled)
	assert.Equal(t, 3, dispatched)
	mu.Unlock()

	// consumer gone: delivery must not block
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			sink.Deliver(Result{Task: Task{Seq: 99}, Image: gocv.NewMat()})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("deliver blocked after consumer stopped")
	}
}

func TestAsyncSinkCloseHandsOverQueued(t *testing.T) {
	logger, _ := test.NewNullLogger()

	var handled []uint64
	sink := NewAsyncSink(func(r Result) {
		handled = append(handled, r.Task.Seq)
		r.Close()
	}, nil, 4, logger)

	for i := uint64(0); i < 3; i++ {
		sink.Deliver(Result{Task: Task{Seq: i}, Image: gocv.NewMat()})
	}
	sink.Close()
	sink.Close()
	sink.Deliver(Result{Task: Task{Seq: 3}, Image: gocv.NewMat()})

	sink.Run(context.Background())
	assert.Equal(t, []uint64{0, 1, 2}, handled)
}

func TestAsyncSinkReleasesResultsAfterConsumerStops(t *testing.T) {
	logger, _ := test.NewNullLogger()

	sink := NewAsyncSink(func(r Result) { r.Close() }, nil, 4, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Run(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(seq uint64) {
			defer wg.Done()
			sink.Deliver(Result{Task: Task{Seq: seq}, Image: gocv.NewMat()})
		}(uint64(i))
	}
	wg.Wait()

	assert.Len(t, sink.results, 0)
}
