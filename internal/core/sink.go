// Result delivery from the worker loop to its consumer
package core

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// Result is a processed image tagged with the task that produced it. The receiver owns
// Image and must Close it.
type Result struct {
	Task    Task
	Image   gocv.Mat
	Metrics map[string]float64
	Elapsed time.Duration
}

func (r Result) Close() error {
	return r.Image.Close()
}

// Sink receives results from the worker loop.
type Sink interface {
	Deliver(Result)
}

// SinkFunc delivers synchronously on the worker goroutine.
type SinkFunc func(Result)

func (f SinkFunc) Deliver(r Result) {
	f(r)
}

// Dispatcher runs fn on the goroutine that owns display state, e.g. fyne.Do.
type Dispatcher func(fn func())

// AsyncSink hands results across goroutines. Deliver only queues the result; Run, called
// on the consuming side, pulls results and invokes the handler through the dispatcher.
type AsyncSink struct {
	mu       sync.RWMutex
	closed   bool
	results  chan Result
	done     chan struct{}
	handler  func(Result)
	dispatch Dispatcher
	logger   *logrus.Logger
}

// NewAsyncSink creates a sink with room for buffer undelivered results. A nil dispatch
// calls handler directly on the Run goroutine.
func NewAsyncSink(handler func(Result), dispatch Dispatcher, buffer int, logger *logrus.Logger) *AsyncSink {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &AsyncSink{
		results:  make(chan Result, buffer),
		done:     make(chan struct{}),
		handler:  handler,
		dispatch: dispatch,
		logger:   logger,
	}
}

// Deliver queues r. After Close, or once Run has returned, results are released and
// dropped.
func (s *AsyncSink) Deliver(r Result) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.drop(r, "SINK: Sink closed, result dropped")
		return
	}

	select {
	case s.results <- r:
	case <-s.done:
		s.drop(r, "SINK: Consumer gone, result dropped")
	}
}

// Close stops accepting results. Run hands over whatever is already queued, then returns.
func (s *AsyncSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.results)
	}
}

// Run consumes results until the sink is closed or ctx is cancelled. Results still
// queued on cancellation are released without being handled.
func (s *AsyncSink) Run(ctx context.Context) {
	defer s.drain()

	for {
		select {
		case r, ok := <-s.results:
			if !ok {
				return
			}
			s.dispatch(func() {
				s.handler(r)
			})
		case <-ctx.Done():
			s.logger.Debug("SINK: Stopping result consumer")
			return
		}
	}
}

func (s *AsyncSink) drain() {
	close(s.done)

	// blocked senders leave through done; once they release the read lock no new
	// result can reach the buffer
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	for {
		select {
		case r, ok := <-s.results:
			if !ok {
				return
			}
			r.Close()
		default:
			return
		}
	}
}

func (s *AsyncSink) drop(r Result, msg string) {
	s.logger.WithField("task_id", r.Task.ID).Debug(msg)
	r.Close()
}
