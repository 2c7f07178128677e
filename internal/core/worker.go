// Background worker loop draining the task queue
package core

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Pool runs the worker loop on one or more goroutines sharing a single queue. With one
// worker, tasks are processed strictly one at a time in FIFO order. With more, results
// are reassembled into enqueue order before they reach the sink.
type Pool struct {
	queue     *TaskQueue
	processor *Processor
	sink      Sink
	reorder   *Reorderer
	logger    *logrus.Logger

	workers   int
	onFailure func(Task, error)

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	dropped   int
}

type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines. Values below one are ignored.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.workers = n
		}
	}
}

// WithFailureHandler registers fn to observe dropped tasks. It runs on a worker goroutine.
func WithFailureHandler(fn func(Task, error)) PoolOption {
	return func(p *Pool) {
		p.onFailure = fn
	}
}

func NewPool(queue *TaskQueue, processor *Processor, sink Sink, logger *logrus.Logger, opts ...PoolOption) *Pool {
	p := &Pool{
		queue:     queue,
		processor: processor,
		sink:      sink,
		logger:    logger,
		workers:   1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers > 1 {
		p.reorder = NewReorderer(sink)
	}
	return p
}

func (p *Pool) Start() {
	p.startOnce.Do(func() {
		p.logger.WithField("workers", p.workers).Info("WORKER: Starting")
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.run(i)
		}
	})
}

// Stop shuts the queue down, discarding pending tasks, and waits for in-flight tasks
// to finish. It returns the number of discarded tasks.
func (p *Pool) Stop() int {
	p.stopOnce.Do(func() {
		p.dropped = p.queue.Shutdown()
		p.wg.Wait()
		p.logger.WithField("discarded", p.dropped).Info("WORKER: Stopped")
	})
	return p.dropped
}

// Drain lets the workers finish every queued task, then waits for them to exit.
func (p *Pool) Drain() {
	p.queue.Seal()
	p.wg.Wait()
}

func (p *Pool) run(id int) {
	defer p.wg.Done()

	for {
		task, ok := p.queue.Dequeue()
		if !ok {
			p.logger.WithField("worker", id).Debug("WORKER: Queue closed, exiting")
			return
		}

		fields := logrus.Fields{
			"worker":    id,
			"task_id":   task.ID,
			"source":    task.Source,
			"operation": task.Operation,
		}
		p.logger.WithFields(fields).Debug("WORKER: Processing task")

		result, err := p.processor.Process(task)
		if err != nil {
			p.logger.WithFields(fields).WithError(err).Warn("WORKER: Task dropped")
			if p.onFailure != nil {
				p.onFailure(task, err)
			}
			if p.reorder != nil {
				p.reorder.Skip(task.Seq)
			}
			continue
		}

		if p.reorder != nil {
			p.reorder.Add(result)
			p.logger.WithFields(fields).WithField("held", p.reorder.Pending()).Debug("WORKER: Result handed to reorderer")
		} else {
			p.sink.Deliver(result)
		}
	}
}
