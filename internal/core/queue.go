// Unbounded FIFO task queue feeding the worker loop
package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TaskQueue is an unbounded FIFO. Enqueue never blocks; Dequeue blocks until a task is
// available or the queue is shut down.
type TaskQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []Task
	nextSeq uint64
	closed  bool
	sealed  bool
	logger  *logrus.Logger
}

func NewTaskQueue(logger *logrus.Logger) *TaskQueue {
	q := &TaskQueue{logger: logger}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a task for source and operation and returns it. After Shutdown the
// task is discarded with a warning.
func (q *TaskQueue) Enqueue(source, operation string) Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	task := Task{
		ID:        uuid.New(),
		Seq:       q.nextSeq,
		Source:    source,
		Operation: operation,
		Enqueued:  time.Now(),
	}
	q.nextSeq++

	fields := logrus.Fields{
		"task_id":   task.ID,
		"source":    source,
		"operation": operation,
	}

	if q.closed || q.sealed {
		q.logger.WithFields(fields).Warn("QUEUE: Enqueue after shutdown, task discarded")
		return task
	}

	q.items = append(q.items, task)
	q.logger.WithFields(fields).WithField("pending", len(q.items)).Debug("QUEUE: Task enqueued")
	q.cond.Signal()

	return task
}

// Dequeue blocks until a task is available. It returns false once the queue has been
// shut down, or once it is sealed and empty.
func (q *TaskQueue) Dequeue() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed && !q.sealed {
		q.cond.Wait()
	}

	if q.closed || len(q.items) == 0 {
		return Task{}, false
	}

	task := q.items[0]
	q.items[0] = Task{}
	q.items = q.items[1:]

	return task, true
}

// Shutdown discards every pending task and releases all blocked Dequeue calls. It
// returns the number of discarded tasks and is safe to call more than once.
func (q *TaskQueue) Shutdown() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0
	}

	dropped := len(q.items)
	q.items = nil
	q.closed = true
	q.cond.Broadcast()

	q.logger.WithField("discarded", dropped).Info("QUEUE: Shut down")
	return dropped
}

// Seal stops accepting tasks but lets the pending ones be dequeued. Consumers are
// released once the queue runs empty.
func (q *TaskQueue) Seal() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed || q.closed {
		return
	}
	q.sealed = true
	q.cond.Broadcast()

	q.logger.WithField("pending", len(q.items)).Debug("QUEUE: Sealed")
}

func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether the queue no longer accepts tasks.
func (q *TaskQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed || q.sealed
}
