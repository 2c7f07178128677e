package core

import (
	"time"

	"github.com/google/uuid"
)

// Task is one unit of work for the worker loop. It is immutable once enqueued.
type Task struct {
	ID uuid.UUID
	// Seq is the enqueue position, used to reassemble results when several workers
	// share the queue.
	Seq       uint64
	Source    string
	Operation string
	Enqueued  time.Time
}
