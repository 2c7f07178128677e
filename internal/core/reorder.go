package core

import "sync"

// Reorderer restores enqueue order for results produced by several workers. Every
// sequence number must be reported exactly once, either through Add or Skip.
type Reorderer struct {
	mu      sync.Mutex
	next    uint64
	pending map[uint64]*Result
	sink    Sink
}

func NewReorderer(sink Sink) *Reorderer {
	return &Reorderer{
		pending: make(map[uint64]*Result),
		sink:    sink,
	}
}

func (ro *Reorderer) Add(r Result) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	ro.pending[r.Task.Seq] = &r
	ro.flush()
}

// Skip marks seq as finished without a result.
func (ro *Reorderer) Skip(seq uint64) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	ro.pending[seq] = nil
	ro.flush()
}

// Pending reports how many finished tasks are waiting on an earlier one.
func (ro *Reorderer) Pending() int {
	ro.mu.Lock()
	defer ro.mu.Unlock()
	return len(ro.pending)
}

func (ro *Reorderer) flush() {
	for {
		r, ok := ro.pending[ro.next]
		if !ok {
			return
		}
		delete(ro.pending, ro.next)
		ro.next++
		if r != nil {
			ro.sink.Deliver(*r)
		}
	}
}
