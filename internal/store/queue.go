package store

import (
	"context"
	"log"
	"sync"
)

// UpdateQueue serializes read-modify-write cycles against the shared KV:
// at most one operation in flight, processed in arrival order. A failed
// operation is logged and dropped — the queue itself never halts.
type UpdateQueue struct {
	ops      chan queuedOp
	done     chan struct{}
	finished chan struct{}
	logger   *log.Logger

	closeOnce sync.Once
}

type queuedOp struct {
	name string
	fn   func(context.Context) error
}

// NewUpdateQueue starts the single consumer. depth bounds how many
// operations may wait; senders block when it is full rather than
// interleave.
func NewUpdateQueue(depth int, logger *log.Logger) *UpdateQueue {
	if depth <= 0 {
		depth = 64
	}
	if logger == nil {
		logger = log.Default()
	}
	q := &UpdateQueue{
		ops:      make(chan queuedOp, depth),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		logger:   logger,
	}
	go q.run()
	return q
}

// Enqueue submits an operation. Returns false once the queue is closed.
func (q *UpdateQueue) Enqueue(name string, fn func(context.Context) error) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ops <- queuedOp{name: name, fn: fn}:
		return true
	case <-q.done:
		return false
	}
}

// Close stops accepting work, drains what was already queued in order,
// and waits for the consumer to finish.
func (q *UpdateQueue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
	<-q.finished
}

func (q *UpdateQueue) run() {
	defer close(q.finished)
	for {
		select {
		case op := <-q.ops:
			q.exec(op)
		case <-q.done:
			for {
				select {
				case op := <-q.ops:
					q.exec(op)
				default:
					return
				}
			}
		}
	}
}

func (q *UpdateQueue) exec(op queuedOp) {
	if err := op.fn(context.Background()); err != nil {
		q.logger.Printf("update %s failed: %v", op.name, err)
	}
}
