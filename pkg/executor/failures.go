package executor

import (
	"slices"
	"sync/atomic"
)

// FailureQueue collects the identifiers of failed items. Push never blocks
// or takes a lock; it is safe to call from any number of workers.
type FailureQueue struct {
	head atomic.Pointer[failure]
	n    atomic.Int64
}

type failure struct {
	id   string
	next *failure
}

// NewFailureQueue creates an empty queue.
func NewFailureQueue() *FailureQueue {
	return &FailureQueue{}
}

// Push appends id.
func (q *FailureQueue) Push(id string) {
	node := &failure{id: id}
	for {
		old := q.head.Load()
		node.next = old
		if q.head.CompareAndSwap(old, node) {
			q.n.Add(1)
			return
		}
	}
}

// Len returns the number of queued identifiers. Under concurrent pushes the
// value may briefly trail the queue contents.
func (q *FailureQueue) Len() int {
	return int(max(q.n.Load(), 0))
}

// Drain removes and returns every identifier in push order.
func (q *FailureQueue) Drain() []string {
	node := q.head.Swap(nil)
	var ids []string
	for ; node != nil; node = node.next {
		ids = append(ids, node.id)
	}
	q.n.Add(-int64(len(ids)))
	slices.Reverse(ids)
	return ids
}
