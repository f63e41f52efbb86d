// Package queue provides an unbounded blocking FIFO with removal by value.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tiendc/go-deepcopy"
)

var ErrClosed = errors.New("queue closed")

// Queue is safe for any number of producers. Dequeue is meant for a single
// consumer but stays correct with more.
type Queue[T comparable] struct {
	mu     sync.Mutex
	items  []T
	closed bool

	notify chan struct{} // holds at most one pending wake-up
	done   chan struct{} // closed by Close
}

func New[T comparable]() *Queue[T] {
	return &Queue[T]{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Enqueue appends v and never blocks. It returns false if the queue is closed.
func (q *Queue[T]) Enqueue(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	q.wake()
	return true
}

// Dequeue blocks until an element is available and returns it removed from
// the queue. It returns ctx.Err() on cancellation, even with elements
// pending, and ErrClosed once the queue is closed and empty.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			more := len(q.items) > 0
			q.mu.Unlock()
			if more {
				q.wake()
			}
			return v, nil
		}
		if q.closed {
			q.mu.Unlock()
			return zero, ErrClosed
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.done:
		case <-q.notify:
		}
	}
}

// Remove deletes the first element equal to v. It reports whether one was found.
func (q *Queue[T]) Remove(v T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, item := range q.items {
		if item == v {
			copy(q.items[i:], q.items[i+1:])
			var zero T
			q.items[len(q.items)-1] = zero
			q.items = q.items[:len(q.items)-1]
			return true
		}
	}
	return false
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Snapshot returns a copy of the pending elements in FIFO order.
func (q *Queue[T]) Snapshot() ([]T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []T
	if err := deepcopy.Copy(&out, q.items); err != nil {
		return nil, fmt.Errorf("error copying queue: %w", err)
	}
	return out, nil
}

// Close wakes every waiter. Elements already queued can still be dequeued.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *Queue[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
