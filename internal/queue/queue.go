// Package queue provides the bounded FIFO used for the station notice log.
package queue

// Ring is a bounded FIFO. Pushing into a full ring drops the oldest item.
//
// Ring is not safe for concurrent use.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

// NewRing creates a ring holding at most capacity items. A capacity below one
// is raised to one.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends item at the tail. It returns the evicted item and true when the
// ring was full.
func (r *Ring[T]) Push(item T) (T, bool) {
	var evicted T

	if r.size == len(r.items) {
		evicted = r.items[r.head]
		r.items[r.head] = item
		r.head = (r.head + 1) % len(r.items)

		return evicted, true
	}

	r.items[(r.head+r.size)%len(r.items)] = item
	r.size++

	return evicted, false
}

// Pop removes and returns the item at the head.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	item := r.items[r.head]
	r.items[r.head] = zero
	r.head = (r.head + 1) % len(r.items)
	r.size--

	return item, true
}

// Items returns a copy of the items, oldest first.
func (r *Ring[T]) Items() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}

	return out
}

// Reset empties the ring.
func (r *Ring[T]) Reset() {
	clear(r.items)
	r.head = 0
	r.size = 0
}

func (r *Ring[T]) IsEmpty() bool { return r.size == 0 }

func (r *Ring[T]) IsFull() bool { return r.size == len(r.items) }

func (r *Ring[T]) Len() int { return r.size }

func (r *Ring[T]) Cap() int { return len(r.items) }
