package event

import (
	"math/bits"
	"sync/atomic"
)

// DefaultQueueSize is used when NewQueue is given a non-positive size
const DefaultQueueSize = 256

// Queue is a lock-free MPSC ring buffer carrying events from producer goroutines to the game loop
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Consume: Single consumer (game loop)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full
type Queue[T any] struct {
	events    []T
	published []atomic.Bool // True = slot fully written
	mask      uint64
	head      atomic.Uint64 // Read index
	tail      atomic.Uint64 // Write index
	dropped   atomic.Uint64
}

// NewQueue creates a queue whose capacity is size rounded up to a power of two
func NewQueue[T any](size int) *Queue[T] {
	if size <= 0 {
		size = DefaultQueueSize
	}
	capacity := uint64(1) << bits.Len64(uint64(size-1))
	return &Queue[T]{
		events:    make([]T, capacity),
		published: make([]atomic.Bool, capacity),
		mask:      capacity - 1,
	}
}

// Cap returns the ring capacity
func (q *Queue[T]) Cap() int {
	return len(q.events)
}

// Push adds event using lock-free CAS with published flags pattern
// Safe for concurrent producers. O(1) amortized
func (q *Queue[T]) Push(ev T) {
	size := uint64(len(q.events))
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & q.mask

			q.events[idx] = ev
			q.published[idx].Store(true) // MUST be after write

			// Advance head if overwriting unread events
			currentHead := q.head.Load()
			if nextTail-currentHead > size {
				if q.head.CompareAndSwap(currentHead, nextTail-size) {
					q.dropped.Add(1)
				}
			}
			return
		}
	}
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer design (game loop). Checks published flags for safety
func (q *Queue[T]) Consume() []T {
	size := uint64(len(q.events))
	var zero T
	for {
		currentHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > size {
			maxAvailable = size
			currentHead = currentTail - size
		}

		result := make([]T, 0, maxAvailable)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & q.mask

			if !q.published[idx].Load() {
				break // Writer incomplete
			}

			result = append(result, q.events[idx])
			q.events[idx] = zero
			q.published[idx].Store(false)
		}

		newHead := currentHead + uint64(len(result))
		if q.head.CompareAndSwap(currentHead, newHead) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns approximate pending event count
// Lock-free; used for pre-lock heuristics
func (q *Queue[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > len(q.events) {
		return len(q.events)
	}
	return diff
}

// Dropped returns how many unread events were overwritten
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}
