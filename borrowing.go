package nblfq

import (
	"iter"
	"unsafe"
)

// BorrowingQueue is a bounded lock-free MPMC queue of pointers whose
// memory the queue never owns: the caller guarantees every pointer
// pushed outlives the queue itself (the Go analogue of a borrow with a
// lifetime at least as long as the queue's). No allocation happens on
// the push path.
type BorrowingQueue[T any] struct {
	r *ring
}

// NewBorrowingQueue constructs a queue with the given capacity. Panics
// if capacity is not positive.
func NewBorrowingQueue[T any](capacity int) *BorrowingQueue[T] {
	return &BorrowingQueue[T]{r: newRing(capacity)}
}

// Push inserts v, returning ErrFull if the ring has no empty slot. v
// must not be nil.
func (q *BorrowingQueue[T]) Push(v *T) error {
	return q.r.push(unsafe.Pointer(v))
}

// ForcePush is Push, except a full ring is resolved by overwriting the
// oldest slot instead of failing. Reports the displaced pointer, if
// any. Not linearizable with a concurrent Pop; see (*ring).forcePush.
func (q *BorrowingQueue[T]) ForcePush(v *T) (displaced *T, ok bool) {
	dp, displacedOK := q.r.forcePush(unsafe.Pointer(v))
	if !displacedOK {
		return nil, false
	}
	return (*T)(dp), true
}

// Pop removes and returns the oldest pointer, or reports false if the
// queue is empty.
func (q *BorrowingQueue[T]) Pop() (*T, bool) {
	ptr, ok := q.r.pop()
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

func (q *BorrowingQueue[T]) Len() int      { return q.r.length() }
func (q *BorrowingQueue[T]) Cap() int      { return q.r.cap() }
func (q *BorrowingQueue[T]) IsEmpty() bool { return q.r.isEmpty() }
func (q *BorrowingQueue[T]) IsFull() bool  { return q.r.isFull() }

// Drain returns a finite, non-restartable iterator over every pointer
// still in the queue at the time it is called, popping as it goes.
func (q *BorrowingQueue[T]) Drain() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for {
			ptr, ok := q.r.pop()
			if !ok {
				return
			}
			if !yield((*T)(ptr)) {
				return
			}
		}
	}
}
