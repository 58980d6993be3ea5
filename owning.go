package nblfq

import (
	"iter"
	"unsafe"
)

// OwningQueue is a bounded lock-free MPMC queue that takes ownership of
// the values pushed into it. Each push heap-allocates a single *T and
// hands the ring its address; each pop hands the value back by copy
// and lets the backing allocation become ordinary garbage once no slot
// references it anymore.
type OwningQueue[T any] struct {
	r *ring
}

// NewOwningQueue constructs a queue with the given capacity. Panics if
// capacity is not positive.
func NewOwningQueue[T any](capacity int) *OwningQueue[T] {
	return &OwningQueue[T]{r: newRing(capacity)}
}

// Push inserts v, returning ErrFull if the ring has no empty slot. The
// caller retains its own copy of v regardless of the outcome.
func (q *OwningQueue[T]) Push(v T) error {
	p := new(T)
	*p = v
	return q.r.push(unsafe.Pointer(p))
}

// ForcePush is Push, except a full ring is resolved by overwriting the
// oldest slot instead of failing. Reports the displaced value, if any.
// Not linearizable with a concurrent Pop; see (*ring).forcePush.
func (q *OwningQueue[T]) ForcePush(v T) (displaced T, ok bool) {
	p := new(T)
	*p = v
	dp, displacedOK := q.r.forcePush(unsafe.Pointer(p))
	if !displacedOK {
		return displaced, false
	}
	return *(*T)(dp), true
}

// Pop removes and returns the oldest value, or reports false if the
// queue is empty.
func (q *OwningQueue[T]) Pop() (value T, ok bool) {
	ptr, popped := q.r.pop()
	if !popped {
		return value, false
	}
	return *(*T)(ptr), true
}

func (q *OwningQueue[T]) Len() int      { return q.r.length() }
func (q *OwningQueue[T]) Cap() int      { return q.r.cap() }
func (q *OwningQueue[T]) IsEmpty() bool { return q.r.isEmpty() }
func (q *OwningQueue[T]) IsFull() bool  { return q.r.isFull() }

// Drain returns a finite, non-restartable iterator over every item
// still in the queue at the time it is called, popping as it goes.
// Meant for shutdown, once the caller has ensured no further pushes
// will occur.
func (q *OwningQueue[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			ptr, ok := q.r.pop()
			if !ok {
				return
			}
			if !yield(*(*T)(ptr)) {
				return
			}
		}
	}
}
