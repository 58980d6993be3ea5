package nblfq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// ring is the pointer-level queue core: a fixed-size array of slot
// cells plus two advisory indices. The indices are hints only — the
// true head/tail live entirely in the (counter, pointer) pairs stored
// in the slots themselves, read and committed with a single CAS per
// operation. Callers never see a *ring directly; OwningQueue and
// BorrowingQueue translate caller values into pointers at the boundary.
type ring struct {
	_        [64]byte
	head     atomix.Uint64
	_        [64]byte
	tail     atomix.Uint64
	_        [64]byte
	buf      *ringBuffer
	capacity int
}

func newRing(n int) *ring {
	if n <= 0 {
		panic("nblfq: capacity must be greater than zero")
	}
	return &ring{buf: newRingBuffer(n), capacity: n}
}

// push inserts item, returning ErrFull (and keeping item untouched by
// the caller) if the ring has no empty slot.
func (r *ring) push(item unsafe.Pointer) error {
	if item == nil {
		panic("nblfq: push of a nil item")
	}

	head := int(r.head.LoadAcquire())
	for {
		var count uint64
		var prevPtr unsafe.Pointer

		for {
			prevIdx := prevIndex(head, r.capacity)
			cur := r.buf.at(head)
			prv := r.buf.at(prevIdx)
			prevCount, pPtr := prv.components()
			curCount, curPtr := cur.components()

			if pPtr != nil && curPtr == nil {
				count, prevPtr = prevCount, pPtr
				break
			}
			if !before(prevIdx, prevCount, head, curCount) {
				if pPtr == nil && curPtr == nil {
					count, prevPtr = prevCount, pPtr
					break
				}
				if pPtr != nil && curPtr != nil {
					return ErrFull
				}
			}
			head = (head + 1) % r.capacity
		}

		newCounter := count
		if prevPtr == nil {
			newCounter = (newCounter - 1) & counterMask
		}
		if head == 0 {
			newCounter = (newCounter + 1) & counterMask
		}

		if r.buf.at(head).cas(newCounter, nil, newCounter, item) {
			r.buf.pin(head, item)
			r.head.StoreRelease(uint64((head + 1) % r.capacity))
			return nil
		}
		// CAS lost the race: restart the search from the current head hint.
	}
}

// forcePush is push, except a full ring is resolved by overwriting the
// slot at head rather than failing. Not linearizable with a concurrent
// pop targeting the same slot: it may win and displace the item a pop
// was about to take, or lose the CAS and retry.
func (r *ring) forcePush(item unsafe.Pointer) (displaced unsafe.Pointer, ok bool) {
	if item == nil {
		panic("nblfq: push of a nil item")
	}

	var bo forcePushBackoff
	head := int(r.head.LoadAcquire())
	for {
		var count uint64
		var prevPtr unsafe.Pointer
		accepted := false

		for {
			prevIdx := prevIndex(head, r.capacity)
			cur := r.buf.at(head)
			prv := r.buf.at(prevIdx)
			prevCount, pPtr := prv.components()
			curCount, curPtr := cur.components()

			if pPtr != nil && curPtr == nil {
				count, prevPtr = prevCount, pPtr
				accepted = true
				break
			}
			if !before(prevIdx, prevCount, head, curCount) {
				if pPtr == nil && curPtr == nil {
					count, prevPtr = prevCount, pPtr
					accepted = true
					break
				}
				if pPtr != nil && curPtr != nil {
					wrapCounter := curCount
					if head == 0 {
						wrapCounter = (wrapCounter + 1) & counterMask
					}
					if cur.cas(curCount, curPtr, wrapCounter, item) {
						r.buf.pin(head, item)
						return curPtr, true
					}
					bo.wait()
					break
				}
			}
			head = (head + 1) % r.capacity
		}

		if !accepted {
			continue
		}

		newCounter := count
		if prevPtr == nil {
			newCounter = (newCounter - 1) & counterMask
		}
		if head == 0 {
			newCounter = (newCounter + 1) & counterMask
		}

		if r.buf.at(head).cas(newCounter, nil, newCounter, item) {
			r.buf.pin(head, item)
			r.head.StoreRelease(uint64((head + 1) % r.capacity))
			return nil, false
		}
	}
}

// pop removes and returns the oldest item, or reports false if the
// ring is empty at the moment of its last acceptance check.
func (r *ring) pop() (unsafe.Pointer, bool) {
	for {
		tail := int(r.tail.LoadAcquire())
		prevIdx := prevIndex(tail, r.capacity)
		prv := r.buf.at(prevIdx)
		cur := r.buf.at(tail)
		prevCount, prevPtr := prv.components()
		curCount, curPtr := cur.components()

		for before(prevIdx, prevCount, tail, curCount) {
			tail = (tail + 1) % r.capacity
			prevIdx = prevIndex(tail, r.capacity)
			cur = r.buf.at(tail)
			prevCount, prevPtr = curCount, curPtr
			curCount, curPtr = cur.components()
		}

		if prevPtr == nil && curPtr == nil {
			return nil, false
		}

		nextCounter := (curCount + 1) & counterMask
		if cur.cas(curCount, curPtr, nextCounter, nil) {
			r.tail.StoreRelease(uint64((tail + 1) % r.capacity))
			r.buf.unpin(tail)
			return curPtr, true
		}
		// CAS lost the race: reload tail and restart.
	}
}

// length, isEmpty and isFull are best-effort: they never gate
// correctness decisions, only diagnostics.
func (r *ring) length() int {
	head := int(r.head.LoadAcquire())
	tail := int(r.tail.LoadAcquire())
	if head != tail {
		return ((head-tail)%r.capacity + r.capacity) % r.capacity
	}
	_, ptr := r.buf.at(head).components()
	if ptr == nil {
		return 0
	}
	return r.capacity
}

func (r *ring) isEmpty() bool { return r.length() == 0 }
func (r *ring) isFull() bool  { return r.length() == r.capacity }
func (r *ring) cap() int      { return r.capacity }

// drain pops every remaining item. Not safe to call concurrently with
// producers still pushing: it is meant for shutdown, when the caller
// has already ensured no further pushes will occur.
func (r *ring) drain() []unsafe.Pointer {
	var out []unsafe.Pointer
	for {
		ptr, ok := r.pop()
		if !ok {
			return out
		}
		out = append(out, ptr)
	}
}
