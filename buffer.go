package nblfq

import (
	"sync/atomic"
	"unsafe"
)

// ringBuffer is a fixed-length, heap-allocated array of slot cells. Both
// public queue shapes (owning and borrowing) share the same buffer
// implementation: Go has no const-generic array length, so the source
// library's compile-time-sized buffer provider has no faithful analogue
// here. A runtime-sized slice, allocated once at construction and never
// resized, plays both roles.
//
// pins shadows each slot with a GC-visible unsafe.Pointer. A slotCell's
// payload lives only as a masked bit pattern inside an atomix.Uint64 or
// Uint128, which the garbage collector does not scan as a pointer, so
// without pins an item could be collected while still logically queued.
// Every write that publishes a new occupant to a slot also stores into
// the matching pins entry right after its CAS succeeds, keeping the referenced value reachable
// for as long as it might still be resident.
type ringBuffer struct {
	slots []slotCell
	pins  []unsafe.Pointer
}

func newRingBuffer(n int) *ringBuffer {
	return &ringBuffer{slots: make([]slotCell, n), pins: make([]unsafe.Pointer, n)}
}

func (b *ringBuffer) length() int {
	return len(b.slots)
}

func (b *ringBuffer) at(i int) *slotCell {
	return &b.slots[i]
}

// pin records v as the current occupant of slot i for garbage-collector
// visibility. Called only by the winner, after the CAS that publishes v
// to slot i has succeeded.
func (b *ringBuffer) pin(i int, v unsafe.Pointer) {
	atomic.StorePointer(&b.pins[i], v)
}

// unpin clears slot i's GC-visible reference once it is known empty.
func (b *ringBuffer) unpin(i int) {
	atomic.StorePointer(&b.pins[i], nil)
}
