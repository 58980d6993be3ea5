//go:build nblfq_dword

package nblfq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// Portable fallback slot encoding: a 128-bit atomic entry storing the
// counter and the pointer side by side, lo=counter hi=pointer (the same
// entry layout convention this ecosystem's other 128-bit-packed queues
// use). Carries no assumption about canonical pointer bits, at the cost
// of needing CMPXCHG16B-class hardware support (or its emulation).
//
// counterMask spans the full 64 bits, so the wrap arithmetic in
// order.go and ring.go gets correct mod-2^64 behaviour for free from
// unsigned integer overflow.
const counterMask = ^uint64(0)

type slotCell struct {
	entry atomix.Uint128
}

func (s *slotCell) components() (uint64, unsafe.Pointer) {
	counter, ptr := s.entry.LoadAcquire()
	return counter, unsafe.Pointer(uintptr(ptr))
}

func (s *slotCell) cas(oldCounter uint64, oldPtr unsafe.Pointer, newCounter uint64, newPtr unsafe.Pointer) bool {
	return s.entry.CompareAndSwapAcqRel(oldCounter, uint64(uintptr(oldPtr)), newCounter, uint64(uintptr(newPtr)))
}
