// Package nblfq provides a bounded, lock-free, multi-producer /
// multi-consumer FIFO queue over a fixed-size circular array.
//
// Each slot packs an item pointer and a lap counter into a single
// atomic word, updated by one compare-and-swap per push or pop. The
// counter disambiguates reuse of the same physical slot across laps
// around the ring, giving FIFO linearizability without a lock and
// without the ABA hazard that plagues naive array queues.
//
// # Quick start
//
//	q := nblfq.NewOwningQueue[int](1024)
//	if err := q.Push(42); err != nil {
//	    // queue full
//	}
//	v, ok := q.Pop()
//
// # Queue shapes
//
// Two shapes share the same lock-free core:
//
//	OwningQueue[T]    - takes ownership of pushed values; push boxes a
//	                    copy, pop hands it back and lets the GC reclaim
//	                    the backing allocation
//	BorrowingQueue[T] - stores caller-owned pointers without allocating;
//	                    the caller guarantees each pointer outlives the
//	                    queue
//
// # Thread safety
//
// Both shapes may be shared across any number of producer and consumer
// goroutines. Push, Pop and ForcePush never block and are lock-free:
// among concurrent operations at least one completes in a bounded
// number of steps, while an operation that loses a compare-and-swap
// retries internally, with no bound on the number of retries.
//
// ForcePush is not linearizable with a concurrent Pop on the same
// slot: it may race a pop and either displace the item the pop was
// about to take, or lose the CAS and retry.
//
// # Observational methods
//
// Len, IsEmpty and IsFull read the head/tail hints and, when they
// agree, sample one slot. The result is best-effort and may be stale
// by the time the caller observes it — use them for diagnostics, never
// to gate correctness decisions.
//
// # Slot encoding
//
// The default build packs a 16-bit counter and a 48-bit pointer into a
// single 64-bit word, relying on the canonical-address convention of
// x86_64 and AArch64. Build with the nblfq_dword tag to switch to a
// portable 128-bit (counter, pointer) pair with no pointer-bit
// assumptions, at the cost of requiring hardware (or emulated) 128-bit
// compare-and-swap.
package nblfq
