package nblfq

// prevIndex returns the slot index that immediately precedes i on a ring
// of size n, wrapping around zero.
func prevIndex(i, n int) int {
	return (i + n - 1) % n
}

// before reports whether slot i, last written with counter ci, logically
// precedes slot j, last written with counter cj, in FIFO order.
//
// Same-lap slots are ordered by index. Slots from different laps are
// ordered by comparing counters modulo the encoding's counter width,
// using a half-window: the counter that is "just behind" the other one
// (within half the counter space) is the one that comes first. This
// keeps the predicate monotone across the wraparound of the counter.
func before(i int, ci uint64, j int, cj uint64) bool {
	if ci == cj {
		return i < j
	}
	half := (counterMask >> 1) + 1
	diff := (cj - ci) & counterMask
	return diff < half
}
