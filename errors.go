package nblfq

import "errors"

// ErrFull is returned by Push when the ring has no empty slot. The
// value is not stored and is never discarded: the caller still holds it.
var ErrFull = errors.New("nblfq: ring buffer is full")
