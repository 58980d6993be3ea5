package nblfq

import "code.hybscloud.com/spin"

// forcePushBackoff is the throughput hint ForcePush uses while retrying
// its overwrite CAS: exponential spin-backoff starting at one spin
// iteration and doubling up to a cap of 1024. It never affects
// correctness, only how quickly a retry loop yields the core to a
// racing producer or consumer.
type forcePushBackoff struct {
	spins uint32
}

const forcePushBackoffCap = 1024

func (b *forcePushBackoff) wait() {
	if b.spins == 0 {
		b.spins = 1
	}
	var sw spin.Wait
	for i := uint32(0); i < b.spins; i++ {
		sw.Once()
	}
	if b.spins < forcePushBackoffCap {
		b.spins *= 2
	}
}
