package nblfq

import (
	"sync"
	"sync/atomic"
	"testing"

	gocheck "gopkg.in/check.v1"
)

// Hook gocheck into `go test`, alongside the package's plain testing.T
// tests. The two frameworks coexist in this package the same way the
// pack's own lock-free ring buffer work does: gocheck for table-style
// concurrent assertions, stdlib testing for everything else.
func TestGocheck(t *testing.T) { gocheck.TestingT(t) }

type ConcurrencySuite struct{}

var _ = gocheck.Suite(&ConcurrencySuite{})

// TestSPSC pushes M sequential values from one goroutine and pops them
// from another, and asserts the popped sequence equals the pushed one
// exactly (strict FIFO under a single producer and single consumer).
func (s *ConcurrencySuite) TestSPSC(c *gocheck.C) {
	const capacity = 3
	const m = 100000

	q := NewOwningQueue[int](capacity)
	popped := make([]int, 0, m)
	done := make(chan struct{})

	go func() {
		for i := 0; i < m; i++ {
			for q.Push(i) != nil {
			}
		}
	}()
	go func() {
		for len(popped) < m {
			if v, ok := q.Pop(); ok {
				popped = append(popped, v)
			}
		}
		close(done)
	}()
	<-done

	c.Assert(popped, gocheck.HasLen, m)
	for i, v := range popped {
		if v != i {
			c.Fatalf("popped[%d] = %d, want %d", i, v, i)
		}
	}
}

// TestMPMC runs 4 producers and 4 consumers against a small-capacity
// queue and asserts every pushed value is popped exactly once, via
// per-value counters — the multiset invariant from the specification,
// not a FIFO ordering claim (ordering across producers is not
// guaranteed).
func (s *ConcurrencySuite) TestMPMC(c *gocheck.C) {
	const capacity = 3
	const producers = 4
	const consumers = 4
	const perProducer = 10000
	const total = producers * perProducer

	q := NewOwningQueue[int](capacity)
	counts := make([]int32, total)

	var producersWG sync.WaitGroup
	producersWG.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer producersWG.Done()
			for i := 0; i < perProducer; i++ {
				v := base + i
				for q.Push(v) != nil {
				}
			}
		}(p * perProducer)
	}

	var popped int64
	done := make(chan struct{})
	var consumersWG sync.WaitGroup
	consumersWG.Add(consumers)
	for cIdx := 0; cIdx < consumers; cIdx++ {
		go func() {
			defer consumersWG.Done()
			for {
				if v, ok := q.Pop(); ok {
					atomic.AddInt32(&counts[v], 1)
					if atomic.AddInt64(&popped, 1) == int64(total) {
						close(done)
					}
					continue
				}
				select {
				case <-done:
					return
				default:
				}
			}
		}()
	}

	producersWG.Wait()
	<-done
	consumersWG.Wait()

	for v, cnt := range counts {
		if cnt != 1 {
			c.Fatalf("value %d popped %d times, want exactly 1", v, cnt)
		}
	}
}

// TestNoDuplicationUnderForcePush runs producers using ForcePush
// against consumers and checks the weaker multiset property it
// actually guarantees: every value popped was pushed, and no value is
// popped more than once (some values may be displaced and never
// popped at all, which is the documented, non-linearizable tradeoff).
func (s *ConcurrencySuite) TestNoDuplicationUnderForcePush(c *gocheck.C) {
	const capacity = 4
	const producers = 4
	const consumers = 4
	const perProducer = 5000
	const total = producers * perProducer

	q := NewOwningQueue[int](capacity)
	counts := make([]int32, total)

	var producersWG sync.WaitGroup
	producersWG.Add(producers)
	for p := 0; p < producers; p++ {
		go func(base int) {
			defer producersWG.Done()
			for i := 0; i < perProducer; i++ {
				q.ForcePush(base + i)
			}
		}(p * perProducer)
	}

	done := make(chan struct{})
	var consumersWG sync.WaitGroup
	consumersWG.Add(consumers)
	for cIdx := 0; cIdx < consumers; cIdx++ {
		go func() {
			defer consumersWG.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if v, ok := q.Pop(); ok {
					atomic.AddInt32(&counts[v], 1)
				}
			}
		}()
	}
	producersWG.Wait()
	close(done)
	consumersWG.Wait()
	for v := range q.Drain() {
		atomic.AddInt32(&counts[v], 1)
	}

	for v, cnt := range counts {
		if cnt > 1 {
			c.Fatalf("value %d popped %d times, want at most 1", v, cnt)
		}
	}
}
