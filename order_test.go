package nblfq

import "testing"

func TestPrevIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{9, 10, 8},
		{0, 5, 4},
		{0, 1, 0},
	}
	for _, c := range cases {
		if got := prevIndex(c.i, c.n); got != c.want {
			t.Errorf("prevIndex(%d, %d) = %d, want %d", c.i, c.n, got, c.want)
		}
	}
}

func TestBeforeSameLap(t *testing.T) {
	if !before(0, 0, 1, 0) {
		t.Error("before(0,0,1,0) should be true: same lap, lower index first")
	}
	if before(1, 1, 0, 1) {
		t.Error("before(1,1,0,1) should be false")
	}
}

func TestBeforeAcrossLap(t *testing.T) {
	if !before(0, 1, 1, 2) {
		t.Error("before(0,1,1,2) should be true: counter 1 precedes counter 2")
	}
	if before(0, 1, 1, 0) {
		t.Error("before(0,1,1,0) should be false: counter 0 does not precede counter 1 by a full wrap")
	}
	if !before(0, counterMask, 1, 0) {
		t.Error("before(0,counterMask,1,0) should be true: wraps forward by one")
	}
}
