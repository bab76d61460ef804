package timer

import "testing"

func TestCountdownLifecycle(t *testing.T) {
	var c Countdown
	if c.HasStarted() {
		t.Fatal("zero countdown should not be started")
	}
	if !c.IsElapsed(0) {
		t.Fatal("unstarted countdown should report elapsed")
	}

	c.Start(10, 2)
	if c.IsElapsed(11.9) {
		t.Fatal("countdown elapsed early")
	}
	if !c.IsElapsed(12.1) {
		t.Fatal("countdown should have elapsed")
	}
	if got := c.RemainingTime(11); got != 1 {
		t.Fatalf("remaining = %v, want 1", got)
	}
	if got := c.ElapsedTime(11.5); got != 1.5 {
		t.Fatalf("elapsed = %v, want 1.5", got)
	}

	c.Reset(20)
	if c.IsElapsed(21) || !c.IsElapsed(22.5) {
		t.Fatal("reset should reuse the previous duration")
	}

	c.Invalidate()
	if c.HasStarted() || !c.IsElapsed(0) {
		t.Fatal("invalidated countdown should be elapsed and not started")
	}
}

func TestIntervalLifecycle(t *testing.T) {
	var i Interval
	if !i.IsGreaterThan(0, 1000) {
		t.Fatal("unstarted interval should look very old")
	}
	i.Start(5)
	if !i.IsLessThan(6, 2) {
		t.Fatal("expected less than 2s elapsed")
	}
	if !i.IsGreaterThan(8, 2) {
		t.Fatal("expected more than 2s elapsed")
	}
	i.Invalidate()
	if i.HasStarted() {
		t.Fatal("interval should be invalidated")
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(1)
	c.Advance(0.5)
	if c.Now() != 1.5 {
		t.Fatalf("now = %v", c.Now())
	}
	c.Set(3)
	if c.Now() != 3 {
		t.Fatalf("now = %v", c.Now())
	}
}
