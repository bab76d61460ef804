// Package timer provides the simulation clock and the countdown/interval
// primitives used for cooperative, non-blocking waits.
//
// Timers never run on their own. Every query takes the current simulation
// time, so a stale timer simply expires the next time somebody looks at it.
package timer

// Clock reports simulation time in seconds.
type Clock interface {
	Now() float64
}

// ManualClock is a Clock advanced explicitly by the owner of the tick loop.
type ManualClock struct {
	now float64
}

// NewManualClock returns a clock starting at start.
func NewManualClock(start float64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() float64 { return c.now }

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) { c.now += dt }

// Set jumps the clock to t.
func (c *ManualClock) Set(t float64) { c.now = t }

// Countdown elapses a fixed duration after it is started.
// The zero value is an invalidated countdown, which reports elapsed.
type Countdown struct {
	deadline float64
	duration float64
	started  bool
}

// Start arms the countdown to elapse duration seconds after now.
func (c *Countdown) Start(now, duration float64) {
	c.deadline = now + duration
	c.duration = duration
	c.started = true
}

// Reset restarts the countdown with its previous duration.
func (c *Countdown) Reset(now float64) {
	c.Start(now, c.duration)
}

// Invalidate returns the countdown to the not-started state.
func (c *Countdown) Invalidate() {
	c.started = false
}

func (c *Countdown) HasStarted() bool { return c.started }

// IsElapsed is true when the deadline passed or the countdown never started.
func (c *Countdown) IsElapsed(now float64) bool {
	return !c.started || now > c.deadline
}

// ElapsedTime is the time since Start.
func (c *Countdown) ElapsedTime(now float64) float64 {
	return now - (c.deadline - c.duration)
}

// RemainingTime is the time left before the deadline, negative once passed.
func (c *Countdown) RemainingTime(now float64) float64 {
	return c.deadline - now
}

func (c *Countdown) Duration() float64 { return c.duration }

// notStartedElapsed is what an unstarted Interval reports as its age.
const notStartedElapsed = 99999.9

// Interval measures the time since it was last started.
type Interval struct {
	stamp   float64
	started bool
}

// Start stamps the interval with now.
func (i *Interval) Start(now float64) {
	i.stamp = now
	i.started = true
}

// Reset is Start.
func (i *Interval) Reset(now float64) { i.Start(now) }

func (i *Interval) Invalidate()      { i.started = false }
func (i *Interval) HasStarted() bool { return i.started }

// ElapsedTime is the time since Start, or a very large value when not started.
func (i *Interval) ElapsedTime(now float64) float64 {
	if !i.started {
		return notStartedElapsed
	}
	return now - i.stamp
}

// IsLessThan reports whether less than d seconds passed since Start.
func (i *Interval) IsLessThan(now, d float64) bool {
	return i.ElapsedTime(now) < d
}

// IsGreaterThan reports whether more than d seconds passed since Start.
func (i *Interval) IsGreaterThan(now, d float64) bool {
	return i.ElapsedTime(now) > d
}
